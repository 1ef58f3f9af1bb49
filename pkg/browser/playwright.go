package browser

import (
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"
)

// StartPlaywright starts the Playwright driver. Output is discarded so it
// cannot interfere with the MCP stdio transport.
func StartPlaywright(opts DriverOptions) (Driver, error) {
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	return &pwDriver{pw: pw}, nil
}

type pwDriver struct {
	pw *playwright.Playwright
}

func (d *pwDriver) Launch(opts LaunchOptions) (Browser, error) {
	b, err := d.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.Args,
	})
	if err != nil {
		return nil, err
	}
	return &pwBrowser{b: b}, nil
}

func (d *pwDriver) Stop() error {
	return d.pw.Stop()
}

type pwBrowser struct {
	b playwright.Browser
}

func (b *pwBrowser) NewContext(opts ContextOptions) (Context, error) {
	c, err := b.b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
		UserAgent:       playwright.String(opts.UserAgent),
		AcceptDownloads: playwright.Bool(opts.AcceptDownloads),
	})
	if err != nil {
		return nil, err
	}
	return &pwContext{c: c}, nil
}

func (b *pwBrowser) Close() error {
	return b.b.Close()
}

type pwContext struct {
	c playwright.BrowserContext
}

func (c *pwContext) NewPage() (Page, error) {
	p, err := c.c.NewPage()
	if err != nil {
		return nil, err
	}
	return &pwPage{p: p}, nil
}

func (c *pwContext) Close() error {
	return c.c.Close()
}

type pwPage struct {
	p playwright.Page
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func (p *pwPage) URL() string {
	return p.p.URL()
}

func (p *pwPage) Title() (string, error) {
	return p.p.Title()
}

func (p *pwPage) Goto(url string, timeout time.Duration) error {
	if _, err := p.p.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   millis(timeout),
	}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return p.p.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: millis(timeout),
	})
}

func (p *pwPage) Click(selector string, timeout time.Duration) error {
	return p.p.Click(selector, playwright.PageClickOptions{Timeout: millis(timeout)})
}

func (p *pwPage) Fill(selector, value string, timeout time.Duration) error {
	return p.p.Fill(selector, value, playwright.PageFillOptions{Timeout: millis(timeout)})
}

func (p *pwPage) SelectOption(selector, value string, timeout time.Duration) error {
	_, err := p.p.SelectOption(selector,
		playwright.SelectOptionValues{Values: &[]string{value}},
		playwright.PageSelectOptionOptions{Timeout: millis(timeout)},
	)
	return err
}

func (p *pwPage) WaitForSelector(selector string, timeout time.Duration) error {
	_, err := p.p.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{Timeout: millis(timeout)})
	return err
}

func (p *pwPage) WaitForURL(match func(url string) bool, timeout time.Duration) error {
	return p.p.WaitForURL(match, playwright.PageWaitForURLOptions{Timeout: millis(timeout)})
}

func (p *pwPage) Locator(selector string) Locator {
	return &pwLocator{l: p.p.Locator(selector)}
}

func (p *pwPage) OnDownload(handler func(Download)) {
	p.p.OnDownload(func(d playwright.Download) {
		handler(d)
	})
}

func (p *pwPage) ExpectDownload(trigger func() error, timeout time.Duration) (Download, error) {
	d, err := p.p.ExpectDownload(trigger, playwright.PageExpectDownloadOptions{Timeout: millis(timeout)})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (p *pwPage) SetDefaultTimeout(timeout time.Duration) {
	ms := float64(timeout.Milliseconds())
	p.p.SetDefaultTimeout(ms)
	p.p.SetDefaultNavigationTimeout(ms)
}

func (p *pwPage) Close() error {
	return p.p.Close()
}

type pwLocator struct {
	l playwright.Locator
}

func (l *pwLocator) Count() (int, error) {
	return l.l.Count()
}

func (l *pwLocator) First() Locator {
	return &pwLocator{l: l.l.First()}
}

func (l *pwLocator) Nth(index int) Locator {
	return &pwLocator{l: l.l.Nth(index)}
}

func (l *pwLocator) TextContent(timeout time.Duration) (string, error) {
	return l.l.TextContent(playwright.LocatorTextContentOptions{Timeout: millis(timeout)})
}

func (l *pwLocator) Click(timeout time.Duration) error {
	return l.l.Click(playwright.LocatorClickOptions{Timeout: millis(timeout)})
}
