// Package browsertest provides in-memory fakes of the browser driver chain.
//
// The fakes are deterministic: clicks fire downloads and navigations
// synchronously, and waits either succeed immediately or fail with
// browser.ErrTimeout without sleeping.
package browsertest

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/suno-mcp/pkg/browser"
)

// Harness hands out one fake chain per driver start and records what was
// created and closed. Set the error fields before the call they should fail.
type Harness struct {
	mu     sync.Mutex
	events []string

	StartErr   error
	LaunchErr  error
	ContextErr error
	PageErr    error

	StopErr         error
	BrowserCloseErr error
	ContextCloseErr error

	Starts   int
	Launches int
	Contexts int
	Pages    int

	LastDriverOptions  browser.DriverOptions
	LastLaunchOptions  browser.LaunchOptions
	LastContextOptions browser.ContextOptions

	// Page is returned by the next NewPage call. A fresh page replaces it
	// afterwards so a recreated session never reuses a closed page.
	Page *Page
}

// NewHarness creates a harness with an empty page ready to hand out.
func NewHarness() *Harness {
	return &Harness{Page: NewPage()}
}

// StartDriver implements browser.StartDriverFunc.
func (h *Harness) StartDriver(opts browser.DriverOptions) (browser.Driver, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.LastDriverOptions = opts
	if h.StartErr != nil {
		h.events = append(h.events, "start-driver:failed")
		return nil, h.StartErr
	}
	h.Starts++
	h.events = append(h.events, "start-driver")
	return &driver{h: h}, nil
}

// Events returns the creation and teardown log in order.
func (h *Harness) Events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...)
}

func (h *Harness) record(event string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

type driver struct{ h *Harness }

func (d *driver) Launch(opts browser.LaunchOptions) (browser.Browser, error) {
	d.h.mu.Lock()
	defer d.h.mu.Unlock()

	d.h.LastLaunchOptions = opts
	if d.h.LaunchErr != nil {
		d.h.events = append(d.h.events, "launch:failed")
		return nil, d.h.LaunchErr
	}
	d.h.Launches++
	d.h.events = append(d.h.events, "launch")
	return &fakeBrowser{h: d.h}, nil
}

func (d *driver) Stop() error {
	d.h.record("stop-driver")
	return d.h.StopErr
}

type fakeBrowser struct{ h *Harness }

func (b *fakeBrowser) NewContext(opts browser.ContextOptions) (browser.Context, error) {
	b.h.mu.Lock()
	defer b.h.mu.Unlock()

	b.h.LastContextOptions = opts
	if b.h.ContextErr != nil {
		b.h.events = append(b.h.events, "new-context:failed")
		return nil, b.h.ContextErr
	}
	b.h.Contexts++
	b.h.events = append(b.h.events, "new-context")
	return &fakeContext{h: b.h}, nil
}

func (b *fakeBrowser) Close() error {
	b.h.record("close-browser")
	return b.h.BrowserCloseErr
}

type fakeContext struct{ h *Harness }

func (c *fakeContext) NewPage() (browser.Page, error) {
	c.h.mu.Lock()
	defer c.h.mu.Unlock()

	if c.h.PageErr != nil {
		c.h.events = append(c.h.events, "new-page:failed")
		return nil, c.h.PageErr
	}
	c.h.Pages++
	c.h.events = append(c.h.events, "new-page")

	p := c.h.Page
	if p == nil {
		p = NewPage()
	}
	p.onClose = func() { c.h.record("close-page") }
	c.h.Page = NewPage()
	return p, nil
}

func (c *fakeContext) Close() error {
	c.h.record("close-context")
	return c.h.ContextCloseErr
}

// Element is one fake DOM element.
type Element struct {
	Text       string
	Clickable  bool
	Fillable   bool
	Selectable bool

	// Download is started when the element is clicked.
	Download *Download

	// NavigateTo replaces the page URL when the element is clicked.
	NavigateTo string

	// Value holds the last filled or selected value.
	Value string
}

// Page is a scripted page. Selectors are matched literally against the
// elements registered with SetElements.
type Page struct {
	mu       sync.Mutex
	url      string
	title    string
	elements map[string][]*Element
	calls    []string
	handlers []func(browser.Download)
	armed    chan browser.Download
	closed   bool
	onClose  func()

	DefaultTimeout time.Duration

	// TitleErr is returned by Title.
	TitleErr error

	// PanicOnAccess makes URL and Title panic, as a torn-down handle might.
	PanicOnAccess bool

	// GotoErr is returned by Goto.
	GotoErr error

	// Redirects maps a navigated URL to the URL the page ends up on.
	Redirects map[string]string

	CloseErr error
}

// NewPage creates a blank page.
func NewPage() *Page {
	return &Page{
		url:       "about:blank",
		elements:  make(map[string][]*Element),
		Redirects: make(map[string]string),
	}
}

// SetElements registers els under selector, replacing earlier ones.
func (p *Page) SetElements(selector string, els ...*Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[selector] = els
}

// SetURL sets the current URL.
func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

// SetTitle sets the page title.
func (p *Page) SetTitle(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
}

// Calls returns every interaction in order, e.g. "click #login",
// "fill #email=a@b.c", "goto https://..." or "expect-download".
func (p *Page) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// CallsWithPrefix returns the interactions starting with prefix.
func (p *Page) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range p.Calls() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Closed reports whether Close was called.
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Page) call(format string, args ...interface{}) {
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.PanicOnAccess {
		panic("page handle is no longer valid")
	}
	return p.url
}

func (p *Page) Title() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.PanicOnAccess {
		panic("page handle is no longer valid")
	}
	if p.TitleErr != nil {
		return "", p.TitleErr
	}
	return p.title, nil
}

func (p *Page) Goto(url string, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.call("goto %s", url)
	if p.closed {
		return fmt.Errorf("target page has been closed")
	}
	if p.GotoErr != nil {
		return p.GotoErr
	}
	if target, ok := p.Redirects[url]; ok {
		url = target
	}
	p.url = url
	return nil
}

func (p *Page) Click(selector string, _ time.Duration) error {
	p.mu.Lock()
	p.call("click %s", selector)
	el, err := p.element(selector, 0)
	if err == nil && !el.Clickable {
		err = fmt.Errorf("element %s is not clickable", selector)
	}
	p.mu.Unlock()

	if err != nil {
		return err
	}
	p.activate(el)
	return nil
}

func (p *Page) Fill(selector, value string, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.call("fill %s=%s", selector, value)
	el, err := p.element(selector, 0)
	if err != nil {
		return err
	}
	if !el.Fillable {
		return fmt.Errorf("element %s is not an input", selector)
	}
	el.Value = value
	return nil
}

func (p *Page) SelectOption(selector, value string, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.call("select %s=%s", selector, value)
	el, err := p.element(selector, 0)
	if err != nil {
		return err
	}
	if !el.Selectable {
		return fmt.Errorf("element %s is not a select", selector)
	}
	el.Value = value
	return nil
}

func (p *Page) WaitForSelector(selector string, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.call("wait %s", selector)
	if _, err := p.element(selector, 0); err == nil {
		return nil
	}
	for _, part := range strings.Split(selector, ", ") {
		if len(p.elements[part]) > 0 {
			return nil
		}
	}
	return fmt.Errorf("waiting for %s: %w", selector, browser.ErrTimeout)
}

func (p *Page) WaitForURL(match func(string) bool, _ time.Duration) error {
	p.mu.Lock()
	url := p.url
	p.call("wait-url")
	p.mu.Unlock()

	if match(url) {
		return nil
	}
	return browser.ErrTimeout
}

func (p *Page) Locator(selector string) browser.Locator {
	return &Locator{page: p, selector: selector}
}

func (p *Page) OnDownload(handler func(browser.Download)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, handler)
}

// HandlerCount returns the number of registered download handlers.
func (p *Page) HandlerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

// ExpectDownload records "expect-download" before running trigger. Downloads
// fire synchronously, so when trigger returns without one the wait fails
// straight away.
func (p *Page) ExpectDownload(trigger func() error, _ time.Duration) (browser.Download, error) {
	armed := make(chan browser.Download, 1)
	p.mu.Lock()
	p.call("expect-download")
	p.armed = armed
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.armed = nil
		p.mu.Unlock()
	}()

	if err := trigger(); err != nil {
		return nil, err
	}

	select {
	case d := <-armed:
		return d, nil
	default:
		return nil, browser.ErrTimeout
	}
}

// StartDownload fires d as if the page had started it.
func (p *Page) StartDownload(d *Download) {
	p.mu.Lock()
	handlers := append([]func(browser.Download){}, p.handlers...)
	armed := p.armed
	p.call("download %s", d.Filename)
	p.mu.Unlock()

	if armed != nil {
		select {
		case armed <- d:
		default:
		}
	}
	for _, h := range handlers {
		h(d)
	}
}

func (p *Page) SetDefaultTimeout(timeout time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.DefaultTimeout = timeout
}

func (p *Page) Close() error {
	p.mu.Lock()
	p.closed = true
	onClose := p.onClose
	err := p.CloseErr
	p.mu.Unlock()

	if onClose != nil {
		onClose()
	}
	return err
}

// element must be called with p.mu held.
func (p *Page) element(selector string, index int) (*Element, error) {
	els := p.elements[selector]
	if index < 0 || index >= len(els) {
		return nil, fmt.Errorf("waiting for %s: %w", selector, browser.ErrTimeout)
	}
	return els[index], nil
}

func (p *Page) activate(el *Element) {
	if el.NavigateTo != "" {
		p.SetURL(el.NavigateTo)
	}
	if el.Download != nil {
		p.StartDownload(el.Download)
	}
}

// Locator addresses elements registered under one selector.
type Locator struct {
	page     *Page
	selector string
	index    int
}

func (l *Locator) Count() (int, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	return len(l.page.elements[l.selector]), nil
}

func (l *Locator) First() browser.Locator {
	return l.Nth(0)
}

func (l *Locator) Nth(index int) browser.Locator {
	return &Locator{page: l.page, selector: l.selector, index: index}
}

func (l *Locator) TextContent(_ time.Duration) (string, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()

	el, err := l.page.element(l.selector, l.index)
	if err != nil {
		return "", err
	}
	return el.Text, nil
}

func (l *Locator) Click(_ time.Duration) error {
	l.page.mu.Lock()
	l.page.call("click %s#%d", l.selector, l.index)
	el, err := l.page.element(l.selector, l.index)
	if err == nil && !el.Clickable {
		err = fmt.Errorf("element %s is not clickable", l.selector)
	}
	l.page.mu.Unlock()

	if err != nil {
		return err
	}
	l.page.activate(el)
	return nil
}

// Download is a fake transfer whose SaveAs writes Content to disk.
type Download struct {
	Filename string
	Link     string
	Content  []byte
	SaveErr  error
}

func (d *Download) SuggestedFilename() string { return d.Filename }
func (d *Download) URL() string               { return d.Link }

func (d *Download) SaveAs(path string) error {
	if d.SaveErr != nil {
		return d.SaveErr
	}
	return os.WriteFile(path, d.Content, 0600)
}
