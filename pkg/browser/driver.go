package browser

import (
	"errors"
	"time"
)

// ErrTimeout is returned by fakes and adapters when a bounded wait expires.
var ErrTimeout = errors.New("timeout exceeded")

// Driver is the automation driver process (the Playwright server).
type Driver interface {
	// Launch starts a browser process.
	Launch(opts LaunchOptions) (Browser, error)

	// Stop terminates the driver process.
	Stop() error
}

// Browser is a running browser process.
type Browser interface {
	// NewContext creates an isolated browsing context.
	NewContext(opts ContextOptions) (Context, error)

	Close() error
}

// Context is an isolated browsing context (cookies, storage, downloads).
type Context interface {
	NewPage() (Page, error)
	Close() error
}

// Page is the live page the workflows drive. Only the surface the
// workflows need is exposed, which keeps the session testable with fakes.
type Page interface {
	URL() string
	Title() (string, error)

	// Goto navigates and waits for the network to go idle and the DOM to load.
	Goto(url string, timeout time.Duration) error

	Click(selector string, timeout time.Duration) error
	Fill(selector, value string, timeout time.Duration) error
	SelectOption(selector, value string, timeout time.Duration) error

	// WaitForSelector waits until selector matches a visible element.
	WaitForSelector(selector string, timeout time.Duration) error

	// WaitForURL waits until match accepts the page URL.
	WaitForURL(match func(url string) bool, timeout time.Duration) error

	Locator(selector string) Locator

	// OnDownload registers a handler invoked for every download the page starts.
	OnDownload(handler func(Download))

	// ExpectDownload arms a one-shot download listener, runs trigger and
	// waits for the download. The listener is armed before trigger runs.
	ExpectDownload(trigger func() error, timeout time.Duration) (Download, error)

	SetDefaultTimeout(timeout time.Duration)
	Close() error
}

// Locator identifies zero or more elements on the page.
type Locator interface {
	Count() (int, error)
	First() Locator
	Nth(index int) Locator
	TextContent(timeout time.Duration) (string, error)
	Click(timeout time.Duration) error
}

// Download is a file transfer started by the page.
type Download interface {
	SuggestedFilename() string
	URL() string

	// SaveAs waits for the transfer to finish and copies it to path.
	SaveAs(path string) error
}

// DriverOptions configures the driver process.
type DriverOptions struct {
	// Install downloads the driver and browsers before starting.
	Install bool
}

// StartDriverFunc starts a driver process.
type StartDriverFunc func(opts DriverOptions) (Driver, error)

// LaunchOptions configures a browser launch.
type LaunchOptions struct {
	Headless bool
	Args     []string
}

// ContextOptions configures a browsing context.
type ContextOptions struct {
	Viewport        Viewport
	UserAgent       string
	AcceptDownloads bool
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}
