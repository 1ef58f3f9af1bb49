package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/suno-mcp/pkg/config"
	"github.com/entrhq/suno-mcp/pkg/logging"
	"github.com/entrhq/suno-mcp/pkg/types"
)

// Manager owns the single browser session and its lifecycle.
//
// Three locks are involved. mu guards the session handles and state and is
// only held while they are read or changed, never across a driver call, so
// Status and Close answer while a launch is in progress. launchMu serializes
// Ensure. opMu serializes workflows run through Do, so two workflows never
// drive the page at the same time. Close skips both: it is the only way to
// abort in-flight work. A workflow interrupted by it fails on its next page
// operation, and a launch interrupted by it discards what it created.
type Manager struct {
	mu       sync.Mutex
	launchMu sync.Mutex
	opMu     sync.Mutex

	session *Session
	state   State

	startDriver  StartDriverFunc
	browser      config.BrowserSettings
	pageTimeout  time.Duration
	studioMarker string
	downloads    *DownloadCoordinator
	logger       *logging.Logger
}

// Options configures a Manager.
type Options struct {
	// StartDriver starts the driver process (StartPlaywright in production)
	StartDriver StartDriverFunc

	// Browser holds launch flags, viewport and user agent
	Browser config.BrowserSettings

	// PageTimeout is the default navigation and action timeout of new pages
	PageTimeout time.Duration

	// StudioMarker is the URL fragment that marks the studio UI
	StudioMarker string

	// Downloads receives every page the manager creates
	Downloads *DownloadCoordinator

	Logger *logging.Logger
}

// EnsureOptions configures an Ensure call.
type EnsureOptions struct {
	// Headless overrides the configured mode. It only takes effect when the
	// browser is launched; an already running browser is not relaunched.
	Headless *bool
}

// NewManager creates a manager. No resources are created until Ensure.
func NewManager(opts Options) *Manager {
	if opts.StartDriver == nil {
		opts.StartDriver = StartPlaywright
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard("browser")
	}
	if opts.Downloads == nil {
		opts.Downloads = NewDownloadCoordinator("downloads", opts.Logger)
	}

	return &Manager{
		state:        StateUninitialized,
		startDriver:  opts.StartDriver,
		browser:      opts.Browser,
		pageTimeout:  opts.PageTimeout,
		studioMarker: opts.StudioMarker,
		downloads:    opts.Downloads,
		logger:       opts.Logger,
	}
}

// Ensure returns the ready session, creating whatever levels of the chain
// are missing in order: driver, browser, context, page. Levels that already
// exist are reused, so a retry after a partial failure does not leak them.
// On failure the levels created so far are kept and the state stays
// Launching while any of them is alive.
func (m *Manager) Ensure(ctx context.Context, opts EnsureOptions) (*Session, error) {
	m.launchMu.Lock()
	defer m.launchMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, types.Wrap(types.CodeBrowserInit, err, "Browser initialization failed")
	}

	headless := m.browser.Headless
	if opts.Headless != nil {
		headless = *opts.Headless
	}

	m.mu.Lock()
	if m.state == StateReady && m.session != nil && m.session.complete() {
		m.warnHeadlessMismatch(opts.Headless)
		s := m.session
		m.mu.Unlock()
		return s, nil
	}
	if m.session == nil {
		m.session = &Session{}
	}
	s := m.session
	if s.Browser != nil {
		m.warnHeadlessMismatch(opts.Headless)
	}
	previous := m.state
	m.state = StateLaunching
	driver, b, bctx := s.Driver, s.Browser, s.Context
	hasPage := s.Page != nil
	m.mu.Unlock()

	if driver == nil {
		d, err := m.startDriver(DriverOptions{Install: m.browser.Install})
		if err != nil {
			return nil, m.launchFailed(s, previous, "driver", err)
		}
		if err := m.adopt(s, "driver", func() {
			s.Driver = d
			s.CreatedAt = time.Now()
		}); err != nil {
			_ = d.Stop()
			return nil, err
		}
		driver = d
	}

	if b == nil {
		created, err := driver.Launch(LaunchOptions{
			Headless: headless,
			Args:     m.browser.Args,
		})
		if err != nil {
			return nil, m.launchFailed(s, previous, "browser", err)
		}
		if err := m.adopt(s, "browser", func() {
			s.Browser = created
			s.Headless = headless
		}); err != nil {
			_ = created.Close()
			return nil, err
		}
		b = created
	}

	if bctx == nil {
		created, err := b.NewContext(ContextOptions{
			Viewport: Viewport{
				Width:  m.browser.ViewportWidth,
				Height: m.browser.ViewportHeight,
			},
			UserAgent:       m.browser.UserAgent,
			AcceptDownloads: true,
		})
		if err != nil {
			return nil, m.launchFailed(s, previous, "context", err)
		}
		if err := m.adopt(s, "context", func() { s.Context = created }); err != nil {
			_ = created.Close()
			return nil, err
		}
		bctx = created
	}

	if !hasPage {
		p, err := bctx.NewPage()
		if err != nil {
			return nil, m.launchFailed(s, previous, "page", err)
		}
		if m.pageTimeout > 0 {
			p.SetDefaultTimeout(m.pageTimeout)
		}
		if err := m.adopt(s, "page", func() {
			m.downloads.Attach(p)
			s.Page = p
		}); err != nil {
			_ = p.Close()
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != s {
		return nil, closedDuringLaunch("page")
	}
	m.state = StateReady
	s.UpdateLastUsed()
	sessionOpen.Set(1)
	m.logger.Infof("Browser session ready (headless=%t)", s.Headless)
	return s, nil
}

// adopt stores a freshly created level in s unless Close replaced the
// session in the meantime; then the caller must release the level itself.
func (m *Manager) adopt(s *Session, level string, set func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != s {
		return closedDuringLaunch(level)
	}
	set()
	sessionLaunches.WithLabelValues(level, "created").Inc()
	return nil
}

func closedDuringLaunch(level string) error {
	sessionLaunches.WithLabelValues(level, "aborted").Inc()
	return types.NewError(types.CodeBrowserInit, "Browser initialization aborted at %s: session was closed", level)
}

func (m *Manager) launchFailed(s *Session, previous State, level string, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == s && s.Driver == nil {
		m.state = previous
	}
	sessionLaunches.WithLabelValues(level, "failed").Inc()
	m.logger.Errorf("Failed to initialize browser (%s): %v", level, err)
	return types.Wrap(types.CodeBrowserInit, err, "Browser initialization failed at %s", level)
}

// warnHeadlessMismatch must be called with m.mu held.
func (m *Manager) warnHeadlessMismatch(requested *bool) {
	if requested == nil || m.session == nil || m.session.Browser == nil {
		return
	}
	if *requested != m.session.Headless {
		m.logger.Warnf("Headless=%t requested but browser already running with headless=%t; close the browser to relaunch",
			*requested, m.session.Headless)
	}
}

// Do runs fn against the ensured session while holding the workflow lock.
func (m *Manager) Do(ctx context.Context, opts EnsureOptions, fn func(*Session) error) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	s, err := m.Ensure(ctx, opts)
	if err != nil {
		return err
	}
	defer m.touch(s)

	return fn(s)
}

func (m *Manager) touch(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdateLastUsed()
}

// Close tears the chain down in reverse order: page, context, browser,
// driver. Absent levels are skipped and a failing level does not stop the
// next one. The session is cleared and the state becomes Closed even when a
// step fails; the failures are then returned as a CLOSE_ERROR.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session
	if s == nil {
		if m.state != StateUninitialized {
			m.state = StateClosed
		}
		return nil
	}

	m.state = StateClosing
	var errs []error

	if s.Page != nil {
		m.downloads.Detach(s.Page)
		if err := s.Page.Close(); err != nil {
			m.logger.Errorf("Error closing page: %v", err)
			errs = append(errs, fmt.Errorf("page: %w", err))
		}
	}
	if s.Context != nil {
		if err := s.Context.Close(); err != nil {
			m.logger.Errorf("Error closing context: %v", err)
			errs = append(errs, fmt.Errorf("context: %w", err))
		}
	}
	if s.Browser != nil {
		if err := s.Browser.Close(); err != nil {
			m.logger.Errorf("Error closing browser: %v", err)
			errs = append(errs, fmt.Errorf("browser: %w", err))
		}
	}
	if s.Driver != nil {
		if err := s.Driver.Stop(); err != nil {
			m.logger.Errorf("Error stopping driver: %v", err)
			errs = append(errs, fmt.Errorf("driver: %w", err))
		}
	}

	m.session = nil
	m.state = StateClosed
	sessionOpen.Set(0)

	if len(errs) > 0 {
		return types.Wrap(types.CodeClose, errors.Join(errs...), "Browser cleanup failed")
	}

	m.logger.Infof("Browser session closed successfully")
	return nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Downloads returns the coordinator attached to every page.
func (m *Manager) Downloads() *DownloadCoordinator {
	return m.downloads
}
