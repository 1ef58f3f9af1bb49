package config

import (
	"time"
)

const (
	// DefaultUserAgent is presented by every browser context.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultStyle is the style the creation form starts with.
	DefaultStyle = "synthwave"
)

// defaultBrowserArgs are the sandboxing and compatibility flags passed to Chromium.
var defaultBrowserArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-dev-shm-usage",
	"--disable-accelerated-2d-canvas",
	"--no-first-run",
	"--disable-gpu",
	"--disable-web-security",
	"--disable-features=VizDisplayCompositor",
}

// Defaults returns a fresh copy of the default configuration tree.
// Timeouts are in milliseconds.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"browser": map[string]interface{}{
			"headless": true,
			"install":  false,
			"args":     toAnySlice(defaultBrowserArgs),
			"viewport": map[string]interface{}{
				"width":  1920,
				"height": 1080,
			},
			"user_agent": DefaultUserAgent,
		},
		"timeouts": map[string]interface{}{
			"navigation":             30000,
			"selector":               2000,
			"login_redirect":         10000,
			"verification_delay":     3000,
			"settle_delay":           2000,
			"generation_start_delay": 3000,
			"generation_indicator":   5000,
			"download":               60000,
			"stems_click":            3000,
		},
		"paths": map[string]interface{}{
			"downloads": "downloads/",
			"temp":      "temp/",
			"exports":   "exports/",
		},
		"suno": map[string]interface{}{
			"base_url":      "https://app.suno.ai",
			"studio_url":    "https://studio.suno.ai",
			"create_path":   "/create/",
			"library_path":  "/library/",
			"studio_marker": "/studio",
			"default_style": DefaultStyle,
			"auth": map[string]interface{}{
				"ready_patterns":   []interface{}{"*/create*"},
				"success_patterns": []interface{}{"*/create*", "*/library*"},
				"login_patterns":   []interface{}{"*/login*"},
			},
		},
		"security": map[string]interface{}{
			"max_concurrent_sessions": 3,
			"session_timeout":         3600000,
			"rate_limit": map[string]interface{}{
				"requests_per_minute": 60,
				"burst_limit":         10,
			},
		},
		"server": map[string]interface{}{
			"address": ":3000",
		},
		"logging": map[string]interface{}{
			"dir": "",
		},
	}
}

// Settings is the typed configuration value built once at startup and
// passed explicitly into the components that need it.
type Settings struct {
	Browser  BrowserSettings
	Timeouts Timeouts
	Paths    Paths
	Suno     SunoSettings
	Security SecuritySettings
	Server   ServerSettings
	LogDir   string
}

// BrowserSettings configures the launched browser and its context.
type BrowserSettings struct {
	Headless       bool
	Install        bool
	Args           []string
	ViewportWidth  int
	ViewportHeight int
	UserAgent      string
}

// Timeouts groups per-operation bounds and fixed delays.
type Timeouts struct {
	Navigation           time.Duration
	Selector             time.Duration
	LoginRedirect        time.Duration
	VerificationDelay    time.Duration
	SettleDelay          time.Duration
	GenerationStartDelay time.Duration
	GenerationIndicator  time.Duration
	Download             time.Duration
	StemsClick           time.Duration
}

// Paths holds filesystem locations.
type Paths struct {
	Downloads string
	Temp      string
	Exports   string
}

// SunoSettings describes the target site.
type SunoSettings struct {
	BaseURL         string
	StudioURL       string
	CreatePath      string
	LibraryPath     string
	StudioMarker    string
	DefaultStyle    string
	ReadyPatterns   []string
	SuccessPatterns []string
	LoginPatterns   []string
}

// CreateURL returns the absolute URL of the creation surface.
func (s SunoSettings) CreateURL() string {
	return s.BaseURL + s.CreatePath
}

// LibraryURL returns the absolute URL of the library surface.
func (s SunoSettings) LibraryURL() string {
	return s.BaseURL + s.LibraryPath
}

// SecuritySettings holds session and rate limits.
type SecuritySettings struct {
	// MaxConcurrentSessions is reported but not enforced; there is a single session.
	MaxConcurrentSessions int
	SessionTimeout        time.Duration
	RequestsPerMinute     int
	BurstLimit            int
}

// ServerSettings configures the HTTP facade.
type ServerSettings struct {
	Address string
}

// Load builds Settings from the store.
func Load(s *Store) Settings {
	return Settings{
		Browser: BrowserSettings{
			Headless:       s.Bool("browser.headless", true),
			Install:        s.Bool("browser.install", false),
			Args:           s.Strings("browser.args", defaultBrowserArgs),
			ViewportWidth:  s.Int("browser.viewport.width", 1920),
			ViewportHeight: s.Int("browser.viewport.height", 1080),
			UserAgent:      s.String("browser.user_agent", DefaultUserAgent),
		},
		Timeouts: Timeouts{
			Navigation:           s.Millis("timeouts.navigation", 30*time.Second),
			Selector:             s.Millis("timeouts.selector", 2*time.Second),
			LoginRedirect:        s.Millis("timeouts.login_redirect", 10*time.Second),
			VerificationDelay:    s.Millis("timeouts.verification_delay", 3*time.Second),
			SettleDelay:          s.Millis("timeouts.settle_delay", 2*time.Second),
			GenerationStartDelay: s.Millis("timeouts.generation_start_delay", 3*time.Second),
			GenerationIndicator:  s.Millis("timeouts.generation_indicator", 5*time.Second),
			Download:             s.Millis("timeouts.download", 60*time.Second),
			StemsClick:           s.Millis("timeouts.stems_click", 3*time.Second),
		},
		Paths: Paths{
			Downloads: s.String("paths.downloads", "downloads/"),
			Temp:      s.String("paths.temp", "temp/"),
			Exports:   s.String("paths.exports", "exports/"),
		},
		Suno: SunoSettings{
			BaseURL:         s.String("suno.base_url", "https://app.suno.ai"),
			StudioURL:       s.String("suno.studio_url", "https://studio.suno.ai"),
			CreatePath:      s.String("suno.create_path", "/create/"),
			LibraryPath:     s.String("suno.library_path", "/library/"),
			StudioMarker:    s.String("suno.studio_marker", "/studio"),
			DefaultStyle:    s.String("suno.default_style", DefaultStyle),
			ReadyPatterns:   s.Strings("suno.auth.ready_patterns", []string{"*/create*"}),
			SuccessPatterns: s.Strings("suno.auth.success_patterns", []string{"*/create*", "*/library*"}),
			LoginPatterns:   s.Strings("suno.auth.login_patterns", []string{"*/login*"}),
		},
		Security: SecuritySettings{
			MaxConcurrentSessions: s.Int("security.max_concurrent_sessions", 3),
			SessionTimeout:        s.Millis("security.session_timeout", time.Hour),
			RequestsPerMinute:     s.Int("security.rate_limit.requests_per_minute", 60),
			BurstLimit:            s.Int("security.rate_limit.burst_limit", 10),
		},
		Server: ServerSettings{
			Address: s.String("server.address", ":3000"),
		},
		LogDir: s.String("logging.dir", ""),
	}
}

func toAnySlice(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
