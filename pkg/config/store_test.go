package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewStore(t *testing.T) {
	t.Run("uses defaults without a path", func(t *testing.T) {
		store, err := NewStore("")
		if err != nil {
			t.Fatalf("NewStore failed: %v", err)
		}

		if got := store.Int("timeouts.navigation", 0); got != 30000 {
			t.Errorf("Expected navigation timeout 30000, got %d", got)
		}
		if store.IsModified() {
			t.Error("New store should not be modified")
		}
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent.yaml")
		store, err := NewStore(path)
		if err != nil {
			t.Fatalf("NewStore failed: %v", err)
		}
		if store.Path() != path {
			t.Errorf("Expected path %s, got %s", path, store.Path())
		}
	})

	t.Run("overlays yaml file on defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "browser:\n  headless: false\ntimeouts:\n  selector: 500\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}

		store, err := NewStore(path)
		if err != nil {
			t.Fatalf("NewStore failed: %v", err)
		}

		if store.Bool("browser.headless", true) {
			t.Error("Expected headless to be overridden to false")
		}
		if got := store.Int("timeouts.selector", 0); got != 500 {
			t.Errorf("Expected selector timeout 500, got %d", got)
		}
		// Siblings of overridden keys survive the merge
		if got := store.String("browser.user_agent", ""); got != DefaultUserAgent {
			t.Errorf("Expected default user agent to survive merge, got %q", got)
		}
	})

	t.Run("invalid yaml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("browser: [unclosed"), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}
		if _, err := NewStore(path); err == nil {
			t.Error("Expected error for invalid yaml")
		}
	})
}

func TestStore_GetSet(t *testing.T) {
	store, _ := NewStore("")

	t.Run("get returns default for missing keys", func(t *testing.T) {
		if got := store.Get("no.such.key", "fallback"); got != "fallback" {
			t.Errorf("Expected fallback, got %v", got)
		}
		// Descending through a leaf value
		if got := store.Get("server.address.port", 42); got != 42 {
			t.Errorf("Expected 42, got %v", got)
		}
	})

	t.Run("set creates intermediate levels", func(t *testing.T) {
		store.Set("custom.deeply.nested.value", 7)

		if got := store.Int("custom.deeply.nested.value", 0); got != 7 {
			t.Errorf("Expected 7, got %d", got)
		}
		if _, ok := store.Get("custom.deeply", nil).(map[string]interface{}); !ok {
			t.Error("Expected intermediate level to be a map")
		}
		if !store.IsModified() {
			t.Error("Store should be modified after Set")
		}
	})

	t.Run("set replaces a leaf on the path", func(t *testing.T) {
		store.Set("server.address.host", "localhost")
		if got := store.String("server.address.host", ""); got != "localhost" {
			t.Errorf("Expected localhost, got %q", got)
		}
	})
}

func TestStore_TypedAccessors(t *testing.T) {
	store, _ := NewStore("")
	store.Set("a.int64", int64(5))
	store.Set("a.float", float64(2.0))
	store.Set("a.str", "12")
	store.Set("a.bool", "true")

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"int64", store.Int("a.int64", 0), 5},
		{"float", store.Int("a.float", 0), 2},
		{"numeric string", store.Int("a.str", 0), 12},
		{"bool string", store.Bool("a.bool", false), true},
		{"millis", store.Millis("timeouts.selector", 0), 2 * time.Second},
		{"missing string", store.String("a.none", "dflt"), "dflt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, tt.got)
			}
		})
	}

	args := store.Strings("browser.args", nil)
	if len(args) != len(defaultBrowserArgs) || args[0] != "--no-sandbox" {
		t.Errorf("Unexpected browser args: %v", args)
	}
}

func TestStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	store.Set("paths.downloads", "/tmp/music")

	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if store.IsModified() {
		t.Error("Store should not be modified after Save")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file should be removed after Save")
	}

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if got := reloaded.String("paths.downloads", ""); got != "/tmp/music" {
		t.Errorf("Expected /tmp/music, got %q", got)
	}
}

func TestStore_SaveWithoutPath(t *testing.T) {
	store, _ := NewStore("")
	if err := store.Save(); err == nil {
		t.Error("Expected error saving a store without a path")
	}
}

func TestLoadSettings(t *testing.T) {
	store, _ := NewStore("")
	store.Set("suno.base_url", "https://example.test")
	store.Set("timeouts.settle_delay", 0)

	settings := Load(store)

	if settings.Suno.CreateURL() != "https://example.test/create/" {
		t.Errorf("Unexpected create URL: %s", settings.Suno.CreateURL())
	}
	if settings.Suno.LibraryURL() != "https://example.test/library/" {
		t.Errorf("Unexpected library URL: %s", settings.Suno.LibraryURL())
	}
	if settings.Timeouts.SettleDelay != 0 {
		t.Errorf("Expected zero settle delay, got %v", settings.Timeouts.SettleDelay)
	}
	if settings.Browser.ViewportWidth != 1920 || settings.Browser.ViewportHeight != 1080 {
		t.Errorf("Unexpected viewport %dx%d", settings.Browser.ViewportWidth, settings.Browser.ViewportHeight)
	}
	if settings.Security.RequestsPerMinute != 60 || settings.Security.BurstLimit != 10 {
		t.Errorf("Unexpected rate limit %d/%d", settings.Security.RequestsPerMinute, settings.Security.BurstLimit)
	}
	if len(settings.Suno.SuccessPatterns) != 2 {
		t.Errorf("Expected two success patterns, got %v", settings.Suno.SuccessPatterns)
	}
}
