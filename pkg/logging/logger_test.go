package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestDir points the logger at a temporary directory and resets global state
func setupTestDir(t *testing.T) {
	t.Helper()

	tempDir := t.TempDir()

	origLogDir := logDir
	origOverride := dirOverride
	origInitErr := initErr
	origSessionID := sessionID

	logDir = ""
	dirOverride = tempDir
	initErr = nil
	initOnce = sync.Once{}
	sessionID = ""
	sessionIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir = origLogDir
		dirOverride = origOverride
		initErr = origInitErr
		initOnce = sync.Once{}
		sessionID = origSessionID
		sessionIDOnce = sync.Once{}
	})
}

func TestNewLogger(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("test-component")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "test-component" {
		t.Errorf("Expected component 'test-component', got %q", logger.component)
	}
	if logger.SessionID() == "" {
		t.Error("Expected non-empty session ID")
	}
	if _, err := os.Stat(logger.LogPath()); os.IsNotExist(err) {
		t.Errorf("Log file does not exist at %s", logger.LogPath())
	}
}

func TestLoggerFormatting(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Debugf("Debug message")
	logger.Infof("Info message %d", 123)
	logger.Warnf("Warning message")
	logger.Errorf("Error message")

	content, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	expectedPatterns := []string{
		"[test] [DEBUG] Debug message",
		"[test] [INFO] Info message 123",
		"[test] [WARN] Warning message",
		"[test] [ERROR] Error message",
	}
	for _, pattern := range expectedPatterns {
		if !strings.Contains(string(content), pattern) {
			t.Errorf("Log content missing expected pattern: %q\nContent:\n%s", pattern, content)
		}
	}
}

func TestMultipleComponentsShareFile(t *testing.T) {
	setupTestDir(t)

	logger1, err := NewLogger("browser")
	if err != nil {
		t.Fatalf("Failed to create logger1: %v", err)
	}
	defer logger1.Close()

	logger2, err := NewLogger("server")
	if err != nil {
		t.Fatalf("Failed to create logger2: %v", err)
	}
	defer logger2.Close()

	if logger1.LogPath() != logger2.LogPath() {
		t.Errorf("Expected same log path, got %q and %q", logger1.LogPath(), logger2.LogPath())
	}

	logger1.Infof("from browser")
	logger2.Infof("from server")

	content, err := os.ReadFile(logger1.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "[browser]") || !strings.Contains(string(content), "[server]") {
		t.Errorf("Log missing component entries:\n%s", content)
	}
}

func TestLogPathFormat(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	fileName := filepath.Base(logger.LogPath())
	if !strings.HasSuffix(fileName, "-suno-mcp.log") {
		t.Errorf("Expected log file to end with '-suno-mcp.log', got %q", fileName)
	}
	if sessionPart := strings.TrimSuffix(fileName, "-suno-mcp.log"); !strings.Contains(sessionPart, "-") {
		t.Errorf("Expected UUID session ID, got %q", sessionPart)
	}
}

func TestFallbackLogger(t *testing.T) {
	setupTestDir(t)

	// A regular file where the directory should be forces the fallback
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("Failed to write blocker: %v", err)
	}
	dirOverride = filepath.Join(blocker, "logs")

	logger, err := NewLogger("test")
	if err == nil {
		t.Fatal("Expected error when log directory cannot be created")
	}
	if logger == nil {
		t.Fatal("Expected fallback logger")
	}
	if logger.LogPath() != "" {
		t.Errorf("Fallback logger should have no path, got %q", logger.LogPath())
	}
}

func TestWriterLoggerAndWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger("manager", &buf)
	logger.With("downloads").Warnf("disk full")

	if !strings.Contains(buf.String(), "[manager.downloads] [WARN] disk full") {
		t.Errorf("Unexpected entry: %q", buf.String())
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close of writer logger failed: %v", err)
	}
}

func TestLoggerClose(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}
