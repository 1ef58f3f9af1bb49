package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Store is a hierarchical key/value tree addressed by dot paths
// (e.g. "timeouts.navigation"). It starts from Defaults, may be overlaid by a
// YAML file and is only mutated through Set. Nothing reloads it automatically.
type Store struct {
	path     string
	data     map[string]interface{}
	mu       sync.RWMutex
	modified bool
}

// NewStore creates a store seeded with the default tree.
// If path is non-empty and the file exists, its contents are merged on top.
func NewStore(path string) (*Store, error) {
	store := &Store{
		path: path,
		data: Defaults(),
	}

	if path == "" {
		return store, nil
	}

	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	return store, nil
}

// Load merges the YAML file at the store's path over the current tree.
// A missing file is not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var overlay map[string]interface{}
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}

	merge(s.data, overlay)
	s.modified = false
	return nil
}

// Save writes the full tree to the store's path as YAML.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return fmt.Errorf("config store has no file path")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Atomic write via rename
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, out, 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.modified = false
	return nil
}

// Get returns the value at key, or def when any path segment is missing.
func (s *Store) Get(key string, def interface{}) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var current interface{} = s.data
	for _, part := range strings.Split(key, ".") {
		node, ok := current.(map[string]interface{})
		if !ok {
			return def
		}
		current, ok = node[part]
		if !ok {
			return def
		}
	}
	return current
}

// Set stores value at key, creating intermediate levels as needed.
// A non-map value sitting on the path is replaced by a new level.
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.Split(key, ".")
	node := s.data
	for _, part := range parts[:len(parts)-1] {
		next, ok := node[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			node[part] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = value
	s.modified = true
}

// String returns the value at key as a string.
func (s *Store) String(key, def string) string {
	switch v := s.Get(key, nil).(type) {
	case string:
		return v
	case nil:
		return def
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the value at key as an int.
func (s *Store) Int(key string, def int) int {
	if n, ok := toInt(s.Get(key, nil)); ok {
		return n
	}
	return def
}

// Bool returns the value at key as a bool.
func (s *Store) Bool(key string, def bool) bool {
	switch v := s.Get(key, nil).(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Millis returns the value at key, expressed in milliseconds, as a duration.
func (s *Store) Millis(key string, def time.Duration) time.Duration {
	if n, ok := toInt(s.Get(key, nil)); ok {
		return time.Duration(n) * time.Millisecond
	}
	return def
}

// Strings returns the value at key as a string slice.
func (s *Store) Strings(key string, def []string) []string {
	switch v := s.Get(key, nil).(type) {
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	}
	return def
}

// IsModified returns true if the store has unsaved changes.
func (s *Store) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Path returns the file path of the store.
func (s *Store) Path() string {
	return s.path
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// merge copies overlay into base, descending into nested maps.
func merge(base, overlay map[string]interface{}) {
	for k, v := range overlay {
		if child, ok := v.(map[string]interface{}); ok {
			if existing, ok := base[k].(map[string]interface{}); ok {
				merge(existing, child)
				continue
			}
		}
		base[k] = v
	}
}
