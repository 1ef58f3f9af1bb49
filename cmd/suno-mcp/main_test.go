package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/suno-mcp/pkg/config"
	"github.com/entrhq/suno-mcp/pkg/tools"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseToolArgs(t *testing.T) {
	args, err := parseToolArgs([]string{"prompt=calm piano", "include_stems=false", "lyrics=a=b"})
	require.NoError(t, err)
	assert.Equal(t, tools.Arguments{
		"prompt":        "calm piano",
		"include_stems": "false",
		"lyrics":        "a=b",
	}, args)

	_, err = parseToolArgs([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseToolArgs([]string{"=x"})
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want interface{}
	}{
		{raw: "45000", want: 45000},
		{raw: "false", want: false},
		{raw: "https://suno.test", want: "https://suno.test"},
		{raw: "[a, b]", want: []interface{}{"a", "b"}},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseValue(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigSetThenGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := run(t, "--config", path, "config", "set", "timeouts.navigation", "45000")
	require.NoError(t, err)
	assert.Contains(t, out, "Set timeouts.navigation")

	out, err = run(t, "--config", path, "config", "get", "timeouts.navigation")
	require.NoError(t, err)
	assert.Equal(t, "45000\n", out)

	store, err := config.NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, config.Load(store).Timeouts.Navigation)
}

func TestConfigGetMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := run(t, "--config", path, "config", "get", "no.such.key")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "suno-mcp v")
}

func TestIgnoreCanceled(t *testing.T) {
	assert.NoError(t, ignoreCanceled(nil))
	assert.NoError(t, ignoreCanceled(context.Canceled))
	assert.NoError(t, ignoreCanceled(fmt.Errorf("listen: %w", context.Canceled)))

	other := errors.New("broken pipe")
	assert.Same(t, other, ignoreCanceled(other))
}

func TestStdioStopsCleanlyOnCancel(t *testing.T) {
	dir := t.TempDir()

	// Input that never arrives, so only cancellation ends the loop.
	in, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(in)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--log-dir", filepath.Join(dir, "logs"),
		"stdio",
	})

	assert.NoError(t, cmd.ExecuteContext(ctx))
	assert.NotContains(t, out.String(), "Error")
}
