// Package suno drives the Suno web application through a browser session:
// opening the create surface, signing in, submitting generation requests and
// downloading finished tracks.
package suno

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/entrhq/suno-mcp/pkg/browser"
	"github.com/entrhq/suno-mcp/pkg/config"
	"github.com/entrhq/suno-mcp/pkg/logging"
)

// Client runs the site workflows. Every workflow that touches the page goes
// through Manager.Do, so workflows never interleave.
type Client struct {
	manager  *browser.Manager
	resolver *browser.Resolver
	site     config.SunoSettings
	timeouts config.Timeouts
	downDir  string
	logger   *logging.Logger

	ready   patterns
	success patterns
	login   patterns
}

// NewClient creates a client. It fails when an auth URL pattern does not compile.
func NewClient(manager *browser.Manager, settings config.Settings, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Discard("suno")
	}

	ready, err := compilePatterns(settings.Suno.ReadyPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid ready pattern: %w", err)
	}
	success, err := compilePatterns(settings.Suno.SuccessPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid success pattern: %w", err)
	}
	login, err := compilePatterns(settings.Suno.LoginPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid login pattern: %w", err)
	}

	return &Client{
		manager:  manager,
		resolver: browser.NewResolver(settings.Timeouts.Selector, logger.With("resolver")),
		site:     settings.Suno,
		timeouts: settings.Timeouts,
		downDir:  settings.Paths.Downloads,
		logger:   logger,
		ready:    ready,
		success:  success,
		login:    login,
	}, nil
}

// Manager returns the session manager the client drives.
func (c *Client) Manager() *browser.Manager {
	return c.manager
}

// patterns is a set of compiled URL globs; a URL matches when any glob does.
type patterns []glob.Glob

func compilePatterns(raw []string) (patterns, error) {
	out := make(patterns, 0, len(raw))
	for _, p := range raw {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func (p patterns) Match(url string) bool {
	for _, g := range p {
		if g.Match(url) {
			return true
		}
	}
	return false
}

// onSurface reports whether url is already on the site section at path.
func onSurface(url, path string) bool {
	marker := strings.TrimSuffix(path, "/")
	return url != "" && marker != "" && strings.Contains(url, marker)
}

// navigate loads url and waits for it to settle.
func (c *Client) navigate(page browser.Page, url string) error {
	c.logger.Debugf("Navigating to %s", url)
	return page.Goto(url, c.timeouts.Navigation)
}

// sleep waits for d unless ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
