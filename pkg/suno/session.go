package suno

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/suno-mcp/pkg/browser"
	"github.com/entrhq/suno-mcp/pkg/types"
)

// OpenBrowser ensures the session and loads the create surface. A nil
// headless uses the configured mode.
func (c *Client) OpenBrowser(ctx context.Context, headless *bool) (string, error) {
	var msg string

	err := c.manager.Do(ctx, browser.EnsureOptions{Headless: headless}, func(s *browser.Session) error {
		url := c.site.CreateURL()
		if err := c.navigate(s.Page, url); err != nil {
			return types.Wrap(types.CodeBrowserInit, err, "Failed to open %s", url)
		}

		title, err := s.Page.Title()
		if err != nil {
			c.logger.Debugf("Page title unavailable: %v", err)
		}

		msg = fmt.Sprintf("Browser opened successfully. Navigated to Suno AI.\nPage title: %s\nURL: %s\nHeadless mode: %t",
			title, s.Page.URL(), s.Headless)
		if headless != nil && *headless != s.Headless {
			msg += fmt.Sprintf("\nNote: headless=%t was requested but the browser is already running; close it to relaunch.", *headless)
		}
		return nil
	})
	if err != nil {
		c.logger.Errorf("Browser open failed: %v", err)
		return "", types.Ensure(err, types.CodeBrowserInit, "Browser initialization failed")
	}

	return msg, nil
}

// Status formats the current session snapshot.
func (c *Client) Status(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", types.Wrap(types.CodeStatus, err, "Status check failed")
	}
	return FormatStatus(c.manager.Status()), nil
}

// FormatStatus renders a snapshot as the human-readable status report.
func FormatStatus(snap browser.StatusSnapshot) string {
	var b strings.Builder

	b.WriteString("Suno MCP Status:\n")
	fmt.Fprintf(&b, "State: %s\n", snap.State)
	fmt.Fprintf(&b, "Browser Open: %t\n", snap.BrowserOpen)
	fmt.Fprintf(&b, "Context Ready: %t\n", snap.ContextReady)
	fmt.Fprintf(&b, "Page Ready: %t\n", snap.PageReady)
	fmt.Fprintf(&b, "Current URL: %s\n", orNone(snap.CurrentURL))
	fmt.Fprintf(&b, "Page Title: %s\n", orNone(snap.PageTitle))
	fmt.Fprintf(&b, "In Studio: %t\n", snap.InStudio)
	fmt.Fprintf(&b, "Headless: %t", snap.Headless)
	if snap.Error != "" {
		fmt.Fprintf(&b, "\nError: %s", snap.Error)
	}

	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// CloseBrowser tears the session down. It does not wait for a running
// workflow; that workflow fails on its next page operation.
func (c *Client) CloseBrowser() (string, error) {
	if err := c.manager.Close(); err != nil {
		c.logger.Errorf("Browser close failed: %v", err)
		return "", types.Ensure(err, types.CodeClose, "Browser close failed")
	}
	return "Browser closed successfully.", nil
}
