package suno

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/suno-mcp/pkg/browser"
	"github.com/entrhq/suno-mcp/pkg/types"
)

// Login signs in with the given credentials. It succeeds without touching
// the page when the current URL is already inside the authenticated area.
//
// A missing redirect is not a failure: the account may be waiting on a
// second verification step, so the workflow pauses and reports "attempted".
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", types.NewError(types.CodeInvalidArgument, "email and password are required")
	}

	var msg string

	err := c.manager.Do(ctx, browser.EnsureOptions{}, func(s *browser.Session) error {
		page := s.Page

		current := page.URL()
		if c.authenticated(current) {
			msg = fmt.Sprintf("Already logged in. Current URL: %s\nReady for music generation!", current)
			return nil
		}

		c.resolver.Resolve(page, loginTrigger)
		if err := sleep(ctx, c.timeouts.SettleDelay); err != nil {
			return err
		}

		if r := c.resolver.Resolve(page, emailField.WithValue(email)); !r.Matched {
			c.logger.Warnf("Email field not found")
		}
		if r := c.resolver.Resolve(page, passwordField.WithValue(password)); !r.Matched {
			c.logger.Warnf("Password field not found")
		}
		c.resolver.Resolve(page, loginSubmit)

		if err := page.WaitForURL(c.ready.Match, c.timeouts.LoginRedirect); err != nil {
			c.logger.Infof("No redirect after submit, waiting for additional verification: %v", err)
			if err := sleep(ctx, c.timeouts.VerificationDelay); err != nil {
				return err
			}
		}

		final := page.URL()
		if c.success.Match(final) {
			msg = fmt.Sprintf("Login successful. Current URL: %s\nReady for music generation!", final)
		} else {
			msg = fmt.Sprintf("Login attempted. Current URL: %s\nMay require additional authentication steps.", final)
		}
		return nil
	})
	if err != nil {
		c.logger.Errorf("Login failed: %v", err)
		return "", types.Ensure(err, types.CodeLogin, "Login failed")
	}

	return msg, nil
}

func (c *Client) authenticated(url string) bool {
	return url != "" && c.ready.Match(url) && !c.login.Match(url)
}
