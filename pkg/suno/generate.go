package suno

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/suno-mcp/pkg/browser"
	"github.com/entrhq/suno-mcp/pkg/types"
)

// Durations lists the accepted track lengths.
var Durations = []string{"auto", "short", "medium", "long"}

// GenerateRequest describes one generation.
type GenerateRequest struct {
	Prompt string
	Style  string
	Lyrics string

	// Duration is one of Durations; empty means "auto".
	Duration string
}

func (r *GenerateRequest) normalize(defaultStyle string) error {
	if strings.TrimSpace(r.Prompt) == "" {
		return types.NewError(types.CodeInvalidArgument, "prompt is required")
	}
	if r.Style == "" {
		r.Style = defaultStyle
	}
	if r.Duration == "" {
		r.Duration = "auto"
	}
	for _, d := range Durations {
		if r.Duration == d {
			return nil
		}
	}
	return types.NewError(types.CodeInvalidArgument, "invalid duration %q (expected one of %s)",
		r.Duration, strings.Join(Durations, ", "))
}

// GenerateTrack fills the create form and submits it. Only a missing
// generate button is fatal; the lyrics, style and progress steps are best
// effort and only change the wording of the result.
func (c *Client) GenerateTrack(ctx context.Context, req GenerateRequest) (string, error) {
	if err := req.normalize(c.site.DefaultStyle); err != nil {
		return "", err
	}

	var started bool

	err := c.manager.Do(ctx, browser.EnsureOptions{}, func(s *browser.Session) error {
		page := s.Page

		if !onSurface(page.URL(), c.site.CreatePath) {
			if err := c.navigate(page, c.site.CreateURL()); err != nil {
				return err
			}
		}
		if err := sleep(ctx, c.timeouts.SettleDelay); err != nil {
			return err
		}

		if r := c.resolver.Resolve(page, promptField.WithValue(req.Prompt)); !r.Matched {
			c.logger.Warnf("Prompt field not found, submitting without it")
		}
		if req.Lyrics != "" {
			c.resolver.Resolve(page, lyricsField.WithValue(req.Lyrics))
		}
		if req.Style != c.site.DefaultStyle {
			c.resolver.Resolve(page, styleField.WithValue(req.Style))
		}

		if r := c.resolver.Resolve(page, generateTrigger); !r.Matched {
			return types.NewError(types.CodeGenerate, "Could not find generate button")
		}

		if err := sleep(ctx, c.timeouts.GenerationStartDelay); err != nil {
			return err
		}
		_, started = c.resolver.WaitForAny(page, generatingIndicators, c.timeouts.GenerationIndicator)
		return nil
	})
	if err != nil {
		c.logger.Errorf("Track generation failed: %v", err)
		return "", types.Ensure(err, types.CodeGenerate, "Track generation failed")
	}

	status := "initiated"
	if started {
		status = "started"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Track generation %s!\n", status)
	fmt.Fprintf(&b, "Prompt: %q\n", req.Prompt)
	fmt.Fprintf(&b, "Style: %s\n", req.Style)
	fmt.Fprintf(&b, "Duration: %s\n", req.Duration)
	if req.Lyrics != "" {
		fmt.Fprintf(&b, "Lyrics: %s\n", preview(req.Lyrics, 50))
	}
	b.WriteString("\nGeneration in progress... Use suno_get_status to check progress.")

	return b.String(), nil
}

// preview shortens s to n runes.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
