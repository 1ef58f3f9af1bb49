package suno

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/suno-mcp/pkg/browser"
	"github.com/entrhq/suno-mcp/pkg/types"
)

// trackPrefixLen is how much of a track ID the library scan compares.
const trackPrefixLen = 8

var errNoDownloadTrigger = errors.New("no download trigger matched")

// DownloadRequest describes one track download.
type DownloadRequest struct {
	TrackID string

	// Dir is the destination directory; empty means the configured one.
	Dir string

	IncludeStems bool
}

// Stems outcomes reported in the download result.
const (
	StemsNotRequested = "not requested"
	StemsUnavailable  = "unavailable"
)

// DownloadTrack opens the track in the library and saves its audio.
//
// The download listener is armed before the trigger is clicked. Stems are a
// separate best-effort download that never fails the workflow.
func (c *Client) DownloadTrack(ctx context.Context, req DownloadRequest) (string, error) {
	if strings.TrimSpace(req.TrackID) == "" {
		return "", types.NewError(types.CodeInvalidArgument, "track_id is required")
	}
	if req.Dir == "" {
		req.Dir = c.downDir
	}

	var (
		record browser.DownloadRecord
		stems  = StemsNotRequested
	)

	err := c.manager.Do(ctx, browser.EnsureOptions{}, func(s *browser.Session) error {
		page := s.Page

		if !onSurface(page.URL(), c.site.LibraryPath) {
			if err := c.navigate(page, c.site.LibraryURL()); err != nil {
				return err
			}
			if err := sleep(ctx, c.timeouts.SettleDelay); err != nil {
				return err
			}
		}

		found, err := c.locateTrack(ctx, page, req.TrackID)
		if err != nil {
			return err
		}
		if !found {
			return types.NewError(types.CodeTrackNotFound, "Track with ID %q not found in library", req.TrackID)
		}

		if err := sleep(ctx, c.timeouts.SettleDelay); err != nil {
			return err
		}

		record, err = c.manager.Downloads().Expect(page, req.Dir, c.timeouts.Download, func() error {
			if r := c.resolver.Resolve(page, downloadTrigger); !r.Matched {
				return errNoDownloadTrigger
			}
			return nil
		})
		if errors.Is(err, errNoDownloadTrigger) {
			return types.NewError(types.CodeDownload, "Could not find download button")
		}
		if err != nil {
			return err
		}

		if req.IncludeStems {
			stems = c.downloadStems(page, req.Dir)
		}
		return nil
	})
	if err != nil {
		c.logger.Errorf("Download failed: %v", err)
		return "", types.Ensure(err, types.CodeDownload, "Download failed")
	}

	c.logger.Infof("Downloaded track %s to %s (stems: %s)", req.TrackID, record.Path, stems)

	return fmt.Sprintf("Download completed!\nTrack: %s\nPath: %s\nStems: %s\n\nTrack ID: %s",
		record.Filename, record.Path, stems, req.TrackID), nil
}

// locateTrack clicks the track, first through its identifier attributes,
// then by scanning every listed card for the ID prefix.
func (c *Client) locateTrack(ctx context.Context, page browser.Page, trackID string) (bool, error) {
	for _, selector := range trackLocators(trackID) {
		loc := page.Locator(selector).First()
		n, err := loc.Count()
		if err != nil || n == 0 {
			continue
		}
		if err := loc.Click(c.timeouts.Selector); err != nil {
			c.logger.Debugf("Track locator %q matched but click failed: %v", selector, err)
			continue
		}
		return true, nil
	}

	if err := sleep(ctx, c.timeouts.SettleDelay); err != nil {
		return false, err
	}

	prefix := trackPrefix(trackID)
	cards := page.Locator(trackCards)
	count, err := cards.Count()
	if err != nil {
		c.logger.Debugf("Track card scan failed: %v", err)
		return false, nil
	}

	for i := 0; i < count; i++ {
		card := cards.Nth(i)
		text, err := card.TextContent(c.timeouts.Selector)
		if err != nil || !strings.Contains(strings.ToLower(text), prefix) {
			continue
		}
		if err := card.Click(c.timeouts.Selector); err != nil {
			c.logger.Debugf("Track card %d matched but click failed: %v", i, err)
			continue
		}
		return true, nil
	}

	return false, nil
}

// trackPrefix normalizes an ID for the text scan: lowercased, first
// trackPrefixLen runes.
func trackPrefix(trackID string) string {
	r := []rune(strings.ToLower(trackID))
	if len(r) > trackPrefixLen {
		r = r[:trackPrefixLen]
	}
	return string(r)
}

// downloadStems tries each stems trigger with its own listener and reports
// the outcome. Failures are logged and swallowed.
func (c *Client) downloadStems(page browser.Page, dir string) string {
	for _, selector := range stemsTriggers {
		record, err := c.manager.Downloads().Expect(page, dir, c.timeouts.Download, func() error {
			return page.Click(selector, c.timeouts.StemsClick)
		})
		if err != nil {
			c.logger.Debugf("Stems via %q failed: %v", selector, err)
			continue
		}
		return fmt.Sprintf("included (%s)", record.Filename)
	}

	c.logger.Infof("Stems unavailable for this track")
	return StemsUnavailable
}
