package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/entrhq/suno-mcp/pkg/logging"
)

// DownloadSource tells which path persisted a download.
type DownloadSource string

const (
	SourcePassive  DownloadSource = "passive"  // SourcePassive marks downloads saved by the page-level handler.
	SourceExplicit DownloadSource = "explicit" // SourceExplicit marks downloads awaited by a workflow.
)

// DownloadRecord describes one persisted download.
type DownloadRecord struct {
	Filename string
	URL      string
	Path     string
	Source   DownloadSource
	SavedAt  time.Time
}

// DownloadCoordinator persists downloads started by the page.
//
// Every attached page gets a passive handler that saves each download into
// the configured directory on its own goroutine. Workflows that need the file
// use Expect, which arms a one-shot listener before running the trigger.
// While an Expect into the passive directory is armed on a page, the passive
// handler leaves that page's downloads to it so one file is never written
// twice at once. An Expect into another directory gets its own copy.
type DownloadCoordinator struct {
	dir    string
	logger *logging.Logger

	mu        sync.Mutex
	attached  map[Page]uint64
	expecting map[Page]string
	nextGen   uint64
	recent    []DownloadRecord
	inflight  sync.WaitGroup
}

// maxRecentDownloads bounds the in-memory history.
const maxRecentDownloads = 20

// NewDownloadCoordinator creates a coordinator saving passive downloads into dir.
func NewDownloadCoordinator(dir string, logger *logging.Logger) *DownloadCoordinator {
	return &DownloadCoordinator{
		dir:       dir,
		logger:    logger,
		attached:  make(map[Page]uint64),
		expecting: make(map[Page]string),
	}
}

// Attach subscribes to page's download signal. Repeated calls for the same
// page are ignored.
func (c *DownloadCoordinator) Attach(page Page) {
	c.mu.Lock()
	if _, ok := c.attached[page]; ok {
		c.mu.Unlock()
		return
	}
	c.nextGen++
	gen := c.nextGen
	c.attached[page] = gen
	c.mu.Unlock()

	page.OnDownload(func(d Download) {
		c.mu.Lock()
		if c.attached[page] != gen {
			// Detached, or re-attached with a newer handler.
			c.mu.Unlock()
			return
		}
		if dir, ok := c.expecting[page]; ok && dir == filepath.Clean(c.dir) {
			c.mu.Unlock()
			c.logger.Debugf("Leaving %s to the waiting workflow", d.SuggestedFilename())
			return
		}
		c.inflight.Add(1)
		c.mu.Unlock()

		go func() {
			defer c.inflight.Done()
			c.handle(d)
		}()
	})
}

// Detach stops passive saves for page. Saves already started keep running;
// Wait covers them. A later Attach subscribes the page again.
func (c *DownloadCoordinator) Detach(page Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.attached, page)
}

// handle is the passive path. Nobody awaits it, so failures are only logged.
func (c *DownloadCoordinator) handle(d Download) {
	record, err := c.save(d, c.dir, SourcePassive)
	if err != nil {
		c.logger.Errorf("Download failed: %v", err)
		return
	}
	c.logger.Infof("Downloaded file: %s", record.Path)
}

// Expect arms a download listener, runs trigger and saves the resulting file
// under dir using the suggested filename. Errors from trigger are returned
// unchanged.
func (c *DownloadCoordinator) Expect(page Page, dir string, timeout time.Duration, trigger func() error) (DownloadRecord, error) {
	c.mu.Lock()
	c.expecting[page] = filepath.Clean(dir)
	c.mu.Unlock()

	d, err := page.ExpectDownload(trigger, timeout)

	c.mu.Lock()
	delete(c.expecting, page)
	c.mu.Unlock()

	if err != nil {
		downloadsTotal.WithLabelValues(string(SourceExplicit), "failed").Inc()
		return DownloadRecord{}, err
	}
	return c.save(d, dir, SourceExplicit)
}

func (c *DownloadCoordinator) save(d Download, dir string, source DownloadSource) (DownloadRecord, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		downloadsTotal.WithLabelValues(string(source), "failed").Inc()
		return DownloadRecord{}, fmt.Errorf("failed to create download directory: %w", err)
	}

	filename := d.SuggestedFilename()
	path := filepath.Join(dir, filename)
	if err := d.SaveAs(path); err != nil {
		downloadsTotal.WithLabelValues(string(source), "failed").Inc()
		return DownloadRecord{}, fmt.Errorf("failed to save %s: %w", filename, err)
	}

	record := DownloadRecord{
		Filename: filename,
		URL:      d.URL(),
		Path:     path,
		Source:   source,
		SavedAt:  time.Now(),
	}
	downloadsTotal.WithLabelValues(string(source), "saved").Inc()

	c.mu.Lock()
	c.recent = append(c.recent, record)
	if len(c.recent) > maxRecentDownloads {
		c.recent = c.recent[len(c.recent)-maxRecentDownloads:]
	}
	c.mu.Unlock()

	return record, nil
}

// Recent returns the most recently persisted downloads, oldest first.
func (c *DownloadCoordinator) Recent() []DownloadRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]DownloadRecord(nil), c.recent...)
}

// Wait blocks until every passive save started so far has finished. Detach
// every page first so no new save can start while waiting.
func (c *DownloadCoordinator) Wait() {
	c.inflight.Wait()
}

// Dir returns the directory passive downloads are written to.
func (c *DownloadCoordinator) Dir() string {
	return c.dir
}
