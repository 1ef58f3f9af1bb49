package browser

import (
	"fmt"
	"strings"
)

// StatusSnapshot is a read-only projection of the session, recomputed on
// every call.
type StatusSnapshot struct {
	State        string `json:"state"`
	BrowserOpen  bool   `json:"browser_open"`
	ContextReady bool   `json:"context_ready"`
	PageReady    bool   `json:"page_ready"`
	CurrentURL   string `json:"current_url,omitempty"`
	PageTitle    string `json:"page_title,omitempty"`
	InStudio     bool   `json:"in_studio"`
	Headless     bool   `json:"headless"`
	Error        string `json:"error,omitempty"`
}

// Status never fails. A page that errors on title lookup leaves the title
// absent; a page handle that panics on access yields an all-default
// snapshot carrying the fault in Error.
func (m *Manager) Status() (snap StatusSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Errorf("Status check failed: %v", r)
			snap = StatusSnapshot{
				State: "unknown",
				Error: fmt.Sprintf("status check failed: %v", r),
			}
		}
	}()

	var page Page
	m.mu.Lock()
	snap.State = m.state.String()
	if s := m.session; s != nil {
		snap.BrowserOpen = s.Browser != nil
		snap.ContextReady = s.Context != nil
		snap.PageReady = s.Page != nil
		snap.Headless = s.Headless
		page = s.Page
	}
	m.mu.Unlock()

	if page == nil {
		return snap
	}

	snap.CurrentURL = page.URL()
	if title, err := page.Title(); err == nil {
		snap.PageTitle = title
	} else {
		m.logger.Debugf("Page title unavailable: %v", err)
	}
	snap.InStudio = m.studioMarker != "" && strings.Contains(snap.CurrentURL, m.studioMarker)

	return snap
}
