package browser

import (
	"fmt"
	"time"
)

// State is the lifecycle state of the managed session.
type State int

const (
	StateUninitialized State = iota
	StateLaunching
	StateReady
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLaunching:
		return "launching"
	case StateReady:
		return "ready"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is the nested chain of resources behind one live automation
// connection. A level is never set unless every level above it is set.
type Session struct {
	// Driver is the automation driver process
	Driver Driver

	// Browser is the launched browser process
	Browser Browser

	// Context is the isolated browsing context
	Context Context

	// Page is the active page
	Page Page

	// Headless records the mode the browser was actually launched in
	Headless bool

	// CreatedAt is the timestamp when the driver was started
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last workflow on this session
	LastUsedAt time.Time
}

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// complete reports whether every level of the chain exists.
func (s *Session) complete() bool {
	return s.Driver != nil && s.Browser != nil && s.Context != nil && s.Page != nil
}
