package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/suno-mcp/pkg/logging"
)

// Action is the interaction a SelectorSet performs on the element it finds.
type Action int

const (
	ActionClick        Action = iota // ActionClick clicks the element.
	ActionFill                       // ActionFill clears the field, then writes the value.
	ActionSelect                     // ActionSelect selects the option matching the value.
	ActionSelectOrFill               // ActionSelectOrFill tries select, then fill, on each candidate.
)

func (a Action) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionFill:
		return "fill"
	case ActionSelect:
		return "select"
	case ActionSelectOrFill:
		return "select-or-fill"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// SelectorSet is an ordered list of candidate locators for one logical
// element. Earlier candidates are preferred; later ones cover older or
// alternative markup.
type SelectorSet struct {
	Name       string
	Candidates []string
	Action     Action
	Value      string
}

// WithValue returns a copy of the set carrying value.
func (s SelectorSet) WithValue(value string) SelectorSet {
	s.Value = value
	return s
}

// AttemptResult reports which candidate, if any, succeeded.
type AttemptResult struct {
	Matched  bool
	Index    int
	Selector string

	// Attempts is the number of candidates tried.
	Attempts int
}

// Resolver applies SelectorSets against a live page.
type Resolver struct {
	timeout time.Duration
	logger  *logging.Logger
}

// NewResolver creates a resolver that bounds each candidate attempt by timeout.
func NewResolver(timeout time.Duration, logger *logging.Logger) *Resolver {
	return &Resolver{timeout: timeout, logger: logger}
}

// Resolve tries each candidate in order and stops at the first that
// succeeds; its side effect stays applied. No match is not an error.
func (r *Resolver) Resolve(page Page, set SelectorSet) AttemptResult {
	result := AttemptResult{Index: -1}

	for i, selector := range set.Candidates {
		result.Attempts++
		if err := r.attempt(page, set.Action, selector, set.Value); err != nil {
			r.logger.Debugf("%s: candidate %d %q missed: %v", set.Name, i, selector, err)
			continue
		}

		result.Matched = true
		result.Index = i
		result.Selector = selector
		r.logger.Debugf("%s: %s matched candidate %d %q", set.Name, set.Action, i, selector)
		return result
	}

	r.logger.Infof("%s: no candidate matched (%d tried)", set.Name, result.Attempts)
	return result
}

func (r *Resolver) attempt(page Page, action Action, selector, value string) error {
	switch action {
	case ActionClick:
		return page.Click(selector, r.timeout)
	case ActionFill:
		return r.fill(page, selector, value)
	case ActionSelect:
		return page.SelectOption(selector, value, r.timeout)
	case ActionSelectOrFill:
		if err := page.SelectOption(selector, value, r.timeout); err == nil {
			return nil
		}
		return r.fill(page, selector, value)
	default:
		return fmt.Errorf("unsupported action: %s", action)
	}
}

// fill clears the field first so a partial value from an earlier guess
// cannot remain.
func (r *Resolver) fill(page Page, selector, value string) error {
	if err := page.Fill(selector, "", r.timeout); err != nil {
		return err
	}
	return page.Fill(selector, value, r.timeout)
}

// WaitForAny waits up to timeout for any of selectors to appear and
// returns the first one, in list order, that is present.
func (r *Resolver) WaitForAny(page Page, selectors []string, timeout time.Duration) (string, bool) {
	if len(selectors) == 0 {
		return "", false
	}
	if err := page.WaitForSelector(strings.Join(selectors, ", "), timeout); err != nil {
		return "", false
	}
	for _, selector := range selectors {
		if n, err := page.Locator(selector).Count(); err == nil && n > 0 {
			return selector, true
		}
	}
	return "", true
}

// Timeout returns the per-candidate timeout.
func (r *Resolver) Timeout() time.Duration {
	return r.timeout
}
