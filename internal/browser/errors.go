package browser

import (
	"fmt"
	"time"

	"github.com/krelv/formpilot/internal/config"
)

// ElementNotFoundError reports a selector that did not resolve to an element
// within the session timeout.
type ElementNotFoundError struct {
	Selector     string
	SelectorType config.SelectorType
	Err          error
}

func (e *ElementNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("element not found: %s=%q: %v", e.SelectorType, e.Selector, e.Err)
	}
	return fmt.Sprintf("element not found: %s=%q", e.SelectorType, e.Selector)
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

// TimeoutError reports an element that was found but did not become
// interactable in time.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s: %s: %v", e.Timeout, e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// NavigationError reports a page that failed to load.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }
