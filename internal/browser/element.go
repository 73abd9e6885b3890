package browser

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/krelv/formpilot/internal/config"
)

// locate waits up to timeout (session default when zero) for the element the
// locator points at.
func (s *Session) locate(loc config.Locator, timeout time.Duration) (*rod.Element, error) {
	if timeout == 0 {
		timeout = s.timeout
	}
	page := s.page.Timeout(timeout)

	var (
		el  *rod.Element
		err error
	)
	if loc.Type == config.SelectorXPath {
		el, err = page.ElementX(loc.Query)
	} else {
		css, cerr := loc.CSS()
		if cerr != nil {
			return nil, cerr
		}
		el, err = page.Element(css)
	}
	if err != nil {
		return nil, &ElementNotFoundError{Selector: loc.Query, SelectorType: loc.Type, Err: err}
	}
	return el, nil
}

// Fill clears the target element and types text into it.
func (s *Session) Fill(loc config.Locator, text string) error {
	el, err := s.locate(loc, 0)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("clear %s=%q: %w", loc.Type, loc.Query, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input into %s=%q: %w", loc.Type, loc.Query, err)
	}
	s.log.Info("filled field", zap.String("selector", loc.Query), zap.String("selector_type", string(loc.Type)))
	return nil
}

// SelectText picks the dropdown option whose visible label matches.
func (s *Session) SelectText(loc config.Locator, label string) error {
	el, err := s.locate(loc, 0)
	if err != nil {
		return err
	}
	if err := el.Select([]string{label}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("select %q in %s=%q: %w", label, loc.Type, loc.Query, err)
	}
	s.log.Info("selected option", zap.String("selector", loc.Query), zap.String("label", label))
	return nil
}

// SelectValue picks the dropdown option whose value attribute matches.
func (s *Session) SelectValue(loc config.Locator, value string) error {
	el, err := s.locate(loc, 0)
	if err != nil {
		return err
	}
	option := fmt.Sprintf("[value=%q]", value)
	if err := el.Select([]string{option}, true, rod.SelectorTypeCSSSector); err != nil {
		return fmt.Errorf("select value %q in %s=%q: %w", value, loc.Type, loc.Query, err)
	}
	s.log.Info("selected option", zap.String("selector", loc.Query), zap.String("value", value))
	return nil
}

// Click waits for the element to be visible and clicks it.
func (s *Session) Click(loc config.Locator) error {
	el, err := s.locate(loc, 0)
	if err != nil {
		return err
	}
	if err := el.Timeout(s.timeout).WaitVisible(); err != nil {
		return &TimeoutError{Op: fmt.Sprintf("wait visible %s=%q", loc.Type, loc.Query), Timeout: s.timeout, Err: err}
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s=%q: %w", loc.Type, loc.Query, err)
	}
	s.log.Info("clicked element", zap.String("selector", loc.Query), zap.String("selector_type", string(loc.Type)))
	return nil
}

// Upload sets the file path on a file input element.
func (s *Session) Upload(loc config.Locator, path string) error {
	el, err := s.locate(loc, 0)
	if err != nil {
		return err
	}
	if err := el.SetFiles([]string{path}); err != nil {
		return fmt.Errorf("upload %q to %s=%q: %w", path, loc.Type, loc.Query, err)
	}
	s.log.Info("uploaded file", zap.String("selector", loc.Query), zap.String("path", path))
	return nil
}

// ReadValue returns the element's value property, falling back to its text
// content for non-input elements.
func (s *Session) ReadValue(loc config.Locator) (string, error) {
	el, err := s.locate(loc, 0)
	if err != nil {
		return "", err
	}
	if v, perr := el.Property("value"); perr == nil && !v.Nil() && v.Str() != "" {
		return v.Str(), nil
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read %s=%q: %w", loc.Type, loc.Query, err)
	}
	return strings.TrimSpace(text), nil
}

// WaitFor blocks until the element shows up or the timeout expires.
func (s *Session) WaitFor(loc config.Locator, timeout time.Duration) error {
	_, err := s.locate(loc, timeout)
	return err
}

// Screenshot writes a full-page PNG to path.
func (s *Session) Screenshot(path string) error {
	data, err := s.page.Screenshot(true, nil)
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	return nil
}

// CaptureFrame grabs the current viewport as an image for run recording.
func (s *Session) CaptureFrame() (image.Image, error) {
	data, err := s.page.Screenshot(false, nil)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}
