package runner

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/krelv/formpilot/internal/browser"
	"github.com/krelv/formpilot/internal/config"
	"github.com/krelv/formpilot/internal/resolver"
)

// applyField performs exactly one browser interaction for the field.
func (r *Runner) applyField(f config.FieldSpec) error {
	loc := f.Locator()
	switch f.Type {
	case config.FieldText:
		v, err := r.resolve(f.Value)
		if err != nil {
			return err
		}
		return r.driver.Fill(loc, v)
	case config.FieldDropdown:
		v, err := r.resolve(f.Value)
		if err != nil {
			return err
		}
		return r.driver.SelectText(loc, v)
	case config.FieldClick:
		return r.driver.Click(loc)
	case config.FieldFile:
		path, err := r.resolve(f.Value)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("upload file %q not accessible: %w", path, err)
		}
		return r.driver.Upload(loc, path)
	}
	// Unreachable after config validation.
	return &config.ConfigError{Path: "type", Msg: fmt.Sprintf("unknown field type %q", f.Type)}
}

// applyFieldRetry retries transient element failures with a short backoff.
// Anything else fails immediately.
func (r *Runner) applyFieldRetry(index int, f config.FieldSpec) error {
	attempts := r.settings.Retries
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = r.applyField(f)
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt == attempts {
			break
		}
		r.log.Warn("field action failed, retrying",
			zap.Int("field", index),
			zap.String("selector", f.Selector),
			zap.String("selector_type", string(f.SelectorType)),
			zap.Int("attempt", attempt),
			zap.Error(err))
		time.Sleep(r.settings.RetryBackoff)
	}

	r.log.Error("field action failed",
		zap.Int("field", index),
		zap.String("type", string(f.Type)),
		zap.String("selector", f.Selector),
		zap.String("selector_type", string(f.SelectorType)),
		zap.Error(err))
	return fmt.Errorf("field %d (%s=%q): %w", index, f.SelectorType, f.Selector, err)
}

func (r *Runner) resolve(s string) (string, error) {
	if r.settings.StrictTokens {
		return resolver.ResolveStrict(s, r.values)
	}
	return resolver.Resolve(s, r.values), nil
}

func retryable(err error) bool {
	var notFound *browser.ElementNotFoundError
	var timeout *browser.TimeoutError
	return errors.As(err, &notFound) || errors.As(err, &timeout)
}
