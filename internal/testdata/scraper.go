// Package testdata produces the token values substituted into form fields,
// either by scraping a generator web page or by generating them locally.
package testdata

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/krelv/formpilot/internal/config"
	"github.com/krelv/formpilot/internal/resolver"
)

// Driver is the subset of browser operations the acquisition step needs.
type Driver interface {
	Navigate(url string) error
	SelectValue(loc config.Locator, value string) error
	Click(loc config.Locator) error
	ReadValue(loc config.Locator) (string, error)
	WaitFor(loc config.Locator, timeout time.Duration) error
}

// GenerationError aborts the run before any form field is touched. A
// partially populated value map is never returned.
type GenerationError struct {
	Step string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("test data generation: %s: %v", e.Step, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

const bannerProbeTimeout = 3 * time.Second

// cookieBannerFallbacks are tried in order when no custom banner selector is
// configured, or after the custom one fails.
var cookieBannerFallbacks = []config.ActionSpec{
	{Selector: `//button[@aria-label='Close']`, SelectorType: config.SelectorXPath},
	{Selector: `//button[contains(@aria-label, 'close')]`, SelectorType: config.SelectorXPath},
	{Selector: `//button[contains(@class, 'cookie') and contains(@class, 'close')]`, SelectorType: config.SelectorXPath},
	{Selector: `//button[contains(@id, 'cookie') and contains(@id, 'close')]`, SelectorType: config.SelectorXPath},
	{Selector: `//button[contains(text(), 'Accept')]`, SelectorType: config.SelectorXPath},
	{Selector: `//button[contains(text(), 'OK')]`, SelectorType: config.SelectorXPath},
	{Selector: `//button[contains(text(), 'Got it')]`, SelectorType: config.SelectorXPath},
}

// Scrape drives the generator page and reads the produced values back as
// tokens. Any failure aborts the whole step; proceeding with a partial map
// would silently submit a form with garbage values.
func Scrape(d Driver, cfg *config.TestDataGeneration, state string, timeout time.Duration, log *zap.Logger) (resolver.Values, error) {
	if !cfg.Enabled {
		log.Info("test data generation disabled")
		return resolver.Values{}, nil
	}

	if err := d.Navigate(cfg.URL); err != nil {
		return nil, &GenerationError{Step: "navigate", Err: err}
	}
	if cfg.DismissBanner() {
		dismissCookieBanner(d, cfg.CookieBannerConfig, log)
	}

	if err := d.SelectValue(cfg.StateDropdown.Locator(), state); err != nil {
		return nil, &GenerationError{Step: "select state " + state, Err: err}
	}
	if err := d.Click(cfg.GenerateButton.Locator()); err != nil {
		return nil, &GenerationError{Step: "click generate button", Err: err}
	}

	if cfg.WaitTimeAfterGenerate > 0 {
		time.Sleep(time.Duration(cfg.WaitTimeAfterGenerate) * time.Second)
	}
	if cfg.WaitForGeneration != nil {
		w := cfg.WaitForGeneration
		if err := d.WaitFor(w.Locator(), w.TimeoutDuration(timeout)); err != nil {
			return nil, &GenerationError{Step: "wait for generation", Err: err}
		}
	}

	values := resolver.Values{}
	for _, name := range sortedKeys(cfg.OutputFields) {
		v, err := d.ReadValue(cfg.OutputFields[name].Locator())
		if err != nil {
			return nil, &GenerationError{Step: "read " + name, Err: err}
		}
		values[name] = v
		log.Info("extracted generated value", zap.String("token", name))
	}
	log.Info("test data generation complete", zap.Int("tokens", len(values)))
	return values, nil
}

// dismissCookieBanner is best effort; generator pages work fine with the
// banner still up, it just pollutes screenshots and can cover controls.
func dismissCookieBanner(d Driver, custom *config.ActionSpec, log *zap.Logger) {
	candidates := cookieBannerFallbacks
	if custom != nil && custom.Selector != "" {
		candidates = append([]config.ActionSpec{*custom}, candidates...)
	}
	for _, c := range candidates {
		loc := c.Locator()
		if err := d.WaitFor(loc, bannerProbeTimeout); err != nil {
			continue
		}
		if err := d.Click(loc); err != nil {
			continue
		}
		log.Debug("dismissed cookie banner", zap.String("selector", c.Selector))
		return
	}
	log.Debug("no cookie banner found")
}

func sortedKeys(m map[string]config.ActionSpec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
