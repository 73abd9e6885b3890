// Package runner orchestrates one automation run: acquire token values, fill
// the form field by field, submit, and leave diagnostic artifacts behind.
package runner

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/krelv/formpilot/internal/config"
	"github.com/krelv/formpilot/internal/recorder"
	"github.com/krelv/formpilot/internal/resolver"
	"github.com/krelv/formpilot/internal/testdata"
)

const (
	doneScreenshot   = "form_completion.png"
	failedScreenshot = "error_screenshot.png"

	confirmationTimeout = 30 * time.Second
	fallbackProbe       = 2 * time.Second
)

// Runner walks the orchestration state machine over a single browser session.
// It does not own the session; the caller closes it on every exit path.
type Runner struct {
	driver   Driver
	settings *config.Settings
	form     *config.FormConfig
	testData *config.TestDataConfig
	values   resolver.Values
	state    State
	rec      *recorder.Recorder
	log      *zap.Logger
}

// New builds a runner. testData may be nil when the feature is unused.
func New(driver Driver, settings *config.Settings, form *config.FormConfig, testData *config.TestDataConfig, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		driver:   driver,
		settings: settings,
		form:     form,
		testData: testData,
		values:   resolver.Values{},
		state:    StateInit,
		log:      log,
	}
}

// SetRecorder enables GIF recording of the run.
func (r *Runner) SetRecorder(rec *recorder.Recorder) { r.rec = rec }

// State reports the current state machine position.
func (r *Runner) State() State { return r.state }

// Values exposes the generated token values, mainly for tests.
func (r *Runner) Values() resolver.Values { return r.values }

// Run executes the whole state machine. On return the runner is in StateDone
// or StateFailed and a screenshot artifact has been written either way.
func (r *Runner) Run() error {
	err := r.run()
	if err != nil {
		r.state = StateFailed
	} else {
		r.state = StateDone
	}
	r.finish(err)
	return err
}

func (r *Runner) run() error {
	// Re-check the config so a runner built from a hand-assembled config
	// still fails fast, before any browser interaction.
	if err := r.form.Validate(); err != nil {
		return err
	}

	switch {
	case r.settings.Random:
		r.values = testdata.RandomPerson(r.settings.State)
		r.log.Info("generated random test data", zap.Int("tokens", len(r.values)))
	case r.testData != nil && r.testData.TestDataGeneration.Enabled:
		r.state = StateGeneratingTestData
		values, err := testdata.Scrape(r.driver, &r.testData.TestDataGeneration, r.settings.State, r.settings.Timeout, r.log)
		if err != nil {
			return err
		}
		r.values = values
		r.snap()
	}

	r.state = StateFillingFields
	if err := r.driver.Navigate(r.form.URL); err != nil {
		return err
	}
	r.snap()

	if len(r.form.Pages) > 0 {
		if err := r.fillPages(); err != nil {
			return err
		}
		// Page navigation doubles as submission; a trailing submit spec is
		// optional in multi-page mode.
		if r.form.Submit == nil {
			return nil
		}
	} else {
		if err := r.fillFields(r.form.Fields); err != nil {
			return err
		}
	}

	r.state = StateSubmitting
	if err := r.submit(r.form.Submit); err != nil {
		return err
	}
	r.snap()
	return nil
}

func (r *Runner) fillFields(fields []config.FieldSpec) error {
	for i, f := range fields {
		if err := r.applyFieldRetry(i, f); err != nil {
			return err
		}
		r.snap()
	}
	return nil
}

func (r *Runner) fillPages() error {
	for i := range r.form.Pages {
		page := &r.form.Pages[i]
		name := page.Name
		if name == "" {
			name = fmt.Sprintf("page %d", i+1)
		}
		r.log.Info("processing page", zap.String("page", name))

		if w := page.WaitForPageReady; w != nil {
			if err := r.driver.WaitFor(w.Locator(), w.TimeoutDuration(r.settings.Timeout)); err != nil {
				return fmt.Errorf("page %q not ready: %w", name, err)
			}
		}

		if err := r.fillFields(page.Fields); err != nil {
			if !page.ContinueOnError {
				return err
			}
			r.log.Warn("continuing past field failures", zap.String("page", name), zap.Error(err))
		}

		if page.TakeScreenshot {
			shot := page.ScreenshotName
			if shot == "" {
				shot = fmt.Sprintf("page_%d.png", i+1)
			}
			r.screenshot(shot)
		}

		if i < len(r.form.Pages)-1 {
			if page.Navigation == nil {
				r.log.Warn("no navigation configured", zap.String("page", name))
				continue
			}
			if err := r.navigatePage(page.Navigation); err != nil {
				return fmt.Errorf("navigation from %q failed: %w", name, err)
			}
			r.snap()
		}
	}
	return nil
}

func (r *Runner) navigatePage(nav *config.NavigationSpec) error {
	switch nav.Type {
	case config.NavSubmit:
		if err := r.submit(&config.SubmitSpec{ActionSpec: config.ActionSpec{Selector: nav.Selector, SelectorType: nav.SelectorType}}); err != nil {
			return err
		}
	case config.NavClick:
		if err := r.driver.Click(nav.Locator()); err != nil {
			return err
		}
	case config.NavURL:
		if err := r.driver.Navigate(nav.URL); err != nil {
			return err
		}
	}

	if nav.WaitTime > 0 {
		time.Sleep(time.Duration(nav.WaitTime) * time.Second)
	}
	if w := nav.WaitForElement; w != nil {
		if err := r.driver.WaitFor(w.Locator(), w.TimeoutDuration(r.settings.Timeout)); err != nil {
			return fmt.Errorf("next page did not load: %w", err)
		}
	}
	return nil
}

// submitLabels are the button captions probed when no submit selector is
// configured.
var submitLabels = []string{"submit", "Submit", "SUBMIT", "send", "Send"}

func (r *Runner) submit(spec *config.SubmitSpec) error {
	if spec == nil || spec.Selector == "" {
		return r.submitFallback()
	}
	if err := r.driver.Click(spec.Locator()); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	r.log.Info("form submitted", zap.String("selector", spec.Selector))

	if spec.WaitForConfirmation {
		loc := config.Locator{Query: spec.ConfirmationSelector, Type: spec.ConfirmationSelectorType}
		if err := r.driver.WaitFor(loc, confirmationTimeout); err != nil {
			r.log.Warn("submission confirmation not detected", zap.Error(err))
		} else {
			r.log.Info("form submission confirmed")
		}
	}
	return nil
}

// submitFallback probes common submit-button shapes when the config names no
// selector.
func (r *Runner) submitFallback() error {
	for _, label := range submitLabels {
		loc := config.Locator{
			Query: fmt.Sprintf("//input[@type='submit' and @value='%s']", label),
			Type:  config.SelectorXPath,
		}
		if r.tryClick(loc) {
			return nil
		}
	}
	for _, label := range submitLabels {
		loc := config.Locator{
			Query: fmt.Sprintf("//button[contains(text(), '%s')]", label),
			Type:  config.SelectorXPath,
		}
		if r.tryClick(loc) {
			return nil
		}
	}
	return fmt.Errorf("no submit button found")
}

func (r *Runner) tryClick(loc config.Locator) bool {
	if err := r.driver.WaitFor(loc, fallbackProbe); err != nil {
		return false
	}
	if err := r.driver.Click(loc); err != nil {
		return false
	}
	r.log.Info("form submitted", zap.String("selector", loc.Query))
	return true
}

// finish writes the terminal-state artifacts. It must not fail the run; a
// broken screenshot on top of a failed run helps nobody.
func (r *Runner) finish(runErr error) {
	name := doneScreenshot
	if runErr != nil {
		name = failedScreenshot
	}
	r.screenshot(name)

	if r.rec != nil {
		r.snap()
		if err := r.rec.Save(); err != nil {
			r.log.Warn("gif recording failed", zap.Error(err))
		} else if r.rec.Len() > 0 {
			r.log.Info("run recording saved", zap.Int("frames", r.rec.Len()))
		}
	}
}

func (r *Runner) screenshot(name string) {
	path := filepath.Join(r.settings.ScreenshotDir, name)
	if err := r.driver.Screenshot(path); err != nil {
		r.log.Warn("screenshot failed", zap.String("path", path), zap.Error(err))
		return
	}
	r.log.Info("screenshot saved", zap.String("path", path))
}

// snap records one frame when GIF recording is on.
func (r *Runner) snap() {
	if r.rec == nil {
		return
	}
	img, err := r.driver.CaptureFrame()
	if err != nil {
		return
	}
	r.rec.Add(img)
}
