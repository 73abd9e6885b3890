package runner

import (
	"image"
	"time"

	"github.com/krelv/formpilot/internal/config"
)

// Driver is the browser surface the runner drives. *browser.Session satisfies
// it; tests substitute a scripted fake.
type Driver interface {
	Navigate(url string) error
	Fill(loc config.Locator, text string) error
	SelectText(loc config.Locator, label string) error
	SelectValue(loc config.Locator, value string) error
	Click(loc config.Locator) error
	Upload(loc config.Locator, path string) error
	ReadValue(loc config.Locator) (string, error)
	WaitFor(loc config.Locator, timeout time.Duration) error
	Screenshot(path string) error
	CaptureFrame() (image.Image, error)
}
