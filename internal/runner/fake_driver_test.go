package runner

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/krelv/formpilot/internal/config"
)

// fakeDriver records every call in order and returns scripted errors, so
// tests can assert exact interaction sequences without a browser.
type fakeDriver struct {
	calls []string
	// errs maps an op key ("fill id:name") to a queue of results; a missing
	// key means success.
	errs map[string][]error
	// waitErr, when set, is returned by WaitFor for any unscripted locator.
	waitErr error
	// reads maps a locator key to the value ReadValue returns.
	reads map[string]string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{errs: map[string][]error{}, reads: map[string]string{}}
}

func key(loc config.Locator) string {
	return fmt.Sprintf("%s:%s", loc.Type, loc.Query)
}

func (d *fakeDriver) fail(op string, errs ...error) {
	d.errs[op] = append(d.errs[op], errs...)
}

func (d *fakeDriver) pop(op string) error {
	queue := d.errs[op]
	if len(queue) == 0 {
		return nil
	}
	d.errs[op] = queue[1:]
	return queue[0]
}

func (d *fakeDriver) record(op string) error {
	d.calls = append(d.calls, op)
	return d.pop(op)
}

// count reports how many recorded calls start with prefix.
func (d *fakeDriver) count(prefix string) int {
	n := 0
	for _, c := range d.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (d *fakeDriver) Navigate(url string) error {
	return d.record("navigate " + url)
}

func (d *fakeDriver) Fill(loc config.Locator, text string) error {
	return d.record(fmt.Sprintf("fill %s %s", key(loc), text))
}

func (d *fakeDriver) SelectText(loc config.Locator, label string) error {
	return d.record(fmt.Sprintf("select_text %s %s", key(loc), label))
}

func (d *fakeDriver) SelectValue(loc config.Locator, value string) error {
	return d.record(fmt.Sprintf("select_value %s %s", key(loc), value))
}

func (d *fakeDriver) Click(loc config.Locator) error {
	return d.record("click " + key(loc))
}

func (d *fakeDriver) Upload(loc config.Locator, path string) error {
	return d.record(fmt.Sprintf("upload %s %s", key(loc), path))
}

func (d *fakeDriver) ReadValue(loc config.Locator) (string, error) {
	if err := d.record("read " + key(loc)); err != nil {
		return "", err
	}
	v, ok := d.reads[key(loc)]
	if !ok {
		return "", errors.New("no scripted value for " + key(loc))
	}
	return v, nil
}

func (d *fakeDriver) WaitFor(loc config.Locator, _ time.Duration) error {
	op := "wait " + key(loc)
	d.calls = append(d.calls, op)
	if queue := d.errs[op]; len(queue) > 0 {
		d.errs[op] = queue[1:]
		return queue[0]
	}
	return d.waitErr
}

func (d *fakeDriver) Screenshot(path string) error {
	return d.record("screenshot " + path)
}

func (d *fakeDriver) CaptureFrame() (image.Image, error) {
	d.calls = append(d.calls, "frame")
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}
