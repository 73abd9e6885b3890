// Package browser wraps go-rod behind the small driver surface the rest of
// the tool needs: navigate, locate by selector type, interact, capture.
package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Options configures a browser session.
type Options struct {
	Headless    bool
	BrowserPath string // overrides the automatic browser binary lookup
	Timeout     time.Duration
	Width       int
	Height      int
	Logger      *zap.Logger
}

// Session owns one browser process and one page for the lifetime of a run.
// Callers must Close it on every exit path.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
	log     *zap.Logger
}

// Launch starts the browser and opens a blank page.
func Launch(opts Options) (*Session, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Width == 0 {
		opts.Width = 1920
	}
	if opts.Height == 0 {
		opts.Height = 1080
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	bin := opts.BrowserPath
	if bin == "" {
		bin, _ = launcher.LookPath()
	}
	l := launcher.New().Bin(bin).Headless(opts.Headless).NoSandbox(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	log.Debug("browser session started",
		zap.Bool("headless", opts.Headless),
		zap.Duration("timeout", opts.Timeout))

	return &Session{browser: b, page: page, timeout: opts.Timeout, log: log}, nil
}

// Close releases the page and the browser process.
func (s *Session) Close() {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	s.log.Debug("browser session closed")
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(url string) error {
	if err := s.page.Navigate(url); err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	if err := s.page.Timeout(s.timeout).WaitLoad(); err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	s.log.Info("page loaded", zap.String("url", url))
	return nil
}
