// Package capture rasterizes rendered pages with headless Chrome and merges
// the page images into the single delivered picture.
package capture

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"kidsnews/internal/logging"
	"kidsnews/internal/record"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Config holds browser settings. Zero values fall back to an A4 page at
// 96 DPI captured at double resolution.
type Config struct {
	// DebuggerURL connects to a running Chrome instead of launching one.
	DebuggerURL         string  `yaml:"debugger_url"`
	Bin                 string  `yaml:"bin"`
	Headless            bool    `yaml:"headless"`
	Width               int     `yaml:"width"`
	Height              int     `yaml:"height"`
	Scale               float64 `yaml:"scale"`
	NavigationTimeoutMs int     `yaml:"navigation_timeout_ms"`
}

// DefaultConfig returns the A4 capture settings.
func DefaultConfig() Config {
	return Config{
		Headless:            true,
		Width:               794,
		Height:              1123,
		Scale:               2,
		NavigationTimeoutMs: 30000,
	}
}

// GetWidth returns the viewport width.
func (c Config) GetWidth() int {
	if c.Width == 0 {
		return 794
	}
	return c.Width
}

// GetHeight returns the viewport height.
func (c Config) GetHeight() int {
	if c.Height == 0 {
		return 1123
	}
	return c.Height
}

// GetScale returns the device scale factor.
func (c Config) GetScale() float64 {
	if c.Scale <= 0 {
		return 2
	}
	return c.Scale
}

// NavigationTimeout returns the per-page load timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// Browser screenshots local HTML files.
type Browser struct {
	cfg Config
	log *zap.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launched *launcher.Launcher
}

// NewBrowser creates a Browser. Chrome starts on first use.
func NewBrowser(cfg Config, log *zap.Logger) *Browser {
	return &Browser{cfg: cfg, log: logging.Get(log, logging.CategoryCapture)}
}

// Start connects to DebuggerURL or launches Chrome.
func (b *Browser) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		if _, err := b.browser.Version(); err == nil {
			return nil
		}
		b.log.Warn("stale browser connection, reconnecting")
		_ = b.browser.Close()
		b.browser = nil
	}

	controlURL := b.cfg.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(b.cfg.Headless)
		if b.cfg.Bin != "" {
			l = l.Bin(b.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("failed to launch chrome: %w", err)
		}
		controlURL = u
		b.launched = l
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("failed to connect to chrome: %w", err)
	}
	b.browser = browser
	return nil
}

// Shutdown closes the browser and any Chrome process it launched.
func (b *Browser) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launched != nil {
		b.launched.Kill()
		b.launched = nil
	}
	return err
}

// Screenshot loads htmlPath at the configured viewport and returns a PNG of
// the viewport only.
func (b *Browser) Screenshot(ctx context.Context, htmlPath string) ([]byte, error) {
	if err := b.Start(ctx); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	browser := b.browser
	b.mu.Unlock()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             b.cfg.GetWidth(),
		Height:            b.cfg.GetHeight(),
		DeviceScaleFactor: b.cfg.GetScale(),
		Mobile:            false,
	}).Call(page); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	timed := page.Timeout(b.cfg.NavigationTimeout())
	if err := timed.Navigate("file://" + filepath.ToSlash(abs)); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", htmlPath, err)
	}
	if err := timed.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", htmlPath, err)
	}

	return page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// CapturePages screenshots every htmlFiles entry in dir into a PNG of the
// same base name. It returns the PNG paths that were written; a page that
// fails is logged and skipped.
func (b *Browser) CapturePages(ctx context.Context, dir string, htmlFiles ...string) []string {
	var written []string
	for _, name := range htmlFiles {
		src := filepath.Join(dir, name)
		out := src[:len(src)-len(filepath.Ext(src))] + ".png"

		data, err := b.Screenshot(ctx, src)
		if err != nil {
			b.log.Error("page capture failed", zap.String("page", name), zap.Error(err))
			continue
		}
		if err := record.WriteFileAtomic(out, data, 0o644); err != nil {
			b.log.Error("failed to save capture", zap.String("page", name), zap.Error(err))
			continue
		}
		b.log.Info("page captured", zap.String("file", filepath.Base(out)))
		written = append(written, out)
	}
	return written
}
