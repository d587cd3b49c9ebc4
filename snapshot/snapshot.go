// Package snapshot captures the rendered dashboard as a PNG with headless Chrome.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"reviews-dashboard/utils"
)

// renderWait gives plotly time to draw after the page's load event.
const renderWait = 3 * time.Second

// attemptTimeout bounds a single capture attempt, browser start included.
const attemptTimeout = 60 * time.Second

// Capturer drives a headless Chrome instance.
type Capturer struct {
	chromeBin string
	width     int64
	height    int64
	logger    *utils.Logger
	retry     *utils.RetryConfig

	newTab func(parent context.Context) (context.Context, context.CancelFunc)
	run    func(ctx context.Context, actions ...chromedp.Action) error
}

// New creates a Capturer. An empty chromeBin searches the usual install paths.
func New(chromeBin string, maxRetries int, logger *utils.Logger) *Capturer {
	if chromeBin == "" {
		chromeBin = FindChromeBinary()
	}
	c := &Capturer{
		chromeBin: chromeBin,
		width:     1600,
		height:    1200,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		run: chromedp.Run,
	}
	c.newTab = func(parent context.Context) (context.Context, context.CancelFunc) {
		return chromedp.NewContext(parent, chromedp.WithLogf(c.logger.Debug))
	}
	return c
}

// AllocatorOptions returns the flags used to launch Chrome.
func (c *Capturer) AllocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WindowSize(int(c.width), int(c.height)),
	)
	if c.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(c.chromeBin))
	}
	return opts
}

// Capture loads url and writes a full-page PNG to out.
func (c *Capturer) Capture(ctx context.Context, url, out string) error {
	c.logger.Info("[snapshot] Using browser binary: %s", c.chromeBin)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.AllocatorOptions()...)
	defer cancelAlloc()

	// Every attempt gets its own browser: cancelling a tab context that
	// started the browser also shuts the browser down.
	var png []byte
	err := c.retry.Do(allocCtx, "capture-dashboard", func(ctx context.Context) error {
		tabCtx, cancelTab := c.newTab(ctx)
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, attemptTimeout)
		defer cancelTimeout()

		return c.run(tabCtx,
			chromedp.Navigate(url),
			chromedp.WaitReady(`#sentiment-top`, chromedp.ByQuery),
			chromedp.Sleep(renderWait),
			chromedp.FullScreenshot(&png, 100),
		)
	})
	if err != nil {
		return fmt.Errorf("snapshot: capture %s: %w", url, err)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(out, png, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", out, err)
	}

	c.logger.Info("[snapshot] Saved %d bytes to %s", len(png), out)
	return nil
}

// FindChromeBinary locates a Chrome/Chromium binary, preferring CHROME_BIN.
func FindChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
