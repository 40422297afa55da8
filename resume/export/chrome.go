package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"resume-builder/resume/preview"
)

// ChromeCapturer screenshots a surface in headless Chrome.
type ChromeCapturer struct {
	// ExecPath overrides the browser binary. Empty uses the default lookup.
	ExecPath string
	Timeout  time.Duration
}

func NewChromeCapturer(execPath string, timeout time.Duration) *ChromeCapturer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChromeCapturer{ExecPath: execPath, Timeout: timeout}
}

func (c *ChromeCapturer) Capture(ctx context.Context, surface *preview.Surface, opts CaptureOptions) (image.Image, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	width, height := surface.Dimensions()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if opts.AllowCrossOrigin {
		allocOpts = append(allocOpts, chromedp.Flag("disable-web-security", true))
	}
	if c.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()
	runCtx, cancelRun := context.WithTimeout(cctx, c.Timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resume-capture-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		return nil, err
	}
	if _, err := surface.WriteTo(f); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	var shot []byte
	err = chromedp.Run(runCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDeviceMetricsOverride(int64(width), int64(height), scale, false).Do(ctx)
		}),
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("#resume-preview", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			shot, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithClip(&page.Viewport{X: 0, Y: 0, Width: float64(width), Height: float64(height), Scale: 1}).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome capture: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}
