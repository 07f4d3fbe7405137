package browser

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"sitescope/utils"
)

// Snapshotter drives a running SiteScope server through the intake form in
// headless Chrome and captures the rendered results screen.
type Snapshotter struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
}

// Request describes one snapshot run.
type Request struct {
	BaseURL            string
	ContractorName     string
	CompanyDescription string
	Source             string
	OutputPath         string
}

// New creates a Snapshotter. An empty chromeBin means auto-detect.
func New(chromeBin string, timeout time.Duration, logger *utils.Logger) *Snapshotter {
	if chromeBin == "" {
		chromeBin = FindChromeBinary()
	}
	return &Snapshotter{chromeBin: chromeBin, timeout: timeout, logger: logger}
}

// Capture submits the intake form, waits for the results table and writes a
// full-page PNG to req.OutputPath.
func (s *Snapshotter) Capture(ctx context.Context, req Request) error {
	if req.BaseURL == "" {
		return fmt.Errorf("snapshot: base URL is required")
	}
	base := strings.TrimRight(req.BaseURL, "/")
	s.logger.Info("[browser] Using browser binary: %s", s.chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1440, 900),
	)
	if s.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(s.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelTimeout := context.WithTimeout(browserCtx, s.timeout)
	defer cancelTimeout()

	var png []byte
	actions := []chromedp.Action{
		chromedp.Navigate(base + "/"),
		chromedp.WaitVisible(`#intake-form`, chromedp.ByQuery),
		chromedp.SendKeys(`#contractorName`, req.ContractorName, chromedp.ByQuery),
		chromedp.SendKeys(`#companyDescription`, req.CompanyDescription, chromedp.ByQuery),
		chromedp.Submit(`#intake-form`, chromedp.ByQuery),
		chromedp.WaitVisible(`#results-table`, chromedp.ByQuery),
	}
	if req.Source != "" {
		actions = append(actions,
			chromedp.Navigate(base+"/results?source="+url.QueryEscape(req.Source)),
			chromedp.WaitVisible(`#results-table`, chromedp.ByQuery),
		)
	}
	actions = append(actions, chromedp.FullScreenshot(&png, 100))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return fmt.Errorf("snapshot: chromedp run: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(req.OutputPath, png, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", req.OutputPath, err)
	}

	s.logger.Info("[browser] Saved results snapshot (%d bytes) to %s", len(png), req.OutputPath)
	return nil
}

// FindChromeBinary locates Chrome/Chromium binary.
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
