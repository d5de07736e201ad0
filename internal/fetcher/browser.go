package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	pw "github.com/playwright-community/playwright-go"
)

// Browser renders the page in headless Chromium. It is the last resort for
// pages that only build their article with JavaScript. The browser starts on
// first use and is shared across requests.
type Browser struct {
	timeout   time.Duration
	userAgent string

	mu       sync.Mutex
	pwi      *pw.Playwright
	instance pw.Browser
}

// NewBrowser creates the headless browser strategy
func NewBrowser(userAgent string, timeout time.Duration) *Browser {
	return &Browser{timeout: timeout, userAgent: userAgent}
}

func (b *Browser) Name() string { return "browser" }

func (b *Browser) launch() (pw.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.instance != nil && b.instance.IsConnected() {
		return b.instance, nil
	}

	if b.pwi == nil {
		pwi, err := pw.Run()
		if err != nil {
			return nil, fmt.Errorf("could not start playwright: %w", err)
		}
		b.pwi = pwi
	}

	browser, err := b.pwi.Chromium.Launch(pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}
	b.instance = browser
	return browser, nil
}

func (b *Browser) Attempt(ctx context.Context, target string) (string, error) {
	browser, err := b.launch()
	if err != nil {
		return "", err
	}

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	page, err := browser.NewPage(pw.BrowserNewPageOptions{
		UserAgent: pw.String(b.userAgent),
	})
	if err != nil {
		return "", fmt.Errorf("page creation failed: %w", err)
	}
	defer page.Close()

	type outcome struct {
		html string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		if _, err := page.Goto(target, pw.PageGotoOptions{
			WaitUntil: pw.WaitUntilStateDomcontentloaded,
			Timeout:   pw.Float(float64(timeout.Milliseconds())),
		}); err != nil {
			done <- outcome{err: fmt.Errorf("navigation failed: %w", err)}
			return
		}
		html, err := page.Content()
		done <- outcome{html: html, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case o := <-done:
		return o.html, o.err
	}
}

// Close shuts the browser and the playwright driver down
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	if b.instance != nil {
		if err := b.instance.Close(); err != nil {
			firstErr = err
		}
		b.instance = nil
	}
	if b.pwi != nil {
		if err := b.pwi.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
		b.pwi = nil
	}
	return firstErr
}
