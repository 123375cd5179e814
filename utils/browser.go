package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"fragrance-scraper/internal/types"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// BrowserClient provides headless browser functionality
type BrowserClient struct {
	config *types.Config
	logger types.Logger
}

// NewBrowserClient creates a new browser client
func NewBrowserClient(config *types.Config, logger types.Logger) *BrowserClient {
	// Suppress chromedp debug logging
	log.SetOutput(io.Discard)

	return &BrowserClient{
		config: config,
		logger: logger,
	}
}

// Get renders url in a headless browser and returns the resulting document.
// The status is taken from the first document response the browser receives;
// if none was seen it is reported as 200.
func (b *BrowserClient) Get(ctx context.Context, url string) (*Page, error) {
	browserCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.config.BrowserTimeout)
	defer cancel()

	status := &documentStatus{}
	chromedp.ListenTarget(browserCtx, status.captureEvent)

	var html string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get page content: %w", err)
	}

	code := status.code()
	b.logger.Debugf("Rendered page content from %s (%d bytes, status %d)", url, len(html), code)
	return &Page{URL: url, StatusCode: code, Body: html}, nil
}

// documentStatus records the status of the main document. Redirects do not
// produce a response event, so the first document seen is the page itself.
type documentStatus struct {
	mu     sync.Mutex
	status int
}

func (d *documentStatus) captureEvent(ev any) {
	if resp, ok := ev.(*network.EventResponseReceived); ok {
		d.capture(resp)
	}
}

func (d *documentStatus) capture(event *network.EventResponseReceived) {
	if event.Type != network.ResourceTypeDocument || event.Response == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status == 0 {
		d.status = int(event.Response.Status)
	}
}

func (d *documentStatus) code() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status == 0 {
		return http.StatusOK
	}
	return d.status
}
