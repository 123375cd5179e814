package utils

import (
	"context"
	"fmt"
	"io"

	"fragrance-scraper/internal/types"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// StatusError is returned when a host answers with a non-success status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Page is a fetched HTML page
type Page struct {
	URL        string
	StatusCode int
	Body       string
}

// OK reports whether the page was served with a 2xx status
func (p *Page) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// HTTPClient performs single GET requests with a browser-like user agent.
// There is no retry and no rate limiting here; pacing belongs to the caller.
type HTTPClient struct {
	client *resty.Client
	config *types.Config
	logger types.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config *types.Config, logger types.Logger) *HTTPClient {
	client := resty.New()
	client.SetHeader("User-Agent", config.UserAgent)
	client.SetHeader("Accept-Language", "en-US,en;q=0.5")
	if config.Timeout > 0 {
		client.SetTimeout(config.Timeout)
	}
	if config.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}
}

// Get fetches a page whatever its status. Only transport failures are errors.
func (h *HTTPClient) Get(ctx context.Context, url string) (*Page, error) {
	h.logger.Debugf("Making request to %s", url)

	resp, err := h.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	h.logger.Debugf("Retrieved %d bytes from %s (status %d)", len(resp.Body()), url, resp.StatusCode())
	return &Page{
		URL:        url,
		StatusCode: resp.StatusCode(),
		Body:       resp.String(),
	}, nil
}

// Stream copies the response body of url into w without buffering it whole.
// Nothing is written when the status is not 2xx.
func (h *HTTPClient) Stream(ctx context.Context, url string, w io.Writer) (int64, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return 0, &StatusError{URL: url, StatusCode: resp.StatusCode()}
	}

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("failed to read response body: %w", err)
	}

	h.logger.Debugf("Streamed %d bytes from %s", n, url)
	return n, nil
}

// Close cleans up resources
func (h *HTTPClient) Close() {
	h.client.GetClient().CloseIdleConnections()
}
