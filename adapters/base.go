package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"fragrance-scraper/internal/types"
	"fragrance-scraper/utils"

	"github.com/PuerkitoBio/goquery"
)

// PageFetcher returns the HTML of a page. Both the plain HTTP client and the
// headless browser client satisfy it.
type PageFetcher interface {
	Get(ctx context.Context, url string) (*utils.Page, error)
}

// BaseAdapter provides common functionality for image source adapters:
// page retrieval, HTML parsing and selector helpers.
type BaseAdapter struct {
	config *types.Config
	logger types.Logger
	pages  PageFetcher
}

// NewBaseAdapter creates a base adapter that reads pages through pages
func NewBaseAdapter(config *types.Config, logger types.Logger, pages PageFetcher) *BaseAdapter {
	return &BaseAdapter{
		config: config,
		logger: logger,
		pages:  pages,
	}
}

// NewPageFetcher picks the headless browser when UseHeadlessBrowser is set,
// the plain HTTP client otherwise.
func NewPageFetcher(config *types.Config, logger types.Logger, httpClient *utils.HTTPClient) PageFetcher {
	if config.UseHeadlessBrowser {
		return utils.NewBrowserClient(config, logger)
	}
	return httpClient
}

// GetPage fetches url whatever its status
func (b *BaseAdapter) GetPage(ctx context.Context, url string) (*utils.Page, error) {
	return b.pages.Get(ctx, url)
}

// GetOKDocument fetches url and parses it, failing on a non-2xx status
func (b *BaseAdapter) GetOKDocument(ctx context.Context, url string) (*goquery.Document, error) {
	page, err := b.pages.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if !page.OK() {
		return nil, &utils.StatusError{URL: url, StatusCode: page.StatusCode}
	}
	return b.ParseHTML(page.Body)
}

// ParseHTML parses HTML content into a goquery document
func (b *BaseAdapter) ParseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// FirstAttribute tries selectors in order and returns the attribute value of
// the first element that carries a non-empty one.
func (b *BaseAdapter) FirstAttribute(doc *goquery.Document, selectors []string, attribute string) (string, bool) {
	for _, selector := range selectors {
		value := ""
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if v, ok := s.Attr(attribute); ok && strings.TrimSpace(v) != "" {
				value = strings.TrimSpace(v)
				return false
			}
			return true
		})
		if value != "" {
			b.logger.Debugf("Selector %s matched %s", selector, value)
			return value, true
		}
		b.logger.Debugf("Selector %s found nothing", selector)
	}
	return "", false
}

// RemoveDuplicateURLs removes duplicate URLs, keeping first-seen order
func (b *BaseAdapter) RemoveDuplicateURLs(urls []string) []string {
	seen := make(map[string]bool)
	var uniqueURLs []string

	for _, url := range urls {
		if !seen[url] {
			seen[url] = true
			uniqueURLs = append(uniqueURLs, url)
		}
	}

	return uniqueURLs
}

// escapeQuery percent-encodes a query value with spaces as %20
func escapeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}
