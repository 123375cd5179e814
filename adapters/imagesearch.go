package adapters

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"fragrance-scraper/filter"
	"fragrance-scraper/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// CandidateExtractor pulls candidate image URLs out of a search results page.
// raw is the page source the document was parsed from.
type CandidateExtractor func(doc *goquery.Document, raw string) []string

const (
	originalURLKey = `"ou":"`
	valueDelimiter = `","`
)

var imageURLPattern = regexp.MustCompile(`https?://[^"']+?(?:jpg|jpeg|png|webp)`)

// DefaultCandidateExtractors run in this order; their results are pooled
var DefaultCandidateExtractors = []CandidateExtractor{
	ScriptOriginalURLs,
	LazySourceURLs,
	AbsoluteSourceURLs,
	ImageExtensionURLs,
}

// ImageSearchAdapter queries a general image search engine and picks the first
// pooled candidate that passes the relevance filter.
type ImageSearchAdapter struct {
	*BaseAdapter
	searchURL  string
	extractors []CandidateExtractor
}

// NewImageSearchAdapter creates a new image search adapter
func NewImageSearchAdapter(config *types.Config, logger types.Logger, pages PageFetcher) *ImageSearchAdapter {
	return &ImageSearchAdapter{
		BaseAdapter: NewBaseAdapter(config, logger, pages),
		searchURL:   config.ImageSearchURL,
		extractors:  DefaultCandidateExtractors,
	}
}

// WithExtractors replaces the candidate extractors
func (a *ImageSearchAdapter) WithExtractors(extractors ...CandidateExtractor) *ImageSearchAdapter {
	a.extractors = extractors
	return a
}

// Name returns the strategy name
func (a *ImageSearchAdapter) Name() string {
	return "Google Images"
}

// QueryURL is the image search for entry
func (a *ImageSearchAdapter) QueryURL(entry types.CatalogEntry) string {
	query := fmt.Sprintf("%s %s perfume bottle", entry.Brand, entry.Name)
	return fmt.Sprintf("%s?q=%s&tbm=isch", a.searchURL, escapeQuery(query))
}

// FindImage runs the search and returns the first relevant candidate
func (a *ImageSearchAdapter) FindImage(ctx context.Context, entry types.CatalogEntry) (string, error) {
	candidates, err := a.Candidates(ctx, entry)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[0], nil
}

// Candidates returns every relevant candidate, deduplicated in first-seen order
func (a *ImageSearchAdapter) Candidates(ctx context.Context, entry types.CatalogEntry) ([]string, error) {
	queryURL := a.QueryURL(entry)
	page, err := a.GetPage(ctx, queryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to search images: %w", err)
	}

	doc, err := a.ParseHTML(page.Body)
	if err != nil {
		return nil, err
	}

	var relevant []string
	for _, extract := range a.extractors {
		for _, candidate := range extract(doc, page.Body) {
			if filter.IsRelevant(candidate, entry.Brand, entry.Name) {
				relevant = append(relevant, candidate)
			}
		}
	}

	unique := a.RemoveDuplicateURLs(relevant)
	a.logger.Debugf("Image search for %s %s produced %d relevant candidates", entry.Brand, entry.Name, len(unique))
	return unique, nil
}

// ScriptOriginalURLs reads every "ou" value embedded in inline scripts
func ScriptOriginalURLs(doc *goquery.Document, _ string) []string {
	var urls []string
	doc.Find("script").Each(func(i int, s *goquery.Selection) {
		content := s.Text()
		if !strings.Contains(content, originalURLKey) {
			return
		}
		urls = append(urls, scanOriginalURLs(content)...)
	})
	return urls
}

func scanOriginalURLs(content string) []string {
	var urls []string
	pos := 0
	for {
		idx := strings.Index(content[pos:], originalURLKey)
		if idx < 0 {
			break
		}
		start := pos + idx + len(originalURLKey)
		end := strings.Index(content[start:], valueDelimiter)
		if end < 0 {
			break
		}
		if end > 0 {
			urls = append(urls, content[start:start+end])
		}
		pos = start + end
	}
	return urls
}

// LazySourceURLs reads data-src from image elements
func LazySourceURLs(doc *goquery.Document, _ string) []string {
	var urls []string
	doc.Find("img[data-src]").Each(func(i int, s *goquery.Selection) {
		urls = append(urls, s.AttrOr("data-src", ""))
	})
	return urls
}

// AbsoluteSourceURLs reads src from image elements when it is an absolute URL
func AbsoluteSourceURLs(doc *goquery.Document, _ string) []string {
	var urls []string
	doc.Find("img[src]").Each(func(i int, s *goquery.Selection) {
		if src := s.AttrOr("src", ""); strings.HasPrefix(src, "http") {
			urls = append(urls, src)
		}
	})
	return urls
}

// ImageExtensionURLs matches absolute URLs ending in an image extension anywhere in the page source
func ImageExtensionURLs(_ *goquery.Document, raw string) []string {
	return imageURLPattern.FindAllString(raw, -1)
}
