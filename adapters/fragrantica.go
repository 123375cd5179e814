package adapters

import (
	"context"
	"fmt"
	"strings"

	"fragrance-scraper/internal/types"
)

// ProductImageSelectors are tried in order on a product page
var ProductImageSelectors = []string{
	"img.perfume-presentation",
	"img.perfume-big",
	"img[itemprop='image']",
}

// SearchResultImageSelectors are tried on the search results page
var SearchResultImageSelectors = []string{
	"img.perfume-big",
}

// FragranticaAdapter looks fragrances up on the fragrance database, first at
// the canonical product page and then through the site search.
type FragranticaAdapter struct {
	*BaseAdapter
	baseURL string
}

// NewFragranticaAdapter creates a new Fragrantica adapter
func NewFragranticaAdapter(config *types.Config, logger types.Logger, pages PageFetcher) *FragranticaAdapter {
	return &FragranticaAdapter{
		BaseAdapter: NewBaseAdapter(config, logger, pages),
		baseURL:     strings.TrimRight(config.FragranticaBaseURL, "/"),
	}
}

// BrandSlug turns a brand into the path segment used by product pages
func BrandSlug(brand string) string {
	slug := strings.ReplaceAll(brand, " ", "-")
	return strings.ReplaceAll(slug, "&", "and")
}

// NameSlug turns a fragrance name into the page name used by product pages
func NameSlug(name string) string {
	return strings.NewReplacer(" ", "-", "(", "", ")", "", ".", "").Replace(name)
}

// ProductURL is the canonical product page for entry
func (f *FragranticaAdapter) ProductURL(entry types.CatalogEntry) string {
	return fmt.Sprintf("%s/perfume/%s/%s.html", f.baseURL, BrandSlug(entry.Brand), NameSlug(entry.Name))
}

// SearchURL is the site search for entry
func (f *FragranticaAdapter) SearchURL(entry types.CatalogEntry) string {
	return fmt.Sprintf("%s/search/?q=%s", f.baseURL, escapeQuery(entry.Brand+" "+entry.Name))
}

// DirectLookup returns the product page strategy
func (f *FragranticaAdapter) DirectLookup() types.ImageStrategy {
	return &selectorStrategy{
		name:      "Fragrantica",
		adapter:   f,
		pageURL:   f.ProductURL,
		selectors: ProductImageSelectors,
	}
}

// SiteSearch returns the site search strategy
func (f *FragranticaAdapter) SiteSearch() types.ImageStrategy {
	return &selectorStrategy{
		name:      "Fragrantica search",
		adapter:   f,
		pageURL:   f.SearchURL,
		selectors: SearchResultImageSelectors,
	}
}

// selectorStrategy fetches one page and reads the src of the first matching image
type selectorStrategy struct {
	name      string
	adapter   *FragranticaAdapter
	pageURL   func(types.CatalogEntry) string
	selectors []string
}

func (s *selectorStrategy) Name() string {
	return s.name
}

func (s *selectorStrategy) FindImage(ctx context.Context, entry types.CatalogEntry) (string, error) {
	pageURL := s.pageURL(entry)
	s.adapter.logger.Debugf("Fetching %s", pageURL)

	doc, err := s.adapter.GetOKDocument(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", pageURL, err)
	}

	src, ok := s.adapter.FirstAttribute(doc, s.selectors, "src")
	if !ok {
		return "", nil
	}
	return src, nil
}
