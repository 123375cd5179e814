package types

import (
	"context"
	"time"
)

// CatalogEntry is one (brand, fragrance) pair read from the catalog
type CatalogEntry struct {
	Brand string
	Name  string
}

// OutcomeRecord is the manifest entry for one catalog entry.
// LocalPath is only set when ImageURL is set and the download succeeded.
type OutcomeRecord struct {
	Brand     string  `json:"brand"`
	Name      string  `json:"name"`
	ImageURL  *string `json:"image_url"`
	LocalPath *string `json:"local_path"`
}

// Succeeded reports whether the image was downloaded
func (r OutcomeRecord) Succeeded() bool {
	return r.LocalPath != nil
}

// Config holds the configuration for the scraper
type Config struct {
	CatalogPath  string
	ImagesDir    string
	PublicPrefix string
	ManifestPath string

	RequestDelay     time.Duration
	Timeout          time.Duration
	UserAgent        string
	CloudflareBypass bool

	UseHeadlessBrowser bool
	BrowserTimeout     time.Duration

	FragranticaBaseURL string
	ImageSearchURL     string

	APIPort int
}

// DefaultUserAgent is sent on every request
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CatalogPath:        "src/data/products.csv",
		ImagesDir:          "public/images/fragrances",
		PublicPrefix:       "/images/fragrances",
		ManifestPath:       "src/data/fragrance_images.json",
		RequestDelay:       2 * time.Second,
		Timeout:            0,
		UserAgent:          DefaultUserAgent,
		UseHeadlessBrowser: false,
		BrowserTimeout:     30 * time.Second,
		FragranticaBaseURL: "https://www.fragrantica.com",
		ImageSearchURL:     "https://www.google.com/search",
		APIPort:            8080,
	}
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// ImageStrategy is one way of finding an image URL for a catalog entry.
// An empty URL with a nil error means the strategy ran and found nothing.
type ImageStrategy interface {
	// Name is used in progress and diagnostic output
	Name() string

	// FindImage returns a candidate image URL for entry
	FindImage(ctx context.Context, entry CatalogEntry) (string, error)
}
