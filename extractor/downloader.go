package extractor

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"fragrance-scraper/internal/types"
)

// DefaultImageExtension is used when the image URL path has none
const DefaultImageExtension = ".jpg"

// Streamer copies the body of a successful GET into w
type Streamer interface {
	Stream(ctx context.Context, url string, w io.Writer) (int64, error)
}

// Downloader stores images under a fixed directory with names derived from
// the catalog entry. A later entry with the same derived name overwrites the
// earlier file.
type Downloader struct {
	client       Streamer
	imagesDir    string
	publicPrefix string
	logger       types.Logger
	written      map[string]bool
}

// NewDownloader creates the images directory if needed and returns a downloader writing into it
func NewDownloader(config *types.Config, logger types.Logger, client Streamer) (*Downloader, error) {
	if strings.TrimSpace(config.ImagesDir) == "" {
		return nil, fmt.Errorf("images directory is required")
	}

	info, err := os.Stat(config.ImagesDir)
	switch {
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(config.ImagesDir, 0o755); mkErr != nil {
			return nil, fmt.Errorf("failed to create images directory: %w", mkErr)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to stat images directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("images directory path %s is not a directory", config.ImagesDir)
	}

	return &Downloader{
		client:       client,
		imagesDir:    config.ImagesDir,
		publicPrefix: strings.TrimRight(config.PublicPrefix, "/"),
		logger:       logger,
		written:      make(map[string]bool),
	}, nil
}

// Filename derives the stored file name for an entry and its image URL
func Filename(brand, name, imageURL string) string {
	slug := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), " ", "-")
	}

	ext := ""
	if parsed, err := url.Parse(imageURL); err == nil {
		ext = path.Ext(parsed.Path)
	}
	if ext == "" {
		ext = DefaultImageExtension
	}
	return fmt.Sprintf("%s-%s%s", slug(brand), slug(name), ext)
}

// Download fetches imageURL and stores it, returning the public path of the file
func (d *Downloader) Download(ctx context.Context, imageURL string, entry types.CatalogEntry) (string, error) {
	filename := Filename(entry.Brand, entry.Name, imageURL)
	target := filepath.Join(d.imagesDir, filename)
	if filepath.Dir(target) != filepath.Clean(d.imagesDir) {
		return "", fmt.Errorf("derived filename %q leaves the images directory", filename)
	}

	tmp, err := os.CreateTemp(d.imagesDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := d.client.Stream(ctx, imageURL, tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to download %s: %w", imageURL, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}

	if d.written[filename] {
		d.logger.Warnf("  Overwriting %s written earlier in this run", filename)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", filename, err)
	}
	d.written[filename] = true

	return d.publicPrefix + "/" + filename, nil
}
