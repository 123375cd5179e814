package extractor

import (
	"context"
	"time"

	"fragrance-scraper/internal/types"
)

// ImageResolver finds an image URL for one entry; "" means none
type ImageResolver interface {
	Resolve(ctx context.Context, entry types.CatalogEntry) string
}

// ImageDownloader stores the image at url and returns its public path
type ImageDownloader interface {
	Download(ctx context.Context, url string, entry types.CatalogEntry) (string, error)
}

// Driver processes a catalog one entry at a time
type Driver struct {
	resolver   ImageResolver
	downloader ImageDownloader
	delay      time.Duration
	logger     types.Logger
}

// NewDriver creates a new driver that waits delay between entries
func NewDriver(resolver ImageResolver, downloader ImageDownloader, delay time.Duration, logger types.Logger) *Driver {
	return &Driver{
		resolver:   resolver,
		downloader: downloader,
		delay:      delay,
		logger:     logger,
	}
}

// Run produces one record per entry, in catalog order. Each entry is tried
// once. When ctx is cancelled the records gathered so far are returned with
// ctx.Err().
func (d *Driver) Run(ctx context.Context, entries []types.CatalogEntry) ([]types.OutcomeRecord, error) {
	total := len(entries)
	results := make([]types.OutcomeRecord, 0, total)

	d.logger.Infof("Starting to scrape %d fragrances...", total)

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		d.logger.Infof("[%d/%d] Searching for %s %s...", i+1, total, entry.Brand, entry.Name)
		results = append(results, d.process(ctx, entry))

		if i < total-1 {
			if err := d.wait(ctx); err != nil {
				return results, err
			}
		}
	}

	return results, ctx.Err()
}

func (d *Driver) process(ctx context.Context, entry types.CatalogEntry) types.OutcomeRecord {
	record := types.OutcomeRecord{
		Brand: entry.Brand,
		Name:  entry.Name,
	}

	imageURL := d.resolver.Resolve(ctx, entry)
	if imageURL == "" {
		return record
	}
	record.ImageURL = &imageURL

	d.logger.Infof("  Downloading image...")
	localPath, err := d.downloader.Download(ctx, imageURL, entry)
	if err != nil {
		d.logger.Warnf("  ✗ Download failed for %s %s: %v", entry.Brand, entry.Name, err)
		return record
	}

	d.logger.Infof("  ✓ Download successful")
	record.LocalPath = &localPath
	return record
}

func (d *Driver) wait(ctx context.Context) error {
	if d.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
