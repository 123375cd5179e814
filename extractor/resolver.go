package extractor

import (
	"context"

	"fragrance-scraper/adapters"
	"fragrance-scraper/internal/types"
)

// Resolver tries image strategies in order and returns the first URL found.
// Strategy failures are logged and never reach the caller.
type Resolver struct {
	strategies []types.ImageStrategy
	logger     types.Logger
}

// NewResolver creates a resolver over strategies, tried in the given order
func NewResolver(logger types.Logger, strategies ...types.ImageStrategy) *Resolver {
	return &Resolver{
		strategies: strategies,
		logger:     logger,
	}
}

// DefaultStrategies returns the product page lookup, the site search and the
// general image search, in that order.
func DefaultStrategies(config *types.Config, logger types.Logger, pages adapters.PageFetcher) []types.ImageStrategy {
	fragrantica := adapters.NewFragranticaAdapter(config, logger, pages)
	return []types.ImageStrategy{
		fragrantica.DirectLookup(),
		fragrantica.SiteSearch(),
		adapters.NewImageSearchAdapter(config, logger, pages),
	}
}

// Strategies returns the configured strategies
func (r *Resolver) Strategies() []types.ImageStrategy {
	return r.strategies
}

// Resolve returns an image URL for entry, or "" when no strategy found one
func (r *Resolver) Resolve(ctx context.Context, entry types.CatalogEntry) string {
	for _, strategy := range r.strategies {
		if ctx.Err() != nil {
			return ""
		}

		r.logger.Infof("  Checking %s...", strategy.Name())
		imageURL, err := strategy.FindImage(ctx, entry)
		if err != nil {
			r.logger.Warnf("  ✗ Error accessing %s: %v", strategy.Name(), err)
			continue
		}
		if imageURL == "" {
			r.logger.Debugf("  No image on %s", strategy.Name())
			continue
		}

		r.logger.Infof("  ✓ Found on %s", strategy.Name())
		return imageURL
	}

	r.logger.Infof("  ✗ No image found")
	return ""
}
