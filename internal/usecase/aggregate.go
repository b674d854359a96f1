package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"MarketSnap/internal/catalog"
	"MarketSnap/internal/domain/models"
	"MarketSnap/internal/service/cache"
)

// Aggregator fetches every section for a window, behind the aggregation cache.
type Aggregator struct {
	catalog    *catalog.Catalog
	fetcher    *SourceFetcher
	compliance *ComplianceResolver
	cache      *cache.AggregationCache
	now        func() time.Time
}

func NewAggregator(cat *catalog.Catalog, f *SourceFetcher, cr *ComplianceResolver, c *cache.AggregationCache) *Aggregator {
	return &Aggregator{catalog: cat, fetcher: f, compliance: cr, cache: c, now: time.Now}
}

// Bundle returns the cached bundle for days, refetching when refresh is set.
func (a *Aggregator) Bundle(ctx context.Context, days int, refresh bool) (*models.Bundle, error) {
	if refresh {
		a.cache.Invalidate(ctx, days)
	}
	return a.cache.Get(ctx, days, a.Load)
}

// Load fetches all three sections uncached.
func (a *Aggregator) Load(ctx context.Context, days int) (*models.Bundle, error) {
	b := &models.Bundle{Window: days, FetchedAt: a.now().UTC()}

	var g errgroup.Group
	g.Go(func() error {
		b.Commodities = a.fetcher.FetchCatalog(ctx, models.ClassCommodities, a.catalog.Commodities, days)
		return nil
	})
	g.Go(func() error {
		b.FX = a.fetcher.FetchCatalog(ctx, models.ClassFX, a.catalog.FX, days)
		return nil
	})
	g.Go(func() error {
		b.Compliance = a.compliance.Resolve(ctx, a.catalog.Compliance, days)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b, nil
}
