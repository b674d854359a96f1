package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"MarketSnap/internal/domain/models"
	"MarketSnap/internal/service/feeds"
)

// ComplianceResolver prices compliance markets through their configured feeds.
type ComplianceResolver struct {
	feeds   *feeds.Set
	workers int
}

func NewComplianceResolver(set *feeds.Set, workers int) *ComplianceResolver {
	if workers <= 0 {
		workers = 4
	}
	return &ComplianceResolver{feeds: set, workers: workers}
}

// Resolve returns one record per market, in catalog order.
func (r *ComplianceResolver) Resolve(ctx context.Context, markets []models.ComplianceInstrument, days int) []models.ComplianceRecord {
	out := make([]models.ComplianceRecord, len(markets))
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, m := range markets {
		g.Go(func() error {
			out[i] = r.feeds.For(m).Resolve(ctx, m, days)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
