// Package feeds holds the compliance-market pricing strategies.
package feeds

import (
	"MarketSnap/internal/domain/models"
	"MarketSnap/internal/domain/repository"
)

// NotePlaceholder is the source note of markets without a wired feed.
const NotePlaceholder = "placeholder - dedicated feed required"

// Set picks the feed configured for each market.
type Set struct {
	byKind   map[models.FeedKind]repository.ComplianceFeed
	fallback repository.ComplianceFeed
}

// NewSet indexes feeds by kind. Markets whose kind has no registered feed
// resolve through Unavailable.
func NewSet(feeds ...repository.ComplianceFeed) *Set {
	s := &Set{
		byKind:   make(map[models.FeedKind]repository.ComplianceFeed, len(feeds)),
		fallback: Unavailable{},
	}
	for _, f := range feeds {
		s.byKind[f.Kind()] = f
	}
	return s
}

// For returns the feed serving inst.
func (s *Set) For(inst models.ComplianceInstrument) repository.ComplianceFeed {
	if f, ok := s.byKind[inst.Feed.Kind]; ok {
		return f
	}
	return s.fallback
}

func baseRecord(inst models.ComplianceInstrument) models.ComplianceRecord {
	return models.ComplianceRecord{
		Name:     inst.Name,
		Unit:     inst.Unit,
		Currency: inst.Currency,
	}
}
