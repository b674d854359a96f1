package repository

import (
	"context"

	"MarketSnap/internal/domain/models"
)

// MarketSource fetches daily history for one symbol over a trailing window.
type MarketSource interface {
	Fetch(ctx context.Context, symbol string, days int) (*models.TimeSeries, error)
}

// ComplianceFeed prices one compliance market. Implementations must never
// fail: problems are reported through the record's SourceNote.
type ComplianceFeed interface {
	Kind() models.FeedKind
	Resolve(ctx context.Context, inst models.ComplianceInstrument, days int) models.ComplianceRecord
}

// SnapshotStore persists generated snapshot summaries.
type SnapshotStore interface {
	StoreSnapshot(ctx context.Context, ev *models.SnapshotEvent) error
	Close() error
}

// SnapshotPublisher announces generated snapshots.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, ev *models.SnapshotEvent) error
	Close() error
}

type Metrics interface {
	RecordFetch(class, outcome string)
	RecordCache(result string)
	RecordConversion(status string)
	RecordReport(pages int, seconds float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
