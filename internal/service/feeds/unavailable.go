package feeds

import (
	"context"

	"MarketSnap/internal/domain/models"
)

// Unavailable resolves to a record without price or history.
type Unavailable struct{}

func (Unavailable) Kind() models.FeedKind { return models.FeedNone }

func (Unavailable) Resolve(_ context.Context, inst models.ComplianceInstrument, _ int) models.ComplianceRecord {
	rec := baseRecord(inst)
	rec.SourceNote = NotePlaceholder
	return rec
}
