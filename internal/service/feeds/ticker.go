package feeds

import (
	"context"
	"fmt"
	"time"

	"MarketSnap/internal/domain/models"
	"MarketSnap/internal/domain/repository"
)

// Ticker prices a market from its exchange ticker.
type Ticker struct {
	source  repository.MarketSource
	timeout time.Duration
}

// NewTicker creates a ticker feed. A zero timeout disables the deadline.
func NewTicker(source repository.MarketSource, timeout time.Duration) *Ticker {
	return &Ticker{source: source, timeout: timeout}
}

func (t *Ticker) Kind() models.FeedKind { return models.FeedTicker }

func (t *Ticker) Resolve(ctx context.Context, inst models.ComplianceInstrument, days int) models.ComplianceRecord {
	rec := baseRecord(inst)
	if !inst.HasFetchID() {
		rec.SourceNote = NotePlaceholder
		return rec
	}
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	series, err := t.source.Fetch(ctx, inst.FetchID, days)
	if err != nil {
		rec.SourceNote = fmt.Sprintf("Ticker error: %v", err)
		return rec
	}
	last, ok := series.Last()
	if !ok {
		rec.SourceNote = fmt.Sprintf("Ticker %s returned empty", inst.FetchID)
		return rec
	}
	rec.Price = models.Float(last.Close)
	rec.History = series
	rec.SourceNote = "Ticker " + inst.FetchID
	return rec
}
