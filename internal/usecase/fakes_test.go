package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketSnap/internal/catalog"
	"MarketSnap/internal/domain/models"
	domrepo "MarketSnap/internal/domain/repository"
	"MarketSnap/internal/service/cache"
	"MarketSnap/internal/service/feeds"
	"MarketSnap/pkg/logger"
	"MarketSnap/pkg/metrics"
)

// fakeSource serves canned closes per symbol and counts calls.
type fakeSource struct {
	mu     sync.Mutex
	closes map[string][]float64
	errs   map[string]error
	delay  map[string]time.Duration
	calls  map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		closes: map[string][]float64{},
		errs:   map[string]error{},
		delay:  map[string]time.Duration{},
		calls:  map[string]int{},
	}
}

func (f *fakeSource) Fetch(ctx context.Context, symbol string, _ int) (*models.TimeSeries, error) {
	f.mu.Lock()
	f.calls[symbol]++
	closes, ok := f.closes[symbol]
	err := f.errs[symbol]
	delay := f.delay[symbol]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domrepo.ErrUnknownSymbol, symbol)
	}
	return makeSeries(symbol, closes...), nil
}

func (f *fakeSource) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func makeSeries(symbol string, closes ...float64) *models.TimeSeries {
	s := &models.TimeSeries{Symbol: symbol}
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s.Bars = append(s.Bars, models.Bar{Date: day.AddDate(0, 0, i), Close: c, Volume: models.Int64(int64(1000 * (i + 1)))})
	}
	return s
}

func testCatalog() *catalog.Catalog {
	c := &catalog.Catalog{
		Commodities: []models.Instrument{
			{Name: "Gold", FetchID: "GC=F", Unit: "USD/oz"},
			{Name: "Silver", FetchID: "SI=F", Unit: "USD/oz"},
			{Name: "Lithium", Unit: "USD/t"},
		},
		FX: []models.Instrument{
			{Name: "GBP/USD", FetchID: "GBPUSD=X"},
			{Name: "EUR/USD", FetchID: "EURUSD=X"},
			{Name: "USD/CNY", FetchID: "CNY=X"},
		},
		Compliance: []models.ComplianceInstrument{
			{Instrument: models.Instrument{Name: "UK ETS", FetchID: "UKA.L", Unit: "£/t"}, Currency: "GBP"},
			{Instrument: models.Instrument{Name: "California CCA", Unit: "USD/t"}, Currency: "USD"},
			{Instrument: models.Instrument{Name: "NZ ETS", Unit: "NZD/t"}, Currency: "NZD"},
		},
		Pairs: map[string]catalog.PairRef{
			"GBP": {Pair: "GBP/USD"},
			"EUR": {Pair: "EUR/USD"},
			"CNY": {Pair: "USD/CNY", Invert: true},
		},
	}
	c.Normalize()
	return c
}

type recordingSink struct {
	mu        sync.Mutex
	stored    []*models.SnapshotEvent
	published []*models.SnapshotEvent
	err       error
}

func (r *recordingSink) StoreSnapshot(_ context.Context, ev *models.SnapshotEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, ev)
	return r.err
}

func (r *recordingSink) PublishSnapshot(_ context.Context, ev *models.SnapshotEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, ev)
	return r.err
}

func (r *recordingSink) Close() error { return nil }

type harness struct {
	source    *fakeSource
	catalog   *catalog.Catalog
	dashboard *DashboardUseCase
	sink      *recordingSink
}

func newHarness(src *fakeSource) *harness {
	log := logger.Nop()
	m := metrics.Nop{}
	cat := testCatalog()
	fetcher := NewSourceFetcher(src, FetcherConfig{Timeout: time.Second, Workers: 2}, log, m)
	resolver := NewComplianceResolver(feeds.NewSet(feeds.NewTicker(src, time.Second), feeds.Unavailable{}), 2)
	agg := NewAggregator(cat, fetcher, resolver, cache.NewAggregationCache(log, m))
	sink := &recordingSink{}
	uc := NewDashboardUseCase(cat, agg, NewConverter(cat, m), sink, sink, DashboardConfig{TrendCap: 6}, log, m)
	uc.now = func() time.Time { return time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC) }
	return &harness{source: src, catalog: cat, dashboard: uc, sink: sink}
}
