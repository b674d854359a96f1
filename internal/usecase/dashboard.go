package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"MarketSnap/internal/catalog"
	"MarketSnap/internal/domain/models"
	domrepo "MarketSnap/internal/domain/repository"
	"MarketSnap/internal/report"
	"MarketSnap/pkg/logger"
)

var ErrUnknownInstrument = errors.New("unknown instrument")

// DashboardConfig holds display settings.
type DashboardConfig struct {
	TrendCap int
	// DefaultDays is the window used when a request names none. Zero
	// leaves the request's own default in place.
	DefaultDays int
}

// DashboardUseCase serves summary tables, chart series and snapshot reports.
type DashboardUseCase struct {
	catalog   *catalog.Catalog
	agg       *Aggregator
	conv      *Converter
	store     domrepo.SnapshotStore
	publisher domrepo.SnapshotPublisher
	cfg       DashboardConfig
	log       *logger.Logger
	metrics   domrepo.Metrics
	now       func() time.Time
}

func NewDashboardUseCase(
	cat *catalog.Catalog,
	agg *Aggregator,
	conv *Converter,
	store domrepo.SnapshotStore,
	publisher domrepo.SnapshotPublisher,
	cfg DashboardConfig,
	log *logger.Logger,
	m domrepo.Metrics,
) *DashboardUseCase {
	return &DashboardUseCase{
		catalog:   cat,
		agg:       agg,
		conv:      conv,
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		metrics:   m,
		now:       time.Now,
	}
}

// DefaultDays is the configured history window for requests without one.
func (uc *DashboardUseCase) DefaultDays() int { return uc.cfg.DefaultDays }

// Tables computes the summary tables for a view.
func (uc *DashboardUseCase) Tables(ctx context.Context, opts models.ViewOptions) (*models.Tables, error) {
	b, err := uc.agg.Bundle(ctx, opts.Days, opts.Refresh)
	if err != nil {
		return nil, err
	}
	return uc.tables(b, opts), nil
}

func (uc *DashboardUseCase) tables(b *models.Bundle, opts models.ViewOptions) *models.Tables {
	t := &models.Tables{Window: b.Window, FetchedAt: b.FetchedAt, Currency: opts.Currency}
	if opts.Sections.Commodities {
		t.Commodities = BuildSummary(b.Commodities)
	}
	if opts.Sections.FX {
		t.FX = BuildSummary(b.FX)
	}
	if opts.Sections.Compliance {
		t.Compliance = uc.conv.Convert(b.Compliance, b.FX, opts.Currency == models.CurrencyUSD)
	}
	return t
}

// Series returns the raw history of one instrument for charting. A nil
// series with a nil error means the instrument has no data.
func (uc *DashboardUseCase) Series(ctx context.Context, class models.AssetClass, name string, days int) (*models.NamedSeries, error) {
	if _, ok := uc.catalog.Lookup(class, name); !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownInstrument, class, name)
	}
	b, err := uc.agg.Bundle(ctx, days, false)
	if err != nil {
		return nil, err
	}

	switch class {
	case models.ClassCommodities:
		r, _ := b.Commodities.Get(name)
		return &models.NamedSeries{Name: name, Result: r}, nil
	case models.ClassFX:
		r, _ := b.FX.Get(name)
		return &models.NamedSeries{Name: name, Result: r}, nil
	default:
		for _, rec := range b.Compliance {
			if rec.Name != name {
				continue
			}
			if rec.HasHistory() {
				return &models.NamedSeries{Name: name, Result: models.Ok(rec.History)}, nil
			}
			return &models.NamedSeries{Name: name, Result: models.Failed(models.FailureNotConfigured, rec.SourceNote)}, nil
		}
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownInstrument, class, name)
	}
}

// CatalogView lists the configured instruments and the currencies still
// lacking an FX pair.
type CatalogView struct {
	Commodities []models.Instrument           `json:"commodities"`
	FX          []models.Instrument           `json:"fx"`
	Compliance  []models.ComplianceInstrument `json:"compliance"`
	Pairs       map[string]catalog.PairRef    `json:"currency_pairs"`
	Unresolved  []string                      `json:"unresolved_currencies"`
}

func (uc *DashboardUseCase) Catalog() CatalogView {
	return CatalogView{
		Commodities: uc.catalog.Commodities,
		FX:          uc.catalog.FX,
		Compliance:  uc.catalog.Compliance,
		Pairs:       uc.catalog.Pairs,
		Unresolved:  uc.catalog.Unresolved(),
	}
}

// Snapshot is a rendered report.
type Snapshot struct {
	ID       string
	FileName string
	Pages    int
	Data     []byte
}

// Report renders the PDF snapshot for a view. Storing and publishing the
// snapshot are best effort.
func (uc *DashboardUseCase) Report(ctx context.Context, opts models.ViewOptions) (*Snapshot, error) {
	opts.Sections = models.AllSections()
	b, err := uc.agg.Bundle(ctx, opts.Days, opts.Refresh)
	if err != nil {
		return nil, err
	}
	tables := uc.tables(b, opts)
	generatedAt := uc.now().UTC()

	start := time.Now()
	doc := report.Build(report.Input{
		Tables:      *tables,
		Commodities: b.Commodities,
		FX:          b.FX,
		Window:      opts.Days,
		GeneratedAt: generatedAt,
		TrendCap:    uc.cfg.TrendCap,
	})
	data, pages, err := report.Render(doc)
	if err != nil {
		uc.metrics.RecordError("report")
		return nil, err
	}
	uc.metrics.RecordReport(pages, time.Since(start).Seconds())

	snap := &Snapshot{
		ID:       uuid.NewString(),
		FileName: report.FileName(generatedAt),
		Pages:    pages,
		Data:     data,
	}
	uc.record(ctx, &models.SnapshotEvent{
		ID:          snap.ID,
		GeneratedAt: generatedAt,
		Window:      opts.Days,
		Currency:    opts.Currency,
		FileName:    snap.FileName,
		Pages:       snap.Pages,
		Commodities: tables.Commodities,
		FX:          tables.FX,
		Compliance:  tables.Compliance,
	})
	uc.log.Info("snapshot generated",
		logger.String("id", snap.ID),
		logger.String("file", snap.FileName),
		logger.Int("pages", snap.Pages),
		logger.Int("bytes", len(data)),
	)
	return snap, nil
}

func (uc *DashboardUseCase) record(ctx context.Context, ev *models.SnapshotEvent) {
	if uc.store != nil {
		if err := uc.store.StoreSnapshot(ctx, ev); err != nil {
			uc.metrics.RecordError("snapshot_store")
			uc.log.Warn("store snapshot failed", logger.String("id", ev.ID), logger.Error(err))
		}
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishSnapshot(ctx, ev); err != nil {
			uc.metrics.RecordError("snapshot_publish")
			uc.log.Warn("publish snapshot failed", logger.String("id", ev.ID), logger.Error(err))
		}
	}
}
