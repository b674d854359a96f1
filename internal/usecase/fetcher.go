package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"MarketSnap/internal/domain/models"
	domrepo "MarketSnap/internal/domain/repository"
	"MarketSnap/pkg/logger"
)

// FetcherConfig bounds upstream fetches.
type FetcherConfig struct {
	Timeout time.Duration // per instrument
	Workers int
}

// SourceFetcher fetches a catalog's history, isolating failures per
// instrument.
type SourceFetcher struct {
	source  domrepo.MarketSource
	cfg     FetcherConfig
	log     *logger.Logger
	metrics domrepo.Metrics
}

func NewSourceFetcher(source domrepo.MarketSource, cfg FetcherConfig, log *logger.Logger, m domrepo.Metrics) *SourceFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &SourceFetcher{source: source, cfg: cfg, log: log, metrics: m}
}

// FetchCatalog returns one entry per instrument, in catalog order. It never
// fails as a whole.
func (f *SourceFetcher) FetchCatalog(ctx context.Context, class models.AssetClass, insts []models.Instrument, days int) models.SeriesSet {
	out := make(models.SeriesSet, len(insts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.Workers)

	for i, inst := range insts {
		out[i] = models.NamedSeries{Name: inst.Name, Unit: inst.Unit}
		if !inst.HasFetchID() {
			out[i].Result = models.Failed(models.FailureNotConfigured, "no fetch id configured")
			f.metrics.RecordFetch(string(class), string(models.FailureNotConfigured))
			continue
		}
		g.Go(func() error {
			out[i].Result = f.fetchOne(gctx, class, inst, days)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (f *SourceFetcher) fetchOne(ctx context.Context, class models.AssetClass, inst models.Instrument, days int) models.FetchResult {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	start := time.Now()
	series, err := f.source.Fetch(ctx, inst.FetchID, days)
	f.metrics.RecordLatency("fetch", time.Since(start).Seconds())

	var res models.FetchResult
	switch {
	case err != nil:
		res = models.Failed(classify(err), err.Error())
	case series.Len() == 0:
		res = models.Failed(models.FailureEmpty, "source returned no rows")
	default:
		f.metrics.RecordFetch(string(class), "ok")
		return models.Ok(series)
	}

	f.metrics.RecordFetch(string(class), string(res.Failure.Kind))
	f.log.Warn("instrument fetch failed",
		logger.String("class", string(class)),
		logger.String("name", inst.Name),
		logger.String("symbol", inst.FetchID),
		logger.String("kind", string(res.Failure.Kind)),
		logger.String("reason", res.Failure.Reason),
	)
	return res
}

func classify(err error) models.FailureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.FailureTimeout
	case errors.Is(err, domrepo.ErrUnknownSymbol):
		return models.FailureUnknownSymbol
	case errors.Is(err, domrepo.ErrNoData):
		return models.FailureEmpty
	default:
		return models.FailureNetwork
	}
}
