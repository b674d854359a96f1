package di

import (
	"context"
	"fmt"

	"MarketSnap/internal/catalog"
	"MarketSnap/internal/domain/repository"
	"MarketSnap/internal/handler/api"
	internalrepo "MarketSnap/internal/repository"
	"MarketSnap/internal/service/cache"
	"MarketSnap/internal/service/feeds"
	"MarketSnap/internal/service/ratelimit"
	"MarketSnap/internal/service/yahoo"
	"MarketSnap/internal/usecase"
	pkgch "MarketSnap/pkg/clickhouse"
	"MarketSnap/pkg/config"
	xhttp "MarketSnap/pkg/http"
	pkgkafka "MarketSnap/pkg/kafka"
	"MarketSnap/pkg/logger"
	"MarketSnap/pkg/metrics"
	"MarketSnap/pkg/server"
)

// ProvideLogger creates the structured logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCatalog loads the instrument catalog. Misconfiguration is fatal.
func ProvideCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.Dashboard.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return cat, nil
}

// ProvideMarketSource creates the Yahoo Finance chart client.
func ProvideMarketSource(cfg *config.Config) repository.MarketSource {
	return yahoo.New(
		yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
		yahoo.WithUserAgent(cfg.Yahoo.UserAgent),
		yahoo.WithRateLimit(cfg.Yahoo.RPS),
		yahoo.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.Yahoo.Timeout))),
	)
}

// ProvideFeeds registers the compliance feed strategies.
func ProvideFeeds(cfg *config.Config, source repository.MarketSource) *feeds.Set {
	return feeds.NewSet(
		feeds.NewTicker(source, cfg.Dashboard.FetchTimeout),
		feeds.NewScrape(xhttp.NewClient(xhttp.WithTimeout(cfg.Scrape.Timeout)), cfg.Scrape.UserAgent),
	)
}

// ProvideSourceFetcher creates the bounded-concurrency catalog fetcher.
func ProvideSourceFetcher(cfg *config.Config, source repository.MarketSource, l *logger.Logger, m repository.Metrics) *usecase.SourceFetcher {
	return usecase.NewSourceFetcher(source, usecase.FetcherConfig{
		Timeout: cfg.Dashboard.FetchTimeout,
		Workers: cfg.Dashboard.Workers,
	}, l, m)
}

// ProvideComplianceResolver creates the compliance resolver.
func ProvideComplianceResolver(cfg *config.Config, set *feeds.Set) *usecase.ComplianceResolver {
	return usecase.NewComplianceResolver(set, cfg.Dashboard.Workers)
}

// ProvideAggregationCache creates the bundle cache, backed by Redis when enabled.
func ProvideAggregationCache(cfg *config.Config, l *logger.Logger, m repository.Metrics) (*cache.AggregationCache, func(), error) {
	opts := []cache.AggregationOption{cache.WithTTL(cfg.Dashboard.CacheTTL)}
	cleanup := func() {}

	if cfg.Redis.Enabled {
		rc := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Dashboard.FetchTimeout)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		opts = append(opts, cache.WithL2(rc))
		cleanup = func() {
			if err := rc.Close(); err != nil {
				l.Warn("redis close error", logger.Error(err))
			}
		}
		l.Info("redis bundle cache enabled", logger.String("addr", cfg.Redis.Addr))
	}

	return cache.NewAggregationCache(l, m, opts...), cleanup, nil
}

// ProvideSnapshotStore connects ClickHouse when enabled and ensures the schema.
func ProvideSnapshotStore(cfg *config.Config, l *logger.Logger) (repository.SnapshotStore, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return internalrepo.NoopSnapshotStore{}, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ClickHouse.DialTimeout+cfg.ClickHouse.ReadTimeout)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(4, 2),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	store := internalrepo.NewCHSnapshotStore(client, cfg.ClickHouse.Database, l)
	if err := client.InitSchema(ctx, store.SchemaStatements()); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	l.Info("clickhouse snapshot store ready", logger.String("database", cfg.ClickHouse.Database))

	cleanup := func() {
		if err := store.Close(); err != nil {
			l.Warn("clickhouse close error", logger.Error(err))
		}
	}
	return store, cleanup, nil
}

// ProvideSnapshotPublisher creates the Kafka publisher when enabled.
func ProvideSnapshotPublisher(cfg *config.Config, l *logger.Logger) (repository.SnapshotPublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopSnapshotPublisher{}, func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	l.Info("kafka snapshot publisher ready",
		logger.Strings("brokers", cfg.Kafka.Brokers),
		logger.String("topic", cfg.Kafka.Topic),
	)

	pub := internalrepo.NewKafkaSnapshotPublisher(producer)
	cleanup := func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka producer close error", logger.Error(err))
		}
	}
	return pub, cleanup, nil
}

// ProvideDashboardUseCase assembles the snapshot pipeline.
func ProvideDashboardUseCase(
	cfg *config.Config,
	cat *catalog.Catalog,
	agg *usecase.Aggregator,
	conv *usecase.Converter,
	store repository.SnapshotStore,
	pub repository.SnapshotPublisher,
	l *logger.Logger,
	m repository.Metrics,
) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(cat, agg, conv, store, pub,
		usecase.DashboardConfig{TrendCap: cfg.Dashboard.TrendCap, DefaultDays: cfg.Dashboard.DefaultDays}, l, m)
}

// ProvideRateLimiter creates the per-client limiter for report downloads.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
}

// ProvideHTTPHandler exposes the dashboard routes.
func ProvideHTTPHandler(l *logger.Logger, uc *usecase.DashboardUseCase, limiter *ratelimit.Limiter) xhttp.Handler {
	return api.NewDashboardEchoHandler(l, uc, limiter)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *logger.Logger, h xhttp.Handler) *xhttp.Server {
	return xhttp.NewServer(l, h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithCORS(cfg.Server.CORS),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *logger.Logger, srv *xhttp.Server) *server.App {
	return server.New(cfg, l, srv)
}
