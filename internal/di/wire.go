//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"MarketSnap/internal/usecase"
	"MarketSnap/pkg/config"
	"MarketSnap/pkg/server"
)

var pipelineSet = wire.NewSet(
	// Ambient
	ProvideLogger,
	ProvideMetrics,

	// Sources and storage
	ProvideCatalog,
	ProvideMarketSource,
	ProvideFeeds,
	ProvideAggregationCache,
	ProvideSnapshotStore,
	ProvideSnapshotPublisher,

	// Use cases
	ProvideSourceFetcher,
	ProvideComplianceResolver,
	usecase.NewAggregator,
	usecase.NewConverter,
	ProvideDashboardUseCase,
)

// InitializeApp wires up all dependencies and returns the application.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		pipelineSet,
		ProvideRateLimiter,
		ProvideHTTPHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeDashboard wires the snapshot pipeline without the HTTP layer.
func InitializeDashboard(cfg *config.Config) (*usecase.DashboardUseCase, func(), error) {
	wire.Build(pipelineSet)
	return nil, nil, nil
}
