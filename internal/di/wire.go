//go:build wireinject
// +build wireinject

package di

import (
	"MacroPulse/pkg/config"
	"MacroPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideMetrics,
		ProvideLogger,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCacheService,
		ProvideRateLimiter,

		// Repositories
		ProvideEventRegistry,
		ProvideReactionStore,
		ProvideReactionPublisher,
		ProvideMarketData,
		ProvideFinnhubStream,

		// Domain services
		ProvideSelector,
		ProvideClassifier,

		// Use cases
		ProvideReactionStudy,
		ProvideReactionAggregate,
		ProvideRiskReport,
		ProvideCorrelation,
		ProvideHistory,
		ProvideReactionProcessor,
		ProvideLiveWatch,
		ProvideKafkaReactionsHandler,
		ProvideWarmupJob,
		ProvideQueue,
		ProvideRefreshScheduler,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
