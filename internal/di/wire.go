//go:build wireinject
// +build wireinject

package di

import (
	"CryptoPulse/pkg/config"
	"CryptoPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideRedisCache,

		// Repositories
		ProvideAnalysisStorage,
		ProvideAnalysisPublisher,
		ProvideTickerCache,
		ProvideAudioCache,

		// External services
		ProvideWeexClient,
		ProvidePriceFeed,
		ProvideTextGenerator,
		ProvideSpeech,

		// Use cases
		ProvideAnalysisRecorder,
		ProvideNarrator,
		ProvideAnalyzer,

		// HTTP
		ProvideRateLimiter,
		ProvideHTTPHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
