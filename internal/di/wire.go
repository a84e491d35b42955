//go:build wireinject
// +build wireinject

package di

import (
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/config"
	"github.com/Dheeraj-Sharma-gif/WeFn/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedis,
		ProvideProbeCache,
		ProvideClickHouse,
		ProvideKafkaProducer,

		// Repositories
		ProvideWidgetRepository,
		ProvideUserRepository,
		ProvideSessionRepository,
		ProvideHistory,
		ProvideEvents,
		ProvideRemoteStore,

		// Services and use cases
		ProvideFetcher,
		ProvideTester,
		ProvideStore,
		ProvideHub,
		ProvideScheduler,
		ProvideDashboard,
		ProvideAuthService,

		// HTTP surface
		ProvideHandlers,
		ProvideApp,
	)
	return &server.App{}, nil
}
