//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"olga/internal"
	"olga/internal/controllers"
	"olga/internal/providers"
	"olga/internal/services"
	"olga/internal/statistic"
	"olga/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewTemplateRenderer,

		statistic.NewRepository,
		statistic.NewZstdCompressor,
		statistic.NewFileManager,
		statistic.NewScheduler,
		services.NewInstallationStatisticsService,
		controllers.NewFormsChecker,
		controllers.NewApiController,
		controllers.NewChartsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
