package statistic

import (
	"context"
	"fmt"
	"time"

	"olga/internal/models"
	"olga/internal/providers"
	"olga/internal/statistic/interfaces"
	"olga/internal/structures"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"

	connectTimeout = 10 * time.Second
)

// NewRepository opens the store selected by storage.driver. The returned
// cleanup closes it.
func NewRepository(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (interfaces.RepositoryInterface, func(), error) {
	switch conf.Storage.Driver {
	case DriverMemory:
		logger.Infof(providers.TypeApp, "Using in-memory storage persisted to %s", conf.Persistence.FilePath)
		store := models.NewStatStore()
		return store, store.Close, nil

	case DriverPostgres:
		if conf.Storage.MigrateOnStart {
			if err := NewMigrator(conf.Storage.DatabaseUrl, logger).Up(); err != nil {
				return nil, nil, err
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		repo, err := NewPostgresRepository(ctx, conf.Storage.DatabaseUrl, metrics)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof(providers.TypeApp, "Using postgres storage")
		return repo, repo.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
}
