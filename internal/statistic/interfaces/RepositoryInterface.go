package interfaces

import (
	"context"
	"time"

	"olga/internal/models"
)

// RepositoryInterface is the installation statistics store. It is append-only:
// there is no update or delete.
type RepositoryInterface interface {
	Insert(ctx context.Context, record *models.InstallationStatistics) error
	Aggregate(ctx context.Context) (models.Totals, error)
	Range(ctx context.Context) (first, last time.Time, ok bool, err error)
	PerPeriod(ctx context.Context) ([]models.PeriodStats, error)
	StudentsPerCountry(ctx context.Context) (map[string]int64, error)
	Count(ctx context.Context) (int, error)
	Close()
}

// SnapshotterInterface is implemented by stores that live in memory and need
// to be written to disk.
type SnapshotterInterface interface {
	GetSnapshot() *models.Storage
	PutData(snapshot *models.Storage)
}
