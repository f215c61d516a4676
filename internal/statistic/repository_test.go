package statistic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olga/internal/models"
	"olga/internal/structures"
	"olga/internal/testutil"
)

func TestNewRepository_Memory(t *testing.T) {
	conf := &structures.Config{Storage: structures.StorageConfig{Driver: DriverMemory}}

	repo, cleanup, err := NewRepository(conf, &testutil.MockLogger{}, &testutil.MockMetrics{})
	require.NoError(t, err)
	defer cleanup()

	_, ok := repo.(*models.StatStore)
	assert.True(t, ok)
}

func TestNewRepository_UnknownDriver(t *testing.T) {
	conf := &structures.Config{Storage: structures.StorageConfig{Driver: "sqlite"}}

	_, _, err := NewRepository(conf, &testutil.MockLogger{}, &testutil.MockMetrics{})
	assert.ErrorContains(t, err, "sqlite")
}

func TestNewRepository_PostgresBadUrl(t *testing.T) {
	conf := &structures.Config{Storage: structures.StorageConfig{Driver: DriverPostgres, DatabaseUrl: "::not a url::"}}

	_, _, err := NewRepository(conf, &testutil.MockLogger{}, &testutil.MockMetrics{})
	assert.Error(t, err)
}

func TestNewRepository_Postgres(t *testing.T) {
	url := setupPostgres(t)
	conf := &structures.Config{Storage: structures.StorageConfig{Driver: DriverPostgres, DatabaseUrl: url, MigrateOnStart: true}}

	repo, cleanup, err := NewRepository(conf, &testutil.MockLogger{}, &testutil.MockMetrics{})
	require.NoError(t, err)
	defer cleanup()

	_, ok := repo.(*PostgresRepository)
	assert.True(t, ok)
}
