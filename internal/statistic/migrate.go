package statistic

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"olga/internal/providers"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations of installation_statistics.
type Migrator struct {
	databaseUrl string
	sourceDir   string
	logger      providers.Logger
}

func NewMigrator(databaseUrl string, logger providers.Logger) *Migrator {
	return &Migrator{databaseUrl: databaseUrl, sourceDir: "migrations", logger: logger}
}

func (m *Migrator) Up() error {
	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()

	err = mg.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Infof(providers.TypeApp, "No new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := mg.Version()
	m.logger.Infof(providers.TypeApp, "Successfully migrated to version %d", version)
	return nil
}

func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("invalid steps value: %d", steps)
	}

	mg, err := m.open()
	if err != nil {
		return err
	}
	defer mg.Close()

	err = mg.Steps(-steps)
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Infof(providers.TypeApp, "No migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	version, _, verr := mg.Version()
	if errors.Is(verr, migrate.ErrNilVersion) {
		m.logger.Infof(providers.TypeApp, "Rolled back all migrations")
		return nil
	}
	m.logger.Infof(providers.TypeApp, "Successfully rolled back to version %d", version)
	return nil
}

// Status reports the applied version. A database without migrations reports
// version 0.
func (m *Migrator) Status() (version uint, dirty bool, err error) {
	mg, err := m.open()
	if err != nil {
		return 0, false, err
	}
	defer mg.Close()

	version, dirty, err = mg.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	config, err := pgxpool.ParseConfig(m.databaseUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// The source is opened first so a bad source never leaves a connection behind.
	sourceDriver, err := iofs.New(migrationsFS, m.sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	db := stdlib.OpenDB(*config.ConnConfig)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = sourceDriver.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		_ = sourceDriver.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mg, nil
}
