package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"olga/internal/providers"
	"olga/internal/statistic"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the PostgreSQL schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *statistic.Migrator) error {
			return m.Up()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down N",
	Short: "Roll back the last N migrations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid steps value %q: %w", args[0], err)
		}
		return withMigrator(func(m *statistic.Migrator) error {
			return m.Down(steps)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the applied migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *statistic.Migrator) error {
			version, dirty, err := m.Status()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %v\n", version, dirty)
			return nil
		})
	},
}

func withMigrator(fn func(m *statistic.Migrator) error) error {
	conf, err := providers.NewConfigProvider(&flags)
	if err != nil {
		return err
	}
	if conf.Storage.Driver != statistic.DriverPostgres {
		return fmt.Errorf("migrations require the %q storage driver, got %q", statistic.DriverPostgres, conf.Storage.Driver)
	}

	logger, err := providers.NewLogProvider(conf)
	if err != nil {
		return err
	}
	defer logger.Close()

	return fn(statistic.NewMigrator(conf.Storage.DatabaseUrl, logger))
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
