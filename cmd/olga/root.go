package main

import (
	"os"

	"github.com/spf13/cobra"

	"olga/internal/structures"
)

var flags structures.CliFlags

var rootCmd = &cobra.Command{
	Use:           "olga",
	Short:         "Olga: installation statistics collector and dashboard",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute is called by main.main and exits non-zero on any command error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config/config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to stdout")
}
