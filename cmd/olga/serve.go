package main

import (
	"github.com/spf13/cobra"

	"olga/internal/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := di.InitApp(&flags)
		if err != nil {
			return err
		}
		defer cleanup()

		return app.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
