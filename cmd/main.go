package main

import (
	"os"

	"clinic-backend/cmd/bootstrap"
	"clinic-backend/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log *logrus.Logger
)

func main() {
	root := &cobra.Command{
		Use:           "clinic-backend",
		Short:         "Clinic appointment and pharmacy API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadConfig()
			if err != nil {
				return err
			}
			log = bootstrap.NewLogger(cfg.App)
			return nil
		},
	}

	root.AddCommand(serveCmd(), migrateCmd(), createAdminCmd())

	if err := root.Execute(); err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Initialize application with all dependencies
			app, err := bootstrap.New(cfg, log)
			if err != nil {
				return err
			}

			// Run the application
			app.Run()
			return nil
		},
	}
}
