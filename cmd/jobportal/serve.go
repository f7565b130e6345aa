package main

import (
	"job-portal/internal/app"
	"job-portal/internal/database/migration"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, match listener, work queue and retention sweeps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := root.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			c, err := app.NewContainer(ctx, cfg, log)
			if err != nil {
				log.Error("bootstrap failed", zap.Error(err))
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					log.Warn("cleanup error", zap.Error(err))
				}
			}()

			if !skipMigrate {
				runner := migration.Runner{Dir: cfg.App.MigrationsDir, Log: log}
				if _, err := runner.Run(ctx, c.DB.SQLDB()); err != nil {
					log.Error("migrations failed", zap.Error(err))
					return err
				}
			}

			return app.New(c).Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply pending migrations on start")
	return cmd
}
