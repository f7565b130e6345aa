package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"job-portal/internal/config"
	"job-portal/internal/database/migration"
	dbpostgres "job-portal/internal/database/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), root, func(ctx context.Context, cfg config.Config, pool *dbpostgres.Pool, log *zap.Logger) error {
				applied, err := migration.Runner{Dir: cfg.App.MigrationsDir, Log: log}.Run(ctx, pool.SQLDB())
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
					return nil
				}
				for _, f := range applied {
					fmt.Fprintln(cmd.OutOrStdout(), "applied", f)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), root, func(ctx context.Context, cfg config.Config, pool *dbpostgres.Pool, log *zap.Logger) error {
				statuses, err := migration.Runner{Dir: cfg.App.MigrationsDir, Log: log}.Status(ctx, pool.SQLDB())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
				for _, s := range statuses {
					at := "pending"
					if s.Applied {
						at = s.AppliedAt.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, s.Name, at)
				}
				return w.Flush()
			})
		},
	})

	return cmd
}

func withPool(parent context.Context, root *rootOptions, fn func(context.Context, config.Config, *dbpostgres.Pool, *zap.Logger) error) error {
	cfg, log, err := root.setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signalContext(parent)
	defer stop()

	pool, err := dbpostgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	return fn(ctx, cfg, pool, log)
}
