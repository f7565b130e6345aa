package main

import (
	"context"
	"fmt"

	"job-portal/internal/config"
	dbpostgres "job-portal/internal/database/postgres"
	"job-portal/internal/database/seeder"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo companies, jobs, users and skills (idempotent)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), root, func(ctx context.Context, cfg config.Config, pool *dbpostgres.Pool, log *zap.Logger) error {
				if cfg.App.Environment == "production" {
					return fmt.Errorf("refusing to seed demo data in production")
				}
				return seeder.Runner{Seeders: seeder.Defaults(), Log: log}.Run(ctx, pool)
			})
		},
	}
}
