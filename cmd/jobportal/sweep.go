package main

import (
	"context"
	"fmt"

	"job-portal/internal/app"
	"job-portal/internal/usecase/retention"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSweepCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a retention sweep once and exit",
	}

	cmd.AddCommand(
		sweepSubcommand(root, retention.KindTokens, "Delete expired password reset tokens",
			func(ctx context.Context, s *retention.Sweeper) (int64, error) { return s.SweepExpiredTokens(ctx) }),
		sweepSubcommand(root, retention.KindNotifications, "Delete notifications past the retention age",
			func(ctx context.Context, s *retention.Sweeper) (int64, error) { return s.SweepOldNotifications(ctx) }),
	)
	return cmd
}

func sweepSubcommand(root *rootOptions, kind, short string, run func(context.Context, *retention.Sweeper) (int64, error)) *cobra.Command {
	return &cobra.Command{
		Use:   kind,
		Short: short,
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
				return err
			}
			defer func() { _ = c.Close() }()

			n, err := run(ctx, c.Sweeper)
			if err != nil {
				log.Error("sweep failed", zap.String("kind", kind), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: deleted %d\n", kind, n)
			return nil
		},
	}
}
