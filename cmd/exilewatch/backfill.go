package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/exilewatch/exilewatch/internal/app"
	"github.com/spf13/cobra"
)

var backfillLeagues []string

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Seed historical leagues from provider dumps",
	Long: `Backfills expired leagues once and exits. Leagues already holding snapshot
rows are skipped. Leagues come from the config file unless --league is given.`,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().StringSliceVarP(&backfillLeagues, "league", "l", nil, "league to backfill (repeatable)")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	if len(backfillLeagues) > 0 {
		cfg.Backfill.Leagues = backfillLeagues
	}
	if len(cfg.Backfill.Leagues) == 0 {
		return fmt.Errorf("no leagues to backfill: set backfill.leagues or pass --league")
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := a.RunBackfill(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("backfilled %d, skipped %d, failed %d\n",
		sum.Backfilled, sum.Skipped, len(sum.Failed))
	if len(sum.Failed) > 0 {
		return fmt.Errorf("failed leagues: %v", sum.Failed)
	}
	return nil
}
