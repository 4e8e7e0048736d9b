package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/exilewatch/exilewatch/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run the collection loop",
	Long: `Starts the collector: resolves the active league, then ingests currency,
divination card and unique item prices on the configured interval until
interrupted.`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("collector starting",
		zap.Duration("interval", cfg.Collector.Interval),
		zap.String("provider", cfg.Provider.BaseURL),
	)

	if err := a.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
