package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eurotrade/salesdesk/internal/config"
	"github.com/eurotrade/salesdesk/internal/fx"
	"github.com/eurotrade/salesdesk/internal/service"
	"github.com/eurotrade/salesdesk/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "salesdesk",
	Short: "Sales pipeline tracker for seafood export trading",
	Long:  "Tracks prospects and USD/kg offers, scores the pipeline, suggests prices from recent comparables and flags follow-ups and expiring offers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func newTracker(st store.Store) *service.Tracker {
	return service.New(st)
}

func newFxClient(st store.Store) *fx.Client {
	return fx.NewClient(st, cfg.Fx.URL,
		fx.WithFallback(cfg.Fx.Fallback),
		fx.WithTTL(time.Duration(cfg.Fx.CacheTTLHours)*time.Hour),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
