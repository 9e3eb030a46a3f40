package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aristath/buywrite/internal/clientdata"
	"github.com/aristath/buywrite/internal/config"
	"github.com/aristath/buywrite/internal/database"
	"github.com/aristath/buywrite/internal/domain"
	"github.com/aristath/buywrite/internal/marketdata"
	"github.com/aristath/buywrite/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
}

// Execute builds the command tree and runs it under ctx.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "buywrite",
		Short:         "Evaluate covered-call (buy-write) positions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config overlay (defaults to $BUYWRITE_CONFIG)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	root.AddCommand(newEvaluateCmd(a), newServeCmd(a), newCacheCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	a.cfg = cfg
	a.log = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// openCache opens and migrates the market-data cache database.
func (a *app) openCache() (*database.DB, error) {
	if err := a.cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	db, err := database.New(database.Config{
		Path:    a.cfg.CachePath(),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	a.log.Debug().Str("path", filepath.Clean(db.Path())).Msg("Cache database ready")
	return db, nil
}

// provider builds the EODHD-backed provider, layered over the cache when
// cacheDB is non-nil.
func (a *app) provider(cacheDB *database.DB) domain.MarketDataProvider {
	if a.cfg.EODHDAPIKey == "" {
		a.log.Warn().Msg("EODHD_API_KEY not set: only cached market data will be available")
	}

	client := marketdata.NewClient(a.cfg.EODHDAPIKey,
		marketdata.WithBaseURL(a.cfg.EODHDBaseURL),
		marketdata.WithRateLimit(a.cfg.EODHDRateLimit),
		marketdata.WithLogger(a.log),
	)
	live := marketdata.NewProvider(client, a.cfg.Exchange, a.log)

	if cacheDB == nil {
		return live
	}
	return marketdata.NewCachedProvider(live, clientdata.NewRepository(cacheDB.Conn()), a.log)
}

// openProvider returns the configured provider and a cleanup function.
func (a *app) openProvider() (domain.MarketDataProvider, *database.DB, func(), error) {
	if !a.cfg.CacheEnabled {
		return a.provider(nil), nil, func() {}, nil
	}

	db, err := a.openCache()
	if err != nil {
		return nil, nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			a.log.Error().Err(err).Msg("Failed to close cache database")
		}
	}
	return a.provider(db), db, closeDB, nil
}
