package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/immorechner/property-calculator/internal/cache"
	"github.com/immorechner/property-calculator/internal/calculation"
	"github.com/immorechner/property-calculator/internal/config"
	"github.com/immorechner/property-calculator/internal/logging"
	"github.com/immorechner/property-calculator/internal/service"
	"github.com/immorechner/property-calculator/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootFlags struct {
	settingsFile string
	envFile      string
	logLevel     string
}

// app is what every command needs once settings and logging are set up.
type app struct {
	settings *config.Settings
	logger   *zap.Logger
	engine   *calculation.Engine
}

func newRootCmd(out io.Writer) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "immocalc",
		Short:         "Cash flow and tax projection for German rental properties",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&flags.settingsFile, "settings", "", "application settings file (YAML)")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "dotenv file loaded before the environment is read (default ./.env if present)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newSimulateCmd(flags),
		newPortfolioCmd(flags),
		newExampleCmd(),
		newServeCmd(flags),
		newVersionCmd(),
	)
	return root
}

func setupApp(flags *rootFlags) (*app, error) {
	settings, err := config.LoadSettings(flags.settingsFile, flags.envFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(settings.Logging, flags.logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	engine := calculation.NewEngineWithRules(settings.Rules())
	engine.SetLogger(logger.Sugar())
	return &app{settings: settings, logger: logger, engine: engine}, nil
}

// newService builds the simulation service. With connect set, the configured Redis
// cache and PostgreSQL store are attached; otherwise results live in memory only.
func (a *app) newService(ctx context.Context, connect bool) (*service.SimulationService, func(), error) {
	cleanup := func() {}
	var c cache.Cache
	var runs service.RunStore

	if connect && a.settings.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, a.settings.Cache.RedisAddr, a.settings.Cache.RedisPassword,
			a.settings.Cache.RedisDB, a.settings.Cache.TTL)
		if err != nil {
			return nil, cleanup, err
		}
		c = rc
		prev := cleanup
		cleanup = func() { prev(); _ = rc.Close() }
		a.logger.Info("using redis cache", zap.String("addr", a.settings.Cache.RedisAddr))
	} else {
		c = cache.NewMemoryCache(a.settings.Cache.TTL)
	}

	if connect && a.settings.Database.URL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		pool, err := store.Connect(connectCtx, a.settings.Database.URL)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		repo, err := store.NewRepository(pool)
		if err != nil {
			pool.Close()
			cleanup()
			return nil, func() {}, err
		}
		if err := repo.EnsureSchema(connectCtx); err != nil {
			pool.Close()
			cleanup()
			return nil, func() {}, err
		}
		runs = repo
		prev := cleanup
		cleanup = func() { prev(); pool.Close() }
		a.logger.Info("storing simulations in postgres")
	}

	svc := service.NewSimulationService(a.engine, c, runs, a.logger, a.settings.Defaults.HorizonYears)
	return svc, cleanup, nil
}
