// ABOUTME: Root command and startup wiring for the journal CLI.
// ABOUTME: Loads config, builds the logger, opens the database and the assistant.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/journal/internal/ai"
	"github.com/harper/journal/internal/config"
	"github.com/harper/journal/internal/db"
	"github.com/harper/journal/internal/logger"
	"github.com/harper/journal/internal/state"
	"github.com/harper/journal/internal/ui"
)

// app holds everything a command needs once startup succeeds.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	engine *db.Engine
	notes  *db.Notes
	cats   *db.Categories
	users  *db.Users
	ctrl   *state.Controller
	gen    *ai.Generator
}

var jr *app

var rootCmd = &cobra.Command{
	Use:           "journal",
	Short:         "A personal journal with categories and a writing assistant",
	Long:          `Keep short notes in a local SQLite journal, file them into categories, and ask the writing assistant for help.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		jr = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdown()
	},
}

func setup(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	cfgFile, _ := cmd.Flags().GetString("config")
	dbFlag, _ := cmd.Flags().GetString("db")
	levelFlag, _ := cmd.Flags().GetString("log-level")

	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile, ".env")
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	if levelFlag != "" {
		cfg.LogLevel = levelFlag
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	engine, err := db.Open(ctx, cfg.DBPath, log)
	if err != nil {
		log.Error("database initialization failed", zap.String("path", cfg.DBPath), zap.Error(err))
		_ = log.Sync()
		return nil, fmt.Errorf("open journal: %w", err)
	}

	opts := []db.Option{db.WithDateFormat(cfg.DateFormat, time.Local)}
	notes := db.NewNotes(engine.DB(), log, opts...)
	a := &app{
		cfg:    cfg,
		log:    log,
		engine: engine,
		notes:  notes,
		cats:   db.NewCategories(engine.DB(), log, opts...),
		users:  db.NewUsers(engine.DB(), log, opts...),
		ctrl:   state.New(notes, log),
		gen: ai.New(ai.Config{
			APIKey:          cfg.AIAPIKey,
			BaseURL:         cfg.AIBaseURL,
			Model:           cfg.AIModel,
			Temperature:     cfg.AITemperature,
			MaxOutputTokens: cfg.AIMaxOutputTokens,
			MaxAttempts:     cfg.AIMaxAttempts,
			RatePerMinute:   cfg.AIRatePerMinute,
		}, ai.WithLogger(log)),
	}

	if !cfg.HasAPIKey() {
		log.Warn("no API key configured, assistant commands are disabled")
	}
	if cfg.SeedOnStart {
		if n, err := notes.SeedIfEmpty(ctx); err != nil {
			log.Warn("seeding sample notes failed", zap.Error(err))
		} else if n > 0 {
			log.Info("seeded sample notes", zap.Int("count", n))
		}
	}
	return a, nil
}

func shutdown() error {
	if jr == nil {
		return nil
	}
	_ = jr.log.Sync()
	err := jr.engine.Close()
	jr = nil
	return err
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		_ = shutdown()
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s, %s)", version, commit, date)
	rootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/journal/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "database path (default $XDG_DATA_HOME/journal/journal.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
}
