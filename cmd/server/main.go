// Package main is the hrtrack API server. It serves the dose, lab,
// simulation and backup endpoints and manages the database schema.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hrtrack/hrtrack-api/internal/config"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/hrtrack/hrtrack-api/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "hrtrack-server",
		Short:        "Hormone therapy tracking API server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file (default ./config.yaml)")

	root.AddCommand(serveCmd(&configFile))
	root.AddCommand(migrateCmd(&configFile))
	return root
}

func serveCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			ctx := contextOrBackground(cmd.Context())
			app, err := newApplication(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return app.run(ctx)
		},
	}
}

func migrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <" + strings.Join(postgres.MigrationCommands, "|") + ">",
		Short:     "Run database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configFile)
			if err != nil {
				return err
			}

			ctx := contextOrBackground(cmd.Context())
			db, err := postgres.Open(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					log.Error("failed to close database", slog.String("error", cerr.Error()))
				}
			}()

			return postgres.Migrate(ctx, db, args[0], log)
		},
	}
}

func loadConfig(path string) (*config.Config, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("redis_enabled", cfg.Redis.Enabled))
	return cfg, log, nil
}

// contextOrBackground lets commands run without cobra's ExecuteContext.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
