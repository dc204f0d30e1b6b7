package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kubev2v/jobqueue/internal/app"
	"github.com/kubev2v/jobqueue/internal/config"
)

const serverShutdownTimeout = 10 * time.Second

func newRunCommand(v *viper.Viper) *cobra.Command {
	defaults, err := config.NewConfigurationWithDefaults()
	if err != nil {
		panic(err)
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the job queue and its HTTP API",
		Long: `Run starts the dispatcher, the worker pool and the HTTP API.

Configuration is read from flags, JOBQUEUE_* environment variables
(JOBQUEUE_QUEUE_PERMITS, JOBQUEUE_SERVER_HTTP_PORT, ...) and an optional
config file, flags winning over the environment and the environment over
the file. SIGINT or SIGTERM shut the process down gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(v, cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			undo := zap.ReplaceGlobals(logger)
			defer undo()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	registerFlags(cmd.Flags(), defaults)
	return cmd
}

func run(ctx context.Context, cfg *config.Configuration) error {
	zap.S().Infow("starting jobqueue", "configuration", cfg.DebugMap())

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	return a.Run(ctx, serverShutdownTimeout)
}
