package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/teammatch/matchflow/internal/listener"
	"github.com/teammatch/matchflow/internal/logger"
	"github.com/teammatch/matchflow/internal/pipeline"
	"github.com/teammatch/matchflow/internal/queue"
	"github.com/teammatch/matchflow/internal/scheduler"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the matchflow service: watch for created documents and execute scheduled matching runs",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting matchflow", zap.String("version", version))

	st, err := newStore(ctx, config)
	if err != nil {
		logger.Fatal("connecting to the document store", zap.Error(err))
	}
	defer st.Close()

	generator, err := newGenerator(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the matching client", zap.Error(err))
	}

	pipe := pipeline.New(st, generator, logger, pipelineConfig(config))

	sched := scheduler.New(config.Schedule, logger, func(ctx context.Context) {
		if _, err := pipe.Run(ctx); err != nil {
			logger.Error("matching run failed", zap.Error(err))
		}
	})
	if err := sched.Start(ctx); err != nil {
		logger.Fatal("starting the scheduler", zap.Error(err))
	}
	defer sched.Stop()

	enqueuer := queue.NewEnqueuer(st, logger)
	watch := listener.New(st.Client(), enqueuer, logger)

	// Blocks until SIGINT/SIGTERM cancels the context.
	if err := watch.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("document listener failed", zap.Error(err))
	}

	logger.Info("shutting down")
}
