package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/teammatch/matchflow/internal/logger"
	"github.com/teammatch/matchflow/internal/pipeline"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Execute a single matching run immediately and exit",
	Run: func(_ *cobra.Command, _ []string) {
		once()
	},
}

func init() {
	rootCmd.AddCommand(onceCmd)
}

func once() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

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

	stats, err := pipe.Run(ctx)
	if err != nil {
		logger.Fatal("matching run failed", zap.Error(err))
	}

	logger.Info("run finished",
		zap.String("run_id", stats.RunID),
		zap.Int("matches", stats.Matches),
		zap.Int("failed_chunks", stats.FailedChunks),
	)
}
