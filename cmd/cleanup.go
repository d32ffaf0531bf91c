package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/teammatch/matchflow/internal/logger"
	"github.com/teammatch/matchflow/internal/model"
	"github.com/teammatch/matchflow/internal/store"
)

// Firestore caps a write batch at 500 operations.
const maxBatchDeletes = 400

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired match records from both mirror collections",
	Run: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func cleanup() {
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

	now := time.Now().UTC()
	total := 0
	for _, collection := range []string{model.MatchesBySeekerCollection, model.MatchesByProjectCollection} {
		removed, err := cleanupCollection(ctx, st, collection, now)
		if err != nil {
			logger.Fatal("cleanup failed",
				zap.String("collection", collection),
				zap.Error(err),
			)
		}
		logger.Info("expired matches removed",
			zap.String("collection", collection),
			zap.Int("count", removed),
		)
		total += removed
	}

	logger.Info("cleanup complete", zap.Int("removed", total))
}

func cleanupCollection(ctx context.Context, st store.Store, collection string, now time.Time) (int, error) {
	docs, err := st.List(ctx, collection, 0)
	if err != nil {
		return 0, err
	}

	removed := 0
	batch := st.Batch()
	staged := 0
	for _, doc := range docs {
		expiresAt, ok := doc.Data["expiresAt"].(time.Time)
		if !ok || expiresAt.After(now) {
			continue
		}

		batch.Delete(doc.Ref)
		staged++

		if staged == maxBatchDeletes {
			if err := batch.Commit(ctx); err != nil {
				return removed, err
			}
			removed += staged
			batch = st.Batch()
			staged = 0
		}
	}

	if staged > 0 {
		if err := batch.Commit(ctx); err != nil {
			return removed, err
		}
		removed += staged
	}

	return removed, nil
}
