package cmd

import (
	"context"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/teammatch/matchflow/internal/logger"
	"github.com/teammatch/matchflow/internal/model"
	"github.com/teammatch/matchflow/internal/queue"
	"github.com/teammatch/matchflow/internal/store"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Enqueue every existing profile and project for the next matching run",
	Run: func(cmd *cobra.Command, _ []string) {
		backfill(cmd)
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)

	backfillCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

// backfill re-seeds the job queue from the full profile and project
// collections. Every enqueued document costs model budget on the next run,
// hence the confirmation prompt.
func backfill(cmd *cobra.Command) {
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

	if cmd.Flag("yes").Value.String() == "false" {
		prompt := promptui.Select{
			Label: "Enqueue all profiles and projects for matching?",
			Items: []string{PromptYes, PromptNo},
		}
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action != PromptYes {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	enqueuer := queue.NewEnqueuer(st, logger)
	total := 0
	for _, collection := range []string{model.ProfilesCollection, model.ProjectsCollection} {
		count, err := enqueueCollection(ctx, st, enqueuer, collection)
		if err != nil {
			logger.Fatal("backfill failed",
				zap.String("collection", collection),
				zap.Error(err),
			)
		}
		logger.Info("collection enqueued",
			zap.String("collection", collection),
			zap.Int("count", count),
		)
		total += count
	}

	logger.Info("backfill complete", zap.Int("jobs", total))
}

func enqueueCollection(ctx context.Context, st store.Store, enqueuer *queue.Enqueuer, collection string) (int, error) {
	docs, err := st.List(ctx, collection, 0)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, doc := range docs {
		if err := enqueuer.HandleCreate(ctx, collection, doc.Ref.ID); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
