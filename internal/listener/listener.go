// Package listener adapts Firestore snapshot streams into enqueuer calls.
// It is a trigger-surface adapter only; the pipeline itself never depends
// on it.
package listener

import (
	"context"
	"errors"
	"sync"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/teammatch/matchflow/internal/model"
	"github.com/teammatch/matchflow/internal/queue"
)

// Listener watches the profiles and projects collections and enqueues a
// match job for every newly created document.
type Listener struct {
	client      *firestore.Client
	enqueuer    *queue.Enqueuer
	logger      *zap.Logger
	collections []string
}

func New(client *firestore.Client, enqueuer *queue.Enqueuer, logger *zap.Logger) *Listener {
	return &Listener{
		client:      client,
		enqueuer:    enqueuer,
		logger:      logger,
		collections: []string{model.ProfilesCollection, model.ProjectsCollection},
	}
}

// Run blocks until the context is canceled, watching every configured
// collection concurrently.
func (l *Listener) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, collection := range l.collections {
		wg.Add(1)
		go func(collection string) {
			defer wg.Done()
			l.watch(ctx, collection)
		}(collection)
	}
	wg.Wait()
	return ctx.Err()
}

func (l *Listener) watch(ctx context.Context, collection string) {
	logger := l.logger.With(zap.String("collection", collection))

	iter := l.client.Collection(collection).Snapshots(ctx)
	defer iter.Stop()

	// The first snapshot replays every existing document as an add; only
	// changes after it are real creations.
	first := true
	for {
		snap, err := iter.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
				logger.Debug("snapshot listener stopped")
				return
			}
			logger.Error("snapshot listener failed", zap.Error(err))
			return
		}

		if first {
			first = false
			continue
		}

		for _, change := range snap.Changes {
			if change.Kind != firestore.DocumentAdded {
				continue
			}
			// Enqueue failures are dropped: this path only seeds a
			// best-effort feature.
			_ = l.enqueuer.HandleCreate(ctx, collection, change.Doc.Ref.ID)
		}
	}
}
