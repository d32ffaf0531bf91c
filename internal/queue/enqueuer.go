// Package queue owns the durable job queue feeding the matching pipeline:
// the enqueuer records document creations, the drainer resolves them into
// people and projects.
package queue

import (
	"context"

	"go.uber.org/zap"

	"github.com/teammatch/matchflow/internal/model"
	"github.com/teammatch/matchflow/internal/store"
)

// Enqueuer records creations of watched documents as job rows.
type Enqueuer struct {
	store  store.Store
	logger *zap.Logger
}

func NewEnqueuer(s store.Store, logger *zap.Logger) *Enqueuer {
	return &Enqueuer{store: s, logger: logger}
}

// HandleCreate writes one job row for a newly created document. The creation
// listener is registered broadly, so anything outside the profiles and
// projects collections is a no-op. A failed write is logged and dropped;
// matching is best-effort and this path never retries.
func (e *Enqueuer) HandleCreate(ctx context.Context, collection, id string) error {
	if collection != model.ProfilesCollection && collection != model.ProjectsCollection {
		return nil
	}

	docRef := collection + "/" + id
	ref, err := e.store.Create(ctx, model.JobsCollection, map[string]any{
		"docRef":    docRef,
		"createdAt": store.ServerTimestamp,
	})
	if err != nil {
		e.logger.Warn("enqueueing match job failed, event lost",
			zap.String("doc_ref", docRef),
			zap.Error(err),
		)
		return err
	}

	e.logger.Debug("match job enqueued",
		zap.String("doc_ref", docRef),
		zap.String("job_id", ref.ID),
	)
	return nil
}
