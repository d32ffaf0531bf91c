package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/teammatch/matchflow/internal/matching"
	"github.com/teammatch/matchflow/internal/model"
	"github.com/teammatch/matchflow/internal/store"
	"github.com/teammatch/matchflow/internal/utils"
)

// MatchType tags every record written by this pipeline.
const MatchType = "ai"

type persistenceError struct{ err error }

func (e *persistenceError) Error() string { return e.err.Error() }
func (e *persistenceError) Unwrap() error { return e.err }

func isPersistenceError(err error) bool {
	var pe *persistenceError
	return errors.As(err, &pe)
}

// MatchID derives the stable composite key shared by both mirror records of
// a logical match. A later run overwrites the same key with fresher values.
func MatchID(uid, projectID string) string {
	return uid + "_" + projectID
}

// persistPairings stages two mirrored records per pairing, one under the
// by-seeker collection and one under the by-project collection, and commits
// the whole chunk as one atomic batch.
func (p *Pipeline) persistPairings(ctx context.Context, logger *zap.Logger, pairings []matching.Pairing) (int, error) {
	createdAt := p.now().UTC()
	expiresAt := createdAt.Add(p.cfg.MatchTTL)

	batch := p.store.Batch()
	for _, pairing := range pairings {
		data := map[string]any{
			"fromUid":     pairing.FromUID,
			"toProjectId": pairing.ToProjectID,
			"score":       pairing.Score,
			"reason":      utils.Clip(pairing.Reason, p.cfg.MaxReasonLength),
			"matchType":   MatchType,
			"createdAt":   createdAt,
			"expiresAt":   expiresAt,
		}

		id := MatchID(pairing.FromUID, pairing.ToProjectID)
		batch.Set(store.Ref{Collection: model.MatchesBySeekerCollection, ID: id}, data)
		batch.Set(store.Ref{Collection: model.MatchesByProjectCollection, ID: id}, data)
	}

	if err := batch.Commit(ctx); err != nil {
		return 0, &persistenceError{err: fmt.Errorf("commit match batch: %w", err)}
	}

	logger.Info("matches committed",
		zap.Int("count", len(pairings)),
		zap.Time("expires_at", expiresAt),
	)

	return len(pairings), nil
}
