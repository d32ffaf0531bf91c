package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/teammatch/matchflow/internal/model"
	"github.com/teammatch/matchflow/internal/store"
)

func TestCleanupCollectionRemovesOnlyExpired(t *testing.T) {
	mem := store.NewMemory()
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	mem.Seed(model.MatchesBySeekerCollection, "u1_p1", map[string]any{
		"expiresAt": now.Add(-time.Hour),
	})
	mem.Seed(model.MatchesBySeekerCollection, "u2_p1", map[string]any{
		"expiresAt": now.Add(time.Hour),
	})
	mem.Seed(model.MatchesBySeekerCollection, "u3_p1", map[string]any{
		// No expiry at all; leave it alone.
	})

	removed, err := cleanupCollection(context.Background(), mem, model.MatchesBySeekerCollection, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if mem.Doc(model.MatchesBySeekerCollection, "u1_p1") != nil {
		t.Fatalf("expired match should be gone")
	}
	if mem.Doc(model.MatchesBySeekerCollection, "u2_p1") == nil {
		t.Fatalf("live match should survive")
	}
}
