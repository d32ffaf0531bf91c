package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestParsePath(t *testing.T) {
	ref, err := ParsePath("profiles/u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Collection != "profiles" || ref.ID != "u1" {
		t.Fatalf("unexpected ref: %+v", ref)
	}
	if ref.Path() != "profiles/u1" {
		t.Fatalf("unexpected path: %s", ref.Path())
	}

	for _, bad := range []string{"", "profiles", "/u1", "profiles/", "  "} {
		if _, err := ParsePath(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestMemoryServerTimestamp(t *testing.T) {
	mem := NewMemory()
	fixed := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	mem.Now = func() time.Time { return fixed }

	ref, err := mem.Create(context.Background(), "jobs", map[string]any{
		"docRef":    "profiles/u1",
		"createdAt": ServerTimestamp,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := mem.Get(context.Background(), ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Data["createdAt"]; got != fixed {
		t.Fatalf("expected server timestamp %v, got %v", fixed, got)
	}
}

func TestMemoryGetNotFound(t *testing.T) {
	mem := NewMemory()
	_, err := mem.Get(context.Background(), Ref{Collection: "profiles", ID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryBatchIsAtomic(t *testing.T) {
	mem := NewMemory()

	batch := mem.Batch()
	batch.Set(Ref{Collection: "matches", ID: "a"}, map[string]any{"score": 0.5})
	batch.Set(Ref{Collection: "matches", ID: "b"}, map[string]any{"score": 0.7})
	if err := batch.Commit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem.Len("matches") != 2 {
		t.Fatalf("expected both writes applied, got %d", mem.Len("matches"))
	}

	mem.CommitErr = errors.New("unavailable")
	failing := mem.Batch()
	failing.Set(Ref{Collection: "matches", ID: "c"}, map[string]any{"score": 0.9})
	failing.Delete(Ref{Collection: "matches", ID: "a"})
	if err := failing.Commit(context.Background()); err == nil {
		t.Fatalf("expected commit error")
	}
	if mem.Len("matches") != 2 {
		t.Fatalf("failed commit must apply nothing, got %d", mem.Len("matches"))
	}
	if mem.Doc("matches", "a") == nil {
		t.Fatalf("failed commit must not delete documents")
	}
}

func TestMemoryListLimit(t *testing.T) {
	mem := NewMemory()
	for _, id := range []string{"a", "b", "c"} {
		mem.Seed("jobs", id, map[string]any{"docRef": "profiles/" + id})
	}

	docs, err := mem.List(context.Background(), "jobs", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	all, err := mem.List(context.Background(), "jobs", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all documents with zero limit, got %d", len(all))
	}
}
