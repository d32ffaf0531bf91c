// Package store abstracts the document store used by the matching pipeline.
// Every consumer receives a Store at construction so tests can substitute the
// in-memory implementation.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the referenced document does not exist.
var ErrNotFound = errors.New("document not found")

type serverTimestamp struct{}

// ServerTimestamp marks a field whose value is assigned by the store at
// write time.
var ServerTimestamp serverTimestamp

// Ref identifies a single document inside a collection.
type Ref struct {
	Collection string
	ID         string
}

func (r Ref) Path() string {
	return r.Collection + "/" + r.ID
}

// ParsePath splits a "collection/id" reference string into a Ref.
func ParsePath(path string) (Ref, error) {
	parts := strings.SplitN(strings.TrimSpace(path), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Ref{}, fmt.Errorf("invalid document path: %q", path)
	}
	return Ref{Collection: parts[0], ID: parts[1]}, nil
}

// Document is a raw document snapshot.
type Document struct {
	Ref  Ref
	Data map[string]any
}

// Batch stages writes that are committed atomically.
type Batch interface {
	Set(ref Ref, data map[string]any)
	Delete(ref Ref)
	Commit(ctx context.Context) error
}

// Store is the minimal surface the pipeline needs from the document store.
type Store interface {
	// List reads up to limit documents from a collection. A limit of zero
	// or less reads the whole collection.
	List(ctx context.Context, collection string, limit int) ([]Document, error)
	Get(ctx context.Context, ref Ref) (Document, error)
	// Create writes a new document with a store-generated id.
	Create(ctx context.Context, collection string, data map[string]any) (Ref, error)
	Delete(ctx context.Context, ref Ref) error
	Batch() Batch
}
