package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory Store used by tests. Writes staged in a batch are
// applied atomically under a single lock, mirroring the all-or-nothing
// behavior of the real store.
type Memory struct {
	mu          sync.Mutex
	seq         int
	collections map[string]map[string]map[string]any

	// CommitErr, when set, makes every batch commit fail without applying
	// any staged write.
	CommitErr error
	// Now overrides the clock used for server timestamps.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]map[string]any)}
}

// Seed inserts a document with a fixed id, bypassing id generation.
func (m *Memory) Seed(collection, id string, data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(Ref{Collection: collection, ID: id}, data)
}

// Len reports how many documents a collection holds.
func (m *Memory) Len(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.collections[collection])
}

// Doc returns a copy of a document's data, or nil when absent.
func (m *Memory) Doc(collection, id string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.collections[collection][id]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func (m *Memory) List(_ context.Context, collection string, limit int) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.collections[collection]))
	for id := range m.collections[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{
			Ref:  Ref{Collection: collection, ID: id},
			Data: m.collections[collection][id],
		})
	}
	return docs, nil
}

func (m *Memory) Get(_ context.Context, ref Ref) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.collections[ref.Collection][ref.ID]
	if !ok {
		return Document{}, fmt.Errorf("%s: %w", ref.Path(), ErrNotFound)
	}
	return Document{Ref: ref, Data: data}, nil
}

func (m *Memory) Create(_ context.Context, collection string, data map[string]any) (Ref, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	ref := Ref{Collection: collection, ID: fmt.Sprintf("doc-%04d", m.seq)}
	m.set(ref, data)
	return ref, nil
}

func (m *Memory) Delete(_ context.Context, ref Ref) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[ref.Collection], ref.ID)
	return nil
}

func (m *Memory) Batch() Batch {
	return &memoryBatch{store: m}
}

func (m *Memory) set(ref Ref, data map[string]any) {
	if m.collections[ref.Collection] == nil {
		m.collections[ref.Collection] = make(map[string]map[string]any)
	}
	copied := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			copied[k] = m.now()
			continue
		}
		copied[k] = v
	}
	m.collections[ref.Collection][ref.ID] = copied
}

func (m *Memory) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now().UTC()
}

type memoryBatch struct {
	store *Memory
	ops   []func()
}

func (b *memoryBatch) Set(ref Ref, data map[string]any) {
	b.ops = append(b.ops, func() { b.store.set(ref, data) })
}

func (b *memoryBatch) Delete(ref Ref) {
	b.ops = append(b.ops, func() { delete(b.store.collections[ref.Collection], ref.ID) })
}

func (b *memoryBatch) Commit(context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	if b.store.CommitErr != nil {
		return b.store.CommitErr
	}
	for _, op := range b.ops {
		op()
	}
	return nil
}
