package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore implements Store on top of a Cloud Firestore database.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore connects to the Firestore database of the given project.
// credentialsFile is optional; when empty, application default credentials
// are used.
func NewFirestore(ctx context.Context, projectID, credentialsFile string) (*Firestore, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, errors.New("firestore project id is required")
	}

	var opts []option.ClientOption
	if credentialsFile = strings.TrimSpace(credentialsFile); credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	return &Firestore{client: client}, nil
}

// Client exposes the underlying SDK client for adapters that need the
// snapshot listener API.
func (f *Firestore) Client() *firestore.Client {
	return f.client
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

func (f *Firestore) List(ctx context.Context, collection string, limit int) ([]Document, error) {
	q := f.client.Collection(collection).Query
	if limit > 0 {
		q = q.Limit(limit)
	}

	var docs []Document
	iter := q.Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		docs = append(docs, Document{
			Ref:  Ref{Collection: collection, ID: snap.Ref.ID},
			Data: snap.Data(),
		})
	}

	return docs, nil
}

func (f *Firestore) Get(ctx context.Context, ref Ref) (Document, error) {
	snap, err := f.client.Collection(ref.Collection).Doc(ref.ID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, fmt.Errorf("%s: %w", ref.Path(), ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s: %w", ref.Path(), err)
	}

	return Document{Ref: ref, Data: snap.Data()}, nil
}

func (f *Firestore) Create(ctx context.Context, collection string, data map[string]any) (Ref, error) {
	docRef, _, err := f.client.Collection(collection).Add(ctx, translateSentinels(data))
	if err != nil {
		return Ref{}, fmt.Errorf("create in %s: %w", collection, err)
	}
	return Ref{Collection: collection, ID: docRef.ID}, nil
}

func (f *Firestore) Delete(ctx context.Context, ref Ref) error {
	if _, err := f.client.Collection(ref.Collection).Doc(ref.ID).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", ref.Path(), err)
	}
	return nil
}

func (f *Firestore) Batch() Batch {
	return &firestoreBatch{client: f.client, batch: f.client.Batch()}
}

type firestoreBatch struct {
	client *firestore.Client
	batch  *firestore.WriteBatch
	size   int
}

func (b *firestoreBatch) Set(ref Ref, data map[string]any) {
	b.batch.Set(b.client.Collection(ref.Collection).Doc(ref.ID), translateSentinels(data))
	b.size++
}

func (b *firestoreBatch) Delete(ref Ref) {
	b.batch.Delete(b.client.Collection(ref.Collection).Doc(ref.ID))
	b.size++
}

func (b *firestoreBatch) Commit(ctx context.Context) error {
	if b.size == 0 {
		return nil
	}
	if _, err := b.batch.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func translateSentinels(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}
