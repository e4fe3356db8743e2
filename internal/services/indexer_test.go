package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
)

func newTestIndexer(store *fakeVectorStore, embedder *mockEmbedder, chunkSize int) DocumentIndexer {
	return NewDocumentIndexer(store, embedder, NewTextChunker(), chunkSize, zap.NewNop())
}

func TestReindexReplacesExistingVectors(t *testing.T) {
	store := newFakeVectorStore()
	embedder := &mockEmbedder{}
	indexer := newTestIndexer(store, embedder, 10)

	ctx := context.Background()

	n, err := indexer.Reindex(ctx, CollectionCV, "user-1", "alpha beta gamma delta")
	if err != nil {
		t.Fatalf("first reindex failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 chunks on first run, got %d", n)
	}

	n, err = indexer.Reindex(ctx, CollectionCV, "user-1", "one two")
	if err != nil {
		t.Fatalf("second reindex failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 chunk on second run, got %d", n)
	}

	if got := store.count(CollectionCV); got != 1 {
		t.Errorf("expected only the second run's vectors, found %d records", got)
	}
}

func TestReindexKeepsOtherUsersVectors(t *testing.T) {
	store := newFakeVectorStore()
	embedder := &mockEmbedder{}
	indexer := newTestIndexer(store, embedder, 800)

	ctx := context.Background()

	if _, err := indexer.Reindex(ctx, CollectionCV, "user-1", "first candidate"); err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
	if _, err := indexer.Reindex(ctx, CollectionCV, "user-2", "second candidate"); err != nil {
		t.Fatalf("reindex failed: %v", err)
	}

	if got := store.count(CollectionCV); got != 2 {
		t.Errorf("expected both users' vectors, found %d records", got)
	}
}

func TestReindexAbortsWhenEmbeddingFails(t *testing.T) {
	store := newFakeVectorStore()
	embedder := &mockEmbedder{err: fmt.Errorf("%w: quota exceeded", ErrEmbedding)}
	indexer := newTestIndexer(store, embedder, 10)

	_, err := indexer.Reindex(context.Background(), CollectionCV, "user-1", "alpha beta gamma delta")
	if !errors.Is(err, ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}

	if got := store.count(CollectionCV); got != 0 {
		t.Errorf("expected no records after failed embedding, found %d", got)
	}
}

func TestReindexEmptyTextInsertsNothing(t *testing.T) {
	store := newFakeVectorStore()
	embedder := &mockEmbedder{}
	indexer := newTestIndexer(store, embedder, 800)

	n, err := indexer.Reindex(context.Background(), CollectionCV, "user-1", "   ")
	if err != nil {
		t.Fatalf("reindex failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 chunks, got %d", n)
	}
	if embedder.callCount() != 0 {
		t.Errorf("expected no embedding calls, got %d", embedder.callCount())
	}
}
