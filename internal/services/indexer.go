package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DocumentIndexer replaces a user's vectors in a collection with freshly
// chunked and embedded ones. Re-indexing is a full replace: all prior
// vectors for the user are deleted first, so repeated evaluations never mix
// stale and fresh chunks. If any chunk fails to embed the whole step aborts
// with nothing inserted, a half-indexed document must never be scored.
type DocumentIndexer interface {
	Reindex(ctx context.Context, collection, userID, text string) (int, error)
}

// Chunk embeddings are independent, so they run concurrently under a cap.
const maxParallelEmbeds = 4

type documentIndexer struct {
	store     VectorStore
	embedder  EmbeddingService
	chunker   TextChunker
	chunkSize int
	logger    *zap.Logger
}

func NewDocumentIndexer(
	store VectorStore,
	embedder EmbeddingService,
	chunker TextChunker,
	chunkSize int,
	logger *zap.Logger,
) DocumentIndexer {
	return &documentIndexer{
		store:     store,
		embedder:  embedder,
		chunker:   chunker,
		chunkSize: chunkSize,
		logger:    logger,
	}
}

// Reindex implements DocumentIndexer.
func (d *documentIndexer) Reindex(ctx context.Context, collection, userID, text string) (int, error) {
	existing, err := d.store.Query(ctx, collection, "user_id", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up existing vectors: %w", err)
	}

	for _, record := range existing {
		if err := d.store.Delete(ctx, collection, record.ID); err != nil {
			return 0, fmt.Errorf("failed to clear existing vectors: %w", err)
		}
	}

	chunks := d.chunker.Chunk(text, d.chunkSize)
	if len(chunks) == 0 {
		return 0, nil
	}

	records := make([]Record, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelEmbeds)

	for i, chunk := range chunks {
		g.Go(func() error {
			vector, err := d.embedder.EmbedText(gctx, chunk)
			if err != nil {
				return err
			}

			records[i] = Record{
				Vector: vector,
				Payload: map[string]any{
					"content": chunk,
					"user_id": userID,
				},
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("failed to embed chunks for %s: %w", collection, err)
	}

	if err := d.store.Insert(ctx, collection, records); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	d.logger.Debug("document re-indexed",
		zap.String("collection", collection),
		zap.String("user_id", userID),
		zap.Int("deleted", len(existing)),
		zap.Int("inserted", len(records)),
	)

	return len(records), nil
}
