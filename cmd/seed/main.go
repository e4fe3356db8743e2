package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/aslammaududy/cv-checker/internal/config"
	"github.com/aslammaududy/cv-checker/internal/logger"
	"github.com/aslammaududy/cv-checker/internal/services"
)

// Seeds the rubric and job-description reference data into the vector
// store. Run once before the first evaluation; re-running upserts fresh
// copies alongside existing entries, so drop the collections first if the
// seed data changed.
func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	geminiService, err := services.NewGeminiService(cfg.Gemini, cfg.Pipeline.RequestTimeout)
	if err != nil {
		zlog.Fatal("failed to initialize gemini", zap.Error(err))
	}

	store, err := services.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Pipeline.RequestTimeout)
	if err != nil {
		zlog.Fatal("failed to initialize qdrant", zap.Error(err))
	}

	ctx := context.Background()
	dim := uint64(cfg.Gemini.EmbedDim)

	for _, collection := range []string{services.CollectionJobDesc, services.CollectionRubric} {
		if err := store.EnsureCollection(ctx, collection, dim); err != nil {
			zlog.Fatal("failed to ensure collection", zap.String("collection", collection), zap.Error(err))
		}
	}

	if err := seedRubric(ctx, geminiService, store); err != nil {
		zlog.Fatal("failed to seed rubric", zap.Error(err))
	}
	zlog.Info("rubric seeded", zap.Int("criteria", len(rubricItems())))

	if err := seedJobDescriptions(ctx, geminiService, store); err != nil {
		zlog.Fatal("failed to seed job descriptions", zap.Error(err))
	}
	zlog.Info("job descriptions seeded", zap.Int("entries", len(jobDescItems())))
}

func seedRubric(ctx context.Context, embedder services.EmbeddingService, store services.VectorStore) error {
	records := make([]services.Record, 0, len(rubricItems()))

	for _, item := range rubricItems() {
		text := fmt.Sprintf("%s: %s (Weight %.0f%%)", item.Category, item.Description, item.Weight*100)

		vector, err := embedder.EmbedText(ctx, text)
		if err != nil {
			return fmt.Errorf("embed rubric %q: %w", item.Category, err)
		}

		records = append(records, services.Record{
			Vector: vector,
			Payload: map[string]any{
				"category":    item.Category,
				"description": item.Description,
				"guide":       item.Guide,
				"weight":      item.Weight,
				"group":       item.Group,
			},
		})
	}

	return store.Insert(ctx, services.CollectionRubric, records)
}

func seedJobDescriptions(ctx context.Context, embedder services.EmbeddingService, store services.VectorStore) error {
	records := make([]services.Record, 0, len(jobDescItems()))

	for _, description := range jobDescItems() {
		vector, err := embedder.EmbedText(ctx, description)
		if err != nil {
			return fmt.Errorf("embed job description %q: %w", description, err)
		}

		records = append(records, services.Record{
			Vector: vector,
			Payload: map[string]any{
				"description": description,
			},
		})
	}

	return store.Insert(ctx, services.CollectionJobDesc, records)
}
