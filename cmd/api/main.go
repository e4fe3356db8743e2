package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/aslammaududy/cv-checker/internal/config"
	"github.com/aslammaududy/cv-checker/internal/handlers"
	"github.com/aslammaududy/cv-checker/internal/logger"
	"github.com/aslammaududy/cv-checker/internal/repositories"
	"github.com/aslammaududy/cv-checker/internal/services"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}

	evalRepo := repositories.NewEvaluationRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zlog.Fatal("failed to create upload directory", zap.Error(err))
	}

	extractor := services.NewPDFTextExtractor()

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
	for _, collection := range []string{
		services.CollectionCV,
		services.CollectionProject,
		services.CollectionJobDesc,
		services.CollectionRubric,
	} {
		if err := store.EnsureCollection(ctx, collection, dim); err != nil {
			zlog.Fatal("failed to ensure collection", zap.String("collection", collection), zap.Error(err))
		}
	}

	chunker := services.NewTextChunker()
	indexer := services.NewDocumentIndexer(store, geminiService, chunker, cfg.Pipeline.ChunkSize, zlog)
	matcher := services.NewJobDescriptionMatcher(store)
	rubric := services.NewRubricRetriever(store)
	evidence := services.NewEvidenceFilter(store)
	scorer := services.NewScoringEngine(geminiService, services.NewPromptBuilder(), zlog)

	evaluatorService := services.NewEvaluatorService(
		evalRepo,
		extractor,
		store,
		indexer,
		matcher,
		rubric,
		evidence,
		scorer,
		zlog,
		cfg.Gemini.EmbedDim,
		cfg.Pipeline.RetryMaxAttempts,
		cfg.Pipeline.RetryBackoff,
	)

	worker := services.NewWorker(evalRepo, evaluatorService, cfg.Worker.Concurrency, zlog)
	worker.Start(ctx)

	uploadHandler := handlers.NewUploadHandler(evalRepo, storageService, cfg.Storage.MaxFileSize)
	evaluateHandler := handlers.NewEvaluationHandler(evalRepo, worker)
	resultHandler := handlers.NewResultHandler(evalRepo)

	app := fiber.New(fiber.Config{
		AppName:      "CV Checker API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 2,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Get("/result/:id", resultHandler.HandleGetResult)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
