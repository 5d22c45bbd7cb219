package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/dxworks/honeydew/internal/config"
	"github.com/dxworks/honeydew/internal/graph"
	"github.com/dxworks/honeydew/internal/ingestion"
	"github.com/dxworks/honeydew/internal/ingestion/connectors"
	"github.com/dxworks/honeydew/internal/resolver"
	"github.com/dxworks/honeydew/internal/store"
	minioclient "github.com/dxworks/honeydew/internal/store/minio"
	vk "github.com/dxworks/honeydew/internal/store/valkey"
)

func main() {
	_ = godotenv.Load(".env") // ignore error if .env missing

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := store.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	s := store.New(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		logger.Error("failed to apply schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Valkey
	vkClient, err := vk.NewClient(ctx, cfg.Valkey)
	if err != nil {
		logger.Error("failed to connect to valkey", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer vkClient.Close()
	logger.Info("connected to valkey")

	// MinIO
	minioClient, err := minioclient.NewClient(cfg.MinIO)
	if err != nil {
		logger.Error("failed to connect to minio", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := minioClient.EnsureBucket(ctx); err != nil {
		logger.Error("failed to ensure bucket", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("connected to minio")

	registry := ingestion.NewRegistry()
	engine := resolver.NewEngine(registry, logger, resolver.WithWorkers(cfg.Linker.Workers))
	cache := vk.NewDocumentCache(vkClient, cfg.Linker.CacheTTL)

	stages := []ingestion.Stage{
		ingestion.NewCloneStage(connectors.NewZipConnector(minioClient), connectors.NewGitConnector()),
		ingestion.NewLoadStage(minioClient),
		ingestion.NewExtractStage(registry, cache, cfg.Linker.ParseWorkers, logger),
		ingestion.NewLinkStage(engine, logger),
		ingestion.NewPersistStage(s, logger),
	}

	// Neo4j
	if !cfg.Linker.SkipGraph {
		graphClient, err := graph.NewClient(cfg.Neo4j)
		if err != nil {
			logger.Error("failed to connect to neo4j", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer graphClient.Close(ctx)
		if err := graphClient.EnsureIndexes(ctx); err != nil {
			logger.Warn("neo4j ensure indexes failed, sync may be slow", slog.String("error", err.Error()))
		}
		logger.Info("connected to neo4j")
		stages = append(stages, ingestion.NewGraphStage(graphClient, logger))
	}
	if !cfg.Linker.SkipArtifacts {
		stages = append(stages, ingestion.NewArtifactStage(minioClient))
	}

	pipeline := ingestion.NewPipeline(s, stages, logger)

	consumerID := "worker-" + uuid.NewString()[:8]
	if host, err := os.Hostname(); err == nil {
		consumerID = host
	}
	consumer := ingestion.NewConsumer(vkClient, consumerID, logger)
	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Error("failed to ensure consumer group", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("starting worker, consuming from stream",
		slog.String("stream", ingestion.StreamName),
		slog.String("consumer", consumerID))
	if err := consumer.Consume(ctx, pipeline.Run); err != nil && ctx.Err() == nil {
		logger.Error("consumer error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("worker stopped")
}
