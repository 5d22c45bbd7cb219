package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dxworks/honeydew/internal/api"
	"github.com/dxworks/honeydew/internal/config"
	"github.com/dxworks/honeydew/internal/graph"
	"github.com/dxworks/honeydew/internal/ingestion"
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

	// Initialize database pool
	ctx := context.Background()
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

	deps := &api.RouterDeps{
		Engine:       resolver.NewEngine(ingestion.NewRegistry(), logger, resolver.WithWorkers(cfg.Linker.Workers)),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}

	// Neo4j (optional)
	graphClient, err := graph.NewClient(cfg.Neo4j)
	if err != nil {
		logger.Warn("neo4j connection failed, call graph queries disabled", slog.String("error", err.Error()))
	} else {
		deps.Graph = graphClient
		defer graphClient.Close(ctx)
		logger.Info("connected to neo4j")
	}

	// MinIO (optional, enables uploads)
	mc, err := minioclient.NewClient(cfg.MinIO)
	if err != nil {
		logger.Warn("minio connection failed, uploads disabled", slog.String("error", err.Error()))
	} else if err := mc.EnsureBucket(ctx); err != nil {
		logger.Warn("minio bucket unavailable, uploads disabled", slog.String("error", err.Error()))
	} else {
		deps.MinIO = mc
		logger.Info("connected to minio")
	}

	// Valkey (optional, enables the job queue)
	vkClient, err := vk.NewClient(ctx, cfg.Valkey)
	if err != nil {
		logger.Warn("valkey connection failed, job queue disabled", slog.String("error", err.Error()))
	} else {
		deps.Producer = ingestion.NewProducer(vkClient)
		defer vkClient.Close()
		logger.Info("connected to valkey")
	}

	router := api.NewRouter(logger, s, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting API server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
