// cmd/persona-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"persona-match/internal/common/config"
	"persona-match/internal/common/logger"
	"persona-match/internal/inference"
	"persona-match/internal/knowledge"
	"persona-match/internal/scoring"
	"persona-match/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting persona-match server",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	// --- Knowledge base: validated once, fatal on any inconsistency ---
	loader := knowledge.NewLoader(cfg.KnowledgeBase.PersonalityTypesPath, cfg.KnowledgeBase.ProductCatalogPath, log)
	kb, err := loader.Load()
	if err != nil {
		zapLog.Fatal("knowledge base load failed", zap.Error(err))
	}
	zapLog.Info("knowledge base loaded",
		zap.Int("personalities", len(kb.Personalities)),
		zap.Int("catalogEntries", len(kb.ProductCatalog)),
	)

	// --- Inference clients ---
	embedder := buildEmbedder(cfg, log, zapLog)
	classifier := inference.NewZeroShotClient(&inference.Config{
		BaseURL:    cfg.Inference.BaseURL,
		APIKey:     cfg.Inference.APIKey,
		Model:      cfg.Inference.ZeroShotModel,
		Timeout:    config.GetDuration(cfg.Inference.Timeout),
		MaxRetries: cfg.Inference.MaxRetries,
	}, log)

	// --- Scoring engine ---
	engine := scoring.NewEngine(&scoring.Config{
		Alpha:              cfg.Scoring.Alpha,
		Beta:               cfg.Scoring.Beta,
		TopK:               cfg.Scoring.TopK,
		BioWeight:          cfg.Scoring.BioWeight,
		MaxRecommendations: cfg.Scoring.Recommendations,
	}, kb, embedder, classifier, log)

	warmCtx, cancelWarm := context.WithTimeout(context.Background(), config.GetDuration(cfg.Inference.Timeout))
	if err := engine.Warm(warmCtx); err != nil {
		// The first analyze request warms lazily instead.
		zapLog.Warn("persona embedding warm-up failed", zap.Error(err))
	}
	cancelWarm()

	// --- HTTP server ---
	handler := server.NewHandler(engine, log)
	router := server.NewRouter(handler, log, "web/templates/*.html")

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.RequestTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.RequestTimeout),
	}

	go func() {
		zapLog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("server stopped")
}

// buildEmbedder wires the embedding client, wrapped in a Redis read-through
// cache when caching is enabled. Cache failures degrade to direct inference,
// so a Redis outage never blocks startup.
func buildEmbedder(cfg *config.Config, log logger.Logger, zapLog *zap.Logger) inference.Embedder {
	client := inference.NewEmbeddingClient(&inference.Config{
		BaseURL:    cfg.Inference.BaseURL,
		APIKey:     cfg.Inference.APIKey,
		Model:      cfg.Inference.EmbeddingModel,
		Timeout:    config.GetDuration(cfg.Inference.Timeout),
		MaxRetries: cfg.Inference.MaxRetries,
	}, log)

	if !cfg.Cache.Enabled {
		return client
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Address,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		zapLog.Warn("redis unreachable, continuing without it", zap.Error(err))
	}

	ttl := time.Duration(cfg.Cache.TTL) * time.Second
	return inference.NewCachedEmbedder(client, rdb, cfg.Inference.EmbeddingModel, ttl, log)
}
