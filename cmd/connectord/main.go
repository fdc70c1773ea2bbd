package main

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/parwinderau/DataspaceConnector/internal/config"
	"github.com/parwinderau/DataspaceConnector/internal/infra/db"
	httpinfra "github.com/parwinderau/DataspaceConnector/internal/infra/http"
)

func main() {
	cfg := config.FromEnv()

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	store, err := db.NewStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		log.Fatalf("failed to migrate store: %v", err)
	}

	srv := httpinfra.NewServer(cfg, store, logger)
	logger.Info("connector listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
