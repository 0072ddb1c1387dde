package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/yatube/internal/config"
	"github.com/sakif/yatube/internal/server"
	"github.com/sakif/yatube/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	if cfg.DBPath != ":memory:" {
		dbDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = randomSecret()
		logger.Warn("JWT_SECRET not set, using a random secret; sessions end when the server restarts")
	}

	var images storage.ImageStore
	if cfg.S3Enabled() {
		s3Store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Bucket:          cfg.AWSBucket,
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			logger.Error("failed to configure S3 storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		images = s3Store
		logger.Info("storing images in S3", slog.String("bucket", cfg.AWSBucket))
	} else {
		logger.Info("storing images on disk", slog.String("dir", cfg.MediaDir))
	}

	if !cfg.GitHubEnabled() {
		logger.Info("GITHUB_CLIENT_ID not set, GitHub login is disabled")
	}

	srv, err := server.New(cfg, logger, images)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
