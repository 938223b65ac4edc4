package main

import (
	"context"
	"encoding/base64"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/mansoorceksport/mealturn/internal/assets"
	"github.com/mansoorceksport/mealturn/internal/backend"
	"github.com/mansoorceksport/mealturn/internal/config"
	"github.com/mansoorceksport/mealturn/internal/handler"
	"github.com/mansoorceksport/mealturn/internal/logger"
	"github.com/mansoorceksport/mealturn/internal/server"
	"github.com/mansoorceksport/mealturn/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("production")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.Server.Environment)
	log.Info().Str("backend", cfg.Backend.BaseURL).Msg("starting meal ordering web")

	ctx := context.Background()

	// Grafana Cloud requires Basic auth with instanceId:apiToken base64 encoded
	authEncoded := base64.StdEncoding.EncodeToString([]byte(cfg.OTEL.InstanceID + ":" + cfg.OTEL.Token))

	otelProvider, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.OTEL.ServiceName,
		ServiceVersion: cfg.OTEL.ServiceVersion,
		Environment:    cfg.OTEL.Environment,
		OTLPEndpoint:   cfg.OTEL.Endpoint,
		OTLPHeaders: map[string]string{
			"Authorization": "Basic " + authEncoded,
		},
		Enabled: cfg.OTEL.Enabled,
	}, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize OpenTelemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	// Sessions, query cache and submission ids live in Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to Redis")
	}
	log.Info().Msg("✓ Redis connected")

	var qr handler.QRUploader
	if cfg.S3.Endpoint != "" {
		store, err := assets.NewQRStore(ctx, cfg.S3, cfg.Server.MaxUploadSizeMB*1024*1024)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize QR storage")
		}
		qr = store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("✓ QR storage ready")
	}

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		RedisClient: redisClient,
		Backend:     backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout),
		QR:          qr,
		Logger:      log,
		Now:         time.Now,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info().Msg("shutting down gracefully")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.Server.Port).Msg("🚀 server starting")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
