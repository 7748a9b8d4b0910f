package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/kasereka12/BudgetTracer/internal/auth"
	"github.com/kasereka12/BudgetTracer/internal/avatar"
	"github.com/kasereka12/BudgetTracer/internal/backend"
	"github.com/kasereka12/BudgetTracer/internal/cli"
	"github.com/kasereka12/BudgetTracer/internal/config"
	apphttp "github.com/kasereka12/BudgetTracer/internal/http"
	"github.com/kasereka12/BudgetTracer/internal/views"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("budgettracer")
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", bcfg.Type)
		os.Exit(1)
	}

	var avatars views.AvatarStore
	if cfg.S3Bucket != "" {
		s3, err := avatar.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL)
		if err != nil {
			logger.Error("Failed to initialize avatar storage", "error", err, "bucket", cfg.S3Bucket)
			os.Exit(1)
		}
		avatars = s3
		logger.Info("Avatar uploads enabled", "bucket", cfg.S3Bucket)
	} else {
		logger.Info("Avatar uploads disabled - no S3_BUCKET provided")
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:              ":" + cfg.Port,
		Services:          res.Services,
		Store:             res.Store,
		Auth:              auth.NewProvider(cfg.AuthJWTSecret, 1000),
		Avatars:           avatars,
		Logger:            logger,
		RequestsPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:    cfg.TrustedProxies,
	})
	srv.ReadTimeout = 15 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting budgettracer server", "port", cfg.Port, "backend", bcfg.Type)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
