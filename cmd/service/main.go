package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dropDatabas3/hellojane/internal/app"
	"github.com/dropDatabas3/hellojane/internal/config"
	"github.com/dropDatabas3/hellojane/internal/http/server"
	"github.com/dropDatabas3/hellojane/internal/observability/logger"
)

func main() {
	// .env opcional (solo dev)
	_ = godotenv.Load()

	configPath := flag.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "Ruta al YAML de configuración (env CONFIG_PATH)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// sin config válida todavía no hay logger configurado
		logger.Init(logger.Config{Env: "dev"})
		logger.L().Fatal("config load failed", logger.Err(err))
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "hellojane",
		Version:     cfg.App.Version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal("app init failed", logger.Err(err))
	}

	err = server.Run(ctx, server.Options{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, container.Router())
	if err != nil {
		log.Error("http server failed", logger.Err(err))
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if cerr := container.Close(closeCtx); cerr != nil {
		log.Warn("store close failed", logger.Err(cerr))
	}
	log.Info("bye", zap.Bool("clean", err == nil))

	if err != nil {
		_ = logger.Sync()
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
