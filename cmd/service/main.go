package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Project-Legacy-LA/legacy-la/internal/config"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/server"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

func main() {
	var (
		flagConfigPath = flag.String("config", "", "ruta a config.yaml (fallback: $CONFIG_PATH)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env (si existe, se carga)")
	)
	flag.Parse()

	// .env es opcional; las variables del sistema siempre ganan.
	_ = godotenv.Load(*flagEnvFile)

	path := *flagConfigPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log := logger.L().With(logger.String("service", cfg.App.ServiceName))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, log)

	app, err := server.Build(ctx, cfg, server.Options{})
	if err != nil {
		log.Fatal("wiring failed", logger.Err(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("cleanup failed", logger.Err(err))
		}
	}()

	if err := server.Run(ctx, cfg, app.Handler); err != nil {
		log.Error("server stopped", logger.Err(err))
		return
	}
	log.Info("bye")
}
