package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/rgiraldo/mini-user-api/internal/config"
	"github.com/rgiraldo/mini-user-api/internal/logging"
	"github.com/rgiraldo/mini-user-api/internal/server"
	"github.com/rgiraldo/mini-user-api/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.LogLevel, cfg.Env)

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, postgres.Config{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DBMaxConns,
		IdleTimeout:    cfg.DBIdleTimeout,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init database")
	}
	defer store.Close()

	srv := server.New(cfg, store)

	go func() {
		log.Info().Str("addr", cfg.HTTPAddress()).Str("env", cfg.Env).Msg("server starting")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutdown signal received")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	} else {
		log.Info().Msg("server stopped")
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found; relying on existing environment")
	}
}
