package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tillpoint/internal/config"
	"tillpoint/internal/infra"
	"tillpoint/internal/repository"
	"tillpoint/internal/router"
	"tillpoint/internal/store"
	"tillpoint/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log.Logger = infra.NewLogger(cfg.Env, os.Stderr)

	// Storage backend: per-key JSON files by default, Redis when configured.
	var (
		kv  store.KV
		rdb *redis.Client
	)
	switch cfg.StoreBackend {
	case "redis":
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		kv = store.NewRedisStore(rdb)
	default:
		kv, err = store.NewFileStore(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open data directory")
		}
		// Redis stays optional for the job queue and backup target.
		if r, rerr := infra.NewRedis(cfg.RedisURL); rerr == nil {
			rdb = r
		} else {
			log.Warn().Err(rerr).Msg("redis unavailable — async jobs disabled")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state := store.NewState(kv)
	state.Load(ctx)
	state.ExpireStaleSession(time.Duration(cfg.SessionHours) * time.Hour)
	state.StartAutosave(ctx, time.Duration(cfg.AutosaveSeconds)*time.Second)

	// Worker pool for async tasks (receipt email, cloud backup). Handlers are
	// wired here (composition root) so the pool has full access to all
	// infrastructure dependencies.
	saleRepo := repository.NewSaleRepository(state)
	settingsRepo := repository.NewSettingsRepository(state)
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	backupWorker := worker.NewBackupWorker(state, settingsRepo, rdb)
	handlers := &worker.Handlers{
		Receipt: worker.NewReceiptWorker(saleRepo, settingsRepo, mailer, cfg.PDFStoragePath),
		Backup:  backupWorker,
	}
	worker.StartPool(ctx, rdb, handlers, cfg.WorkerPoolSize)

	r := router.New(cfg, state, kv, rdb, dispatcher, backupWorker)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("tillpoint listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	// Last flush so nothing dirty is lost on exit.
	if err := state.FlushAll(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("final flush failed")
	}
	log.Info().Msg("server exited")
}
