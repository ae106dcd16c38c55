package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"tournament-platform/assets"
	"tournament-platform/config"
	"tournament-platform/db"
	"tournament-platform/repository"
	"tournament-platform/storage"
	"tournament-platform/utils"
	"tournament-platform/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := utils.NewLogger(cfg.LogLevel, os.Stdout)

	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.StoreConfigured() {
		log.Fatal().Msg("object store is not configured: set CLOUDFLARE_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_ACCESS_KEY_SECRET and R2_BUCKET_NAME")
	}
	store, err := storage.NewR2Store(ctx, storage.R2Config{
		AccountID:       cfg.R2.AccountID,
		AccessKeyID:     cfg.R2.AccessKeyID,
		SecretAccessKey: cfg.R2.SecretAccessKey,
		BucketName:      cfg.R2.BucketName,
		PublicBaseURL:   cfg.R2.PublicBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize R2 client")
	}

	orphans := repository.NewOrphanStore(conn)
	am := assets.NewManager(store, assets.Options{
		MaxBytes:  cfg.MaxUploadBytes,
		Protected: []string{cfg.DefaultTeamLogoURL, cfg.DefaultPlayerPhotoURL},
		Orphans:   orphans,
		Logger:    log.With().Str("component", "assets").Logger(),
	})

	srv := newServer(cfg, conn, am, store, log)

	sched, err := workers.StartScheduler(
		workers.NewOrphanSweeper(orphans, am, log),
		srv.news,
		workers.Intervals{OrphanSweep: cfg.OrphanSweepInterval, NewsPublish: cfg.NewsPublishInterval},
		log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	go func() {
		if err := srv.app.Listen(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	log.Info().
		Int("port", cfg.ServerPort).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("bucket", cfg.R2.BucketName).
		Msg("✅ server running, gateway auth enforced globally")

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	if err := sched.Shutdown(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown failed")
	}
	if err := srv.app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
