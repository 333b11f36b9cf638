package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/activity"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/admin"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/catalog"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/config"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/database"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/logging"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/media"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/middleware"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/ratelimit"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/seed"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/server"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/slots"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.Env)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}
	if err := database.EnsureDefaultAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("default admin")
	}
	if err := database.EnsureCompanyInfo(db); err != nil {
		log.Fatal().Err(err).Msg("company info")
	}

	store, err := media.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		log.Fatal().Err(err).Msg("media store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// без Redis форма контактов не ограничивается
	var limiter middleware.Allower
	if cfg.RedisURL != "" {
		rdb, err := ratelimit.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, contact form throttling disabled")
		} else {
			defer rdb.Close()
			limiter = ratelimit.New(rdb, "matrichaya:", cfg.ContactRateLimit, cfg.ContactRateWindow)
		}
	}

	reg := slots.NewRegistry(db, store)
	cat := catalog.NewStore(db)
	rec := activity.NewRecorder(db)

	retention := activity.NewRetention(rec, cfg.ActivityRetentionDays, cfg.ActivityRetentionSchedule)
	if err := retention.Start(); err != nil {
		log.Fatal().Err(err).Msg("activity retention")
	}
	defer retention.Stop()

	seeder, err := seed.New(cat, reg)
	if err != nil {
		// без фикстур не работает только кнопка sample data
		log.Warn().Err(err).Msg("sample data fixtures unavailable")
	}

	svc := admin.NewService(db, reg, cat, rec, seeder)
	r, err := server.NewRouter(cfg, svc, limiter)
	if err != nil {
		log.Fatal().Err(err).Msg("router init failed")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
