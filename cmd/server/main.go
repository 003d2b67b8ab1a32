package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"eventfinder/internal/config"
	"eventfinder/internal/database"
	"eventfinder/internal/handler"
	"eventfinder/internal/importer"
	"eventfinder/internal/jobs"
	"eventfinder/internal/logger"
	"eventfinder/internal/maps"
	appmw "eventfinder/internal/middleware"
	"eventfinder/internal/repository"
	"eventfinder/internal/router"
	"eventfinder/internal/service"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatal("schema setup failed", zap.Error(err))
	}
	cancel()

	mapsClient := maps.New(cfg.GoogleMapsAPIKey, cfg.GoogleMapsBaseURL, log)
	repo := repository.NewEventRepo(db, mapsClient, mapsClient, log)
	searchSvc := service.NewSearchService(repo, mapsClient, mapsClient, mapsClient, log)
	imp := importer.New(repo, mapsClient, log)
	backfill := &jobs.Backfill{Store: repo, Geo: mapsClient, Log: log}

	if cfg.BackfillCron != "" {
		cronJob, err := backfill.Schedule(cfg.BackfillCron)
		if err != nil {
			log.Fatal("invalid backfill cron expression",
				zap.String("spec", cfg.BackfillCron), zap.Error(err))
		}
		defer cronJob.Stop()
		log.Info("geocode backfill scheduled", zap.String("spec", cfg.BackfillCron))
	}

	limiter := appmw.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient())

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e,
		handler.NewEventHandler(repo),
		handler.NewSearchHandler(searchSvc),
		handler.NewAdminHandler(cfg, repo, imp, backfill),
		limiter, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
