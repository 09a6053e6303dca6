package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/examind/seatplan/internal/config"
	"github.com/examind/seatplan/internal/database"
	"github.com/examind/seatplan/internal/handler"
	"github.com/examind/seatplan/internal/logger"
	"github.com/examind/seatplan/internal/middleware"
	"github.com/examind/seatplan/internal/queue"
	"github.com/examind/seatplan/internal/repository"
	"github.com/examind/seatplan/internal/router"
	"github.com/examind/seatplan/internal/service"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		zl.Warn("redis unavailable, rate limiting and edit locks disabled")
	}

	runs := repository.NewRunRepo(db)
	halls := repository.NewHallRepo(db)
	roster := repository.NewRosterRepo(db)
	allocs := repository.NewAllocationRepo(db)
	conflicts := repository.NewConflictRepo(db)

	opts := service.OrchestratorOpts{
		AsyncThreshold: cfg.AsyncThreshold,
		SoftWindow:     cfg.SoftWindow,
	}
	if cfg.AMQPURL != "" {
		pub := queue.NewPublisher(cfg.AMQPURL, zl)
		opts.Dispatch = pub
		opts.Notify = pub
	}
	orch := service.NewOrchestrator(runs, halls, roster, opts, zl)
	guard := service.NewEditGuard(allocs, runs, halls, rdb, zl)

	if cfg.WorkerEnabled && cfg.AMQPURL != "" {
		go func() {
			execute := func(ctx context.Context, runID uint64) error {
				_, err := orch.Execute(ctx, runID)
				return err
			}
			if err := queue.StartRunConsumer(cfg.AMQPURL, execute, zl); err != nil {
				zl.Error("run consumer stopped", zap.Error(err))
			}
		}()
	}

	var rateLimit echo.MiddlewareFunc
	if rdb != nil {
		rateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Deps{
		DB:        db,
		JWTSecret: cfg.JWTSecret,
		RateLimit: rateLimit,
		Runs:      handler.NewRunHandler(orch, runs, allocs, conflicts),
		Allocs:    handler.NewAllocationHandler(guard),
		Halls:     handler.NewHallHandler(halls),
	})

	addr := ":" + cfg.Port
	zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
