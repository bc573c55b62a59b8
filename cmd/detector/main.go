package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/snapsightai/snapsight/internal/config"
	"github.com/snapsightai/snapsight/internal/db"
	"github.com/snapsightai/snapsight/internal/detector"
	"github.com/snapsightai/snapsight/internal/logger"
	"github.com/snapsightai/snapsight/internal/predictions"
	storagefs "github.com/snapsightai/snapsight/internal/storage/fs"
)

func main() {
	ctx := context.Background()
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Model.Command == "" {
		log.Fatalf("model command is required")
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	slogger := logger.L

	conn, err := db.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer conn.Close()

	summaries := predictions.NewStore(slogger, conn)
	if err := summaries.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	store, err := storagefs.New(cfg.Storage.Root)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}

	runner := detector.NewExecRunner(slogger, cfg.Model.Command, cfg.Model.Args)
	service := detector.NewService(slogger, store, cfg.Storage.Bucket, runner, summaries, cfg.Detector.WorkDir)
	handler := detector.NewHandler(slogger, service)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	handler.Register(e)

	go func() {
		if err := e.Start(cfg.Detector.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
