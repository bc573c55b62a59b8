package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/snapsightai/snapsight/internal/bot"
	"github.com/snapsightai/snapsight/internal/config"
	"github.com/snapsightai/snapsight/internal/detector"
	"github.com/snapsightai/snapsight/internal/gate"
	"github.com/snapsightai/snapsight/internal/logger"
	"github.com/snapsightai/snapsight/internal/storage"
	storagefs "github.com/snapsightai/snapsight/internal/storage/fs"
	"github.com/snapsightai/snapsight/internal/webhook"
)

func runServe() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideTelegramBot,
			provideGateway,
			provideStorage,
			provideDetectorClient,
			gate.New,
			providePipeline,
			provideDispatcher,
			provideWebhookServer,
		),
		fx.Invoke(
			registerWebhook,
			startServer,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig() (config.Config, error) {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.Telegram.Token == "" {
		return config.Config{}, errors.New("telegram token is not configured")
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideTelegramBot(cfg config.Config) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return api, nil
}

func provideGateway(log *slog.Logger, api *tgbotapi.BotAPI, cfg config.Config) bot.Gateway {
	return bot.NewTelegramGateway(log, api, cfg.Telegram.StagingDir)
}

func provideStorage(cfg config.Config) (storage.Provider, error) {
	return storagefs.New(cfg.Storage.Root)
}

func provideDetectorClient(log *slog.Logger, cfg config.Config) *detector.Client {
	timeout := time.Duration(cfg.Detector.TimeoutSeconds) * time.Second
	return detector.NewClient(log, cfg.Detector.BaseURL, timeout)
}

func providePipeline(log *slog.Logger, gateway bot.Gateway, g *gate.Gate, store storage.Provider, cfg config.Config, client *detector.Client) *bot.DetectionPipeline {
	return bot.NewDetectionPipeline(log, gateway, g, store, cfg.Storage.Bucket, client)
}

func provideDispatcher(log *slog.Logger, gateway bot.Gateway, g *gate.Gate, pipeline *bot.DetectionPipeline, cfg config.Config) *bot.Dispatcher {
	return bot.NewDispatcher(log, gateway, g, pipeline, bot.Config{
		Capabilities: bot.Capabilities{
			FilterPhoto:  true,
			DetectPhoto:  true,
			TextCommands: true,
		},
		BlurLevel: cfg.Telegram.BlurLevel,
	})
}

func provideWebhookServer(log *slog.Logger, cfg config.Config, dispatcher *bot.Dispatcher) *webhook.Server {
	return webhook.NewServer(log, cfg.Server.Addr, cfg.Telegram.Token, dispatcher)
}

func registerWebhook(log *slog.Logger, api *tgbotapi.BotAPI, cfg config.Config) error {
	if cfg.Telegram.WebhookURL == "" {
		log.Warn("no webhook url configured, skipping webhook registration")
		return nil
	}
	return bot.SetupWebhook(log, api, cfg.Telegram.WebhookURL)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *webhook.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
