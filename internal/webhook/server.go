// Package webhook exposes the HTTP surface the chat platform calls back
// into: one update endpoint guarded by the bot token, plus a health probe.
package webhook

import (
	"context"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/snapsightai/snapsight/internal/bot"
)

// Dispatcher handles one decoded inbound message.
type Dispatcher interface {
	Handle(ctx context.Context, msg bot.Message)
}

type Server struct {
	echo   *echo.Echo
	addr   string
	logger *slog.Logger
}

// NewServer builds the webhook server. token is the bot token Telegram echoes
// back in the update path; updates sent to any other path are rejected.
func NewServer(log *slog.Logger, addr, token string, dispatcher Dispatcher) *Server {
	if log == nil {
		log = slog.Default()
	}
	if addr == "" {
		addr = ":8443"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.POST("/:token/", func(c echo.Context) error {
		if c.Param("token") != token {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		var update tgbotapi.Update
		if err := c.Bind(&update); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed update")
		}
		if update.Message == nil {
			return c.NoContent(http.StatusOK)
		}
		msg := bot.FromTelegram(update.Message)
		// Telegram retries updates that are not acknowledged quickly, so the
		// handler runs off the request goroutine.
		go dispatcher.Handle(context.Background(), msg)
		return c.NoContent(http.StatusOK)
	})

	return &Server{
		echo:   e,
		addr:   addr,
		logger: log.With(slog.String("component", "webhook")),
	}
}

// Start serves until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("webhook server listening", slog.String("addr", s.addr))
	return s.echo.Start(s.addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
