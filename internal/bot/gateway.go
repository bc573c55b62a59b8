package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Gateway is the outbound chat surface plus photo download. The dispatcher
// and pipeline only ever talk to this interface.
type Gateway interface {
	SendText(chatID int64, text string) error
	SendTextWithQuote(chatID int64, text string, quotedMessageID int) error
	SendPhoto(chatID int64, path, caption string) error
	DownloadPhoto(ctx context.Context, fileID string) (string, error)
}

// TelegramGateway implements Gateway over the Telegram Bot API.
type TelegramGateway struct {
	bot        *tgbotapi.BotAPI
	http       *http.Client
	stagingDir string
	logger     *slog.Logger
}

// NewTelegramGateway creates a gateway that stages downloaded photos under
// stagingDir.
func NewTelegramGateway(log *slog.Logger, bot *tgbotapi.BotAPI, stagingDir string) *TelegramGateway {
	if log == nil {
		log = slog.Default()
	}
	return &TelegramGateway{
		bot:        bot,
		http:       &http.Client{Timeout: 60 * time.Second},
		stagingDir: stagingDir,
		logger:     log.With(slog.String("gateway", "telegram")),
	}
}

// SendText sends a plain text message.
func (g *TelegramGateway) SendText(chatID int64, text string) error {
	_, err := g.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendTextWithQuote sends text quoting an earlier message.
func (g *TelegramGateway) SendTextWithQuote(chatID int64, text string, quotedMessageID int) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = quotedMessageID
	_, err := g.bot.Send(msg)
	return err
}

// SendPhoto uploads a local image file to the chat.
func (g *TelegramGateway) SendPhoto(chatID int64, path, caption string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("photo path: %w", err)
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	_, err := g.bot.Send(photo)
	return err
}

// DownloadPhoto fetches the photo behind fileID into the staging directory
// and returns the local path.
func (g *TelegramGateway) DownloadPhoto(ctx context.Context, fileID string) (string, error) {
	file, err := g.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("resolve file %s: %w", fileID, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(g.bot.Token), nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("download photo: status %d", resp.StatusCode)
	}
	if err := os.MkdirAll(g.stagingDir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	dest := filepath.Join(g.stagingDir, filepath.Base(file.FilePath))
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("write staging file: %w", err)
	}
	g.logger.Debug("photo staged", slog.String("file_id", fileID), slog.String("path", dest))
	return dest, nil
}

// SetupWebhook deregisters any previous webhook and points Telegram at
// baseURL/<token>/.
func SetupWebhook(log *slog.Logger, bot *tgbotapi.BotAPI, baseURL string) error {
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	wh, err := tgbotapi.NewWebhook(fmt.Sprintf("%s/%s/", baseURL, bot.Token))
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := bot.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	log.Info("webhook registered", slog.String("bot", bot.Self.UserName))
	return nil
}
