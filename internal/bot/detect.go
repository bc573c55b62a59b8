package bot

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/snapsightai/snapsight/internal/detector"
	"github.com/snapsightai/snapsight/internal/gate"
	"github.com/snapsightai/snapsight/internal/storage"
)

// storageKeyPrefix is the fixed prefix photo uploads land under.
const storageKeyPrefix = "tg-photos"

// PredictClient is the slice of the detection client the pipeline needs.
type PredictClient interface {
	Predict(ctx context.Context, imgName string) (detector.Response, error)
}

// DetectionPipeline orchestrates one detect job: stage the photo, upload it
// to object storage, call the detection service, and report the per-class
// counts back to the chat. It owns gate release for the job it runs.
type DetectionPipeline struct {
	logger  *slog.Logger
	gateway Gateway
	gate    *gate.Gate
	store   storage.Provider
	bucket  string
	client  PredictClient
}

// NewDetectionPipeline creates a pipeline.
func NewDetectionPipeline(log *slog.Logger, gateway Gateway, g *gate.Gate, store storage.Provider, bucket string, client PredictClient) *DetectionPipeline {
	if log == nil {
		log = slog.Default()
	}
	return &DetectionPipeline{
		logger:  log.With(slog.String("component", "detection")),
		gateway: gateway,
		gate:    g,
		store:   store,
		bucket:  bucket,
		client:  client,
	}
}

// Run executes the job for an admitted photo message. The gate is released on
// every exit path.
func (p *DetectionPipeline) Run(ctx context.Context, msg Message) {
	defer p.gate.Release()

	p.send(msg.ChatID, replyProcessing)

	localPath, err := p.gateway.DownloadPhoto(ctx, msg.PhotoFileID)
	if err != nil {
		// Transport failure before the job properly started: nothing useful
		// to tell the chat.
		p.logger.Error("photo download failed",
			slog.Int64("chat_id", msg.ChatID),
			slog.Any("error", err))
		return
	}

	key := path.Join(storageKeyPrefix, filepath.Base(localPath))
	if err := p.upload(ctx, localPath, key); err != nil {
		p.logger.Error("photo upload failed", slog.String("key", key), slog.Any("error", err))
		p.send(msg.ChatID, replyUploadFailed)
		return
	}
	p.logger.Info("photo uploaded", slog.String("key", key))

	resp, err := p.client.Predict(ctx, key)
	if err != nil {
		if errors.Is(err, detector.ErrNoDetections) {
			p.send(msg.ChatID, replyCompleted)
			p.send(msg.ChatID, replyNoDetections)
			return
		}
		p.logger.Error("detection call failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if len(resp.Labels) == 0 {
		p.send(msg.ChatID, replyCompleted)
		p.send(msg.ChatID, replyNoDetections)
		return
	}

	summary := detector.FormatCounts(detector.CountByClass(resp.Labels))
	p.logger.Info("detection completed",
		slog.String("prediction_id", resp.PredictionID),
		slog.Int("labels", len(resp.Labels)))
	p.send(msg.ChatID, replyCompleted)
	p.send(msg.ChatID, summary)
}

func (p *DetectionPipeline) upload(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.store.Put(ctx, p.bucket, key, f)
}

func (p *DetectionPipeline) send(chatID int64, text string) {
	if err := p.gateway.SendText(chatID, text); err != nil {
		p.logger.Error("send text failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}
