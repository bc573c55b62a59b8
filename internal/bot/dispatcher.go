package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/snapsightai/snapsight/internal/gate"
	"github.com/snapsightai/snapsight/internal/pixel"
	"github.com/snapsightai/snapsight/internal/router"
)

// Capabilities selects which message kinds a dispatcher handles. It replaces
// per-capability bot subclasses with one dispatcher composed from the set.
type Capabilities struct {
	FilterPhoto  bool
	DetectPhoto  bool
	TextCommands bool
}

// Dispatcher is the top-level message handler: it applies the photo gate,
// routes captions and text, runs filters, and hands detect jobs to the
// pipeline.
type Dispatcher struct {
	logger    *slog.Logger
	gateway   Gateway
	gate      *gate.Gate
	pipeline  *DetectionPipeline
	caps      Capabilities
	blurLevel int
	randFloat func() float64
}

// Config carries the dispatcher's tunables.
type Config struct {
	Capabilities Capabilities
	BlurLevel    int
	// RandFloat overrides the salt-and-pepper randomness source; nil keeps
	// the default.
	RandFloat func() float64
}

// NewDispatcher creates a dispatcher. pipeline may be nil when DetectPhoto is
// off.
func NewDispatcher(log *slog.Logger, gateway Gateway, g *gate.Gate, pipeline *DetectionPipeline, cfg Config) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	level := cfg.BlurLevel
	if level < 1 {
		level = pixel.DefaultBlurLevel
	}
	return &Dispatcher{
		logger:    log.With(slog.String("component", "dispatcher")),
		gateway:   gateway,
		gate:      g,
		pipeline:  pipeline,
		caps:      cfg.Capabilities,
		blurLevel: level,
		randFloat: cfg.RandFloat,
	}
}

// Handle processes one inbound message. Text handling is stateless and never
// consults the gate; photo handling admits at most one job at a time.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) {
	switch {
	case msg.HasPhoto() && (d.caps.FilterPhoto || d.caps.DetectPhoto):
		d.handlePhoto(ctx, msg)
	case msg.Text != "" && d.caps.TextCommands:
		d.sendText(msg.ChatID, router.RouteText(msg.Text))
	default:
		d.logger.Debug("message ignored", slog.Int64("chat_id", msg.ChatID))
	}
}

func (d *Dispatcher) handlePhoto(ctx context.Context, msg Message) {
	if !d.gate.TryAcquire() {
		// Dropped by design: one photo job at a time, excess load is not
		// queued.
		d.logger.Info("photo job already in flight, dropping message",
			slog.Int64("chat_id", msg.ChatID),
			slog.Int("message_id", msg.MessageID))
		return
	}

	selection := router.RouteCaption(msg.Caption, msg.HasCaption)
	d.logger.Info("photo routed",
		slog.Int64("chat_id", msg.ChatID),
		slog.String("selection", selection.String()))

	switch selection {
	case router.NoCaption:
		defer d.gate.Release()
		d.sendText(msg.ChatID, replyNoCaption)
	case router.Unrecognized:
		defer d.gate.Release()
		d.sendText(msg.ChatID, replyUnknownAction)
	case router.Detect:
		if d.caps.DetectPhoto && d.pipeline != nil {
			// The pipeline owns gate release from here.
			d.pipeline.Run(ctx, msg)
			return
		}
		defer d.gate.Release()
		d.sendText(msg.ChatID, replyUnknownAction)
	default:
		d.runFilter(ctx, msg, selection)
	}
}

// runFilter executes one filter job: download, transform, send back.
func (d *Dispatcher) runFilter(ctx context.Context, msg Message, selection router.Selection) {
	defer d.gate.Release()

	if !d.caps.FilterPhoto {
		d.sendText(msg.ChatID, replyUnknownAction)
		return
	}
	d.sendText(msg.ChatID, replyProcessing)

	localPath, err := d.gateway.DownloadPhoto(ctx, msg.PhotoFileID)
	if err != nil {
		d.logger.Error("photo download failed",
			slog.Int64("chat_id", msg.ChatID),
			slog.Any("error", err))
		return
	}
	grid, err := pixel.Load(localPath)
	if err != nil {
		d.logger.Error("image decode failed", slog.String("path", localPath), slog.Any("error", err))
		d.sendText(msg.ChatID, replyProcessingFailed)
		return
	}
	if err := d.applyFilter(grid, selection); err != nil {
		d.logger.Error("filter failed",
			slog.String("selection", selection.String()),
			slog.Any("error", err))
		d.sendText(msg.ChatID, replyProcessingFailed)
		return
	}
	resultPath, err := grid.Save(localPath)
	if err != nil {
		d.logger.Error("result save failed", slog.String("path", localPath), slog.Any("error", err))
		d.sendText(msg.ChatID, replyProcessingFailed)
		return
	}

	d.sendText(msg.ChatID, replyCompletedResult)
	if err := d.gateway.SendPhoto(msg.ChatID, resultPath, replyEnjoy); err != nil {
		d.logger.Error("result photo send failed", slog.Int64("chat_id", msg.ChatID), slog.Any("error", err))
	}
}

func (d *Dispatcher) applyFilter(grid *pixel.Grid, selection router.Selection) error {
	switch selection {
	case router.Blur:
		return grid.Blur(d.blurLevel)
	case router.Contour:
		return grid.Contour()
	case router.SaltAndPepper:
		return grid.SaltAndPepper(d.randFloat)
	case router.Segment:
		return grid.Segment()
	default:
		return errors.New("no filter for selection " + selection.String())
	}
}

func (d *Dispatcher) sendText(chatID int64, text string) {
	if err := d.gateway.SendText(chatID, text); err != nil {
		d.logger.Error("send text failed", slog.Int64("chat_id", chatID), slog.Any("error", err))
	}
}
