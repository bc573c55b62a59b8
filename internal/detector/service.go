package detector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/snapsightai/snapsight/internal/predictions"
	"github.com/snapsightai/snapsight/internal/storage"
)

// ErrNoDetections indicates the model produced no label file for the image.
// It is a normal outcome, not a failure.
var ErrNoDetections = errors.New("no detections")

// SummaryStore is the slice of the document store the service needs.
type SummaryStore interface {
	Insert(ctx context.Context, summary predictions.Summary) error
	GetByID(ctx context.Context, id string) (predictions.Summary, error)
}

// Response is the wire shape of one prediction.
type Response struct {
	PredictionID     string              `json:"prediction_id"`
	OriginalImgPath  string              `json:"original_img_path"`
	PredictedImgPath string              `json:"predicted_img_path"`
	Labels           []predictions.Label `json:"labels"`
	Time             time.Time           `json:"time"`
}

// Service runs one detection end to end: fetch the image from storage, run
// the model, publish the annotated image, parse labels, persist the summary.
type Service struct {
	logger    *slog.Logger
	store     storage.Provider
	bucket    string
	runner    Runner
	summaries SummaryStore
	workDir   string

	newID func() string
	now   func() time.Time
}

// NewService creates a detection service.
func NewService(log *slog.Logger, store storage.Provider, bucket string, runner Runner, summaries SummaryStore, workDir string) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		logger:    log.With(slog.String("service", "detector")),
		store:     store,
		bucket:    bucket,
		runner:    runner,
		summaries: summaries,
		workDir:   workDir,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Predict detects objects in the stored image imgName and returns the
// structured summary. ErrNoDetections means the model found nothing.
func (s *Service) Predict(ctx context.Context, imgName string) (Response, error) {
	id := s.newID()
	log := s.logger.With(slog.String("prediction_id", id), slog.String("img", imgName))
	log.Info("prediction started")

	filename := path.Base(imgName)
	jobDir := filepath.Join(s.workDir, id)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return Response{}, fmt.Errorf("create job dir: %w", err)
	}
	defer os.RemoveAll(jobDir)

	originalPath := filepath.Join(jobDir, filename)
	if err := s.download(ctx, imgName, originalPath); err != nil {
		return Response{}, err
	}
	log.Info("image downloaded")

	outDir := filepath.Join(jobDir, "out")
	if err := s.runner.Run(ctx, originalPath, outDir); err != nil {
		return Response{}, err
	}

	annotatedKey := path.Join(path.Dir(imgName), "predicted_"+filename)
	if err := s.publishAnnotated(ctx, filepath.Join(outDir, filename), annotatedKey); err != nil {
		return Response{}, err
	}

	stem := strings.TrimSuffix(filename, path.Ext(filename))
	labelFile, err := os.Open(filepath.Join(outDir, "labels", stem+".txt"))
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("no label file, nothing detected")
			return Response{}, fmt.Errorf("%w for %s", ErrNoDetections, imgName)
		}
		return Response{}, fmt.Errorf("open label file: %w", err)
	}
	defer labelFile.Close()

	labels, err := ParseLabels(labelFile)
	if err != nil {
		return Response{}, err
	}
	log.Info("labels parsed", slog.Int("count", len(labels)))

	summary := predictions.Summary{
		ID:           id,
		OriginalKey:  imgName,
		AnnotatedKey: annotatedKey,
		Labels:       labels,
		CreatedAt:    s.now(),
	}
	// The summary write must not block the reply: a store outage degrades
	// persistence, not detection.
	if err := s.summaries.Insert(ctx, summary); err != nil {
		log.Error("store summary failed", slog.Any("error", err))
	}

	return Response{
		PredictionID:     summary.ID,
		OriginalImgPath:  summary.OriginalKey,
		PredictedImgPath: summary.AnnotatedKey,
		Labels:           summary.Labels,
		Time:             summary.CreatedAt,
	}, nil
}

// Summary returns a previously stored prediction summary.
func (s *Service) Summary(ctx context.Context, id string) (predictions.Summary, error) {
	return s.summaries.GetByID(ctx, id)
}

func (s *Service) download(ctx context.Context, key, dest string) error {
	rc, err := s.store.Open(ctx, s.bucket, key)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", key, err)
	}
	defer rc.Close()
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, rc); err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}
	return nil
}

// publishAnnotated uploads the annotated image under a distinct key so the
// original is never overwritten. A missing annotated file is tolerated: some
// models skip it when nothing was detected.
func (s *Service) publishAnnotated(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open annotated image: %w", err)
	}
	defer f.Close()
	if err := s.store.Put(ctx, s.bucket, key, f); err != nil {
		return fmt.Errorf("upload annotated image: %w", err)
	}
	return nil
}
