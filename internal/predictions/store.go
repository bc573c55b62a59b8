package predictions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no summary exists for the requested prediction id.
var ErrNotFound = errors.New("prediction not found")

// Store persists detection summaries. Inserts only; there is no update or
// delete path.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a Store over the given pool.
func NewStore(log *slog.Logger, pool *pgxpool.Pool) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		pool:   pool,
		logger: log.With(slog.String("store", "predictions")),
	}
}

// EnsureSchema creates the predictions table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
create table if not exists predictions (
    id            uuid primary key,
    original_key  text not null,
    annotated_key text not null,
    labels        jsonb not null default '[]',
    created_at    timestamptz not null default now()
)`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure predictions schema: %w", err)
	}
	return nil
}

// Insert writes a summary. Each prediction id is fresh, so a conflict is a
// caller bug and surfaces as an error.
func (s *Store) Insert(ctx context.Context, summary Summary) error {
	labels, err := json.Marshal(summary.Labels)
	if err != nil {
		return fmt.Errorf("encode labels: %w", err)
	}
	const q = `
insert into predictions (id, original_key, annotated_key, labels, created_at)
values ($1, $2, $3, $4, $5)`
	if _, err := s.pool.Exec(ctx, q,
		summary.ID, summary.OriginalKey, summary.AnnotatedKey, labels, summary.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert prediction %s: %w", summary.ID, err)
	}
	s.logger.Info("prediction stored",
		slog.String("prediction_id", summary.ID),
		slog.Int("labels", len(summary.Labels)))
	return nil
}

// GetByID returns the summary for a prediction id.
func (s *Store) GetByID(ctx context.Context, id string) (Summary, error) {
	const q = `
select id, original_key, annotated_key, labels, created_at
from predictions
where id = $1`
	var (
		summary Summary
		labels  []byte
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&summary.ID, &summary.OriginalKey, &summary.AnnotatedKey, &labels, &summary.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Summary{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Summary{}, fmt.Errorf("get prediction %s: %w", id, err)
	}
	if err := json.Unmarshal(labels, &summary.Labels); err != nil {
		return Summary{}, fmt.Errorf("decode labels for %s: %w", id, err)
	}
	return summary, nil
}
