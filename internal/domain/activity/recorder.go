package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher forwards activity records to the event stream consumed by the
// notifier worker.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Recorder dual-writes activity records to durable storage and the event
// stream. Both writes are best-effort: an audit outage must never block
// the operation being audited.
type Recorder struct {
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewRecorder(repo Repository, publisher Publisher, logger *slog.Logger) *Recorder {
	return &Recorder{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Record persists and publishes an activity record. Errors are logged and
// swallowed.
func (r *Recorder) Record(ctx context.Context, rec Record) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now()
	}

	if err := r.repo.Append(ctx, &rec); err != nil {
		r.logger.Warn("activity append failed", "activity", rec.Activity, "entity_type", rec.EntityType, "error", err)
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, rec.ID, rec); err != nil {
			r.logger.Warn("activity publish failed", "activity", rec.Activity, "error", err)
		}
	}
}

func (r *Recorder) Recent(ctx context.Context, limit, offset int) ([]*Record, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.repo.ListRecent(ctx, limit, offset)
}

func (r *Recorder) ByEntity(ctx context.Context, entityType EntityType, entityID string, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.repo.ListByEntity(ctx, entityType, entityID, limit)
}
