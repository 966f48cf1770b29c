package memory

import (
	"context"
	"sync"

	"github.com/example/ec-shop-api/internal/domain/activity"
)

type ActivityRepository struct {
	mu sync.RWMutex
	// FailAppend, when set, makes Append fail with this error.
	FailAppend error
	records    []*activity.Record
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) Append(_ context.Context, rec *activity.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAppend != nil {
		return r.FailAppend
	}
	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

// Records returns everything appended so far, oldest first.
func (r *ActivityRepository) Records() []*activity.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*activity.Record(nil), r.records...)
}

func (r *ActivityRepository) ListRecent(_ context.Context, limit, offset int) ([]*activity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []*activity.Record{}
	for i := len(r.records) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		cp := *r.records[i]
		result = append(result, &cp)
	}
	return result, nil
}

func (r *ActivityRepository) ListByEntity(_ context.Context, entityType activity.EntityType, entityID string, limit int) ([]*activity.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []*activity.Record{}
	for i := len(r.records) - 1; i >= 0 && len(result) < limit; i-- {
		rec := r.records[i]
		if rec.EntityType == entityType && rec.EntityID == entityID {
			cp := *rec
			result = append(result, &cp)
		}
	}
	return result, nil
}
