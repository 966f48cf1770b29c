package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/example/ec-shop-api/internal/domain/activity"
)

const activityColumns = `id, activity, user_id, user_email, entity_type, entity_id, status, details, created_at`

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, rec *activity.Record) error {
	details := rec.Details
	if details == nil {
		details = map[string]string{}
	}
	data, err := json.Marshal(details)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO activities (`+activityColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.Activity, rec.UserID, rec.UserEmail, rec.EntityType, rec.EntityID,
		rec.Status, data, rec.CreatedAt,
	)
	return err
}

func (r *ActivityRepository) ListRecent(ctx context.Context, limit, offset int) ([]*activity.Record, error) {
	return r.queryActivities(ctx,
		`SELECT `+activityColumns+` FROM activities ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
}

func (r *ActivityRepository) ListByEntity(ctx context.Context, entityType activity.EntityType, entityID string, limit int) ([]*activity.Record, error) {
	return r.queryActivities(ctx,
		`SELECT `+activityColumns+` FROM activities
		 WHERE entity_type = $1 AND entity_id = $2
		 ORDER BY created_at DESC LIMIT $3`,
		entityType, entityID, limit)
}

func (r *ActivityRepository) queryActivities(ctx context.Context, query string, args ...any) ([]*activity.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*activity.Record{}
	for rows.Next() {
		var rec activity.Record
		var details []byte
		err := rows.Scan(&rec.ID, &rec.Activity, &rec.UserID, &rec.UserEmail, &rec.EntityType,
			&rec.EntityID, &rec.Status, &details, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(details, &rec.Details); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
