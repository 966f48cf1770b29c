// Package activity keeps an append-only audit trail of significant state
// changes. Records are observational only and never gate a business
// operation.
package activity

import (
	"context"
	"time"
)

type EntityType string

const (
	EntityOrder   EntityType = "order"
	EntityProduct EntityType = "product"
	EntityUser    EntityType = "user"
	EntityCoupon  EntityType = "coupon"
	EntitySystem  EntityType = "system"
)

type Status string

const (
	StatusCompleted Status = "Completed"
	StatusUpdated   Status = "Updated"
	StatusNew       Status = "New"
	StatusRefund    Status = "Refund"
	StatusAdded     Status = "Added"
	StatusCancelled Status = "Cancelled"
)

type Record struct {
	ID         string            `json:"id"`
	Activity   string            `json:"activity"`
	UserID     string            `json:"user_id"`
	UserEmail  string            `json:"user_email"`
	EntityType EntityType        `json:"entity_type"`
	EntityID   string            `json:"entity_id,omitempty"`
	Status     Status            `json:"status"`
	Details    map[string]string `json:"details,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type Repository interface {
	Append(ctx context.Context, rec *Record) error
	ListRecent(ctx context.Context, limit, offset int) ([]*Record, error)
	ListByEntity(ctx context.Context, entityType EntityType, entityID string, limit int) ([]*Record, error)
}
