package coupon

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCoupon covers every validation failure: unknown code,
	// wrong owner, inactive, expired, or already redeemed by a
	// concurrent checkout. Callers get no hint which check failed.
	ErrInvalidCoupon  = errors.New("invalid or expired coupon")
	ErrCouponNotFound = errors.New("coupon not found")
)

// Coupon is a per-user percentage discount. A user holds at most one
// coupon at a time; issuing a new one replaces the old.
type Coupon struct {
	Code               string    `json:"code"`
	UserID             string    `json:"user_id"`
	DiscountPercentage int       `json:"discount_percentage"`
	ExpirationDate     time.Time `json:"expiration_date"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

func (c *Coupon) Expired(now time.Time) bool {
	return !c.ExpirationDate.After(now)
}

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	GetActiveForUser(ctx context.Context, userID string) (*Coupon, error)
	// Replace deletes any prior coupon owned by c.UserID and stores c,
	// atomically.
	Replace(ctx context.Context, c *Coupon) error
}
