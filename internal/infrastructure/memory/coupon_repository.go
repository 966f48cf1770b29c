package memory

import (
	"context"
	"sync"

	"github.com/example/ec-shop-api/internal/domain/coupon"
)

type CouponRepository struct {
	mu      sync.RWMutex
	coupons map[string]*coupon.Coupon // by code
}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{coupons: make(map[string]*coupon.Coupon)}
}

func (r *CouponRepository) GetByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.coupons[code]
	if !ok {
		return nil, coupon.ErrCouponNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CouponRepository) GetActiveForUser(_ context.Context, userID string) (*coupon.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.coupons {
		if c.UserID == userID && c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, coupon.ErrCouponNotFound
}

func (r *CouponRepository) Replace(_ context.Context, c *coupon.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, existing := range r.coupons {
		if existing.UserID == c.UserID {
			delete(r.coupons, code)
		}
	}
	cp := *c
	r.coupons[c.Code] = &cp
	return nil
}

// redeem deactivates an active coupon, reporting whether it was still
// active. Used by the order repository to mirror the transactional
// redemption of the postgres layer.
func (r *CouponRepository) redeem(code, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[code]
	if !ok || c.UserID != userID || !c.IsActive {
		return false
	}
	c.IsActive = false
	return true
}
