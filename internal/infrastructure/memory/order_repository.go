package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/ec-shop-api/internal/domain/coupon"
	"github.com/example/ec-shop-api/internal/domain/order"
)

type OrderRepository struct {
	mu      sync.RWMutex
	coupons *CouponRepository
	orders  map[string]*order.Order
}

// NewOrderRepository takes the coupon repository so Create can redeem a
// coupon atomically with the order write, as the postgres implementation
// does in one transaction.
func NewOrderRepository(coupons *CouponRepository) *OrderRepository {
	return &OrderRepository{coupons: coupons, orders: make(map[string]*order.Order)}
}

func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	if o.CouponCode != "" {
		if !r.coupons.redeem(o.CouponCode, o.UserID) {
			return coupon.ErrInvalidCoupon
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status order.Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	return nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []*order.Order{}
	for _, o := range r.orders {
		if o.UserID == userID {
			result = append(result, cloneOrder(o))
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *OrderRepository) ListAll(_ context.Context) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []*order.Order{}
	for _, o := range r.orders {
		result = append(result, cloneOrder(o))
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *OrderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return order.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

func sortNewestFirst(orders []*order.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func cloneOrder(o *order.Order) *order.Order {
	c := *o
	c.Lines = append([]order.Line(nil), o.Lines...)
	return &c
}
