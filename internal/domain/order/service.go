package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/ec-shop-api/internal/domain/activity"
	"github.com/example/ec-shop-api/internal/domain/cart"
	"github.com/example/ec-shop-api/internal/domain/coupon"
	"github.com/example/ec-shop-api/internal/domain/product"
	"github.com/example/ec-shop-api/internal/domain/user"
)

// rewardThreshold is the order total (cents) from which a completed
// checkout earns the buyer a reward coupon.
const rewardThreshold int64 = 20000

// CouponService is the slice of the coupon component the workflow needs.
type CouponService interface {
	Validate(ctx context.Context, code, userID string) (*coupon.Coupon, error)
	IssueReward(ctx context.Context, userID string) (*coupon.Coupon, error)
}

// CartClearer clears a user's cart after checkout.
type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

// Service converts a validated cart into a durable order and enforces the
// status lifecycle.
type Service struct {
	users      user.Repository
	products   product.Repository
	orders     Repository
	coupons    CouponService
	carts      CartClearer
	activities *activity.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(
	users user.Repository,
	products product.Repository,
	orders Repository,
	coupons CouponService,
	carts CartClearer,
	activities *activity.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:      users,
		products:   products,
		orders:     orders,
		coupons:    coupons,
		carts:      carts,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

type CreateInput struct {
	ShippingAddress ShippingAddress
	PaymentMethod   string
	CouponCode      string
}

// Create builds an order from the user's current cart. The cart is the
// source of truth: line quantities come from it and unit prices are
// snapshotted from the catalog at this moment. On success the cart is
// cleared best-effort; a clear failure is reported via ErrCartNotCleared
// but the returned order stands.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*Order, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() {
		return nil, cart.ErrAdminCart
	}
	if len(u.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	lines, rawTotal, err := s.snapshotLines(ctx, u.Cart)
	if err != nil {
		return nil, err
	}

	var discount int64
	var discountPercent int
	if in.CouponCode != "" {
		c, err := s.coupons.Validate(ctx, in.CouponCode, userID)
		if err != nil {
			return nil, err
		}
		discountPercent = c.DiscountPercentage
		discount = roundedPercent(rawTotal, discountPercent)
	}

	now := s.now()
	o := &Order{
		ID:                    uuid.New().String(),
		UserID:                userID,
		Lines:                 lines,
		TotalAmount:           rawTotal - discount,
		DiscountAmount:        discount,
		CouponCode:            in.CouponCode,
		CouponDiscountPercent: discountPercent,
		Status:                StatusProcessing,
		PaymentStatus:         PaymentPending,
		PaymentMethod:         in.PaymentMethod,
		ShippingAddress:       in.ShippingAddress,
		ShippingMethod:        "standard",
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	// Order insert and coupon redemption commit together; a concurrent
	// checkout racing on the same coupon loses here.
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	if o.TotalAmount >= rewardThreshold {
		if _, err := s.coupons.IssueReward(ctx, userID); err != nil {
			s.logger.Warn("reward coupon issue failed", "user_id", userID, "error", err)
		}
	}

	s.activities.Record(ctx, activity.Record{
		Activity:   fmt.Sprintf("Order placed for %s", formatCents(o.TotalAmount)),
		UserID:     userID,
		UserEmail:  u.Email,
		EntityType: activity.EntityOrder,
		EntityID:   o.ID,
		Status:     activity.StatusCompleted,
		Details: map[string]string{
			"total_amount": formatCents(o.TotalAmount),
			"items":        fmt.Sprintf("%d", len(o.Lines)),
		},
	})

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.logger.Warn("cart clear failed after order creation", "order_id", o.ID, "user_id", userID, "error", err)
		return o, fmt.Errorf("%w: %v", ErrCartNotCleared, err)
	}
	return o, nil
}

// snapshotLines filters out cart lines whose product no longer exists and
// captures current prices. ErrInvalidCart if nothing survives.
func (s *Service) snapshotLines(ctx context.Context, cartLines []user.CartLine) ([]Line, int64, error) {
	ids := make([]string, 0, len(cartLines))
	for _, l := range cartLines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	var lines []Line
	var total int64
	for _, l := range cartLines {
		p, ok := products[l.ProductID]
		if !ok {
			s.logger.Warn("skipping cart line with missing product", "product_id", l.ProductID)
			continue
		}
		lines = append(lines, Line{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: p.Price,
		})
		total += int64(l.Quantity) * p.Price
	}
	if len(lines) == 0 {
		return nil, 0, ErrInvalidCart
	}
	return lines, total, nil
}

// UpdateStatus is the admin path. Any of the four valid statuses may be
// set regardless of the current one; the HTTP layer restricts this route
// to admins.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, target Status, actorID, actorEmail string) (*Order, error) {
	if !target.ValidAdminTarget() {
		return nil, ErrInvalidStatus
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.orders.UpdateStatus(ctx, orderID, target, now); err != nil {
		return nil, err
	}
	o.Status = target
	o.UpdatedAt = now

	s.activities.Record(ctx, activity.Record{
		Activity:   fmt.Sprintf("Order status changed to %s", target),
		UserID:     actorID,
		UserEmail:  actorEmail,
		EntityType: activity.EntityOrder,
		EntityID:   o.ID,
		Status:     statusTag(target),
	})
	return o, nil
}

// statusTag maps a destination status to its activity tag.
func statusTag(target Status) activity.Status {
	switch target {
	case StatusDelivered:
		return activity.StatusCompleted
	case StatusCancelled:
		return activity.StatusCancelled
	default:
		return activity.StatusUpdated
	}
}

// Cancel is the customer path: the actor must own the order and it must
// still be pending or processing. Ownership is checked first so a
// non-owner learns nothing about cancellability.
func (s *Service) Cancel(ctx context.Context, orderID, actorID, actorEmail string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != actorID {
		return nil, ErrNotOwner
	}
	if !o.Status.CancellableByCustomer() {
		return nil, ErrNotCancellable
	}

	now := s.now()
	if err := s.orders.UpdateStatus(ctx, orderID, StatusCancelled, now); err != nil {
		return nil, err
	}
	o.Status = StatusCancelled
	o.UpdatedAt = now

	s.activities.Record(ctx, activity.Record{
		Activity:   "Order cancelled by customer",
		UserID:     actorID,
		UserEmail:  actorEmail,
		EntityType: activity.EntityOrder,
		EntityID:   o.ID,
		Status:     activity.StatusCancelled,
	})
	return o, nil
}

// Get returns the order if the actor owns it or is an admin.
func (s *Service) Get(ctx context.Context, orderID, actorID string, actorIsAdmin bool) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != actorID && !actorIsAdmin {
		return nil, ErrNotOwner
	}
	return o, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]*Order, error) {
	return s.orders.ListAll(ctx)
}

// Delete hard-deletes an order. Admin-only maintenance escape hatch, not
// part of the customer workflow.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return err
	}
	return s.orders.Delete(ctx, orderID)
}

// roundedPercent computes pct% of amount in cents, rounding half up.
func roundedPercent(amount int64, pct int) int64 {
	return (amount*int64(pct) + 50) / 100
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
