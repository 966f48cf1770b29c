package order

import (
	"context"
	"errors"
	"time"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
	// ErrInvalidCart means the cart had lines but none referenced an
	// existing product after reconciliation.
	ErrInvalidCart   = errors.New("cart has no valid items")
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrNotCancellable: customers may only cancel pending or processing
	// orders.
	ErrNotCancellable = errors.New("order can no longer be cancelled")
	ErrNotOwner       = errors.New("not authorized to access this order")
	// ErrCartNotCleared is returned alongside a successfully created
	// order when the best-effort cart clear failed. The order stands.
	ErrCartNotCleared = errors.New("order created but cart could not be cleared")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// adminStatuses is the full target set for the admin update path. Admins
// deliberately bypass the linear lifecycle customers are bound to and may
// move an order directly to any of these.
var adminStatuses = map[Status]bool{
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

func (s Status) ValidAdminTarget() bool { return adminStatuses[s] }

// CancellableByCustomer reports whether a customer may still cancel an
// order in this status.
func (s Status) CancellableByCustomer() bool {
	return s == StatusPending || s == StatusProcessing
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Line is an order line with the product price captured at creation time.
// Later catalog price changes never alter historical orders.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zip_code"`
}

// Order is immutable once created except for its status fields. Amounts
// are integer cents; TotalAmount is the line sum minus DiscountAmount.
type Order struct {
	ID                    string          `json:"id"`
	UserID                string          `json:"user_id"`
	Lines                 []Line          `json:"lines"`
	TotalAmount           int64           `json:"total_amount"`
	DiscountAmount        int64           `json:"discount_amount"`
	CouponCode            string          `json:"coupon_code,omitempty"`
	CouponDiscountPercent int             `json:"coupon_discount_percent,omitempty"`
	Status                Status          `json:"status"`
	PaymentStatus         PaymentStatus   `json:"payment_status"`
	PaymentMethod         string          `json:"payment_method"`
	ShippingAddress       ShippingAddress `json:"shipping_address"`
	ShippingMethod        string          `json:"shipping_method"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

type Repository interface {
	// Create persists the order. When o.CouponCode is set the coupon is
	// deactivated in the same transaction; if it was already redeemed by
	// a concurrent checkout, Create fails with coupon.ErrInvalidCoupon
	// and nothing is written.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	Delete(ctx context.Context, id string) error
}
