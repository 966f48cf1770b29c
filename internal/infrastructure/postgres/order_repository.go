package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/example/ec-shop-api/internal/domain/coupon"
	"github.com/example/ec-shop-api/internal/domain/order"
)

const orderColumns = `id, user_id, total_amount, discount_amount, coupon_code, coupon_discount_percent,
	status, payment_status, payment_method,
	shipping_street, shipping_city, shipping_state, shipping_country, shipping_zip_code, shipping_method,
	created_at, updated_at`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and its lines, and redeems the coupon when one
// was applied, all in one transaction. Redemption is an UPDATE guarded on
// is_active: if a concurrent checkout got there first, zero rows match and
// the whole transaction rolls back with coupon.ErrInvalidCoupon.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		o.ID, o.UserID, o.TotalAmount, o.DiscountAmount, o.CouponCode, o.CouponDiscountPercent,
		o.Status, o.PaymentStatus, o.PaymentMethod,
		o.ShippingAddress.Street, o.ShippingAddress.City, o.ShippingAddress.State,
		o.ShippingAddress.Country, o.ShippingAddress.ZipCode, o.ShippingMethod,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, line := range o.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, position, product_id, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5)`,
			o.ID, i, line.ProductID, line.Quantity, line.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	if o.CouponCode != "" {
		res, err := tx.ExecContext(ctx,
			`UPDATE coupons SET is_active = FALSE
			 WHERE code = $1 AND user_id = $2 AND is_active`,
			o.CouponCode, o.UserID,
		)
		if err != nil {
			return fmt.Errorf("redeem coupon: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return coupon.ErrInvalidCoupon
		}
	}

	return tx.Commit()
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, map[string]*order.Order{o.ID: o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*order.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*order.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*order.Order{}
	byID := map[string]*order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, byID); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) attachLines(ctx context.Context, orders map[string]*order.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	for id := range orders {
		ids = append(ids, id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, product_id, quantity, unit_price
		 FROM order_lines WHERE order_id = ANY($1)
		 ORDER BY order_id, position`,
		pq.Array(ids),
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var line order.Line
		if err := rows.Scan(&orderID, &line.ProductID, &line.Quantity, &line.UnitPrice); err != nil {
			return err
		}
		if o, ok := orders[orderID]; ok {
			o.Lines = append(o.Lines, line)
		}
	}
	return rows.Err()
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.DiscountAmount, &o.CouponCode, &o.CouponDiscountPercent,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.ShippingAddress.Street, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.Country, &o.ShippingAddress.ZipCode, &o.ShippingMethod,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
