package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/ec-shop-api/internal/domain/coupon"
)

const couponColumns = `code, user_id, discount_percentage, expiration_date, is_active, created_at`

type CouponRepository struct {
	db *sql.DB
}

func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code)
	return scanCoupon(row)
}

func (r *CouponRepository) GetActiveForUser(ctx context.Context, userID string) (*coupon.Coupon, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE user_id = $1 AND is_active`, userID)
	return scanCoupon(row)
}

// Replace swaps the user's coupon for a new one in a single transaction,
// keeping the one-coupon-per-user invariant.
func (r *CouponRepository) Replace(ctx context.Context, c *coupon.Coupon) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM coupons WHERE user_id = $1`, c.UserID); err != nil {
		return fmt.Errorf("delete prior coupon: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO coupons (`+couponColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.Code, c.UserID, c.DiscountPercentage, c.ExpirationDate, c.IsActive, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	return tx.Commit()
}

func scanCoupon(row *sql.Row) (*coupon.Coupon, error) {
	var c coupon.Coupon
	err := row.Scan(&c.Code, &c.UserID, &c.DiscountPercentage, &c.ExpirationDate, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, coupon.ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
