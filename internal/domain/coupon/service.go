package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	rewardCodePrefix      = "GIFT"
	rewardDiscountPercent = 10
	rewardValidity        = 30 * 24 * time.Hour
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Validate checks that code names a coupon owned by userID that is active
// and unexpired. Read-only: redeeming (deactivation) happens atomically
// with order persistence, not here, so a failed checkout never burns the
// coupon.
func (s *Service) Validate(ctx context.Context, code, userID string) (*Coupon, error) {
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return nil, ErrInvalidCoupon
		}
		return nil, err
	}
	if c.UserID != userID || !c.IsActive || c.Expired(s.now()) {
		return nil, ErrInvalidCoupon
	}
	return c, nil
}

// ActiveForUser returns the user's current active coupon, if any.
func (s *Service) ActiveForUser(ctx context.Context, userID string) (*Coupon, error) {
	return s.repo.GetActiveForUser(ctx, userID)
}

// IssueReward grants a fresh reward coupon, superseding any coupon the
// user already holds.
func (s *Service) IssueReward(ctx context.Context, userID string) (*Coupon, error) {
	c := &Coupon{
		Code:               newRewardCode(),
		UserID:             userID,
		DiscountPercentage: rewardDiscountPercent,
		ExpirationDate:     s.now().Add(rewardValidity),
		IsActive:           true,
		CreatedAt:          s.now(),
	}
	if err := s.repo.Replace(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func newRewardCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return rewardCodePrefix + suffix[:6]
}
