package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/ec-shop-api/internal/api/middleware"
	"github.com/example/ec-shop-api/internal/domain/coupon"
)

type CouponHandlers struct {
	coupons *coupon.Service
}

func NewCouponHandlers(coupons *coupon.Service) *CouponHandlers {
	return &CouponHandlers{coupons: coupons}
}

// Get returns the caller's active coupon, or null when they have none.
func (h *CouponHandlers) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.coupons.ActiveForUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, coupon.ErrCouponNotFound) {
			respondJSON(w, http.StatusOK, nil)
			return
		}
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CouponHandlers) Validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.coupons.Validate(r.Context(), req.Code, middleware.UserID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"code":                c.Code,
		"discount_percentage": c.DiscountPercentage,
		"valid":               true,
	})
}
