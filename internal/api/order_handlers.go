package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/ec-shop-api/internal/api/middleware"
	"github.com/example/ec-shop-api/internal/domain/order"
	"github.com/example/ec-shop-api/internal/domain/user"
)

type OrderHandlers struct {
	orders *order.Service
}

func NewOrderHandlers(orders *order.Service) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

type createOrderRequest struct {
	ShippingAddress order.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                `json:"payment_method"`
	CouponCode      string                `json:"coupon_code"`
}

type createOrderResponse struct {
	*order.Order
	Warning string `json:"warning,omitempty"`
}

// Create builds an order from the caller's server-side cart. Client item
// lists and totals are ignored: the cart and catalog are authoritative.
func (h *OrderHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.Create(r.Context(), middleware.UserID(r.Context()), order.CreateInput{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
	})
	if err != nil {
		// The order stands even when its cart could not be cleared;
		// surface that as a warning, not a failure.
		if errors.Is(err, order.ErrCartNotCleared) {
			respondJSON(w, http.StatusCreated, createOrderResponse{Order: o, Warning: err.Error()})
			return
		}
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, createOrderResponse{Order: o})
}

func (h *OrderHandlers) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	isAdmin := claims != nil && claims.Role == string(user.RoleAdmin)

	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderID"), middleware.UserID(r.Context()), isAdmin)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *OrderHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandlers) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// UpdateStatus is the admin path; the route is role-guarded.
func (h *OrderHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status order.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())
	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status, claims.UserID, claims.Email)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// Cancel is the customer path: owner-only, pending/processing only.
func (h *OrderHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	o, err := h.orders.Cancel(r.Context(), chi.URLParam(r, "orderID"), claims.UserID, claims.Email)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *OrderHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), chi.URLParam(r, "orderID")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "order deleted")
}
