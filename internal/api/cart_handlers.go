package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/ec-shop-api/internal/api/middleware"
	"github.com/example/ec-shop-api/internal/domain/cart"
)

type CartHandlers struct {
	carts *cart.Service
}

func NewCartHandlers(carts *cart.Service) *CartHandlers {
	return &CartHandlers{carts: carts}
}

func (h *CartHandlers) Get(w http.ResponseWriter, r *http.Request) {
	items, err := h.carts.Items(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *CartHandlers) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	items, err := h.carts.AddItem(r.Context(), middleware.UserID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *CartHandlers) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := h.carts.UpdateQuantity(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Clear empties the cart, or removes a single product when the body names
// one.
func (h *CartHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	// An empty body means clear everything.
	_ = json.NewDecoder(r.Body).Decode(&req)

	userID := middleware.UserID(r.Context())
	if req.ProductID != "" {
		items, err := h.carts.RemoveProduct(r.Context(), userID, req.ProductID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, items)
		return
	}

	if err := h.carts.Clear(r.Context(), userID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, []cart.Item{})
}
