package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/ec-shop-api/internal/api/middleware"
	"github.com/example/ec-shop-api/internal/domain/product"
)

type ProductHandlers struct {
	products *product.Service
}

func NewProductHandlers(products *product.Service) *ProductHandlers {
	return &ProductHandlers{products: products}
}

func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	category := product.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		respondDomainError(w, product.ErrInvalidCategory)
		return
	}

	products, err := h.products.List(r.Context(), category)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandlers) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.Featured(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var in product.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())
	p, err := h.products.Create(r.Context(), in, claims.UserID, claims.Email)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *ProductHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var in product.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, _ := middleware.ClaimsFromContext(r.Context())
	p, err := h.products.Update(r.Context(), chi.URLParam(r, "productID"), in, claims.UserID, claims.Email)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "productID"), claims.UserID, claims.Email); err != nil {
		respondDomainError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "product deleted")
}
