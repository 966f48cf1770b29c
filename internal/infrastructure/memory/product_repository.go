package memory

import (
	"context"
	"sync"

	"github.com/example/ec-shop-api/internal/domain/product"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*product.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]*product.Product)}
}

func (r *ProductRepository) Create(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *ProductRepository) Update(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return product.ErrProductNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return product.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepository) GetByIDs(_ context.Context, ids []string) (map[string]*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]*product.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			cp := *p
			result[id] = &cp
		}
	}
	return result, nil
}

func (r *ProductRepository) List(_ context.Context, category product.Category) ([]*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []*product.Product{}
	for _, p := range r.products {
		if category != "" && p.Category != category {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}
	return result, nil
}

func (r *ProductRepository) ListFeatured(_ context.Context) ([]*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []*product.Product{}
	for _, p := range r.products {
		if p.IsFeatured {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}
