package product

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidCategory = errors.New("unsupported category")
	ErrMissingName     = errors.New("product name is required")
)

type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryHome        Category = "home"
	CategoryBeauty      Category = "beauty"
	CategorySports      Category = "sports"
	CategoryOther       Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome,
		CategoryBeauty, CategorySports, CategoryOther:
		return true
	}
	return false
}

// Product is catalog data. Monetary amounts are integer cents.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"image_url"`
	Category    Category  `json:"category"`
	IsFeatured  bool      `json:"is_featured"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Product, error)
	// GetByIDs returns the products that exist; missing ids are simply
	// absent from the result.
	GetByIDs(ctx context.Context, ids []string) (map[string]*Product, error)
	List(ctx context.Context, category Category) ([]*Product, error)
	ListFeatured(ctx context.Context) ([]*Product, error)
}
