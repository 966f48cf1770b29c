package product

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/ec-shop-api/internal/domain/activity"
	"github.com/example/ec-shop-api/internal/infrastructure/cache"
)

const (
	listCacheTTL     = 2 * time.Minute
	featuredCacheKey = "featured-products"
)

// Service serves catalog reads through a TTL cache and handles the admin
// catalog mutations, which invalidate it.
type Service struct {
	repo       Repository
	cache      cache.Cache
	activities *activity.Recorder
	logger     *slog.Logger
}

func NewService(repo Repository, c cache.Cache, activities *activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: c, activities: activities, logger: logger}
}

func listCacheKey(category Category) string {
	if category == "" {
		return "products"
	}
	return "products:" + string(category)
}

func (s *Service) List(ctx context.Context, category Category) ([]*Product, error) {
	key := listCacheKey(category)
	if data, ok := s.cache.Get(ctx, key); ok {
		var products []*Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	}

	products, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, products)
	return products, nil
}

func (s *Service) Featured(ctx context.Context) ([]*Product, error) {
	if data, ok := s.cache.Get(ctx, featuredCacheKey); ok {
		var products []*Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
	}

	products, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, featuredCacheKey, products)
	return products, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

type CreateInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	ImageURL    string   `json:"image_url"`
	Category    Category `json:"category"`
	IsFeatured  bool     `json:"is_featured"`
	Stock       int      `json:"stock"`
}

func (in CreateInput) validate() error {
	if in.Name == "" {
		return ErrMissingName
	}
	if in.Price < 0 {
		return ErrInvalidPrice
	}
	if !in.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput, actorID, actorEmail string) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		IsFeatured:  in.IsFeatured,
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx, p.Category)
	s.activities.Record(ctx, activity.Record{
		Activity:   "Product " + p.Name + " added to catalog",
		UserID:     actorID,
		UserEmail:  actorEmail,
		EntityType: activity.EntityProduct,
		EntityID:   p.ID,
		Status:     activity.StatusAdded,
	})
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput, actorID, actorEmail string) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.ImageURL = in.ImageURL
	p.Category = in.Category
	p.IsFeatured = in.IsFeatured
	p.Stock = in.Stock
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx, p.Category)
	s.activities.Record(ctx, activity.Record{
		Activity:   "Product " + p.Name + " updated",
		UserID:     actorID,
		UserEmail:  actorEmail,
		EntityType: activity.EntityProduct,
		EntityID:   p.ID,
		Status:     activity.StatusUpdated,
	})
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id, actorID, actorEmail string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, p.Category)
	s.activities.Record(ctx, activity.Record{
		Activity:   "Product " + p.Name + " removed from catalog",
		UserID:     actorID,
		UserEmail:  actorEmail,
		EntityType: activity.EntityProduct,
		EntityID:   p.ID,
		Status:     activity.StatusUpdated,
	})
	return nil
}

func (s *Service) cacheSet(ctx context.Context, key string, products []*Product) {
	data, err := json.Marshal(products)
	if err != nil {
		s.logger.Warn("failed to marshal products for cache", "key", key, "error", err)
		return
	}
	s.cache.Set(ctx, key, data, listCacheTTL)
}

func (s *Service) invalidate(ctx context.Context, category Category) {
	s.cache.Delete(ctx, listCacheKey(""), listCacheKey(category), featuredCacheKey)
}
