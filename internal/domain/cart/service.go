// Package cart maintains the per-user list of intended purchases. The cart
// is embedded in the user record, so every mutation is a single atomic save
// of that record and concurrent updates for one user cannot interleave.
package cart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/example/ec-shop-api/internal/domain/product"
	"github.com/example/ec-shop-api/internal/domain/user"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidProduct  = errors.New("invalid product reference")
	ErrLineNotFound    = errors.New("cart item not found")
	// ErrAdminCart guards the workflow boundary: admin accounts never
	// carry a cart.
	ErrAdminCart = errors.New("admin accounts do not have a cart")
)

// Item is a cart line joined with current catalog data for display.
type Item struct {
	LineID    string           `json:"id"`
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Product   *product.Product `json:"product"`
}

type Service struct {
	users    user.Repository
	products product.Repository
	logger   *slog.Logger
}

func NewService(users user.Repository, products product.Repository, logger *slog.Logger) *Service {
	return &Service{users: users, products: products, logger: logger}
}

// loadCustomer fetches the user and rejects admin identities.
func (s *Service) loadCustomer(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() {
		return nil, ErrAdminCart
	}
	return u, nil
}

// AddItem puts quantity units of a product into the user's cart. If the
// product is already present the quantities are summed.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) ([]Item, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if productID == "" {
		return nil, ErrInvalidProduct
	}

	u, err := s.loadCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, ErrInvalidProduct
		}
		return nil, err
	}

	lines := u.Cart
	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, user.CartLine{
			ID:        uuid.New().String(),
			ProductID: productID,
			Quantity:  quantity,
		})
	}

	if err := s.users.SaveCart(ctx, userID, lines); err != nil {
		return nil, err
	}
	return s.joined(ctx, lines)
}

// UpdateQuantity replaces a line's quantity. Zero or negative removes the
// line entirely.
func (s *Service) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) ([]Item, error) {
	u, err := s.loadCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range u.Cart {
		if u.Cart[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrLineNotFound
	}

	lines := u.Cart
	if quantity <= 0 {
		lines = append(lines[:idx], lines[idx+1:]...)
	} else {
		lines[idx].Quantity = quantity
	}

	if err := s.users.SaveCart(ctx, userID, lines); err != nil {
		return nil, err
	}
	return s.joined(ctx, lines)
}

// RemoveProduct drops every line referencing the product.
func (s *Service) RemoveProduct(ctx context.Context, userID, productID string) ([]Item, error) {
	u, err := s.loadCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := u.Cart[:0:0]
	for _, line := range u.Cart {
		if line.ProductID != productID {
			lines = append(lines, line)
		}
	}

	if err := s.users.SaveCart(ctx, userID, lines); err != nil {
		return nil, err
	}
	return s.joined(ctx, lines)
}

// Clear empties the cart. Idempotent: clearing an empty cart succeeds.
func (s *Service) Clear(ctx context.Context, userID string) error {
	u, err := s.loadCustomer(ctx, userID)
	if err != nil {
		return err
	}
	if len(u.Cart) == 0 {
		return nil
	}
	return s.users.SaveCart(ctx, userID, []user.CartLine{})
}

// Items returns the cart joined with current product data. Lines whose
// product no longer exists are dropped from the result so stale references
// never surface to the client.
func (s *Service) Items(ctx context.Context, userID string) ([]Item, error) {
	u, err := s.loadCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.joined(ctx, u.Cart)
}

func (s *Service) joined(ctx context.Context, lines []user.CartLine) ([]Item, error) {
	items := []Item{}
	if len(lines) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		p, ok := products[line.ProductID]
		if !ok {
			s.logger.Warn("dropping cart line with missing product", "product_id", line.ProductID)
			continue
		}
		items = append(items, Item{
			LineID:    line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Product:   p,
		})
	}
	return items, nil
}
