package cart_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-shop-api/internal/domain/cart"
	"github.com/example/ec-shop-api/internal/domain/product"
	"github.com/example/ec-shop-api/internal/domain/user"
	"github.com/example/ec-shop-api/internal/infrastructure/memory"
)

func newTestService(t *testing.T) (*cart.Service, *memory.UserRepository, *memory.ProductRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	products := memory.NewProductRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cart.NewService(users, products, logger), users, products
}

func seedCustomer(t *testing.T, users *memory.UserRepository, cart []user.CartLine) *user.User {
	t.Helper()
	u := &user.User{
		ID:    uuid.New().String(),
		Email: uuid.New().String() + "@example.com",
		Role:  user.RoleCustomer,
		Cart:  cart,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, products *memory.ProductRepository, price int64) *product.Product {
	t.Helper()
	p := &product.Product{
		ID:       uuid.New().String(),
		Name:     "gadget",
		Price:    price,
		Category: product.CategoryElectronics,
		Stock:    10,
	}
	require.NoError(t, products.Create(context.Background(), p))
	return p
}

func TestService_AddItem_SumsQuantities(t *testing.T) {
	svc, users, products := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, products, 1000)
	u := seedCustomer(t, users, nil)

	items, err := svc.AddItem(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	// Adding the same product again merges into the existing line.
	items, err = svc.AddItem(ctx, u.ID, p.ID, 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, p.ID, items[0].ProductID)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, int64(1000), items[0].Product.Price)
}

func TestService_AddItem_DistinctProductsGetDistinctLines(t *testing.T) {
	svc, users, products := newTestService(t)
	ctx := context.Background()

	p1 := seedProduct(t, products, 1000)
	p2 := seedProduct(t, products, 2500)
	u := seedCustomer(t, users, nil)

	_, err := svc.AddItem(ctx, u.ID, p1.ID, 1)
	require.NoError(t, err)
	items, err := svc.AddItem(ctx, u.ID, p2.ID, 1)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.NotEqual(t, items[0].LineID, items[1].LineID)
}

func TestService_AddItem_Validation(t *testing.T) {
	svc, users, products := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, products, 1000)
	u := seedCustomer(t, users, nil)

	_, err := svc.AddItem(ctx, u.ID, p.ID, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, u.ID, p.ID, -1)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, u.ID, "", 1)
	assert.ErrorIs(t, err, cart.ErrInvalidProduct)

	_, err = svc.AddItem(ctx, u.ID, "no-such-product", 1)
	assert.ErrorIs(t, err, cart.ErrInvalidProduct)
}

func TestService_AdminRejected(t *testing.T) {
	svc, users, products := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, products, 1000)
	admin := &user.User{ID: uuid.New().String(), Email: "admin@example.com", Role: user.RoleAdmin}
	require.NoError(t, users.Create(ctx, admin))

	_, err := svc.AddItem(ctx, admin.ID, p.ID, 1)
	assert.ErrorIs(t, err, cart.ErrAdminCart)

	_, err = svc.Items(ctx, admin.ID)
	assert.ErrorIs(t, err, cart.ErrAdminCart)

	assert.ErrorIs(t, svc.Clear(ctx, admin.ID), cart.ErrAdminCart)
}

func TestService_UpdateQuantity(t *testing.T) {
	svc, users, products := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, products, 1000)
	lineID := uuid.New().String()
	u := seedCustomer(t, users, []user.CartLine{{ID: lineID, ProductID: p.ID, Quantity: 2}})

	items, err := svc.UpdateQuantity(ctx, u.ID, lineID, 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestService_UpdateQuantity_ZeroRemovesLine(t *testing.T) {
	svc, users, products := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, products, 1000)
	lineID := uuid.New().String()
	u := seedCustomer(t, users, []user.CartLine{{ID: lineID, ProductID: p.ID, Quantity: 2}})

	items, err := svc.UpdateQuantity(ctx, u.ID, lineID, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_UpdateQuantity_UnknownLine(t *testing.T) {
	svc, users, _ := newTestService(t)
	u := seedCustomer(t, users, nil)

	_, err := svc.UpdateQuantity(context.Background(), u.ID, "missing-line", 1)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)
}

func TestService_RemoveProduct(t *testing.T) {
	svc, users, products := newTestService(t)
	ctx := context.Background()

	p1 := seedProduct(t, products, 1000)
	p2 := seedProduct(t, products, 2000)
	u := seedCustomer(t, users, []user.CartLine{
		{ID: uuid.New().String(), ProductID: p1.ID, Quantity: 1},
		{ID: uuid.New().String(), ProductID: p2.ID, Quantity: 1},
	})

	items, err := svc.RemoveProduct(ctx, u.ID, p1.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p2.ID, items[0].ProductID)
}

func TestService_Clear_Idempotent(t *testing.T) {
	svc, users, products := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, products, 1000)
	u := seedCustomer(t, users, []user.CartLine{{ID: uuid.New().String(), ProductID: p.ID, Quantity: 1}})

	require.NoError(t, svc.Clear(ctx, u.ID))

	items, err := svc.Items(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Clearing an already empty cart is a no-op, not an error.
	require.NoError(t, svc.Clear(ctx, u.ID))
}

func TestService_Items_DropsStaleLines(t *testing.T) {
	svc, users, products := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, products, 1000)
	u := seedCustomer(t, users, []user.CartLine{
		{ID: uuid.New().String(), ProductID: p.ID, Quantity: 1},
		{ID: uuid.New().String(), ProductID: "deleted-product", Quantity: 4},
	})

	items, err := svc.Items(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ProductID)
}

func TestService_Items_UnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Items(context.Background(), "missing-user")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
