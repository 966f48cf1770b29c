package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-shop-api/internal/auth"
	"github.com/example/ec-shop-api/internal/domain/activity"
	"github.com/example/ec-shop-api/internal/domain/cart"
	"github.com/example/ec-shop-api/internal/domain/coupon"
	"github.com/example/ec-shop-api/internal/domain/order"
	"github.com/example/ec-shop-api/internal/domain/product"
	"github.com/example/ec-shop-api/internal/domain/user"
	"github.com/example/ec-shop-api/internal/infrastructure/cache"
	"github.com/example/ec-shop-api/internal/infrastructure/memory"
)

type testEnv struct {
	server   *httptest.Server
	tokens   *auth.TokenManager
	users    *memory.UserRepository
	products *memory.ProductRepository
	coupons  *memory.CouponRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := memory.NewUserRepository()
	products := memory.NewProductRepository()
	coupons := memory.NewCouponRepository()
	orders := memory.NewOrderRepository(coupons)
	activities := memory.NewActivityRepository()

	recorder := activity.NewRecorder(activities, nil, logger)
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", 15*time.Minute, 7*24*time.Hour)

	userSvc := user.NewService(users)
	productSvc := product.NewService(products, cache.NewMemoryCache(), recorder, logger)
	cartSvc := cart.NewService(users, products, logger)
	couponSvc := coupon.NewService(coupons)
	orderSvc := order.NewService(users, products, orders, couponSvc, cartSvc, recorder, logger)

	router := NewRouter(RouterConfig{
		Auth:       NewAuthHandlers(userSvc, tokens, recorder),
		Products:   NewProductHandlers(productSvc),
		Carts:      NewCartHandlers(cartSvc),
		Orders:     NewOrderHandlers(orderSvc),
		Coupons:    NewCouponHandlers(couponSvc),
		Activities: NewActivityHandlers(recorder),
		Tokens:     tokens,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, tokens: tokens, users: users, products: products, coupons: coupons}
}

func (e *testEnv) seedUser(t *testing.T, role user.Role) (*user.User, string) {
	t.Helper()
	u := &user.User{
		ID:    uuid.New().String(),
		Name:  "Seeded",
		Email: uuid.New().String() + "@example.com",
		Role:  role,
		Cart:  []user.CartLine{},
	}
	require.NoError(t, e.users.Create(context.Background(), u))

	token, _, err := e.tokens.IssueAccessToken(u.ID, u.Email, string(role))
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) seedProduct(t *testing.T, price int64) *product.Product {
	t.Helper()
	p := &product.Product{
		ID:       uuid.New().String(),
		Name:     "widget",
		Price:    price,
		Category: product.CategoryOther,
		Stock:    50,
	}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRegisterLoginProfile(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var accessToken string
	for _, c := range resp.Cookies() {
		if c.Name == "access_token" {
			accessToken = c.Value
		}
	}
	require.NotEmpty(t, accessToken, "registration must set the access cookie")

	resp = env.do(t, http.MethodGet, "/auth/profile", accessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decode[map[string]any](t, resp)
	assert.Equal(t, "alice@example.com", profile["email"])
	assert.Equal(t, "customer", profile["role"])

	// Duplicate registration conflicts.
	resp = env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password is unauthorized.
	resp = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)

	p := env.seedProduct(t, 1000)
	_, token := env.seedUser(t, user.RoleCustomer)

	resp := env.do(t, http.MethodPost, "/cart", token, map[string]any{
		"product_id": p.ID,
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]cart.Item](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	resp = env.do(t, http.MethodPost, "/orders", token, map[string]any{
		"payment_method": "card",
		"shipping_address": map[string]string{
			"street": "1 Main St", "city": "Springfield", "zip_code": "12345",
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	placed := decode[order.Order](t, resp)
	assert.Equal(t, int64(2000), placed.TotalAmount)
	assert.Equal(t, order.StatusProcessing, placed.Status)

	// Checkout drained the cart.
	resp = env.do(t, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items = decode[[]cart.Item](t, resp)
	assert.Empty(t, items)

	// Checkout with an empty cart is a client error.
	resp = env.do(t, http.MethodPost, "/orders", token, map[string]any{"payment_method": "card"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrderAccessControl(t *testing.T) {
	env := newTestEnv(t)

	p := env.seedProduct(t, 1000)
	owner, ownerToken := env.seedUser(t, user.RoleCustomer)
	_, strangerToken := env.seedUser(t, user.RoleCustomer)
	_, adminToken := env.seedUser(t, user.RoleAdmin)

	require.NoError(t, env.users.SaveCart(context.Background(), owner.ID, []user.CartLine{
		{ID: uuid.New().String(), ProductID: p.ID, Quantity: 1},
	}))
	resp := env.do(t, http.MethodPost, "/orders", ownerToken, map[string]any{"payment_method": "card"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	placed := decode[order.Order](t, resp)

	// A stranger cannot read or cancel someone else's order.
	resp = env.do(t, http.MethodGet, "/orders/"+placed.ID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = env.do(t, http.MethodPatch, "/orders/"+placed.ID+"/cancel", strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The admin surface is closed to customers.
	resp = env.do(t, http.MethodGet, "/orders", strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = env.do(t, http.MethodPatch, "/orders/"+placed.ID, strangerToken, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admins read any order and drive the status lifecycle.
	resp = env.do(t, http.MethodGet, "/orders/"+placed.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPatch, "/orders/"+placed.ID, adminToken, map[string]string{"status": "shipped"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[order.Order](t, resp)
	assert.Equal(t, order.StatusShipped, updated.Status)

	// Once shipped, the owner can no longer cancel.
	resp = env.do(t, http.MethodPatch, "/orders/"+placed.ID+"/cancel", ownerToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// No token at all is unauthorized.
	resp = env.do(t, http.MethodGet, "/orders/"+placed.ID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProductAdminSurface(t *testing.T) {
	env := newTestEnv(t)

	_, customerToken := env.seedUser(t, user.RoleCustomer)
	_, adminToken := env.seedUser(t, user.RoleAdmin)

	body := map[string]any{
		"name":     "Desk Lamp",
		"price":    3499,
		"category": "home",
		"stock":    12,
	}

	resp := env.do(t, http.MethodPost, "/products", customerToken, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/products", adminToken, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[product.Product](t, resp)

	// The catalog read side is public.
	resp = env.do(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decode[[]product.Product](t, resp)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	resp = env.do(t, http.MethodGet, "/products/"+created.ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/products/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCouponEndpoints(t *testing.T) {
	env := newTestEnv(t)

	u, token := env.seedUser(t, user.RoleCustomer)

	// No coupon yet: the endpoint answers with an empty body, not an error.
	resp := env.do(t, http.MethodGet, "/coupons", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, env.coupons.Replace(context.Background(), &coupon.Coupon{
		Code:               "SAVE15",
		UserID:             u.ID,
		DiscountPercentage: 15,
		ExpirationDate:     time.Now().Add(time.Hour),
		IsActive:           true,
	}))

	resp = env.do(t, http.MethodPost, "/coupons/validate", token, map[string]string{"code": "SAVE15"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	validated := decode[map[string]any](t, resp)
	assert.Equal(t, "SAVE15", validated["code"])
	assert.Equal(t, float64(15), validated["discount_percentage"])
	assert.Equal(t, true, validated["valid"])

	// Someone else's code does not validate.
	_, otherToken := env.seedUser(t, user.RoleCustomer)
	resp = env.do(t, http.MethodPost, "/coupons/validate", otherToken, map[string]string{"code": "SAVE15"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
