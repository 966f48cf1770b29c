package product_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-shop-api/internal/domain/activity"
	"github.com/example/ec-shop-api/internal/domain/product"
	"github.com/example/ec-shop-api/internal/infrastructure/cache"
	"github.com/example/ec-shop-api/internal/infrastructure/memory"
)

func newTestService(t *testing.T) (*product.Service, *memory.ProductRepository, *memory.ActivityRepository) {
	t.Helper()
	repo := memory.NewProductRepository()
	activities := memory.NewActivityRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := activity.NewRecorder(activities, nil, logger)
	return product.NewService(repo, cache.NewMemoryCache(), recorder, logger), repo, activities
}

func validInput() product.CreateInput {
	return product.CreateInput{
		Name:     "Mechanical Keyboard",
		Price:    8999,
		Category: product.CategoryElectronics,
		Stock:    25,
	}
}

func TestService_Create(t *testing.T) {
	svc, _, activities := newTestService(t)

	p, err := svc.Create(context.Background(), validInput(), "admin-1", "admin@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, int64(8999), p.Price)
	assert.False(t, p.CreatedAt.IsZero())

	records := activities.Records()
	require.Len(t, records, 1)
	assert.Equal(t, activity.EntityProduct, records[0].EntityType)
	assert.Equal(t, activity.StatusAdded, records[0].Status)
	assert.Equal(t, p.ID, records[0].EntityID)
}

func TestService_Create_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	in := validInput()
	in.Name = ""
	_, err := svc.Create(ctx, in, "admin-1", "admin@example.com")
	assert.ErrorIs(t, err, product.ErrMissingName)

	in = validInput()
	in.Price = -1
	_, err = svc.Create(ctx, in, "admin-1", "admin@example.com")
	assert.ErrorIs(t, err, product.ErrInvalidPrice)

	in = validInput()
	in.Category = "groceries"
	_, err = svc.Create(ctx, in, "admin-1", "admin@example.com")
	assert.ErrorIs(t, err, product.ErrInvalidCategory)
}

func TestService_List_ServesFromCacheUntilInvalidated(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput(), "admin-1", "admin@example.com")
	require.NoError(t, err)

	listed, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// A write that bypasses the service is invisible while the cache entry
	// lives.
	p2 := *p
	p2.ID = "direct-write"
	require.NoError(t, repo.Create(ctx, &p2))

	listed, err = svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	// A service-level mutation invalidates and the next read sees both.
	in := validInput()
	in.Name = "Trackball"
	_, err = svc.Create(ctx, in, "admin-1", "admin@example.com")
	require.NoError(t, err)

	listed, err = svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestService_List_ByCategory(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validInput(), "admin-1", "admin@example.com")
	require.NoError(t, err)

	in := validInput()
	in.Name = "Golf Balls"
	in.Category = product.CategorySports
	_, err = svc.Create(ctx, in, "admin-1", "admin@example.com")
	require.NoError(t, err)

	sports, err := svc.List(ctx, product.CategorySports)
	require.NoError(t, err)
	require.Len(t, sports, 1)
	assert.Equal(t, "Golf Balls", sports[0].Name)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestService_Featured(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	in := validInput()
	in.IsFeatured = true
	featured, err := svc.Create(ctx, in, "admin-1", "admin@example.com")
	require.NoError(t, err)

	_, err = svc.Create(ctx, validInput(), "admin-1", "admin@example.com")
	require.NoError(t, err)

	got, err := svc.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, featured.ID, got[0].ID)
}

func TestService_Update(t *testing.T) {
	svc, _, activities := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput(), "admin-1", "admin@example.com")
	require.NoError(t, err)

	in := validInput()
	in.Price = 7999
	updated, err := svc.Update(ctx, p.ID, in, "admin-1", "admin@example.com")

	require.NoError(t, err)
	assert.Equal(t, int64(7999), updated.Price)

	records := activities.Records()
	assert.Equal(t, activity.StatusUpdated, records[len(records)-1].Status)
}

func TestService_Update_UnknownProduct(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "missing", validInput(), "admin-1", "admin@example.com")
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestService_Delete(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, validInput(), "admin-1", "admin@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID, "admin-1", "admin@example.com"))

	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID, "admin-1", "admin@example.com"), product.ErrProductNotFound)
}
