package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-shop-api/internal/auth"
)

// repoStub keeps users in a map, enough for exercising registration and
// credential checks without a database.
type repoStub struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newRepoStub() *repoStub {
	return &repoStub{byID: map[string]*User{}, byEmail: map[string]*User{}}
}

func (r *repoStub) Create(_ context.Context, u *User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *repoStub) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *repoStub) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *repoStub) SaveCart(_ context.Context, userID string, cart []CartLine) error {
	u, ok := r.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Cart = cart
	return nil
}

func TestService_Register(t *testing.T) {
	svc := NewService(newRepoStub())

	u, err := svc.Register(context.Background(), "Alice", "Alice@Example.COM", "correct-horse")

	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, RoleCustomer, u.Role)
	assert.NotNil(t, u.Cart)
	assert.Empty(t, u.Cart)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc := NewService(newRepoStub())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "correct-horse")
	require.NoError(t, err)

	// Same address with different casing still collides.
	_, err = svc.Register(ctx, "Alice Again", "ALICE@example.com", "other-password")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Register_ShortPassword(t *testing.T) {
	svc := NewService(newRepoStub())

	_, err := svc.Register(context.Background(), "Bob", "bob@example.com", "short")
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestService_Register_MissingFields(t *testing.T) {
	svc := NewService(newRepoStub())
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "carol@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Register(ctx, "Carol", "   ", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Authenticate(t *testing.T) {
	svc := NewService(newRepoStub())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Alice", "alice@example.com", "correct-horse")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	// Email lookup is case-insensitive at the service boundary.
	_, err = svc.Authenticate(ctx, "  ALICE@example.com ", "correct-horse")
	assert.NoError(t, err)
}

func TestService_Authenticate_Rejections(t *testing.T) {
	svc := NewService(newRepoStub())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "correct-horse")
	require.NoError(t, err)

	// Wrong password and unknown user produce the same error.
	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
