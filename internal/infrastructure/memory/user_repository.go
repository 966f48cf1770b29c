package memory

import (
	"context"
	"sync"
	"time"

	"github.com/example/ec-shop-api/internal/domain/user"
)

type UserRepository struct {
	mu sync.RWMutex
	// FailSaveCart, when set, makes SaveCart fail with this error.
	FailSaveCart error
	users        map[string]*user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*user.User)}
}

func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *UserRepository) SaveCart(_ context.Context, userID string, cart []user.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSaveCart != nil {
		return r.FailSaveCart
	}
	u, ok := r.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Cart = append([]user.CartLine(nil), cart...)
	u.UpdatedAt = time.Now()
	return nil
}

func cloneUser(u *user.User) *user.User {
	c := *u
	c.Cart = append([]user.CartLine(nil), u.Cart...)
	return &c
}
