package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/userkeeper/internal/common"
)

// InMemoryRepository keeps users in a mutex-guarded map. This is the
// default backend and the one the tests run against.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Login]; ok {
		return common.ErrorAlreadyExists
	}
	r.users[user.Login] = user
	return nil
}

func (r *InMemoryRepository) Save(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.Login] = user
	return nil
}

func (r *InMemoryRepository) SaveAll(ctx context.Context, users []*User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range users {
		r.users[user.Login] = user
	}
	return nil
}

func (r *InMemoryRepository) GetByLogin(ctx context.Context, login string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return user, nil
}

func (r *InMemoryRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = make(map[string]*User)
	return nil
}
