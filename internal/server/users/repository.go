package users

import (
	"context"
)

// Repository stores users keyed by their normalized login.
type Repository interface {
	// Create inserts a new user, failing with common.ErrorAlreadyExists
	// when the login is taken.
	Create(ctx context.Context, user *User) error

	// Save upserts a user, replacing any prior entry under the same login.
	Save(ctx context.Context, user *User) error

	// SaveAll upserts users in order as one atomic batch. Either every
	// user is stored or none is.
	SaveAll(ctx context.Context, users []*User) error

	// GetByLogin returns the user stored under login, or
	// common.ErrorNotFound.
	GetByLogin(ctx context.Context, login string) (*User, error)

	// DeleteAll empties the store. Intended for test isolation.
	DeleteAll(ctx context.Context) error
}
