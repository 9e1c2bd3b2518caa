// Package users implements the credential registry core: the User entity
// with its three onboarding paths, and the Service that enforces login
// uniqueness over a Repository.
package users

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/logging"
	"github.com/dmitrijs2005/userkeeper/internal/notify"
	"github.com/dmitrijs2005/userkeeper/internal/phonex"
)

// Service is the user registry. All mutating operations run under the
// write lock; Login runs under the read lock. Access code delivery is
// dispatched on a goroutine so it never blocks registry mutation.
type Service struct {
	mu       sync.RWMutex
	repo     Repository
	notifier notify.Notifier
	logger   logging.Logger
}

func NewService(repo Repository, notifier notify.Notifier, logger logging.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With("module", "users"),
	}
}

// Register creates a user via the email+password path and stores it.
// A taken login fails with common.ErrorAlreadyExists and nothing is stored.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := MakeUser(fullName, email, password, "")
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: a user with this email already exists", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "login", user.Login, "source", SourcePassword)
	return user, nil
}

// RegisterByPhone validates the raw phone, creates a user via the phone
// path and stores it, then sends the generated access code to the phone.
func (s *Service) RegisterByPhone(ctx context.Context, fullName, rawPhone string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !phonex.Validate(rawPhone) {
		return nil, fmt.Errorf("%w: enter a valid phone number starting with a + and containing 11 digits", common.ErrorValidation)
	}

	user, err := MakeUser(fullName, "", "", rawPhone)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: a user with this phone already exists", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "login", user.Login, "source", SourceSMS)
	s.sendAccessCode(user.Phone, user.AccessCode)
	return user, nil
}

// Login resolves the identifier (phone-normalized form when it is
// non-empty, verbatim otherwise), verifies the credential and returns the
// rendered user info. Unknown login and wrong password both come back as
// common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, login, password string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := phonex.Normalize(login)
	if key == "" {
		key = login
	}

	user, err := s.repo.GetByLogin(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error fetching user: %w", err)
	}

	if !user.CheckPassword(password) {
		return "", common.ErrorUnauthorized
	}

	return user.Info(), nil
}

// RequestAccessCode rotates the access code of a phone-onboarded user and
// resends it. A miss, a user without an access code, or an internal
// failure is a silent no-op from the caller's point of view.
func (s *Service) RequestAccessCode(ctx context.Context, login string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.repo.GetByLogin(ctx, phonex.Normalize(login))
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "access code request failed", "error", err.Error())
		}
		return
	}

	if user.AccessCode == "" {
		// not a phone-onboarded user
		return
	}

	code, err := user.RotateAccessCode()
	if err != nil {
		s.logger.Error(ctx, "access code rotation failed", "error", err.Error())
		return
	}

	if err := s.repo.Save(ctx, user); err != nil {
		s.logger.Error(ctx, "access code rotation failed", "error", err.Error())
		return
	}

	s.sendAccessCode(user.Phone, code)
}

// ImportUsers parses delimiter-separated records and upserts them in input
// order, last write winning on duplicate logins. A malformed record fails
// the whole batch before anything is stored.
func (s *Service) ImportUsers(ctx context.Context, records []string) ([]*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	imported := make([]*User, 0, len(records))
	for _, raw := range records {
		user, err := ParseRecord(raw)
		if err != nil {
			return nil, err
		}
		imported = append(imported, user)
	}

	if err := s.repo.SaveAll(ctx, imported); err != nil {
		return nil, fmt.Errorf("error saving users: %w", err)
	}

	s.logger.Info(ctx, "users imported", "count", len(imported))
	return imported, nil
}

// Clear empties the registry. Intended for test isolation.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.DeleteAll(ctx)
}

// sendAccessCode dispatches delivery without blocking the registry.
// Failures are logged, never surfaced.
func (s *Service) sendAccessCode(destination, code string) {
	go func() {
		ctx := context.Background()
		if err := s.notifier.Notify(ctx, destination, code); err != nil {
			s.logger.Warn(ctx, "access code delivery failed", "destination", destination, "error", err.Error())
		}
	}()
}
