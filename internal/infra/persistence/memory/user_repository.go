// Package memory provides a process-local credential store used for development,
// single-instance deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/domain/repository"
	"warden/internal/errors"
)

// Store holds users keyed by ID with a unique email index.
// Records are copied in and out so callers never share memory with the store.
type Store struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*entity.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		byID:    make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]uuid.UUID),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewUserRepository exposes the store as a domain.UserRepository.
func NewUserRepository(store *Store) repository.UserRepository {
	return store
}

// FindByID implements repository.UserRepository.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return clone(user), nil
}

// FindByEmail implements repository.UserRepository.
func (s *Store) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return clone(s.byID[id]), nil
}

// Create implements repository.UserRepository.
func (s *Store) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
	}

	if user.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "generate user id")
		}
		user.ID = id
	}
	if _, taken := s.byID[user.ID]; taken {
		return errors.Errorf("user id %s already exists", user.ID)
	}

	now := s.now()
	user.Version = 1
	user.CreatedAt = now
	user.UpdatedAt = now

	s.byID[user.ID] = clone(user)
	s.byEmail[user.Email] = user.ID

	return nil
}

// Save implements repository.UserRepository with a compare-and-set on Version.
func (s *Store) Save(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if stored.Version != user.Version {
		return repository.ErrStaleUser
	}

	user.Version++
	user.UpdatedAt = s.now()

	next := clone(user)
	// Email and creation time are immutable once stored.
	next.Email = stored.Email
	next.CreatedAt = stored.CreatedAt
	s.byID[user.ID] = next

	return nil
}

// Len reports the number of stored users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byID)
}

func clone(u *entity.User) *entity.User {
	c := *u

	return &c
}
