package memory

import (
	"context"
	"sync"

	"warden/internal/domain/repository"
	"warden/internal/errors"
)

// transactionManager serializes Execute calls against a Store.
// Individual writes are already atomic, so there is nothing to roll back.
type transactionManager struct {
	mu    sync.Mutex
	store *Store
}

type repositoryFactory struct {
	store *Store
}

// UserRepo returns the store itself.
func (f *repositoryFactory) UserRepo() repository.UserRepository {
	return f.store
}

// NewTransactionManager returns a TransactionManager backed by store.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

// Execute runs fn while holding the manager lock.
func (tm *transactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	return fn(&repositoryFactory{store: tm.store})
}
