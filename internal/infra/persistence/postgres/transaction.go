// Package postgres stores BlogSphere data in PostgreSQL through GORM.
package postgres

import (
	"context"

	"blogsphere/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type gormTransactionManager struct {
	db *gorm.DB
}

// gormRepositoryFactory builds repositories on a single session: a transaction for
// Execute, a replica-routed session for ReadOnly.
type gormRepositoryFactory struct {
	db *gorm.DB
}

func (f *gormRepositoryFactory) NewUserRepository() repository.UserRepository {
	return NewUserRepository(f.db)
}

func (f *gormRepositoryFactory) NewCodeRepository() repository.CodeRepository {
	return NewCodeRepository(f.db)
}

func (f *gormRepositoryFactory) NewBlogRepository() repository.BlogRepository {
	return NewBlogRepository(f.db)
}

// NewTransactionManager wraps db as a repository.TransactionManager.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Execute begins a transaction on the primary, commits when fn succeeds and rolls
// back when it fails or panics.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	tx := tm.db.WithContext(ctx).Clauses(dbresolver.Write).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&gormRepositoryFactory{db: tx}); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			// The business error stays the cause so callers can still match it.
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}

		return err
	}

	committed = true
	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// ReadOnly routes fn's queries to a read replica when replicas are configured.
func (tm *gormTransactionManager) ReadOnly(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return fn(&gormRepositoryFactory{db: tm.db.WithContext(ctx).Clauses(dbresolver.Read)})
}
