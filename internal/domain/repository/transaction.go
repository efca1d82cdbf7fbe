package repository

import "context"

// TransactionManager scopes repository work. Use cases never see the driver.
type TransactionManager interface {
	// Execute runs fn in one transaction on the primary. A non-nil error from fn
	// rolls back every write fn made.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error

	// ReadOnly runs fn outside a transaction. Reads may be served by a replica and
	// may lag the primary slightly; fn must not write.
	ReadOnly(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to one unit of work.
type RepositoryFactory interface {
	NewUserRepository() UserRepository
	NewCodeRepository() CodeRepository
	NewBlogRepository() BlogRepository
}
