// Package persistence selects the storage backend for the repositories.
package persistence

import (
	"log/slog"

	"blogsphere/config"
	"blogsphere/internal/domain/repository"
	"blogsphere/internal/infra/persistence/memory"
	"blogsphere/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params holds dependencies for the transaction manager, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewTransactionManager uses PostgreSQL when a postgres section is configured and the
// in-memory store otherwise.
func NewTransactionManager(params Params) (repository.TransactionManager, error) {
	if params.Config.Postgres == nil {
		params.Logger.Warn("Postgres not configured, using in-memory store; data is lost on restart")

		return memory.NewTransactionManager(memory.NewStore()), nil
	}

	db, err := postgres.New(postgres.Params{
		Lifecycle: params.Lc,
		Config:    params.Config,
		Logger:    params.Logger,
	})
	if err != nil {
		return nil, err
	}

	params.Logger.Info("Using PostgreSQL store")

	return postgres.NewTransactionManager(db), nil
}
