package memory

import (
	"context"
	"slices"
	"time"

	"blogsphere/internal/domain/entity"
	"blogsphere/internal/domain/repository"

	"github.com/google/uuid"
)

type codeRepository struct {
	state *state
	now   func() time.Time
}

func (r *codeRepository) Create(_ context.Context, code *entity.OneTimeCode) error {
	if code.CreatedAt.IsZero() {
		code.CreatedAt = r.now()
	}

	c := *code
	r.state.codes = append(r.state.codes, &c)

	return nil
}

// FindLatestByEmail picks the greatest CreatedAt, the later insertion winning ties.
func (r *codeRepository) FindLatestByEmail(_ context.Context, email string) (*entity.OneTimeCode, error) {
	var latest *entity.OneTimeCode
	for _, code := range r.state.codes {
		if code.Email != email {
			continue
		}
		if latest == nil || !code.CreatedAt.Before(latest.CreatedAt) {
			latest = code
		}
	}

	if latest == nil {
		return nil, repository.ErrCodeNotFound
	}

	c := *latest

	return &c, nil
}

func (r *codeRepository) Delete(_ context.Context, id uuid.UUID) error {
	before := len(r.state.codes)
	r.state.codes = slices.DeleteFunc(r.state.codes, func(code *entity.OneTimeCode) bool {
		return code.ID == id
	})
	if len(r.state.codes) != before-1 {
		return repository.ErrCodeNotFound
	}

	return nil
}

func (r *codeRepository) DeleteByEmail(_ context.Context, email string) (int64, error) {
	before := len(r.state.codes)
	r.state.codes = slices.DeleteFunc(r.state.codes, func(code *entity.OneTimeCode) bool {
		return code.Email == email
	})

	return int64(before - len(r.state.codes)), nil
}
