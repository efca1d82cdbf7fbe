package memory

import (
	"context"
	"slices"
	"time"

	"blogsphere/internal/domain/entity"
	"blogsphere/internal/domain/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	state *state
	now   func() time.Time
}

func (r *userRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.state.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.state.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *userRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, user := range r.state.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *userRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	users := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.state.users[id]; ok {
			users = append(users, cloneUser(user))
		}
	}

	return users, nil
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	if _, exists := r.state.users[user.ID]; exists {
		return repository.ErrDuplicateUser
	}
	if r.conflicts(user) {
		return repository.ErrDuplicateUser
	}

	now := r.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	stored := cloneUser(user)
	stored.Subscribers = nil
	r.state.users[user.ID] = stored

	return nil
}

func (r *userRepository) Update(_ context.Context, user *entity.User) error {
	existing, ok := r.state.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if r.conflicts(user) {
		return repository.ErrDuplicateUser
	}

	user.UpdatedAt = r.now()

	stored := cloneUser(user)
	stored.Subscribers = existing.Subscribers
	stored.CreatedAt = existing.CreatedAt
	r.state.users[user.ID] = stored

	return nil
}

func (r *userRepository) AddSubscriber(_ context.Context, userID, subscriberID uuid.UUID) error {
	user, ok := r.state.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if _, ok := r.state.users[subscriberID]; !ok {
		return repository.ErrUserNotFound
	}
	if !slices.Contains(user.Subscribers, subscriberID) {
		user.Subscribers = append(user.Subscribers, subscriberID)
	}

	return nil
}

func (r *userRepository) RemoveSubscriber(_ context.Context, userID, subscriberID uuid.UUID) error {
	user, ok := r.state.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Subscribers = slices.DeleteFunc(user.Subscribers, func(id uuid.UUID) bool {
		return id == subscriberID
	})

	return nil
}

// conflicts reports whether another user already holds the email or username.
func (r *userRepository) conflicts(user *entity.User) bool {
	for id, other := range r.state.users {
		if id == user.ID {
			continue
		}
		if other.Email == user.Email || other.Username == user.Username {
			return true
		}
	}

	return false
}
