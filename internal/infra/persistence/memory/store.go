// Package memory is a process-local implementation of the persistence layer. It backs
// local development without PostgreSQL and the use case tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"blogsphere/internal/domain/entity"
	"blogsphere/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store holds all records behind one mutex. Each transaction works on a copy of the
// state that replaces the current one only when the callback succeeds.
type Store struct {
	mu      sync.Mutex
	current *state
	now     func() time.Time
}

type state struct {
	users map[uuid.UUID]*entity.User
	codes []*entity.OneTimeCode // insertion order
	blogs map[uuid.UUID]*entity.Blog
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		current: &state{
			users: make(map[uuid.UUID]*entity.User),
			blogs: make(map[uuid.UUID]*entity.Blog),
		},
		now: time.Now,
	}
}

// NewTransactionManager exposes the store as a repository.TransactionManager.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return store
}

// Execute runs fn against a private copy of the data and commits it if fn returns nil.
// Transactions are serialized, which also gives verification codes their single-use guarantee.
func (s *Store) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.current.clone()
	if err := fn(&repositoryFactory{state: work, now: s.now}); err != nil {
		return err
	}

	s.current = work

	return nil
}

// ReadOnly runs fn against a snapshot of the data. Anything fn writes is discarded.
func (s *Store) ReadOnly(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	s.mu.Lock()
	snapshot := s.current.clone()
	s.mu.Unlock()

	return fn(&repositoryFactory{state: snapshot, now: s.now})
}

type repositoryFactory struct {
	state *state
	now   func() time.Time
}

func (f *repositoryFactory) NewUserRepository() repository.UserRepository {
	return &userRepository{state: f.state, now: f.now}
}

func (f *repositoryFactory) NewCodeRepository() repository.CodeRepository {
	return &codeRepository{state: f.state, now: f.now}
}

func (f *repositoryFactory) NewBlogRepository() repository.BlogRepository {
	return &blogRepository{state: f.state, now: f.now}
}

func (s *state) clone() *state {
	out := &state{
		users: make(map[uuid.UUID]*entity.User, len(s.users)),
		codes: make([]*entity.OneTimeCode, 0, len(s.codes)),
		blogs: make(map[uuid.UUID]*entity.Blog, len(s.blogs)),
	}
	for id, user := range s.users {
		out.users[id] = cloneUser(user)
	}
	for _, code := range s.codes {
		c := *code
		out.codes = append(out.codes, &c)
	}
	for id, blog := range s.blogs {
		out.blogs[id] = cloneBlog(blog)
	}

	return out
}

func cloneUser(user *entity.User) *entity.User {
	if user == nil {
		return nil
	}

	c := *user
	c.Subscribers = slices.Clone(user.Subscribers)

	return &c
}

func cloneBlog(blog *entity.Blog) *entity.Blog {
	if blog == nil {
		return nil
	}

	c := *blog
	c.Author = nil
	c.Tags = slices.Clone(blog.Tags)
	c.Likes = slices.Clone(blog.Likes)
	c.Comments = make([]*entity.Comment, 0, len(blog.Comments))
	for _, comment := range blog.Comments {
		cc := *comment
		cc.User = nil
		c.Comments = append(c.Comments, &cc)
	}

	return &c
}
