package repository

import (
	"context"
	"errors"

	"blogsphere/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrBlogNotFound is returned when a blog is not found.
	ErrBlogNotFound = errors.New("blog not found")

	// ErrCommentNotFound is returned when a comment is not found on the given blog.
	ErrCommentNotFound = errors.New("comment not found")
)

// BlogFilter narrows a blog listing. Zero values mean no restriction.
type BlogFilter struct {
	AuthorID uuid.UUID
	Tag      string
	Limit    int
}

// BlogRepository defines persistence for blogs, their likes and their comments.
// Returned blogs carry likes and comments but not populated authors.
type BlogRepository interface {
	// Create persists a new blog.
	Create(ctx context.Context, blog *entity.Blog) error

	// FindByID retrieves a blog by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Blog, error)

	// List returns blogs matching filter, newest first.
	List(ctx context.Context, filter BlogFilter) ([]*entity.Blog, error)

	// ListPopular returns up to limit blogs ordered by likes, then shares, then comments.
	ListPopular(ctx context.Context, limit int) ([]*entity.Blog, error)

	// Update writes title, content, cover image and tags.
	Update(ctx context.Context, blog *entity.Blog) error

	// Delete removes the blog with its likes and comments.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddLike records a like by userID. Liking twice is a no-op.
	AddLike(ctx context.Context, blogID, userID uuid.UUID) error

	// RemoveLike removes the like by userID if present.
	RemoveLike(ctx context.Context, blogID, userID uuid.UUID) error

	// IncrementShares atomically adds one to the share counter and returns the new value.
	IncrementShares(ctx context.Context, blogID uuid.UUID) (int, error)

	// AddComment appends a comment to its blog.
	AddComment(ctx context.Context, comment *entity.Comment) error

	// DeleteComment removes the comment from the blog.
	DeleteComment(ctx context.Context, blogID, commentID uuid.UUID) error
}
