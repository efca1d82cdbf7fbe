package usecase

import (
	"context"

	"blogsphere/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateBlogInput defines a new post. An empty CoverImage gets the default cover.
// Format is html (the default) or markdown; either way the stored body is sanitized HTML.
type CreateBlogInput struct {
	Title      string
	Content    string
	Format     string
	CoverImage string
	Tags       []string
}

// UpdateBlogInput holds optional post changes. Nil fields are left untouched.
type UpdateBlogInput struct {
	Title      *string
	Content    *string
	Format     string // applies to Content
	CoverImage *string
	Tags       *[]string
}

// ListBlogsInput filters the public listing.
type ListBlogsInput struct {
	Tag string
}

// LikeOutput is the post after a like toggle.
type LikeOutput struct {
	Blog  *entity.Blog
	Liked bool
}

// BlogUsecase defines blog authoring and engagement operations. Every returned blog
// has its author and comment authors populated.
type BlogUsecase interface {
	Create(ctx context.Context, authorID uuid.UUID, input *CreateBlogInput) (*entity.Blog, error)
	Get(ctx context.Context, blogID uuid.UUID) (*entity.Blog, error)
	List(ctx context.Context, input *ListBlogsInput) ([]*entity.Blog, error)
	ListPopular(ctx context.Context) ([]*entity.Blog, error)
	ListByUsername(ctx context.Context, username string) ([]*entity.Blog, error)

	// Update and Delete are restricted to the author.
	Update(ctx context.Context, userID, blogID uuid.UUID, input *UpdateBlogInput) (*entity.Blog, error)
	Delete(ctx context.Context, userID, blogID uuid.UUID) error

	ToggleLike(ctx context.Context, userID, blogID uuid.UUID) (*LikeOutput, error)
	Share(ctx context.Context, userID, blogID uuid.UUID) (*entity.Blog, error)
	AddComment(ctx context.Context, userID, blogID uuid.UUID, text string) (*entity.Blog, error)

	// DeleteComment is allowed for the comment's author and the blog's author.
	DeleteComment(ctx context.Context, userID, blogID, commentID uuid.UUID) error

	// ShareQRCode renders the post's public link as a PNG QR code.
	ShareQRCode(ctx context.Context, blogID uuid.UUID) ([]byte, error)
}
