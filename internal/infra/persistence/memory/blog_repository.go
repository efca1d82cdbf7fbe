package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"blogsphere/internal/domain/entity"
	"blogsphere/internal/domain/repository"

	"github.com/google/uuid"
)

type blogRepository struct {
	state *state
	now   func() time.Time
}

func (r *blogRepository) Create(_ context.Context, blog *entity.Blog) error {
	if _, ok := r.state.users[blog.AuthorID]; !ok {
		return repository.ErrUserNotFound
	}

	now := r.now()
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = now
	}
	blog.UpdatedAt = now

	stored := cloneBlog(blog)
	stored.Likes = nil
	stored.Comments = nil
	r.state.blogs[blog.ID] = stored

	return nil
}

func (r *blogRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Blog, error) {
	blog, ok := r.state.blogs[id]
	if !ok {
		return nil, repository.ErrBlogNotFound
	}

	return cloneBlog(blog), nil
}

func (r *blogRepository) List(_ context.Context, filter repository.BlogFilter) ([]*entity.Blog, error) {
	blogs := make([]*entity.Blog, 0, len(r.state.blogs))
	for _, blog := range r.state.blogs {
		if filter.AuthorID != uuid.Nil && blog.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Tag != "" && !slices.Contains(blog.Tags, filter.Tag) {
			continue
		}
		blogs = append(blogs, cloneBlog(blog))
	}

	slices.SortFunc(blogs, newestFirst)
	if filter.Limit > 0 && len(blogs) > filter.Limit {
		blogs = blogs[:filter.Limit]
	}

	return blogs, nil
}

func (r *blogRepository) ListPopular(_ context.Context, limit int) ([]*entity.Blog, error) {
	blogs := make([]*entity.Blog, 0, len(r.state.blogs))
	for _, blog := range r.state.blogs {
		blogs = append(blogs, cloneBlog(blog))
	}

	slices.SortFunc(blogs, func(a, b *entity.Blog) int {
		return cmp.Or(
			cmp.Compare(len(b.Likes), len(a.Likes)),
			cmp.Compare(b.Shares, a.Shares),
			cmp.Compare(len(b.Comments), len(a.Comments)),
			newestFirst(a, b),
		)
	})
	if limit > 0 && len(blogs) > limit {
		blogs = blogs[:limit]
	}

	return blogs, nil
}

func (r *blogRepository) Update(_ context.Context, blog *entity.Blog) error {
	stored, ok := r.state.blogs[blog.ID]
	if !ok {
		return repository.ErrBlogNotFound
	}

	blog.UpdatedAt = r.now()

	stored.Title = blog.Title
	stored.Content = blog.Content
	stored.CoverImage = blog.CoverImage
	stored.Tags = slices.Clone(blog.Tags)
	stored.UpdatedAt = blog.UpdatedAt

	return nil
}

func (r *blogRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.state.blogs[id]; !ok {
		return repository.ErrBlogNotFound
	}
	delete(r.state.blogs, id)

	return nil
}

func (r *blogRepository) AddLike(_ context.Context, blogID, userID uuid.UUID) error {
	blog, ok := r.state.blogs[blogID]
	if !ok {
		return repository.ErrBlogNotFound
	}
	if !slices.Contains(blog.Likes, userID) {
		blog.Likes = append(blog.Likes, userID)
	}

	return nil
}

func (r *blogRepository) RemoveLike(_ context.Context, blogID, userID uuid.UUID) error {
	blog, ok := r.state.blogs[blogID]
	if !ok {
		return repository.ErrBlogNotFound
	}
	blog.Likes = slices.DeleteFunc(blog.Likes, func(id uuid.UUID) bool {
		return id == userID
	})

	return nil
}

func (r *blogRepository) IncrementShares(_ context.Context, blogID uuid.UUID) (int, error) {
	blog, ok := r.state.blogs[blogID]
	if !ok {
		return 0, repository.ErrBlogNotFound
	}
	blog.Shares++

	return blog.Shares, nil
}

func (r *blogRepository) AddComment(_ context.Context, comment *entity.Comment) error {
	blog, ok := r.state.blogs[comment.BlogID]
	if !ok {
		return repository.ErrBlogNotFound
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = r.now()
	}

	c := *comment
	c.User = nil
	blog.Comments = append(blog.Comments, &c)

	return nil
}

func (r *blogRepository) DeleteComment(_ context.Context, blogID, commentID uuid.UUID) error {
	blog, ok := r.state.blogs[blogID]
	if !ok {
		return repository.ErrBlogNotFound
	}

	before := len(blog.Comments)
	blog.Comments = slices.DeleteFunc(blog.Comments, func(c *entity.Comment) bool {
		return c.ID == commentID
	})
	if len(blog.Comments) == before {
		return repository.ErrCommentNotFound
	}

	return nil
}

func newestFirst(a, b *entity.Blog) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}

	return cmp.Compare(b.ID.String(), a.ID.String())
}
