package postgres

import (
	"context"
	"encoding/json"
	"time"

	"blogsphere/internal/domain/entity"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/domain/repository"
	"blogsphere/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	orderByLikes    = "(SELECT COUNT(*) FROM blog_likes WHERE blog_likes.blog_id = blogs.id) DESC"
	orderByComments = "(SELECT COUNT(*) FROM blog_comments WHERE blog_comments.blog_id = blogs.id) DESC"
)

// blogRepository implements repository.BlogRepository using GORM.
type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository is the constructor for blogRepository.
func NewBlogRepository(db *gorm.DB) repository.BlogRepository {
	return &blogRepository{db: db}
}

// withRelations preloads likes and comments, comments oldest first.
func (repo *blogRepository) withRelations(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		})
}

// Create persists a new blog without touching associations.
func (repo *blogRepository) Create(ctx context.Context, blog *entity.Blog) error {
	blogM := fromBlogDomain(blog)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(blogM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create blog")
	}

	blog.CreatedAt = blogM.CreatedAt
	blog.UpdatedAt = blogM.UpdatedAt

	return nil
}

// FindByID retrieves a blog with its likes and comments.
func (repo *blogRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Blog, error) {
	var blogM model.BlogModel
	if err := repo.withRelations(ctx).Where("id = ?", id).First(&blogM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBlogNotFound
		}

		return nil, errors.Wrap(err, "failed to find blog")
	}

	return toBlogDomain(&blogM), nil
}

// List returns blogs newest first, optionally narrowed by author and tag.
func (repo *blogRepository) List(ctx context.Context, filter repository.BlogFilter) ([]*entity.Blog, error) {
	query := repo.withRelations(ctx)
	if filter.AuthorID != uuid.Nil {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Tag != "" {
		tagJSON, err := json.Marshal([]string{filter.Tag})
		if err != nil {
			return nil, errors.WithStack(err)
		}
		query = query.Where("tags @> ?::jsonb", string(tagJSON))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var blogMs []model.BlogModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&blogMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list blogs")
	}

	return toBlogDomains(blogMs), nil
}

// ListPopular orders by likes, then shares, then comments.
func (repo *blogRepository) ListPopular(ctx context.Context, limit int) ([]*entity.Blog, error) {
	var blogMs []model.BlogModel
	err := repo.withRelations(ctx).
		Order(orderByLikes).
		Order("shares DESC").
		Order(orderByComments).
		Order("created_at DESC").
		Limit(limit).
		Find(&blogMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list popular blogs")
	}

	return toBlogDomains(blogMs), nil
}

// Update writes the editable columns.
func (repo *blogRepository) Update(ctx context.Context, blog *entity.Blog) error {
	blogM := fromBlogDomain(blog)
	blogM.UpdatedAt = time.Now()

	result := repo.db.WithContext(ctx).
		Model(&model.BlogModel{ID: blog.ID}).
		Select("title", "content", "cover_image", "tags", "updated_at").
		Updates(blogM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update blog")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBlogNotFound
	}

	blog.UpdatedAt = blogM.UpdatedAt

	return nil
}

// Delete removes the blog along with its likes and comments.
func (repo *blogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)

	if err := db.Where("blog_id = ?", id).Delete(&model.BlogLikeModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete blog likes")
	}
	if err := db.Where("blog_id = ?", id).Delete(&model.CommentModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete blog comments")
	}

	result := db.Where("id = ?", id).Delete(&model.BlogModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete blog")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBlogNotFound
	}

	return nil
}

// AddLike inserts a like, ignoring a duplicate.
func (repo *blogRepository) AddLike(ctx context.Context, blogID, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.BlogLikeModel{BlogID: blogID, UserID: userID}).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrBlogNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add like")
	}

	return nil
}

// RemoveLike deletes the like if present.
func (repo *blogRepository) RemoveLike(ctx context.Context, blogID, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("blog_id = ? AND user_id = ?", blogID, userID).
		Delete(&model.BlogLikeModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to remove like")
	}

	return nil
}

// IncrementShares bumps the counter in a single UPDATE ... RETURNING statement.
func (repo *blogRepository) IncrementShares(ctx context.Context, blogID uuid.UUID) (int, error) {
	var blogM model.BlogModel
	result := repo.db.WithContext(ctx).
		Model(&blogM).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "shares"}}}).
		Where("id = ?", blogID).
		UpdateColumn("shares", gorm.Expr("shares + ?", 1))
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to increment shares")
	}
	if result.RowsAffected == 0 {
		return 0, repository.ErrBlogNotFound
	}

	return blogM.Shares, nil
}

// AddComment appends a comment.
func (repo *blogRepository) AddComment(ctx context.Context, comment *entity.Comment) error {
	commentM := &model.CommentModel{
		ID:        comment.ID,
		BlogID:    comment.BlogID,
		UserID:    comment.UserID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(commentM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrBlogNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add comment")
	}

	comment.CreatedAt = commentM.CreatedAt

	return nil
}

// DeleteComment removes a comment from its blog.
func (repo *blogRepository) DeleteComment(ctx context.Context, blogID, commentID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND blog_id = ?", commentID, blogID).
		Delete(&model.CommentModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete comment")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCommentNotFound
	}

	return nil
}

func toBlogDomains(blogMs []model.BlogModel) []*entity.Blog {
	blogs := make([]*entity.Blog, 0, len(blogMs))
	for i := range blogMs {
		blogs = append(blogs, toBlogDomain(&blogMs[i]))
	}

	return blogs
}

// toBlogDomain converts a GORM BlogModel to a domain Blog entity.
func toBlogDomain(data *model.BlogModel) *entity.Blog {
	if data == nil {
		return nil
	}

	likes := make([]uuid.UUID, 0, len(data.Likes))
	for _, like := range data.Likes {
		likes = append(likes, like.UserID)
	}

	comments := make([]*entity.Comment, 0, len(data.Comments))
	for _, c := range data.Comments {
		comments = append(comments, &entity.Comment{
			ID:        c.ID,
			BlogID:    c.BlogID,
			UserID:    c.UserID,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}

	tags := []string(data.Tags)
	if tags == nil {
		tags = []string{}
	}

	return &entity.Blog{
		ID:         data.ID,
		AuthorID:   data.AuthorID,
		Title:      data.Title,
		Content:    data.Content,
		CoverImage: data.CoverImage,
		Tags:       tags,
		Likes:      likes,
		Comments:   comments,
		Shares:     data.Shares,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

// fromBlogDomain converts a domain Blog entity to a GORM BlogModel. Likes and comments
// have their own write paths.
func fromBlogDomain(data *entity.Blog) *model.BlogModel {
	if data == nil {
		return nil
	}

	return &model.BlogModel{
		ID:         data.ID,
		AuthorID:   data.AuthorID,
		Title:      data.Title,
		Content:    data.Content,
		CoverImage: data.CoverImage,
		Tags:       datatypes.JSONSlice[string](data.Tags),
		Shares:     data.Shares,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
