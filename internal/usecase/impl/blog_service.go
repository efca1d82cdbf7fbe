package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"blogsphere/config"
	deliverycontext "blogsphere/internal/delivery/context"
	"blogsphere/internal/domain/constants"
	"blogsphere/internal/domain/entity"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/domain/repository"
	"blogsphere/internal/domain/service"
	"blogsphere/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const publishTimeout = 5 * time.Second

// blogService implements the BlogUsecase interface.
type blogService struct {
	txManager     repository.TransactionManager
	qrCodeService service.QRCodeService
	publisher     service.EventPublisher
	renderer      service.ContentRenderer
	shareBaseURL  string
	now           func() time.Time
	logger        *slog.Logger
}

// BlogServiceParams holds dependencies for BlogService, injected by Fx.
type BlogServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	QRCodeService service.QRCodeService
	Publisher     service.EventPublisher
	Renderer      service.ContentRenderer
	Config        *config.Config
	Logger        *slog.Logger
}

// NewBlogService is the constructor for blogService.
func NewBlogService(params BlogServiceParams) usecase.BlogUsecase {
	return &blogService{
		txManager:     params.TxManager,
		qrCodeService: params.QRCodeService,
		publisher:     params.Publisher,
		renderer:      params.Renderer,
		shareBaseURL:  shareBaseURLFrom(params.Config),
		now:           time.Now,
		logger:        params.Logger,
	}
}

func (srv *blogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create publishes a new post by authorID and notifies the author's subscribers.
func (srv *blogService) Create(ctx context.Context, authorID uuid.UUID, input *usecase.CreateBlogInput) (*entity.Blog, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("title and content are required")
	}
	content, err := srv.renderContent(input.Content, input.Format)
	if err != nil {
		return nil, err
	}

	coverImage := strings.TrimSpace(input.CoverImage)
	if coverImage == "" {
		coverImage = constants.DefaultCoverImage
	}

	now := srv.now()
	blog := &entity.Blog{
		ID:         uuid.Must(uuid.NewV7()),
		AuthorID:   authorID,
		Title:      title,
		Content:    content,
		CoverImage: coverImage,
		Tags:       normalizeTags(input.Tags),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.NewUserRepository().FindByID(ctx, authorID); err != nil {
			return mapUserError(err)
		}
		if err := repoFactory.NewBlogRepository().Create(ctx, blog); err != nil {
			return errors.Wrap(err, "failed to create blog")
		}

		return populate(ctx, repoFactory, blog)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create blog")
	}

	srv.log(ctx).Info("Blog created", slog.String("blogID", blog.ID.String()), slog.String("authorID", authorID.String()))

	var subscribers []string
	if blog.Author != nil {
		for _, id := range blog.Author.Subscribers {
			subscribers = append(subscribers, id.String())
		}
	}
	srv.publish(ctx, service.EventBlogPublished, blog, authorID, subscribers)

	return blog, nil
}

// renderContent sanitizes a submitted body. A body that is empty once unsafe markup
// is removed is rejected.
func (srv *blogService) renderContent(body, format string) (string, error) {
	rendered, err := srv.renderer.RenderPost(strings.TrimSpace(body), strings.ToLower(strings.TrimSpace(format)))
	if err != nil {
		return "", domainerrors.ErrValidationFailed.WithDetails("format must be html or markdown")
	}

	rendered = strings.TrimSpace(rendered)
	if rendered == "" {
		return "", domainerrors.ErrValidationFailed.WithDetails("content cannot be empty")
	}

	return rendered, nil
}

// Get returns a single post.
func (srv *blogService) Get(ctx context.Context, blogID uuid.UUID) (*entity.Blog, error) {
	var blog *entity.Blog

	err := srv.txManager.ReadOnly(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewBlogRepository().FindByID(ctx, blogID)
		if err != nil {
			return mapBlogError(err)
		}
		blog = found

		return populate(ctx, repoFactory, blog)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get blog")
	}

	return blog, nil
}

// List returns every post, newest first, optionally restricted to a tag.
func (srv *blogService) List(ctx context.Context, input *usecase.ListBlogsInput) ([]*entity.Blog, error) {
	filter := repository.BlogFilter{}
	if input != nil {
		filter.Tag = strings.TrimSpace(input.Tag)
	}

	return srv.list(ctx, filter)
}

// ListPopular returns the top posts by likes, then shares, then comments.
func (srv *blogService) ListPopular(ctx context.Context) ([]*entity.Blog, error) {
	var blogs []*entity.Blog

	err := srv.txManager.ReadOnly(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewBlogRepository().ListPopular(ctx, constants.PopularBlogsLimit)
		if err != nil {
			return errors.Wrap(err, "failed to list popular blogs")
		}
		blogs = found

		return populate(ctx, repoFactory, blogs...)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list popular blogs")
	}

	return blogs, nil
}

// ListByUsername returns the posts written by username, newest first.
func (srv *blogService) ListByUsername(ctx context.Context, username string) ([]*entity.Blog, error) {
	username = strings.TrimSpace(username)

	var blogs []*entity.Blog
	err := srv.txManager.ReadOnly(ctx, func(repoFactory repository.RepositoryFactory) error {
		author, err := repoFactory.NewUserRepository().FindByUsername(ctx, username)
		if err != nil {
			return mapUserError(err)
		}

		found, err := repoFactory.NewBlogRepository().List(ctx, repository.BlogFilter{AuthorID: author.ID})
		if err != nil {
			return errors.Wrap(err, "failed to list blogs")
		}
		blogs = found

		return populate(ctx, repoFactory, blogs...)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user blogs")
	}

	return blogs, nil
}

func (srv *blogService) list(ctx context.Context, filter repository.BlogFilter) ([]*entity.Blog, error) {
	var blogs []*entity.Blog

	err := srv.txManager.ReadOnly(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewBlogRepository().List(ctx, filter)
		if err != nil {
			return errors.Wrap(err, "failed to list blogs")
		}
		blogs = found

		return populate(ctx, repoFactory, blogs...)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list blogs")
	}

	return blogs, nil
}

// Update applies the non-nil fields of input. Only the author may update a post.
func (srv *blogService) Update(ctx context.Context, userID, blogID uuid.UUID, input *usecase.UpdateBlogInput) (*entity.Blog, error) {
	var blog *entity.Blog

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		blogRepo := repoFactory.NewBlogRepository()

		found, err := blogRepo.FindByID(ctx, blogID)
		if err != nil {
			return mapBlogError(err)
		}
		if !found.IsOwnedBy(userID) {
			return domainerrors.ErrForbidden.WrapMessage("only the author can update this blog")
		}

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return domainerrors.ErrValidationFailed.WithDetails("title cannot be empty")
			}
			found.Title = title
		}
		if input.Content != nil {
			content, err := srv.renderContent(*input.Content, input.Format)
			if err != nil {
				return err
			}
			found.Content = content
		}
		if input.CoverImage != nil {
			found.CoverImage = strings.TrimSpace(*input.CoverImage)
			if found.CoverImage == "" {
				found.CoverImage = constants.DefaultCoverImage
			}
		}
		if input.Tags != nil {
			found.Tags = normalizeTags(*input.Tags)
		}
		found.UpdatedAt = srv.now()

		if err := blogRepo.Update(ctx, found); err != nil {
			return mapBlogError(err)
		}
		blog = found

		return populate(ctx, repoFactory, blog)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update blog")
	}

	return blog, nil
}

// Delete removes a post. Only the author may delete it.
func (srv *blogService) Delete(ctx context.Context, userID, blogID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		blogRepo := repoFactory.NewBlogRepository()

		blog, err := blogRepo.FindByID(ctx, blogID)
		if err != nil {
			return mapBlogError(err)
		}
		if !blog.IsOwnedBy(userID) {
			return domainerrors.ErrForbidden.WrapMessage("only the author can delete this blog")
		}

		return mapBlogError(blogRepo.Delete(ctx, blogID))
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete blog")
	}

	srv.log(ctx).Info("Blog deleted", slog.String("blogID", blogID.String()))

	return nil
}

// ToggleLike likes the post for userID, or removes the like if already present.
func (srv *blogService) ToggleLike(ctx context.Context, userID, blogID uuid.UUID) (*usecase.LikeOutput, error) {
	var output *usecase.LikeOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		blogRepo := repoFactory.NewBlogRepository()

		blog, err := blogRepo.FindByID(ctx, blogID)
		if err != nil {
			return mapBlogError(err)
		}

		liked := !blog.IsLikedBy(userID)
		if liked {
			err = blogRepo.AddLike(ctx, blogID, userID)
		} else {
			err = blogRepo.RemoveLike(ctx, blogID, userID)
		}
		if err != nil {
			return mapBlogError(err)
		}

		if blog, err = blogRepo.FindByID(ctx, blogID); err != nil {
			return mapBlogError(err)
		}
		output = &usecase.LikeOutput{Blog: blog, Liked: liked}

		return populate(ctx, repoFactory, blog)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to toggle like")
	}

	if output.Liked {
		srv.publish(ctx, service.EventBlogLiked, output.Blog, userID, nil)
	}

	return output, nil
}

// Share counts a share of the post.
func (srv *blogService) Share(ctx context.Context, userID, blogID uuid.UUID) (*entity.Blog, error) {
	var blog *entity.Blog

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		blogRepo := repoFactory.NewBlogRepository()

		if _, err := blogRepo.IncrementShares(ctx, blogID); err != nil {
			return mapBlogError(err)
		}

		found, err := blogRepo.FindByID(ctx, blogID)
		if err != nil {
			return mapBlogError(err)
		}
		blog = found

		return populate(ctx, repoFactory, blog)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to share blog")
	}

	srv.publish(ctx, service.EventBlogShared, blog, userID, nil)

	return blog, nil
}

// AddComment appends a comment by userID to the post.
func (srv *blogService) AddComment(ctx context.Context, userID, blogID uuid.UUID, text string) (*entity.Blog, error) {
	text = strings.TrimSpace(srv.renderer.PlainText(text))
	if text == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("comment text is required")
	}

	var blog *entity.Blog
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		blogRepo := repoFactory.NewBlogRepository()

		if _, err := blogRepo.FindByID(ctx, blogID); err != nil {
			return mapBlogError(err)
		}

		comment := &entity.Comment{
			ID:        uuid.Must(uuid.NewV7()),
			BlogID:    blogID,
			UserID:    userID,
			Text:      text,
			CreatedAt: srv.now(),
		}
		if err := blogRepo.AddComment(ctx, comment); err != nil {
			return mapBlogError(err)
		}

		found, err := blogRepo.FindByID(ctx, blogID)
		if err != nil {
			return mapBlogError(err)
		}
		blog = found

		return populate(ctx, repoFactory, blog)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add comment")
	}

	srv.publish(ctx, service.EventBlogCommented, blog, userID, nil)

	return blog, nil
}

// DeleteComment removes a comment. The comment's author and the post's author may do so.
func (srv *blogService) DeleteComment(ctx context.Context, userID, blogID, commentID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		blogRepo := repoFactory.NewBlogRepository()

		blog, err := blogRepo.FindByID(ctx, blogID)
		if err != nil {
			return mapBlogError(err)
		}

		comment := blog.FindComment(commentID)
		if comment == nil {
			return domainerrors.ErrCommentNotFound
		}
		if !comment.IsOwnedBy(userID) && !blog.IsOwnedBy(userID) {
			return domainerrors.ErrForbidden.WrapMessage("not allowed to delete this comment")
		}

		return mapBlogError(blogRepo.DeleteComment(ctx, blogID, commentID))
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete comment")
	}

	return nil
}

// ShareQRCode renders the post's public link as a PNG.
func (srv *blogService) ShareQRCode(ctx context.Context, blogID uuid.UUID) ([]byte, error) {
	err := srv.txManager.ReadOnly(ctx, func(repoFactory repository.RepositoryFactory) error {
		_, err := repoFactory.NewBlogRepository().FindByID(ctx, blogID)

		return mapBlogError(err)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find blog")
	}

	png, err := srv.qrCodeService.GenerateShareQR(srv.ShareLink(blogID))
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInternalError, err.Error())
	}

	return png, nil
}

// ShareLink is the public URL of a post.
func (srv *blogService) ShareLink(blogID uuid.UUID) string {
	return shareLink(srv.shareBaseURL, blogID)
}

func shareBaseURLFrom(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}

	return strings.TrimRight(cfg.HTTP.PublicBaseURL, "/")
}

func shareLink(baseURL string, blogID uuid.UUID) string {
	return baseURL + "/blog/" + blogID.String()
}

// publish sends an activity event. Failures are logged and never reach the caller.
func (srv *blogService) publish(ctx context.Context, eventType string, blog *entity.Blog, actorID uuid.UUID, subscribers []string) {
	event := &service.BlogEvent{
		RequestID:     deliverycontext.GetRequestIDFromContext(ctx),
		Type:          eventType,
		BlogID:        blog.ID.String(),
		AuthorID:      blog.AuthorID.String(),
		ActorID:       actorID.String(),
		Title:         blog.Title,
		SubscriberIDs: subscribers,
		OccurredAt:    srv.now(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := srv.publisher.PublishBlogEvent(pubCtx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish blog event",
			slog.String("event_type", eventType),
			slog.String("blog_id", event.BlogID),
			slog.Any("error", err),
		)
	}
}

// populate attaches authors to blogs and their comments.
func populate(ctx context.Context, repoFactory repository.RepositoryFactory, blogs ...*entity.Blog) error {
	if len(blogs) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(blogs))
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, blog := range blogs {
		add(blog.AuthorID)
		for _, comment := range blog.Comments {
			add(comment.UserID)
		}
	}

	users, err := repoFactory.NewUserRepository().FindByIDs(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "failed to load authors")
	}
	byID := make(map[uuid.UUID]*entity.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	for _, blog := range blogs {
		blog.Author = byID[blog.AuthorID]
		for _, comment := range blog.Comments {
			comment.User = byID[comment.UserID]
		}
	}

	return nil
}

// normalizeTags trims tags and drops empty and repeated ones, keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	return out
}

func mapBlogError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrBlogNotFound):
		return domainerrors.ErrBlogNotFound
	case errors.Is(err, repository.ErrCommentNotFound):
		return domainerrors.ErrCommentNotFound
	default:
		return errors.Wrap(err, "blog repository")
	}
}
