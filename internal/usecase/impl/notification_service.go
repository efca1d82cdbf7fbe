package impl

import (
	"context"
	"log/slog"
	"time"

	"blogsphere/config"
	deliverycontext "blogsphere/internal/delivery/context"
	"blogsphere/internal/domain/entity"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/domain/repository"
	"blogsphere/internal/domain/service"
	"blogsphere/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const noticeSendTimeout = 30 * time.Second

type notificationService struct {
	txManager    repository.TransactionManager
	notifier     service.PostNotifier
	shareBaseURL string
	logger       *slog.Logger
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Notifier  service.PostNotifier
	Config    *config.Config
	Logger    *slog.Logger
}

// NewNotificationService is the constructor for notificationService.
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		txManager:    params.TxManager,
		notifier:     params.Notifier,
		shareBaseURL: shareBaseURLFrom(params.Config),
		logger:       params.Logger,
	}
}

func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// HandleBlogEvent implements usecase.NotificationUsecase.
func (srv *notificationService) HandleBlogEvent(ctx context.Context, event *service.BlogEvent) (*usecase.NotifyOutput, error) {
	if event == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("event is required")
	}

	if event.Type != service.EventBlogPublished {
		srv.log(ctx).Debug("Ignoring blog event",
			slog.String("event_type", event.Type),
			slog.String("blog_id", event.BlogID),
		)

		return &usecase.NotifyOutput{}, nil
	}

	return srv.notifyPublished(ctx, event)
}

func (srv *notificationService) notifyPublished(ctx context.Context, event *service.BlogEvent) (*usecase.NotifyOutput, error) {
	blogID, err := uuid.Parse(event.BlogID)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid blog_id")
	}
	authorID, err := uuid.Parse(event.AuthorID)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid author_id")
	}

	subscriberIDs := make([]uuid.UUID, 0, len(event.SubscriberIDs))
	for _, raw := range event.SubscriberIDs {
		if id, parseErr := uuid.Parse(raw); parseErr == nil && id != authorID {
			subscriberIDs = append(subscriberIDs, id)
		}
	}
	if len(subscriberIDs) == 0 {
		srv.log(ctx).Info("No subscribers to notify", slog.String("blog_id", event.BlogID))

		return &usecase.NotifyOutput{}, nil
	}

	var (
		blog       *entity.Blog
		author     *entity.User
		recipients []*entity.User
	)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewBlogRepository().FindByID(ctx, blogID)
		if err != nil {
			return err
		}
		blog = found

		userRepo := repoFactory.NewUserRepository()
		author, err = userRepo.FindByID(ctx, authorID)
		if err != nil {
			return err
		}

		recipients, err = userRepo.FindByIDs(ctx, subscriberIDs)

		return err
	})
	if errors.Is(err, repository.ErrBlogNotFound) || errors.Is(err, repository.ErrUserNotFound) {
		// Deleted before the event was delivered.
		srv.log(ctx).Info("Post or author no longer exists, skipping notification",
			slog.String("blog_id", event.BlogID),
		)

		return &usecase.NotifyOutput{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load notification recipients")
	}

	notice := &service.PostNotice{
		AuthorName:     author.FullName,
		AuthorUsername: author.Username,
		Title:          blog.Title,
		Link:           shareLink(srv.shareBaseURL, blog.ID),
	}

	out := &usecase.NotifyOutput{}
	for _, user := range recipients {
		if !user.IsVerified {
			continue
		}
		out.Recipients++

		if err := srv.send(ctx, user.Email, notice); err != nil {
			out.Failed++
			srv.log(ctx).Warn("Failed to send new post notice",
				slog.String("blog_id", event.BlogID),
				slog.String("user_id", user.ID.String()),
				slog.Any("error", err),
			)

			continue
		}
		out.Sent++
	}

	srv.log(ctx).Info("New post notices sent",
		slog.String("blog_id", event.BlogID),
		slog.Int("recipients", out.Recipients),
		slog.Int("sent", out.Sent),
		slog.Int("failed", out.Failed),
	)

	return out, nil
}

func (srv *notificationService) send(ctx context.Context, email string, notice *service.PostNotice) error {
	sendCtx, cancel := context.WithTimeout(ctx, noticeSendTimeout)
	defer cancel()

	return srv.notifier.SendNewPostNotice(sendCtx, email, notice)
}
