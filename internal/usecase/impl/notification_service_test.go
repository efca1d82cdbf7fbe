package impl

import (
	"context"
	"testing"

	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/domain/service"
	mockSvc "blogsphere/internal/mocks/service"
	"blogsphere/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (f *fixture) newNotificationService(notifier service.PostNotifier) *notificationService {
	return NewNotificationService(NotificationServiceParams{
		TxManager: f.txManager,
		Notifier:  notifier,
		Config:    f.cfg,
		Logger:    newDiscardLogger(),
	}).(*notificationService)
}

func publishedEvent(blogID, authorID uuid.UUID, subscribers ...uuid.UUID) *service.BlogEvent {
	ids := make([]string, 0, len(subscribers))
	for _, id := range subscribers {
		ids = append(ids, id.String())
	}

	return &service.BlogEvent{
		Type:          service.EventBlogPublished,
		BlogID:        blogID.String(),
		AuthorID:      authorID.String(),
		ActorID:       authorID.String(),
		SubscriberIDs: ids,
	}
}

func TestNotificationService_MailsSubscribersOfNewPost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	bob := f.registerVerified(t, "bobby")
	cat := f.registerVerified(t, "catherine")
	blog := f.createBlog(t, ann, "Hello")

	notifier := mockSvc.NewMockPostNotifier(t)
	for _, email := range []string{"bobby@example.com", "catherine@example.com"} {
		notifier.EXPECT().
			SendNewPostNotice(mock.Anything, email, mock.MatchedBy(func(n *service.PostNotice) bool {
				return n.Title == "Hello" &&
					n.AuthorUsername == "annlee" &&
					n.Link == "https://blogsphere.test/blog/"+blog.ID.String()
			})).
			Return(nil).
			Once()
	}
	srv := f.newNotificationService(notifier)

	out, err := srv.HandleBlogEvent(ctx, publishedEvent(blog.ID, ann.ID, bob.ID, cat.ID, ann.ID))

	require.NoError(t, err)
	assert.Equal(t, &usecase.NotifyOutput{Recipients: 2, Sent: 2}, out)
}

func TestNotificationService_SkipsUnverifiedAndCountsFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	bob := f.registerVerified(t, "bobby")
	blog := f.createBlog(t, ann, "Hello")

	pending, err := f.auth.Register(ctx, &usecase.RegisterInput{
		FullName: "Dan", Username: "dan", Email: "dan@example.com", Password: testPassword,
	})
	require.NoError(t, err)

	notifier := mockSvc.NewMockPostNotifier(t)
	notifier.EXPECT().
		SendNewPostNotice(mock.Anything, "bobby@example.com", mock.Anything).
		Return(errors.New("relay down")).
		Once()
	srv := f.newNotificationService(notifier)

	out, err := srv.HandleBlogEvent(ctx, publishedEvent(blog.ID, ann.ID, bob.ID, pending.User.ID, uuid.New()))

	require.NoError(t, err)
	assert.Equal(t, &usecase.NotifyOutput{Recipients: 1, Failed: 1}, out)
}

func TestNotificationService_IgnoresOtherEventsAndDeletedPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	bob := f.registerVerified(t, "bobby")
	blog := f.createBlog(t, ann, "Hello")

	// The strict mock fails the test on any send.
	srv := f.newNotificationService(mockSvc.NewMockPostNotifier(t))

	liked := publishedEvent(blog.ID, ann.ID, bob.ID)
	liked.Type = service.EventBlogLiked
	out, err := srv.HandleBlogEvent(ctx, liked)
	require.NoError(t, err)
	assert.Zero(t, out.Recipients)

	out, err = srv.HandleBlogEvent(ctx, publishedEvent(blog.ID, ann.ID))
	require.NoError(t, err)
	assert.Zero(t, out.Recipients, "no subscribers")

	require.NoError(t, f.blogs.Delete(ctx, ann.ID, blog.ID))
	out, err = srv.HandleBlogEvent(ctx, publishedEvent(blog.ID, ann.ID, bob.ID))
	require.NoError(t, err)
	assert.Zero(t, out.Recipients, "post deleted before delivery")
}

func TestNotificationService_RejectsMalformedEvents(t *testing.T) {
	f := newFixture(t)
	srv := f.newNotificationService(mockSvc.NewMockPostNotifier(t))

	_, err := srv.HandleBlogEvent(context.Background(), nil)
	requireAppError(t, err, domainerrors.ErrValidationFailed)

	_, err = srv.HandleBlogEvent(context.Background(), &service.BlogEvent{
		Type:          service.EventBlogPublished,
		BlogID:        "not-a-uuid",
		AuthorID:      uuid.NewString(),
		SubscriberIDs: []string{uuid.NewString()},
	})
	requireAppError(t, err, domainerrors.ErrValidationFailed)
}
