package impl

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"blogsphere/internal/domain/constants"
	"blogsphere/internal/domain/entity"
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

func TestBlogService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")

	blog, err := f.blogs.Create(ctx, ann.ID, &usecase.CreateBlogInput{
		Title:   "  Hello Go  ",
		Content: "First post",
		Tags:    []string{"go", " go ", "", "web"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello Go", blog.Title)
	assert.Equal(t, constants.DefaultCoverImage, blog.CoverImage)
	assert.Equal(t, []string{"go", "web"}, blog.Tags)
	require.NotNil(t, blog.Author)
	assert.Equal(t, "annlee", blog.Author.Username)

	_, err = f.blogs.Create(ctx, ann.ID, &usecase.CreateBlogInput{Title: "No content"})
	requireAppError(t, err, domainerrors.ErrValidationFailed)

	_, err = f.blogs.Create(ctx, uuid.New(), &usecase.CreateBlogInput{Title: "t", Content: "c"})
	requireAppError(t, err, domainerrors.ErrUserNotFound)
}

func TestBlogService_SanitizesContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	bob := f.registerVerified(t, "bob")

	blog, err := f.blogs.Create(ctx, ann.ID, &usecase.CreateBlogInput{
		Title:   "Safe",
		Content: `<p onclick="steal()">Hello</p><script>alert(1)</script>`,
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello</p>", blog.Content)

	_, err = f.blogs.Create(ctx, ann.ID, &usecase.CreateBlogInput{Title: "Only script", Content: "<script>alert(1)</script>"})
	requireAppError(t, err, domainerrors.ErrValidationFailed)

	_, err = f.blogs.Create(ctx, ann.ID, &usecase.CreateBlogInput{Title: "Rich", Content: "x", Format: "rtf"})
	requireAppError(t, err, domainerrors.ErrValidationFailed)

	md := "## Notes\n\n- one\n- two"
	updated, err := f.blogs.Update(ctx, ann.ID, blog.ID, &usecase.UpdateBlogInput{Content: &md, Format: "Markdown"})
	require.NoError(t, err)
	assert.Contains(t, updated.Content, "Notes</h2>")
	assert.Contains(t, updated.Content, "<li>one</li>")

	commented, err := f.blogs.AddComment(ctx, bob.ID, blog.ID, "<b>Great</b> read & thanks")
	require.NoError(t, err)
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, "Great read & thanks", commented.Comments[0].Text)

	_, err = f.blogs.AddComment(ctx, bob.ID, blog.ID, "<script>alert(1)</script>")
	requireAppError(t, err, domainerrors.ErrValidationFailed)
}

func TestBlogService_GetAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	bob := f.registerVerified(t, "bob")

	first := f.createBlog(t, ann, "First", "go")
	second := f.createBlog(t, bob, "Second", "rust")
	third := f.createBlog(t, ann, "Third", "go", "web")

	got, err := f.blogs.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Title)
	assert.Equal(t, "bob", got.Author.Username)

	_, err = f.blogs.Get(ctx, uuid.New())
	requireAppError(t, err, domainerrors.ErrBlogNotFound)

	all, err := f.blogs.List(ctx, &usecase.ListBlogsInput{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{third.ID, second.ID, first.ID}, blogIDs(all), "newest first")

	tagged, err := f.blogs.List(ctx, &usecase.ListBlogsInput{Tag: "go"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{third.ID, first.ID}, blogIDs(tagged))

	byAnn, err := f.blogs.ListByUsername(ctx, "annlee")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{third.ID, first.ID}, blogIDs(byAnn))

	_, err = f.blogs.ListByUsername(ctx, "ghost")
	requireAppError(t, err, domainerrors.ErrUserNotFound)
}

func TestBlogService_UpdateAndDelete_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	bob := f.registerVerified(t, "bob")
	blog := f.createBlog(t, ann, "Draft", "go")

	title := "Final"
	_, err := f.blogs.Update(ctx, bob.ID, blog.ID, &usecase.UpdateBlogInput{Title: &title})
	requireAppError(t, err, domainerrors.ErrForbidden)

	tags := []string{"golang"}
	updated, err := f.blogs.Update(ctx, ann.ID, blog.ID, &usecase.UpdateBlogInput{Title: &title, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "Content of Draft", updated.Content)
	assert.Equal(t, []string{"golang"}, updated.Tags)

	empty := " "
	_, err = f.blogs.Update(ctx, ann.ID, blog.ID, &usecase.UpdateBlogInput{Content: &empty})
	requireAppError(t, err, domainerrors.ErrValidationFailed)

	err = f.blogs.Delete(ctx, bob.ID, blog.ID)
	requireAppError(t, err, domainerrors.ErrForbidden)

	require.NoError(t, f.blogs.Delete(ctx, ann.ID, blog.ID))

	_, err = f.blogs.Get(ctx, blog.ID)
	requireAppError(t, err, domainerrors.ErrBlogNotFound)

	err = f.blogs.Delete(ctx, ann.ID, blog.ID)
	requireAppError(t, err, domainerrors.ErrBlogNotFound)
}

func TestBlogService_ToggleLike_IsIdempotentOverPairs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	bob := f.registerVerified(t, "bob")
	blog := f.createBlog(t, ann, "Likeable")

	liked, err := f.blogs.ToggleLike(ctx, bob.ID, blog.ID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, []uuid.UUID{bob.ID}, liked.Blog.Likes)

	unliked, err := f.blogs.ToggleLike(ctx, bob.ID, blog.ID)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.Empty(t, unliked.Blog.Likes)

	_, err = f.blogs.ToggleLike(ctx, bob.ID, uuid.New())
	requireAppError(t, err, domainerrors.ErrBlogNotFound)
}

func TestBlogService_Share(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	blog := f.createBlog(t, ann, "Shareable")

	for want := 1; want <= 3; want++ {
		shared, err := f.blogs.Share(ctx, ann.ID, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, want, shared.Shares)
	}

	_, err := f.blogs.Share(ctx, ann.ID, uuid.New())
	requireAppError(t, err, domainerrors.ErrBlogNotFound)
}

func TestBlogService_Comments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	bob := f.registerVerified(t, "bob")
	carol := f.registerVerified(t, "carol")
	blog := f.createBlog(t, ann, "Discuss")

	_, err := f.blogs.AddComment(ctx, bob.ID, blog.ID, "   ")
	requireAppError(t, err, domainerrors.ErrValidationFailed)

	withBob, err := f.blogs.AddComment(ctx, bob.ID, blog.ID, "Nice post")
	require.NoError(t, err)
	require.Len(t, withBob.Comments, 1)
	assert.Equal(t, "bob", withBob.Comments[0].User.Username)

	f.clock.Advance(time.Second)
	withCarol, err := f.blogs.AddComment(ctx, carol.ID, blog.ID, "Agreed")
	require.NoError(t, err)
	require.Len(t, withCarol.Comments, 2)
	newest := withCarol.CommentsNewestFirst()
	assert.Equal(t, "Agreed", newest[0].Text)
	assert.Equal(t, "carol", newest[0].User.Username)

	bobComment := withCarol.Comments[0]
	carolComment := withCarol.Comments[1]

	err = f.blogs.DeleteComment(ctx, carol.ID, blog.ID, bobComment.ID)
	requireAppError(t, err, domainerrors.ErrForbidden)

	require.NoError(t, f.blogs.DeleteComment(ctx, bob.ID, blog.ID, bobComment.ID), "comment author")
	require.NoError(t, f.blogs.DeleteComment(ctx, ann.ID, blog.ID, carolComment.ID), "blog author")

	err = f.blogs.DeleteComment(ctx, ann.ID, blog.ID, carolComment.ID)
	requireAppError(t, err, domainerrors.ErrCommentNotFound)

	_, err = f.blogs.AddComment(ctx, bob.ID, uuid.New(), "hello")
	requireAppError(t, err, domainerrors.ErrBlogNotFound)

	got, err := f.blogs.Get(ctx, blog.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)
}

func TestBlogService_ListPopular(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	bob := f.registerVerified(t, "bob")
	carol := f.registerVerified(t, "carol")

	blogs := make([]uuid.UUID, 0, 6)
	for _, title := range []string{"a", "b", "c", "d", "e", "f"} {
		blogs = append(blogs, f.createBlog(t, ann, title).ID)
	}

	// b: 2 likes, d: 1 like + 1 share, f: 1 like, c: 1 share, e: 1 comment
	for _, user := range []uuid.UUID{bob.ID, carol.ID} {
		_, err := f.blogs.ToggleLike(ctx, user, blogs[1])
		require.NoError(t, err)
	}
	_, err := f.blogs.ToggleLike(ctx, bob.ID, blogs[3])
	require.NoError(t, err)
	_, err = f.blogs.Share(ctx, bob.ID, blogs[3])
	require.NoError(t, err)
	_, err = f.blogs.ToggleLike(ctx, carol.ID, blogs[5])
	require.NoError(t, err)
	_, err = f.blogs.Share(ctx, bob.ID, blogs[2])
	require.NoError(t, err)
	_, err = f.blogs.AddComment(ctx, bob.ID, blogs[4], "hi")
	require.NoError(t, err)

	popular, err := f.blogs.ListPopular(ctx)

	require.NoError(t, err)
	require.Len(t, popular, constants.PopularBlogsLimit)
	assert.Equal(t, []uuid.UUID{blogs[1], blogs[3], blogs[5], blogs[2], blogs[4]}, blogIDs(popular))
	assert.Equal(t, "annlee", popular[0].Author.Username)
}

func TestBlogService_ShareQRCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	blog := f.createBlog(t, ann, "QR")

	assert.Equal(t, "https://blogsphere.test/blog/"+blog.ID.String(), f.blogs.ShareLink(blog.ID))

	data, err := f.blogs.ShareQRCode(ctx, blog.ID)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = f.blogs.ShareQRCode(ctx, uuid.New())
	requireAppError(t, err, domainerrors.ErrBlogNotFound)
}

func TestBlogService_PublishesEvents(t *testing.T) {
	publisher := mockSvc.NewMockEventPublisher(t)
	f := newFixtureWithPublisher(t, publisher)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	bob := f.registerVerified(t, "bob")

	_, err := f.profile.ToggleSubscription(ctx, bob.ID, ann.ID)
	require.NoError(t, err)

	var published []*service.BlogEvent
	publisher.EXPECT().
		PublishBlogEvent(mock.Anything, mock.AnythingOfType("*service.BlogEvent")).
		Run(func(_ context.Context, event *service.BlogEvent) {
			published = append(published, event)
		}).
		Return(nil).
		Times(4)

	blog := f.createBlog(t, ann, "Eventful")
	_, err = f.blogs.ToggleLike(ctx, bob.ID, blog.ID)
	require.NoError(t, err)
	_, err = f.blogs.ToggleLike(ctx, bob.ID, blog.ID) // unlike publishes nothing
	require.NoError(t, err)
	_, err = f.blogs.AddComment(ctx, bob.ID, blog.ID, "first!")
	require.NoError(t, err)
	_, err = f.blogs.Share(ctx, bob.ID, blog.ID)
	require.NoError(t, err)

	require.Len(t, published, 4)
	assert.Equal(t, service.EventBlogPublished, published[0].Type)
	assert.Equal(t, []string{bob.ID.String()}, published[0].SubscriberIDs)
	assert.Equal(t, ann.ID.String(), published[0].ActorID)
	assert.Equal(t, service.EventBlogLiked, published[1].Type)
	assert.Equal(t, bob.ID.String(), published[1].ActorID)
	assert.Equal(t, service.EventBlogCommented, published[2].Type)
	assert.Equal(t, service.EventBlogShared, published[3].Type)
	for _, event := range published {
		assert.Equal(t, blog.ID.String(), event.BlogID)
		assert.Equal(t, ann.ID.String(), event.AuthorID)
	}
}

func TestBlogService_PublishFailureDoesNotFailRequest(t *testing.T) {
	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.EXPECT().PublishBlogEvent(mock.Anything, mock.Anything).Return(errors.New("broker down"))

	f := newFixtureWithPublisher(t, publisher)
	ann := f.registerVerified(t, "annlee")

	blog := f.createBlog(t, ann, "Still saved")

	got, err := f.blogs.Get(context.Background(), blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Still saved", got.Title)
}

func blogIDs(blogs []*entity.Blog) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(blogs))
	for _, blog := range blogs {
		ids = append(ids, blog.ID)
	}

	return ids
}
