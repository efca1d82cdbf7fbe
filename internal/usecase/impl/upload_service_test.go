package impl

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	domainerrors "blogsphere/internal/domain/errors"
	mockSvc "blogsphere/internal/mocks/service"
	"blogsphere/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUploadService_ProfileUploadUpdatesPicture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	data := pngBytes(t)

	out, err := f.uploads.UploadImage(ctx, ann.ID, &usecase.UploadImageInput{
		Kind:     usecase.ImageKindProfile,
		Filename: "avatar.png",
		Size:     int64(len(data)),
		Content:  bytes.NewReader(data),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.URL, "https://cdn.blogsphere.test/blogsphere/profiles/"), out.URL)
	assert.True(t, strings.HasSuffix(out.URL, ".png"), out.URL)

	user, err := f.profile.GetProfile(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, out.URL, user.ProfilePicture)

	key := strings.TrimPrefix(out.URL, "https://cdn.blogsphere.test/")
	obj, err := f.uploads.OpenImage(ctx, key)
	require.NoError(t, err)
	defer obj.Close()

	stored, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, data, stored)
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestUploadService_CoverAndContentFolders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	data := pngBytes(t)

	cover, err := f.uploads.UploadImage(ctx, ann.ID, &usecase.UploadImageInput{
		Kind: usecase.ImageKindCover, Size: int64(len(data)), Content: bytes.NewReader(data),
	})
	require.NoError(t, err)
	assert.Contains(t, cover.URL, "/blogsphere/blogs/")

	content, err := f.uploads.UploadImage(ctx, ann.ID, &usecase.UploadImageInput{
		Kind: usecase.ImageKindContent, Size: int64(len(data)), Content: bytes.NewReader(data),
	})
	require.NoError(t, err)
	assert.Contains(t, content.URL, "/blogsphere/content/")

	user, err := f.profile.GetProfile(ctx, ann.ID)
	require.NoError(t, err)
	assert.Empty(t, user.ProfilePicture, "only profile uploads change the picture")
}

func TestUploadService_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")
	maxBytes := f.cfg.Storage.MaxUploadBytes

	gif := []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\xff\xff\xff\x00\x00\x00!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")

	tests := []struct {
		name  string
		input *usecase.UploadImageInput
		want  domainerrors.AppError
	}{
		{
			name:  "missing file",
			input: &usecase.UploadImageInput{Kind: usecase.ImageKindProfile},
			want:  domainerrors.ErrUploadMissing,
		},
		{
			name:  "empty file",
			input: &usecase.UploadImageInput{Kind: usecase.ImageKindProfile, Content: bytes.NewReader(nil)},
			want:  domainerrors.ErrUploadMissing,
		},
		{
			name:  "declared size over the limit",
			input: &usecase.UploadImageInput{Kind: usecase.ImageKindProfile, Size: maxBytes + 1, Content: bytes.NewReader(pngBytes(t))},
			want:  domainerrors.ErrUploadTooLarge,
		},
		{
			name:  "actual size over the limit",
			input: &usecase.UploadImageInput{Kind: usecase.ImageKindContent, Size: 10, Content: bytes.NewReader(make([]byte, maxBytes+10))},
			want:  domainerrors.ErrUploadTooLarge,
		},
		{
			name:  "text disguised as an image",
			input: &usecase.UploadImageInput{Kind: usecase.ImageKindProfile, Filename: "evil.png", Content: strings.NewReader("<html><script>alert(1)</script></html>")},
			want:  domainerrors.ErrUploadUnsupportedType,
		},
		{
			name:  "gif is not a cover format",
			input: &usecase.UploadImageInput{Kind: usecase.ImageKindCover, Content: bytes.NewReader(gif)},
			want:  domainerrors.ErrUploadUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uploads.UploadImage(ctx, ann.ID, tt.input)

			requireAppError(t, err, tt.want)
		})
	}

	out, err := f.uploads.UploadImage(ctx, ann.ID, &usecase.UploadImageInput{Kind: usecase.ImageKindProfile, Content: bytes.NewReader(gif)})
	require.NoError(t, err, "gif is a valid profile format")
	assert.True(t, strings.HasSuffix(out.URL, ".gif"), out.URL)
}

func TestUploadService_StorageFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.registerVerified(t, "annlee")

	storage := mockSvc.NewMockMediaStorage(t)
	storage.EXPECT().
		Put(mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/png").
		Return("", errors.New("bucket unavailable"))
	f.uploads.storage = storage

	data := pngBytes(t)
	_, err := f.uploads.UploadImage(ctx, ann.ID, &usecase.UploadImageInput{Kind: usecase.ImageKindProfile, Content: bytes.NewReader(data)})

	requireAppError(t, err, domainerrors.ErrUploadFailed)

	user, err := f.profile.GetProfile(ctx, ann.ID)
	require.NoError(t, err)
	assert.Empty(t, user.ProfilePicture)
}

func TestUploadService_OpenImage_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uploads.OpenImage(ctx, "blogsphere/profiles/missing.png")
	requireAppError(t, err, domainerrors.ErrNotFound)

	_, err = f.uploads.OpenImage(ctx, "../etc/passwd")
	requireAppError(t, err, domainerrors.ErrNotFound)
}
