package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"blogsphere/config"
	"blogsphere/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"gocloud.dev/blob/memblob"
)

func TestBlobStorage_PutAndOpen(t *testing.T) {
	ctx := context.Background()
	storage := NewBlobStorage(memblob.OpenBucket(nil), "https://cdn.example.com/assets/")
	defer storage.Close()

	url, err := storage.Put(ctx, "blogsphere/blogs/cover.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/assets/blogsphere/blogs/cover.png", url)

	obj, err := storage.Open(ctx, "blogsphere/blogs/cover.png")
	require.NoError(t, err)
	defer obj.Close()

	data, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "image/png", obj.ContentType)
	assert.EqualValues(t, len("png-bytes"), obj.Size)
}

func TestBlobStorage_DefaultPublicPath(t *testing.T) {
	storage := NewBlobStorage(memblob.OpenBucket(nil), "")
	defer storage.Close()

	url, err := storage.Put(context.Background(), "blogsphere/profiles/me.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/media/blogsphere/profiles/me.jpg", url)
}

func TestBlobStorage_OpenMissing(t *testing.T) {
	storage := NewBlobStorage(memblob.OpenBucket(nil), "")
	defer storage.Close()

	_, err := storage.Open(context.Background(), "nope.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrMediaNotFound))
}

func TestNewMediaStorage(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	storage, err := NewMediaStorage(Params{
		Lc:     lc,
		Ctx:    context.Background(),
		Config: &config.Config{Storage: &config.StorageConfig{BucketURL: "mem://"}},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	require.NotNil(t, storage)

	_, err = NewMediaStorage(Params{
		Lc:     lc,
		Ctx:    context.Background(),
		Config: &config.Config{Storage: &config.StorageConfig{BucketURL: "unknown://bucket"}},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	assert.Error(t, err)

	lc.RequireStart().RequireStop()
}
