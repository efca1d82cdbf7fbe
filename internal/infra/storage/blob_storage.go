// Package storage keeps uploaded media in a gocloud.dev blob bucket, so the same code
// serves local files, memory, S3, GCS and Azure depending on the bucket URL.
package storage

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"blogsphere/config"
	"blogsphere/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/azureblob" // azblob:// buckets
	_ "gocloud.dev/blob/fileblob"  // file:// buckets
	_ "gocloud.dev/blob/gcsblob"   // gs:// buckets
	_ "gocloud.dev/blob/memblob"   // mem:// buckets
	_ "gocloud.dev/blob/s3blob"    // s3:// buckets
	"gocloud.dev/gcerrors"
)

const (
	defaultPublicPath = "/media"
	cacheControl      = "public, max-age=31536000, immutable"
)

type blobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
}

// Params holds dependencies for MediaStorage, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewMediaStorage opens the configured bucket and closes it on shutdown.
func NewMediaStorage(params Params) (service.MediaStorage, error) {
	cfg := params.Config.Storage
	if cfg == nil || cfg.BucketURL == "" {
		return nil, errors.New("storage.bucketUrl is required")
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", cfg.BucketURL)
	}

	storage := NewBlobStorage(bucket, cfg.PublicBaseURL)

	params.Logger.Info("Media storage initialized",
		slog.String("bucket_url", cfg.BucketURL),
		slog.String("public_base_url", storage.publicBaseURL),
	)

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing media storage")

			return storage.Close()
		},
	})

	return storage, nil
}

// NewBlobStorage wraps an already open bucket. An empty publicBaseURL serves objects
// through the API's own /media route.
func NewBlobStorage(bucket *blob.Bucket, publicBaseURL string) *blobStorage {
	publicBaseURL = strings.TrimRight(publicBaseURL, "/")
	if publicBaseURL == "" {
		publicBaseURL = defaultPublicPath
	}

	return &blobStorage{bucket: bucket, publicBaseURL: publicBaseURL}
}

// Put writes the object and returns its public URL.
func (s *blobStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
	})
	if err != nil {
		return "", errors.Wrapf(err, "write object %s", key)
	}

	return s.publicURL(key)
}

// Open streams an object back, mapping a missing key to service.ErrMediaNotFound.
func (s *blobStorage) Open(ctx context.Context, key string) (*service.MediaObject, error) {
	reader, err := s.bucket.NewReader(ctx, key, nil)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, errors.Wrap(service.ErrMediaNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open object %s", key)
	}

	return &service.MediaObject{
		ReadCloser:  reader,
		ContentType: reader.ContentType(),
		Size:        reader.Size(),
	}, nil
}

// Close releases the bucket.
func (s *blobStorage) Close() error {
	return errors.WithStack(s.bucket.Close())
}

func (s *blobStorage) publicURL(key string) (string, error) {
	if strings.HasPrefix(s.publicBaseURL, "/") {
		return s.publicBaseURL + "/" + key, nil
	}

	joined, err := url.JoinPath(s.publicBaseURL, key)
	if err != nil {
		return "", errors.Wrapf(err, "build public url for %s", key)
	}

	return joined, nil
}
