package service

import (
	"context"
	"errors"
	"io"
)

// ErrMediaNotFound is returned by Open when no object exists under the key.
var ErrMediaNotFound = errors.New("media not found")

// MediaObject is an open stored image. Callers must close it.
type MediaObject struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

// MediaStorage stores uploaded images and returns their public URL.
type MediaStorage interface {
	// Put writes data under key and returns the URL the object is reachable at.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Open streams a stored object back.
	Open(ctx context.Context, key string) (*MediaObject, error)

	// Close releases the underlying bucket.
	Close() error
}
