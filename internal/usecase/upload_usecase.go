package usecase

import (
	"context"
	"io"

	"blogsphere/internal/domain/service"

	"github.com/google/uuid"
)

// ImageKind selects the folder and allowed formats of an upload.
type ImageKind string

const (
	ImageKindProfile ImageKind = "profile"
	ImageKindCover   ImageKind = "blog"
	ImageKindContent ImageKind = "content"
)

// UploadImageInput is a single uploaded file.
type UploadImageInput struct {
	Kind     ImageKind
	Filename string
	Size     int64
	Content  io.Reader
}

// UploadImageOutput returns where the stored image is served from.
type UploadImageOutput struct {
	URL string
}

// UploadUsecase stores images. Profile uploads also update the caller's profile picture.
type UploadUsecase interface {
	UploadImage(ctx context.Context, userID uuid.UUID, input *UploadImageInput) (*UploadImageOutput, error)

	// OpenImage streams a stored image for the /media route.
	OpenImage(ctx context.Context, key string) (*service.MediaObject, error)
}
