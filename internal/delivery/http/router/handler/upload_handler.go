package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	deliverycontext "blogsphere/internal/delivery/context"
	"blogsphere/internal/delivery/http/response"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Multipart field names per upload kind.
const (
	fieldProfilePicture = "profilePicture"
	fieldCoverImage     = "coverImage"
	fieldContentImage   = "image"
)

// UploadHandler accepts image uploads and serves stored media.
type UploadHandler struct {
	uc     usecase.UploadUsecase
	logger *slog.Logger
}

// NewUploadHandler is the constructor for UploadHandler, injected by Fx.
func NewUploadHandler(uc usecase.UploadUsecase, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uc:     uc,
		logger: logger,
	}
}

// UploadProfilePicture stores a profile picture and sets it on the caller's profile.
func (h *UploadHandler) UploadProfilePicture(c echo.Context) error {
	return h.upload(c, usecase.ImageKindProfile, fieldProfilePicture, msgProfilePictureSaved)
}

// UploadCoverImage stores a blog cover image.
func (h *UploadHandler) UploadCoverImage(c echo.Context) error {
	return h.upload(c, usecase.ImageKindCover, fieldCoverImage, msgImageUploaded)
}

// UploadContentImage stores an image embedded in blog content.
func (h *UploadHandler) UploadContentImage(c echo.Context) error {
	return h.upload(c, usecase.ImageKindContent, fieldContentImage, msgImageUploaded)
}

func (h *UploadHandler) upload(c echo.Context, kind usecase.ImageKind, field, message string) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile(field)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return err
		}

		return domainerrors.ErrUploadMissing
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domainerrors.ErrUploadFailed.WrapMessage(err.Error())
	}
	defer file.Close()

	out, err := h.uc.UploadImage(c.Request().Context(), userID, &usecase.UploadImageInput{
		Kind:     kind,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Info("Image uploaded",
		slog.String("kind", string(kind)),
		slog.String("url", out.URL),
	)

	return response.Upload(c, message, out.URL)
}

// ServeMedia streams a stored image. It backs the public URLs of local buckets.
func (h *UploadHandler) ServeMedia(c echo.Context) error {
	obj, err := h.uc.OpenImage(c.Request().Context(), c.Param("*"))
	if err != nil {
		return errors.WithStack(err)
	}
	defer obj.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderCacheControl, "public, max-age=86400")
	header.Set(echo.HeaderXContentTypeOptions, "nosniff")
	if obj.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(obj.Size, 10))
	}

	return c.Stream(http.StatusOK, obj.ContentType, obj)
}
