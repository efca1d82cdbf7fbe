package handler

import (
	"log/slog"
	"net/http"

	"blogsphere/internal/delivery/http/response"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type createBlogRequest struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Content    string   `json:"content" validate:"required"`
	Format     string   `json:"format" validate:"omitempty,oneof=html markdown"`
	CoverImage string   `json:"coverImage" validate:"omitempty,max=2048"`
	Tags       []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

type updateBlogRequest struct {
	Title      *string   `json:"title" validate:"omitempty,max=200"`
	Content    *string   `json:"content"`
	Format     string    `json:"format" validate:"omitempty,oneof=html markdown"`
	CoverImage *string   `json:"coverImage" validate:"omitempty,max=2048"`
	Tags       *[]string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// BlogHandler serves blog authoring and engagement.
type BlogHandler struct {
	uc     usecase.BlogUsecase
	logger *slog.Logger
}

// NewBlogHandler is the constructor for BlogHandler, injected by Fx.
func NewBlogHandler(uc usecase.BlogUsecase, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{
		uc:     uc,
		logger: logger,
	}
}

// List returns every post, newest first, optionally filtered by ?tag=.
func (h *BlogHandler) List(c echo.Context) error {
	blogs, err := h.uc.List(c.Request().Context(), &usecase.ListBlogsInput{Tag: c.QueryParam("tag")})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, len(blogs), newBlogViews(blogs))
}

// Popular returns the most engaged posts.
func (h *BlogHandler) Popular(c echo.Context) error {
	blogs, err := h.uc.ListPopular(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, len(blogs), newBlogViews(blogs))
}

// Get returns a single post with its author and comments.
func (h *BlogHandler) Get(c echo.Context) error {
	blogID, err := parseUUID(c, "id", domainerrors.ErrBlogNotFound)
	if err != nil {
		return err
	}

	blog, err := h.uc.Get(c.Request().Context(), blogID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBlogView(blog), "")
}

// Create publishes a new post by the signed-in user.
func (h *BlogHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createBlogRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid blog input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog, err := h.uc.Create(c.Request().Context(), userID, &usecase.CreateBlogInput{
		Title:      req.Title,
		Content:    req.Content,
		Format:     req.Format,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newBlogView(blog), "Blog created successfully")
}

// Update edits a post. Only its author may do so.
func (h *BlogHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	blogID, err := parseUUID(c, "id", domainerrors.ErrBlogNotFound)
	if err != nil {
		return err
	}

	var req updateBlogRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid blog input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog, err := h.uc.Update(c.Request().Context(), userID, blogID, &usecase.UpdateBlogInput{
		Title:      req.Title,
		Content:    req.Content,
		Format:     req.Format,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBlogView(blog), "Blog updated successfully")
}

// Delete removes a post. Only its author may do so.
func (h *BlogHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	blogID, err := parseUUID(c, "id", domainerrors.ErrBlogNotFound)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), userID, blogID); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, msgBlogDeleted)
}

// ToggleLike likes a post, or removes the caller's like.
func (h *BlogHandler) ToggleLike(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	blogID, err := parseUUID(c, "id", domainerrors.ErrBlogNotFound)
	if err != nil {
		return err
	}

	out, err := h.uc.ToggleLike(c.Request().Context(), userID, blogID)
	if err != nil {
		return errors.WithStack(err)
	}

	message := "Blog unliked"
	if out.Liked {
		message = "Blog liked"
	}

	return response.Success(c, http.StatusOK, newBlogView(out.Blog), message)
}

// Share counts a share of a post.
func (h *BlogHandler) Share(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	blogID, err := parseUUID(c, "id", domainerrors.ErrBlogNotFound)
	if err != nil {
		return err
	}

	blog, err := h.uc.Share(c.Request().Context(), userID, blogID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newBlogView(blog), "Blog shared")
}

// QRCode renders the post's share link as a PNG.
func (h *BlogHandler) QRCode(c echo.Context) error {
	blogID, err := parseUUID(c, "id", domainerrors.ErrBlogNotFound)
	if err != nil {
		return err
	}

	png, err := h.uc.ShareQRCode(c.Request().Context(), blogID)
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")

	return c.Blob(http.StatusOK, "image/png", png)
}

// AddComment comments on a post as the signed-in user.
func (h *BlogHandler) AddComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	blogID, err := parseUUID(c, "id", domainerrors.ErrBlogNotFound)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog, err := h.uc.AddComment(c.Request().Context(), userID, blogID, req.Text)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newBlogView(blog), "Comment added successfully")
}

// DeleteComment removes a comment. Its author and the post's author may do so.
func (h *BlogHandler) DeleteComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	blogID, err := parseUUID(c, "id", domainerrors.ErrBlogNotFound)
	if err != nil {
		return err
	}

	commentID, err := parseUUID(c, "commentId", domainerrors.ErrCommentNotFound)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteComment(c.Request().Context(), userID, blogID, commentID); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, msgCommentDeleted)
}
