package handler

import (
	"log/slog"
	"net/http"

	"blogsphere/internal/delivery/http/middleware"
	"blogsphere/internal/delivery/http/response"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type updateProfileRequest struct {
	FullName       *string `json:"fullName" validate:"omitempty,max=100"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,max=2048"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type subscriptionResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message,omitempty"`
	IsSubscribed     bool   `json:"isSubscribed"`
	SubscribersCount int    `json:"subscribersCount"`
}

// UserHandler holds dependencies for profile and subscription handlers.
type UserHandler struct {
	profileUC usecase.ProfileUsecase
	blogUC    usecase.BlogUsecase
	logger    *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(profileUC usecase.ProfileUsecase, blogUC usecase.BlogUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		profileUC: profileUC,
		blogUC:    blogUC,
		logger:    logger,
	}
}

// Me returns the signed-in user, already loaded by the auth middleware.
func (h *UserHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	return response.Success(c, http.StatusOK, newUserView(user, true), "")
}

// UpdateProfile changes the signed-in user's name, bio or picture.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.profileUC.UpdateProfile(c.Request().Context(), userID, &usecase.UpdateProfileInput{
		FullName:       req.FullName,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user, true), "Profile updated successfully")
}

// ChangePassword rotates the signed-in user's password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.profileUC.ChangePassword(c.Request().Context(), userID, &usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, msgPasswordChanged)
}

// GetByUsername returns a public profile. The email address is not part of it.
func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.profileUC.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user, false), "")
}

// ListBlogs returns a user's posts, newest first.
func (h *UserHandler) ListBlogs(c echo.Context) error {
	blogs, err := h.blogUC.ListByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.List(c, len(blogs), newBlogViews(blogs))
}

// ToggleSubscription subscribes the caller to a user, or unsubscribes.
func (h *UserHandler) ToggleSubscription(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	targetID, err := parseUUID(c, "userId", domainerrors.ErrUserNotFound)
	if err != nil {
		return err
	}

	out, err := h.profileUC.ToggleSubscription(c.Request().Context(), userID, targetID)
	if err != nil {
		return errors.WithStack(err)
	}

	message := "Unsubscribed successfully"
	if out.Subscribed {
		message = "Subscribed successfully"
	}

	return c.JSON(http.StatusOK, subscriptionResponse{
		Success:          true,
		Message:          message,
		IsSubscribed:     out.Subscribed,
		SubscribersCount: out.SubscribersCount,
	})
}

// CheckSubscription reports whether the caller is subscribed to a user.
func (h *UserHandler) CheckSubscription(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	targetID, err := parseUUID(c, "userId", domainerrors.ErrUserNotFound)
	if err != nil {
		return err
	}

	out, err := h.profileUC.CheckSubscription(c.Request().Context(), userID, targetID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, subscriptionResponse{
		Success:          true,
		IsSubscribed:     out.Subscribed,
		SubscribersCount: out.SubscribersCount,
	})
}
