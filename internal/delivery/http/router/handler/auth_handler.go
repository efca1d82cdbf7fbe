package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "blogsphere/internal/delivery/context"
	"blogsphere/internal/delivery/http/response"
	"blogsphere/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	msgRegistered          = "User registered successfully. Please check your email for the OTP"
	msgRegisteredNoEmail   = "User registered successfully, but the verification email could not be sent. Please request a new OTP"
	msgEmailVerified       = "Email verified successfully"
	msgCodeResent          = "OTP resent successfully"
	msgPasswordChanged     = "Password updated successfully"
	msgBlogDeleted         = "Blog deleted successfully"
	msgCommentDeleted      = "Comment deleted successfully"
	msgProfilePictureSaved = "Profile picture uploaded successfully"
	msgImageUploaded       = "Image uploaded successfully"
)

type registerRequest struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler serves registration, verification and login.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register creates an unverified account and emails its OTP.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	message := msgRegistered
	if !output.CodeDelivered {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).
			Warn("Registered without delivering the verification email", slog.String("userID", output.User.ID.String()))
		message = msgRegisteredNoEmail
	}

	return response.Message(c, http.StatusCreated, message)
}

// Verify consumes the emailed OTP and signs the user in.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verification input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.uc.VerifyEmail(c.Request().Context(), &usecase.VerifyEmailInput{
		Email: req.Email,
		Code:  req.OTP,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Auth(c, http.StatusOK, msgEmailVerified, session.Token, newUserView(session.User, true))
}

// ResendOTP replaces any outstanding code with a fresh one.
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req resendRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid resend input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.uc.ResendCode(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, http.StatusOK, msgCodeResent)
}

// Login handles the user login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Auth(c, http.StatusOK, "", session.Token, newUserView(session.User, true))
}
