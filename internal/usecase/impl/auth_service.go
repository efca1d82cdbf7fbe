// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"blogsphere/config"
	deliverycontext "blogsphere/internal/delivery/context"
	"blogsphere/internal/domain/entity"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/domain/repository"
	"blogsphere/internal/domain/service"
	"blogsphere/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager         repository.TransactionManager
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	codeGenerator     service.CodeGenerator
	mailSender        service.MailSender
	codeTTL           time.Duration
	enforceExpiry     bool
	resendCooldown    time.Duration
	passwordMinLength int
	now               func() time.Time
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	Hasher        service.PasswordHasher
	TokenService  service.TokenService
	CodeGenerator service.CodeGenerator
	MailSender    service.MailSender
	Config        *config.Config
	Logger        *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	srv := &authService{
		txManager:     params.TxManager,
		hasher:        params.Hasher,
		tokenService:  params.TokenService,
		codeGenerator: params.CodeGenerator,
		mailSender:    params.MailSender,
		enforceExpiry: true,
		now:           time.Now,
		logger:        params.Logger,
	}

	if cfg := params.Config; cfg != nil {
		if cfg.OTP != nil {
			srv.codeTTL = cfg.OTP.TTL
			srv.enforceExpiry = cfg.OTP.EnforceExpiry
			srv.resendCooldown = cfg.OTP.ResendCooldown
		}
		if cfg.Auth != nil {
			srv.passwordMinLength = cfg.Auth.PasswordMinLength
		}
	}

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an unverified account and emails it a verification code.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	fullName := strings.TrimSpace(input.FullName)

	if email == "" || username == "" || fullName == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("fullName, username, email and password are required")
	}
	if err := srv.checkPasswordLength(input.Password); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", email), slog.String("username", username))

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}
	code, codeHash, err := srv.newCode()
	if err != nil {
		return nil, err
	}

	now := srv.now()
	user := &entity.User{
		ID:           uuid.Must(uuid.NewV7()),
		FullName:     fullName,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return domainerrors.ErrEmailInUse
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to look up email")
		}

		if _, err := userRepo.FindByUsername(ctx, username); err == nil {
			return domainerrors.ErrUsernameTaken
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to look up username")
		}

		if err := userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateUser) {
				return domainerrors.ErrUserAlreadyExists.WrapMessage(err.Error())
			}

			return errors.Wrap(err, "failed to create user")
		}

		return srv.storeCode(ctx, repoFactory.NewCodeRepository(), email, codeHash, now)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to register user")
	}

	delivered := srv.deliver(ctx, email, code) == nil

	srv.log(ctx).Info("Registration completed",
		slog.String("userID", user.ID.String()),
		slog.Bool("codeDelivered", delivered),
	)

	return &usecase.RegisterOutput{User: user, CodeDelivered: delivered}, nil
}

// Login authenticates a verified account by email and password.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.SessionOutput, error) {
	email := normalizeEmail(input.Email)

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewUserRepository().FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrInvalidCredentials
			}

			return errors.Wrap(err, "failed to find user")
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "login failed")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Info("Login rejected: wrong password", slog.String("userID", user.ID.String()))

		return nil, domainerrors.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, domainerrors.ErrUnverified
	}

	return srv.issueSession(ctx, user)
}

func (srv *authService) issueSession(ctx context.Context, user *entity.User) (*usecase.SessionOutput, error) {
	token, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.String("userID", user.ID.String()), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInternalError, err.Error())
	}

	return &usecase.SessionOutput{Token: token, User: user}, nil
}

func (srv *authService) checkPasswordLength(password string) error {
	if srv.passwordMinLength > 0 && utf8.RuneCountInString(password) < srv.passwordMinLength {
		return domainerrors.ErrValidationFailed.WithDetails("password is too short")
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
