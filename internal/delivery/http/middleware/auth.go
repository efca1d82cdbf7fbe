package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "blogsphere/internal/delivery/context"
	"blogsphere/internal/domain/entity"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/domain/service"
	"blogsphere/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	contextKeyUserID = "userID"
	contextKeyUser   = "user"
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	ProfileUC    usecase.ProfileUsecase
	Logger       *slog.Logger
}

// AuthMiddleware guards routes that need a signed-in user.
type AuthMiddleware struct {
	tokenService service.TokenService
	profileUC    usecase.ProfileUsecase
	logger       *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: params.TokenService,
		profileUC:    params.ProfileUC,
		logger:       params.Logger,
	}
}

// Authenticate validates the bearer token, loads the user it names and stores both on
// the echo context. Every failure is a 401 before the handler runs.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := deliverycontext.GetLoggerOrDefault(ctx, m.logger)

		token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			return domainerrors.ErrUnauthorized
		}

		claims, err := m.tokenService.Validate(token)
		if err != nil {
			log.Debug("Rejected bearer token", slog.Any("error", err))

			return domainerrors.ErrUnauthorized
		}

		user, err := m.profileUC.GetProfile(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrUserNotFound) {
				log.Info("Token names a missing user", slog.String("userID", claims.UserID.String()))

				return domainerrors.ErrUnauthorized
			}

			return errors.Wrap(err, "failed to load authenticated user")
		}

		c.Set(contextKeyUserID, user.ID)
		c.Set(contextKeyUser, user)

		return next(c)
	}
}

// CurrentUserID returns the authenticated user's ID.
func CurrentUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(contextKeyUserID).(uuid.UUID)

	return id, ok
}

// CurrentUser returns the authenticated user.
func CurrentUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(contextKeyUser).(*entity.User)

	return user, ok && user != nil
}
