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

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager         repository.TransactionManager
	hasher            service.PasswordHasher
	passwordMinLength int
	now               func() time.Time
	logger            *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Hasher    service.PasswordHasher
	Config    *config.Config
	Logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	srv := &profileService{
		txManager: params.TxManager,
		hasher:    params.Hasher,
		now:       time.Now,
		logger:    params.Logger,
	}
	if params.Config != nil && params.Config.Auth != nil {
		srv.passwordMinLength = params.Config.Auth.PasswordMinLength
	}

	return srv
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile retrieves a user with their subscribers.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewUserRepository().FindByID(ctx, userID)
		if err != nil {
			return mapUserError(err)
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user profile")
	}

	return user, nil
}

// GetByUsername retrieves a public profile by username.
func (srv *profileService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	username = strings.TrimSpace(username)

	var user *entity.User
	err := srv.txManager.ReadOnly(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.NewUserRepository().FindByUsername(ctx, username)
		if err != nil {
			return mapUserError(err)
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user by username")
	}

	return user, nil
}

// UpdateProfile applies the non-nil fields of input to the user.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	srv.log(ctx).Info("Updating user profile", slog.String("userID", userID.String()))

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		found, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return mapUserError(err)
		}

		if input.FullName != nil {
			fullName := strings.TrimSpace(*input.FullName)
			if fullName == "" {
				return domainerrors.ErrValidationFailed.WithDetails("fullName cannot be empty")
			}
			found.FullName = fullName
		}
		if input.Bio != nil {
			found.Bio = strings.TrimSpace(*input.Bio)
		}
		if input.ProfilePicture != nil {
			found.ProfilePicture = strings.TrimSpace(*input.ProfilePicture)
		}
		found.UpdatedAt = srv.now()

		if err := userRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update user")
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update user profile")
	}

	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (srv *profileService) ChangePassword(ctx context.Context, userID uuid.UUID, input *usecase.ChangePasswordInput) error {
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return domainerrors.ErrValidationFailed.WithDetails("Both current and new password are required")
	}
	if srv.passwordMinLength > 0 && utf8.RuneCountInString(input.NewPassword) < srv.passwordMinLength {
		return domainerrors.ErrValidationFailed.WithDetails("password is too short")
	}

	newHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return mapUserError(err)
		}
		if !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
			return domainerrors.ErrCurrentPasswordIncorrect
		}

		user.PasswordHash = newHash
		user.UpdatedAt = srv.now()

		return errors.Wrap(userRepo.Update(ctx, user), "failed to update password")
	})
	if err != nil {
		return errors.Wrap(err, "failed to change password")
	}

	srv.log(ctx).Info("Password changed", slog.String("userID", userID.String()))

	return nil
}

// ToggleSubscription subscribes to or unsubscribes from target.
func (srv *profileService) ToggleSubscription(ctx context.Context, subscriberID, targetID uuid.UUID) (*usecase.SubscriptionOutput, error) {
	if subscriberID == targetID {
		return nil, domainerrors.ErrCannotSubscribeToSelf
	}

	var output *usecase.SubscriptionOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		target, err := userRepo.FindByID(ctx, targetID)
		if err != nil {
			return mapUserError(err)
		}

		subscribed := !target.HasSubscriber(subscriberID)
		if subscribed {
			err = userRepo.AddSubscriber(ctx, targetID, subscriberID)
		} else {
			err = userRepo.RemoveSubscriber(ctx, targetID, subscriberID)
		}
		if err != nil {
			return errors.Wrap(err, "failed to toggle subscription")
		}

		target, err = userRepo.FindByID(ctx, targetID)
		if err != nil {
			return mapUserError(err)
		}
		output = &usecase.SubscriptionOutput{
			Subscribed:       subscribed,
			SubscribersCount: target.SubscribersCount(),
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to toggle subscription")
	}

	srv.log(ctx).Info("Subscription toggled",
		slog.String("subscriberID", subscriberID.String()),
		slog.String("targetID", targetID.String()),
		slog.Bool("subscribed", output.Subscribed),
	)

	return output, nil
}

// CheckSubscription reports whether subscriberID follows target.
func (srv *profileService) CheckSubscription(ctx context.Context, subscriberID, targetID uuid.UUID) (*usecase.SubscriptionOutput, error) {
	target, err := srv.GetProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}

	return &usecase.SubscriptionOutput{
		Subscribed:       target.HasSubscriber(subscriberID),
		SubscribersCount: target.SubscribersCount(),
	}, nil
}

func mapUserError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return domainerrors.ErrUserNotFound
	}

	return errors.Wrap(err, "failed to find user")
}
