package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"blogsphere/internal/domain/entity"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/domain/repository"
	"blogsphere/internal/usecase"
	"blogsphere/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// VerifyEmail consumes the newest pending code for the email, marks the account
// verified and signs it in. A code can be consumed at most once.
func (srv *authService) VerifyEmail(ctx context.Context, input *usecase.VerifyEmailInput) (*usecase.SessionOutput, error) {
	email := normalizeEmail(input.Email)
	code := strings.TrimSpace(input.Code)

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		codeRepo := repoFactory.NewCodeRepository()

		record, err := codeRepo.FindLatestByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrCodeNotFound) {
				return domainerrors.ErrCodeExpiredOrMissing
			}

			return errors.Wrap(err, "failed to find verification code")
		}

		if srv.enforceExpiry && record.IsExpired(srv.now(), srv.codeTTL) {
			return domainerrors.ErrCodeExpiredOrMissing.WrapMessage("verification code expired")
		}
		if !srv.hasher.Check(code, record.CodeHash) {
			return domainerrors.ErrInvalidCode
		}

		userRepo := repoFactory.NewUserRepository()
		found, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if err := codeRepo.Delete(ctx, record.ID); err != nil {
			if errors.Is(err, repository.ErrCodeNotFound) {
				return domainerrors.ErrCodeExpiredOrMissing.WrapMessage("verification code already consumed")
			}

			return errors.Wrap(err, "failed to consume verification code")
		}

		found.IsVerified = true
		found.UpdatedAt = srv.now()
		if err := userRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to mark user verified")
		}
		user = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Info("Email verification rejected", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to verify email")
	}

	srv.log(ctx).Info("Email verified", slog.String("userID", user.ID.String()))

	return srv.issueSession(ctx, user)
}

// ResendCode replaces every pending code for an unverified account with a fresh one.
func (srv *authService) ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domainerrors.ErrValidationFailed.WithDetails("email is required")
	}

	code, codeHash, err := srv.newCode()
	if err != nil {
		return err
	}

	now := srv.now()
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.NewUserRepository().FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}
		if user.IsVerified {
			return domainerrors.ErrAlreadyVerified
		}

		codeRepo := repoFactory.NewCodeRepository()
		if srv.resendCooldown > 0 {
			latest, err := codeRepo.FindLatestByEmail(ctx, email)
			switch {
			case err == nil:
				if wait := srv.resendCooldown - now.Sub(latest.CreatedAt); wait > 0 {
					return domainerrors.ErrResendTooSoon.WithDetails("try again in " + util.FormatWait(wait))
				}
			case errors.Is(err, repository.ErrCodeNotFound):
			default:
				return errors.Wrap(err, "failed to find verification code")
			}
		}

		removed, err := codeRepo.DeleteByEmail(ctx, email)
		if err != nil {
			return errors.Wrap(err, "failed to clear pending codes")
		}
		srv.log(ctx).Debug("Cleared pending codes", slog.String("email", email), slog.Int64("removed", removed))

		return srv.storeCode(ctx, codeRepo, email, codeHash, now)
	})
	if err != nil {
		return errors.Wrap(err, "failed to resend verification code")
	}

	if err := srv.deliver(ctx, email, code); err != nil {
		return domainerrors.ErrEmailDeliveryFailed.WrapMessage(err.Error())
	}

	return nil
}

// newCode returns a fresh plaintext code and its hash. Only the hash is stored.
func (srv *authService) newCode() (string, string, error) {
	code, err := srv.codeGenerator.Generate()
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate verification code")
	}

	codeHash, err := srv.hasher.Hash(code)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to hash verification code")
	}

	return code, codeHash, nil
}

func (srv *authService) storeCode(ctx context.Context, codeRepo repository.CodeRepository, email, codeHash string, now time.Time) error {
	record := &entity.OneTimeCode{
		ID:        uuid.Must(uuid.NewV7()),
		Email:     email,
		CodeHash:  codeHash,
		CreatedAt: now,
	}
	if err := codeRepo.Create(ctx, record); err != nil {
		return errors.Wrap(err, "failed to store verification code")
	}

	return nil
}

func (srv *authService) deliver(ctx context.Context, email, code string) error {
	if err := srv.mailSender.SendVerificationCode(ctx, email, code); err != nil {
		srv.log(ctx).Error("Failed to send verification email", slog.String("email", email), slog.Any("error", err))

		return err
	}

	return nil
}
