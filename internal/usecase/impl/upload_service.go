package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"blogsphere/config"
	deliverycontext "blogsphere/internal/delivery/context"
	"blogsphere/internal/domain/constants"
	domainerrors "blogsphere/internal/domain/errors"
	"blogsphere/internal/domain/repository"
	"blogsphere/internal/domain/service"
	"blogsphere/internal/usecase"
	"blogsphere/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultMaxUploadBytes = 5 << 20

type uploadPolicy struct {
	folder  string
	allowed []string
}

var uploadPolicies = map[usecase.ImageKind]uploadPolicy{
	usecase.ImageKindProfile: {
		folder:  constants.UploadFolderProfiles,
		allowed: []string{"image/jpeg", "image/png", "image/gif"},
	},
	usecase.ImageKindCover: {
		folder:  constants.UploadFolderBlogs,
		allowed: []string{"image/jpeg", "image/png"},
	},
	usecase.ImageKindContent: {
		folder:  constants.UploadFolderContent,
		allowed: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	},
}

// uploadService implements the UploadUsecase interface.
type uploadService struct {
	txManager repository.TransactionManager
	storage   service.MediaStorage
	maxBytes  int64
	now       func() time.Time
	logger    *slog.Logger
}

// UploadServiceParams holds dependencies for UploadService, injected by Fx.
type UploadServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Storage   service.MediaStorage
	Config    *config.Config
	Logger    *slog.Logger
}

// NewUploadService is the constructor for uploadService.
func NewUploadService(params UploadServiceParams) usecase.UploadUsecase {
	maxBytes := int64(defaultMaxUploadBytes)
	if params.Config != nil && params.Config.Storage != nil && params.Config.Storage.MaxUploadBytes > 0 {
		maxBytes = params.Config.Storage.MaxUploadBytes
	}

	return &uploadService{
		txManager: params.TxManager,
		storage:   params.Storage,
		maxBytes:  maxBytes,
		now:       time.Now,
		logger:    params.Logger,
	}
}

func (srv *uploadService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UploadImage validates and stores an image. Profile uploads also become the
// caller's profile picture.
func (srv *uploadService) UploadImage(ctx context.Context, userID uuid.UUID, input *usecase.UploadImageInput) (*usecase.UploadImageOutput, error) {
	if input == nil || input.Content == nil {
		return nil, domainerrors.ErrUploadMissing
	}

	policy, ok := uploadPolicies[input.Kind]
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown upload kind")
	}
	if input.Size > srv.maxBytes {
		return nil, domainerrors.ErrUploadTooLarge.WithDetails("maximum size is " + util.FormatBytes(srv.maxBytes))
	}

	// Read one byte past the limit so a lying Size is still caught.
	data, err := io.ReadAll(io.LimitReader(input.Content, srv.maxBytes+1))
	if err != nil {
		return nil, domainerrors.ErrUploadFailed.WrapMessage(err.Error())
	}
	if int64(len(data)) > srv.maxBytes {
		return nil, domainerrors.ErrUploadTooLarge.WithDetails("maximum size is " + util.FormatBytes(srv.maxBytes))
	}
	if len(data) == 0 {
		return nil, domainerrors.ErrUploadMissing
	}

	mtype := mimetype.Detect(data)
	if !allowedType(mtype, policy.allowed) {
		srv.log(ctx).Info("Rejected upload",
			slog.String("kind", string(input.Kind)),
			slog.String("detected", mtype.String()),
			slog.String("filename", input.Filename),
		)

		return nil, domainerrors.ErrUploadUnsupportedType.WithDetails("detected " + mtype.String())
	}

	key := policy.folder + "/" + uuid.NewString() + mtype.Extension()
	url, err := srv.storage.Put(ctx, key, data, mtype.String())
	if err != nil {
		srv.log(ctx).Error("Failed to store upload", slog.String("key", key), slog.Any("error", err))

		return nil, domainerrors.ErrUploadFailed.WrapMessage(err.Error())
	}

	if input.Kind == usecase.ImageKindProfile {
		err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			userRepo := repoFactory.NewUserRepository()

			user, err := userRepo.FindByID(ctx, userID)
			if err != nil {
				return mapUserError(err)
			}
			user.ProfilePicture = url
			user.UpdatedAt = srv.now()

			return errors.Wrap(userRepo.Update(ctx, user), "failed to update profile picture")
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to save profile picture")
		}
	}

	srv.log(ctx).Info("Image uploaded",
		slog.String("userID", userID.String()),
		slog.String("kind", string(input.Kind)),
		slog.String("key", key),
		slog.Int("bytes", len(data)),
	)

	return &usecase.UploadImageOutput{URL: url}, nil
}

// OpenImage streams a stored image.
func (srv *uploadService) OpenImage(ctx context.Context, key string) (*service.MediaObject, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return nil, domainerrors.ErrNotFound
	}

	obj, err := srv.storage.Open(ctx, key)
	if err != nil {
		if errors.Is(err, service.ErrMediaNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to open image")
	}

	return obj, nil
}

func allowedType(mtype *mimetype.MIME, allowed []string) bool {
	for _, candidate := range allowed {
		if mtype.Is(candidate) {
			return true
		}
	}

	return false
}
