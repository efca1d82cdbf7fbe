package main

import (
	"context"
	"log/slog"
	"os"

	"blogsphere/config"
	"blogsphere/internal/delivery"
	"blogsphere/internal/delivery/http"
	"blogsphere/internal/delivery/http/middleware"
	"blogsphere/internal/delivery/http/router/handler"
	"blogsphere/internal/infra/auth"
	"blogsphere/internal/infra/content"
	logs "blogsphere/internal/infra/log"
	"blogsphere/internal/infra/mail"
	"blogsphere/internal/infra/persistence"
	"blogsphere/internal/infra/pubsub"
	"blogsphere/internal/infra/qrcode"
	"blogsphere/internal/infra/storage"
	"blogsphere/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		persistence.NewTransactionManager,
		storage.NewMediaStorage,
		pubsub.NewEventPublisher,
		mail.NewMailSender,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			auth.NewCodeGenerator,
			qrcode.NewQRCodeServiceFromConfig,
			content.NewContentRenderer,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewProfileService,
			impl.NewBlogService,
			impl.NewUploadService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewUserHandler,
			handler.NewBlogHandler,
			handler.NewUploadHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
