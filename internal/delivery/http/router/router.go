// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"blogsphere/internal/delivery/http/middleware"
	"blogsphere/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	BlogHandler    *handler.BlogHandler
	UploadHandler  *handler.UploadHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	blogHandler    *handler.BlogHandler
	uploadHandler  *handler.UploadHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		userHandler:    params.UserHandler,
		blogHandler:    params.BlogHandler,
		uploadHandler:  params.UploadHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Stored images for local buckets
	e.GET("/media/*", r.uploadHandler.ServeMedia)

	api := e.Group("/api")
	auth := r.authMiddleware.Authenticate

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/verify", r.authHandler.Verify)
		authGroup.POST("/resend-otp", r.authHandler.ResendOTP)
		authGroup.POST("/login", r.authHandler.Login)
	}

	// Static segments are matched before :username, so /me never resolves as a username.
	userGroup := api.Group("/users")
	{
		userGroup.GET("/me", r.userHandler.Me, auth)
		userGroup.PUT("/profile", r.userHandler.UpdateProfile, auth)
		userGroup.PUT("/change-password", r.userHandler.ChangePassword, auth)
		userGroup.PUT("/subscribe/:userId", r.userHandler.ToggleSubscription, auth)
		userGroup.GET("/check-subscription/:userId", r.userHandler.CheckSubscription, auth)
		userGroup.GET("/:username", r.userHandler.GetByUsername)
		userGroup.GET("/:username/blogs", r.userHandler.ListBlogs)
	}

	blogGroup := api.Group("/blogs")
	{
		blogGroup.GET("", r.blogHandler.List)
		blogGroup.GET("/popular", r.blogHandler.Popular)
		blogGroup.POST("", r.blogHandler.Create, auth)
		blogGroup.GET("/:id", r.blogHandler.Get)
		blogGroup.PUT("/:id", r.blogHandler.Update, auth)
		blogGroup.DELETE("/:id", r.blogHandler.Delete, auth)
		blogGroup.GET("/:id/qrcode", r.blogHandler.QRCode)
		blogGroup.PUT("/like/:id", r.blogHandler.ToggleLike, auth)
		blogGroup.PUT("/share/:id", r.blogHandler.Share, auth)
		blogGroup.POST("/comment/:id", r.blogHandler.AddComment, auth)
		blogGroup.DELETE("/comment/:id/:commentId", r.blogHandler.DeleteComment, auth)
	}

	uploadGroup := api.Group("/upload", auth)
	{
		uploadGroup.POST("/profile", r.uploadHandler.UploadProfilePicture)
		uploadGroup.POST("/blog", r.uploadHandler.UploadCoverImage)
		uploadGroup.POST("/content", r.uploadHandler.UploadContentImage)
	}
}
