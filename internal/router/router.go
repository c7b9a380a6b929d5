package router

import (
	"context"
	"net/http"
	"time"

	"storyhub/internal/auth"
	"storyhub/internal/cache"
	"storyhub/internal/db"
	"storyhub/internal/handlers"
	"storyhub/internal/logger"
	"storyhub/internal/metrics"
	"storyhub/internal/middleware"
	"storyhub/internal/services"
	"storyhub/internal/store"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps is everything the HTTP layer needs. GitHub and Uploader may be nil
// when the matching integration is not configured.
type Deps struct {
	Store    *store.Store
	Cache    cache.Cache
	Log      logrus.FieldLogger
	Metrics  *metrics.Metrics
	Sessions sessions.Store
	GitHub   *auth.GitHub
	Uploader services.ImageUploader
}

// New builds the engine with middleware and routes attached.
func New(d Deps) *gin.Engine {
	handlers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(logger.Middleware(d.Log))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(sessions.Sessions(auth.SessionName, d.Sessions))
	r.Use(middleware.LoadUser(d.Store, d.Log))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	authHandler := handlers.NewAuthHandler(d.Store, d.GitHub, d.Log)
	storyHandler := handlers.NewStoryHandler(d.Store, d.Log)
	likeHandler := handlers.NewLikeHandler(d.Store, d.Log, d.Metrics)
	commentHandler := handlers.NewCommentHandler(d.Store, d.Log)
	categoryHandler := handlers.NewCategoryHandler(d.Store, d.Cache, d.Log)
	userHandler := handlers.NewUserHandler(d.Store, d.Uploader, d.Log)
	reportHandler := handlers.NewReportHandler(d.Store, d.Log)
	adminHandler := handlers.NewAdminHandler(d.Store, d.Log)

	r.GET("/healthz", healthz(d))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api")

	// Public Routes
	api.GET("/stories", storyHandler.List)                // feed
	api.GET("/stories/:id", storyHandler.Detail)          // story detail
	api.GET("/stories/:id/comments", commentHandler.List) // comments of a story
	api.GET("/categories", categoryHandler.List)          // all categories
	api.GET("/users/:id", userHandler.Profile)            // user page
	api.POST("/register", authHandler.Register)           // local sign up
	api.POST("/login", authHandler.Login)                 // local login
	api.GET("/auth/github", authHandler.GitHubLogin)      // start GitHub login
	api.GET("/auth/github/callback", authHandler.GitHubCallback)

	// Protected Routes
	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/stories", storyHandler.Create)
		authorized.DELETE("/stories/:id", storyHandler.Delete)
		authorized.POST("/stories/:id/like", likeHandler.Toggle)
		authorized.POST("/stories/:id/comments", commentHandler.Create)
		authorized.POST("/reports", reportHandler.Create)
		authorized.POST("/logout", authHandler.Logout)

		authorized.GET("/user", userHandler.Me)
		authorized.GET("/user/me", userHandler.Me)
		authorized.PATCH("/user/me", userHandler.UpdateMe)
		authorized.POST("/user/me/avatar", userHandler.UploadAvatar)
	}

	// Admin Routes
	admin := api.Group("")
	admin.Use(middleware.AdminRequired())
	{
		admin.POST("/categories", categoryHandler.Create)
		admin.GET("/admin/stats", adminHandler.Stats)
		admin.GET("/admin/reports", adminHandler.Reports)
		admin.PATCH("/admin/reports/:id", adminHandler.UpdateReport)
		admin.PATCH("/admin/stories/:id/highlight", adminHandler.Highlight)
		admin.PATCH("/admin/users/:id", adminHandler.UpdateUser)
	}
}

func healthz(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, d.Store.DB()); err != nil {
			d.Log.WithError(err).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
