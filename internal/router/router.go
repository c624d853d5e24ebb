package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/playshelf/playshelf-api/internal/handler"
	"github.com/playshelf/playshelf-api/internal/middleware"
	"github.com/playshelf/playshelf-api/internal/models"
	"github.com/playshelf/playshelf-api/internal/service"
	"github.com/playshelf/playshelf-api/pkg/config"
	"github.com/playshelf/playshelf-api/pkg/logger"
	corsmiddleware "github.com/playshelf/playshelf-api/pkg/middleware/cors"
	reqidmiddleware "github.com/playshelf/playshelf-api/pkg/middleware/requestid"

	"go.uber.org/zap"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Game      *handler.GameHandler
	Import    *handler.ImportHandler
	Rating    *handler.RatingHandler
	Comment   *handler.CommentHandler
	Score     *handler.ScoreHandler
	Favorite  *handler.FavoriteHandler
	Dashboard *handler.DashboardHandler
	Export    *handler.ExportHandler
	Metrics   *handler.MetricsHandler
}

// Deps carries the cross-cutting pieces the router needs besides handlers.
type Deps struct {
	Config      *config.Config
	Logger      *zap.Logger
	AuthService *service.AuthService
	Metrics     *service.MetricsService
	// StaticRoot, when non-empty, mounts materialized game files from the
	// local filesystem. Object-storage deployments serve files directly.
	StaticRoot string
	// ReadyCheck reports whether downstream dependencies are reachable.
	ReadyCheck func() error
}

// New builds the gin engine with all routes registered.
func New(h Handlers, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if deps.ReadyCheck != nil {
			if err := deps.ReadyCheck(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", h.Metrics.Metrics)

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if deps.StaticRoot != "" {
		r.Static("/games/files", deps.StaticRoot)
	}

	api := r.Group(deps.Config.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", middleware.JWT(deps.AuthService), h.Auth.Logout)
		auth.POST("/change-password", middleware.JWT(deps.AuthService), h.Auth.ChangePassword)
		auth.GET("/me", middleware.JWT(deps.AuthService), h.Auth.Me)
	}

	games := api.Group("/games")
	{
		games.GET("", h.Game.List)
		games.GET("/:id", h.Game.Get)
		games.GET("/:id/comments", middleware.OptionalJWT(deps.AuthService), h.Comment.ListByGame)
		games.GET("/:id/leaderboard", h.Score.Leaderboard)

		authed := games.Group("")
		authed.Use(middleware.JWT(deps.AuthService))
		{
			authed.PUT("/:id/rating", h.Rating.Rate)
			authed.GET("/:id/rating", h.Rating.GetOwn)
			authed.POST("/:id/comments", h.Comment.Create)
			authed.POST("/:id/scores", h.Score.Submit)
			authed.PUT("/:id/favorite", h.Favorite.Add)
			authed.DELETE("/:id/favorite", h.Favorite.Remove)
		}
	}

	api.GET("/favorites", middleware.JWT(deps.AuthService), h.Favorite.List)
	api.DELETE("/comments/:id", middleware.JWT(deps.AuthService), h.Comment.Delete)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(deps.AuthService), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/games", h.Game.Create)
		admin.POST("/games/import", h.Import.Import)
		admin.DELETE("/games/:id", h.Game.Delete)
		admin.PUT("/comments/:id/flag", h.Comment.Flag)
		admin.GET("/dashboard", h.Dashboard.Summary)
		admin.GET("/reports/games", h.Export.GamesReport)
	}

	return r
}
