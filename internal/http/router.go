package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/cocktails/internal/database"
	"github.com/mrlokans/cocktails/internal/screens"
)

// SessionNotices is the session-backed notice queue.
type SessionNotices interface {
	NoticePusher
	NoticeQueue
	Middleware() gin.HandlerFunc
}

// RouterConfig holds all dependencies needed to create the HTTP router.
// Optional dependencies may be nil; their routes are not registered.
type RouterConfig struct {
	Database  *database.Database
	Catalog   CatalogReader
	Favorites FavoritesManager

	// Optional
	Thumbnails     ThumbnailSource
	TaskClient     TaskStatusReader
	SweepScheduler SweepRunner
	Notices        SessionNotices

	// CSRF protection is enabled when the secret is set
	CSRFSecret    []byte
	SecureCookies bool

	Version string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(securityHeaders())

	// CSRF runs before the session middleware so the session context is
	// added on top of the request CSRF replaces.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	var notices NoticePusher
	if cfg.Notices != nil {
		router.Use(cfg.Notices.Middleware())
		notices = cfg.Notices
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, favoritesLister(cfg.Favorites), cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	if cfg.Catalog != nil {
		catalogController := NewCatalogController(cfg.Catalog, favoriteAdder(cfg.Favorites))
		api.GET("/categories", catalogController.ListCategories)
		api.GET("/categories/:name/drinks", catalogController.ListDrinks)
		api.GET("/drinks/:id", catalogController.GetDrink)
	}

	if cfg.Favorites != nil {
		favoritesController := NewFavoritesController(cfg.Favorites, cfg.Catalog, notices)
		api.GET("/favorites", favoritesController.ListFavorites)
		api.POST("/favorites", favoritesController.AddFavorite)
		api.POST("/favorites/reset", favoritesController.ResetFavorites)
		api.DELETE("/favorites/:id", favoritesController.RemoveFavorite)

		if cfg.Thumbnails != nil {
			thumbnailsController := NewThumbnailsController(cfg.Thumbnails, cfg.Favorites)
			api.GET("/favorites/:id/thumbnail", thumbnailsController.GetThumbnail)
		}
	}

	if cfg.Notices != nil {
		noticesController := NewNoticesController(cfg.Notices)
		api.GET("/notices", noticesController.PopNotices)
	}

	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.SweepScheduler)
		api.GET("/tasks/sweep", tasksController.GetSweepSchedule)
		api.POST("/tasks/sweep/run", tasksController.RunSweep)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}

// favoriteAdder keeps a nil manager a nil interface for the detail screen.
func favoriteAdder(m FavoritesManager) screens.FavoriteAdder {
	if m == nil {
		return nil
	}
	return m
}

func favoritesLister(m FavoritesManager) FavoritesLister {
	if m == nil {
		return nil
	}
	return m
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
