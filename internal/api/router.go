// Package api assembles the HTTP routing layer.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flashmind/flashmind-server/internal/api/achievements"
	"github.com/flashmind/flashmind-server/internal/api/auth"
	"github.com/flashmind/flashmind-server/internal/api/decks"
	"github.com/flashmind/flashmind-server/internal/api/flashcards"
	"github.com/flashmind/flashmind-server/internal/api/middleware"
	"github.com/flashmind/flashmind-server/internal/config"
	"github.com/flashmind/flashmind-server/internal/repository"
	"github.com/flashmind/flashmind-server/internal/token"
)

// Handlers groups the route handlers mounted by NewRouter.
type Handlers struct {
	Auth         *auth.Handler
	Flashcards   *flashcards.Handler
	Decks        *decks.Handler
	Achievements *achievements.Handler
}

// NewRouter builds the gin engine with all API routes.
func NewRouter(cfg *config.Config, db *repository.DB, tokens *token.Service, h Handlers) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().UTC(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})

	if cfg.Metrics.Prometheus.Enabled {
		router.GET(cfg.Metrics.Prometheus.Path, gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api")

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(tokens))
	{
		authed.GET("/flashcards", h.Flashcards.List)
		authed.GET("/flashcards/due", h.Flashcards.ListDue)
		authed.POST("/flashcards", h.Flashcards.Create)
		authed.PUT("/flashcards/:id/review", h.Flashcards.Review)
		authed.PUT("/flashcards/:id/edit", h.Flashcards.Edit)
		authed.DELETE("/flashcards/:id", h.Flashcards.Delete)

		authed.GET("/decks", h.Decks.List)
		authed.POST("/decks", h.Decks.Create)
		authed.GET("/decks/:id", h.Decks.Get)
		authed.PUT("/decks/:id", h.Decks.Update)
		authed.DELETE("/decks/:id", h.Decks.Delete)
		authed.GET("/decks/:id/due", h.Decks.ListDue)

		authed.GET("/achievements", h.Achievements.List)
		authed.POST("/achievements/check", h.Achievements.Check)
		authed.GET("/achievements/leaderboard", h.Achievements.Leaderboard)
	}

	return router
}
