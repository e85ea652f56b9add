package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goatcast/goatcast/internal/cache"
	"github.com/goatcast/goatcast/internal/content"
	"github.com/goatcast/goatcast/internal/db"
	"github.com/goatcast/goatcast/internal/identity"
	"github.com/goatcast/goatcast/internal/session"
	"github.com/goatcast/goatcast/pkg/config"
)

// Router sets up API routes
type Router struct {
	cfg      *config.Config
	content  *content.Client
	resolver *identity.Resolver
	sessions *session.Store
	cache    *cache.Cache
	desks    *db.DeskRepository
	columns  *db.ColumnRepository
	users    *db.UserRepository
	hub      *db.Hub
	logger   *zap.Logger
}

// NewRouter creates a new API router. database and redisCache may be nil;
// the affected routes degrade instead of failing at startup.
func NewRouter(
	cfg *config.Config,
	contentClient *content.Client,
	resolver *identity.Resolver,
	sessions *session.Store,
	redisCache *cache.Cache,
	database *db.DB,
	logger *zap.Logger,
) *Router {
	router := &Router{
		cfg:      cfg,
		content:  contentClient,
		resolver: resolver,
		sessions: sessions,
		cache:    redisCache,
		logger:   logger.With(zap.String("component", "api-router")),
	}

	if database != nil {
		repo := db.NewRepository(database.DB)
		router.desks = db.NewDeskRepository(repo)
		router.columns = db.NewColumnRepository(repo)
		router.users = db.NewUserRepository(repo)
		router.hub = db.NewHub(router.desks, router.columns, cfg.Feed.WatchTimeout)
		repo.SetHub(router.hub)
	}

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	v1 := engine.Group("/api/v1")

	// Feeds and casts
	v1.GET("/feed", r.getFeed)
	v1.GET("/cast/:hash", r.getCast)
	v1.GET("/cast/:hash/replies", r.getCastReplies)

	// Users
	v1.GET("/users/by-username/:username", r.getUserByUsername)
	v1.GET("/users/:fid/casts", r.getUserCasts)

	// Desks and columns
	v1.GET("/desks", r.listDesks)
	v1.POST("/desks", r.createDesk)
	v1.GET("/desks/watch", r.watchDesks)
	v1.PATCH("/desks/:id", r.renameDesk)
	v1.DELETE("/desks/:id", r.deleteDesk)
	v1.GET("/desks/:id/columns", r.listColumns)
	v1.POST("/desks/:id/columns", r.createColumn)
	v1.GET("/desks/:id/columns/watch", r.watchColumns)
	v1.PATCH("/columns/:id", r.updateColumn)
	v1.DELETE("/columns/:id", r.deleteColumn)

	// Session
	v1.POST("/session", r.signIn)
	v1.GET("/session", r.getSession)
	v1.DELETE("/session", r.signOut)
	v1.GET("/preferences/theme", r.getTheme)
	v1.PUT("/preferences/theme", r.setTheme)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "goatcast-api",
	})
}
