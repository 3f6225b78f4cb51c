// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"raffly/internal/auth"
	"raffly/internal/draw"
	"raffly/internal/entrants"
	"raffly/internal/events"
	"raffly/internal/invitations"
	"raffly/internal/notifications"
	"raffly/internal/shared/config"
	"raffly/internal/shared/database"
	"raffly/internal/waitlist"
	"raffly/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer

	// Shared services, wired once and injected across features
	cacheService   cache.Service
	eventService   events.Service
	entrantService entrants.Service
	dispatcher     notifications.Dispatcher
}

// NewRouter creates a new router instance. The producer may be nil when
// Kafka is unavailable; dispatch then skips the push leg.
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	// Shared services first; the feature routes below depend on them.
	r.cacheService = cache.NewService(r.db.GetRedisClient())
	r.entrantService = entrants.NewService(entrants.NewRepository(r.db.GetPostgreSQL()))
	r.eventService = events.NewService(events.NewRepository(r.db.GetPostgreSQL()), r.cacheService)
	r.dispatcher = notifications.NewDispatcher(r.entrantService, r.producer)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupEventRoutes(api)
		r.setupEntrantRoutes(api)
		r.setupWaitlistRoutes(api)
		r.setupDrawRoutes(api)
		r.setupInvitationRoutes(api)
		r.setupNotificationRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "raffly",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "raffly",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	auth.SetupAuthRoutes(rg, auth.NewController(authService))
}

func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	events.SetupEventRoutes(rg, events.NewController(r.eventService))
}

func (r *Router) setupEntrantRoutes(rg *gin.RouterGroup) {
	entrants.SetupEntrantRoutes(rg, entrants.NewController(r.entrantService))
}

func (r *Router) setupWaitlistRoutes(rg *gin.RouterGroup) {
	waitlistRepo := r.waitlistRepository()
	waitlistService := waitlist.NewService(waitlistRepo, r.eventService, r.entrantService)
	waitlist.SetupWaitlistRoutes(rg, waitlist.NewController(waitlistService))
}

func (r *Router) setupDrawRoutes(rg *gin.RouterGroup) {
	drawService := draw.NewService(r.waitlistRepository(), r.entrantService, r.dispatcher)
	draw.SetupDrawRoutes(rg, draw.NewController(drawService, r.config.Draw.ReplacementPoolSize))
}

func (r *Router) setupInvitationRoutes(rg *gin.RouterGroup) {
	invitationService := invitations.NewService(r.waitlistRepository(), r.entrantService, r.dispatcher)
	invitations.SetupInvitationRoutes(rg, invitations.NewController(invitationService))
}

func (r *Router) setupNotificationRoutes(rg *gin.RouterGroup) {
	broadcastService := notifications.NewService(r.waitlistRepository(), r.entrantService, r.dispatcher)
	notifications.SetupNotificationRoutes(rg, notifications.NewController(broadcastService))
}

func (r *Router) waitlistRepository() waitlist.Repository {
	return waitlist.NewRepository(r.db.GetPostgreSQL(), r.cacheService)
}
