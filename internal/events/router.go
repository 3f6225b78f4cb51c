package events

import (
	"raffly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - entrants browse events before joining a waitlist
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.GetAllEvents)        // GET /api/v1/events
		publicEvents.GET("/:eventId", controller.GetEvent)   // GET /api/v1/events/:eventId
	}

	// Organizer routes - event management requires a JWT
	organizerEvents := router.Group("/organizer/events")
	organizerEvents.Use(middleware.JWTAuth())
	{
		organizerEvents.POST("", controller.CreateEvent)              // POST /api/v1/organizer/events
		organizerEvents.GET("", controller.GetMyEvents)               // GET /api/v1/organizer/events
		organizerEvents.PUT("/:eventId", controller.UpdateEvent)      // PUT /api/v1/organizer/events/:eventId
		organizerEvents.DELETE("/:eventId", controller.DeleteEvent)   // DELETE /api/v1/organizer/events/:eventId
	}
}
