package waitlist

import (
	"raffly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupWaitlistRoutes(router *gin.RouterGroup, controller Controller) {
	waitlist := router.Group("/waitlist")
	waitlist.Use(middleware.RequireDeviceID())
	{
		waitlist.POST("/:eventId/join", controller.Join)     // POST /api/v1/waitlist/:eventId/join
		waitlist.GET("/:eventId", controller.GetStatus)      // GET /api/v1/waitlist/:eventId
	}
}
