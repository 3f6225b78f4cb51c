package notifications

import (
	"raffly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupNotificationRoutes(router *gin.RouterGroup, controller Controller) {
	notify := router.Group("/admin/notify")
	notify.Use(middleware.JWTAuth())
	{
		notify.POST("/:eventId", controller.Broadcast) // POST /api/v1/admin/notify/:eventId
	}
}
