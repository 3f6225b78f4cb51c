package entrants

import (
	"raffly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEntrantRoutes(router *gin.RouterGroup, controller Controller) {
	me := router.Group("/me")
	me.Use(middleware.RequireDeviceID())
	{
		me.GET("/profile", controller.GetProfile)               // GET /api/v1/me/profile
		me.PUT("/profile", controller.UpsertProfile)            // PUT /api/v1/me/profile
		me.PUT("/preferences", controller.SetPreference)        // PUT /api/v1/me/preferences
		me.GET("/notifications", controller.ListNotifications)  // GET /api/v1/me/notifications
		me.GET("/history", controller.ListHistory)              // GET /api/v1/me/history
	}
}
