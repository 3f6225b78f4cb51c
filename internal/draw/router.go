package draw

import (
	"raffly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupDrawRoutes(router *gin.RouterGroup, controller Controller) {
	draws := router.Group("/admin/draws")
	draws.Use(middleware.JWTAuth())
	{
		draws.POST("/:eventId", controller.RunDraw)           // POST /api/v1/admin/draws/:eventId
		draws.GET("/:eventId/audit", controller.ListAudits)   // GET /api/v1/admin/draws/:eventId/audit
	}
}
