package invitations

import (
	"raffly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupInvitationRoutes(router *gin.RouterGroup, controller Controller) {
	invitations := router.Group("/invitations")
	invitations.Use(middleware.RequireDeviceID())
	{
		invitations.POST("/:eventId/accept", controller.Accept)    // POST /api/v1/invitations/:eventId/accept
		invitations.POST("/:eventId/decline", controller.Decline)  // POST /api/v1/invitations/:eventId/decline
	}
}
