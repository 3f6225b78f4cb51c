package invitations

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"raffly/internal/shared/middleware"
	"raffly/internal/shared/utils/response"
)

type RespondRequest struct {
	NotificationID string `json:"notification_id" binding:"required,uuid"`
}

type Controller interface {
	Accept(c *gin.Context)
	Decline(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Accept(c *gin.Context) {
	ctrl.respond(c, ctrl.service.Accept, "Invitation accepted")
}

func (ctrl *controller) Decline(c *gin.Context) {
	ctrl.respond(c, ctrl.service.Decline, "Invitation declined")
}

func (ctrl *controller) respond(c *gin.Context, action func(ctx context.Context, eventID uuid.UUID, deviceID string, notificationID uuid.UUID) error, successMessage string) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "Invalid event ID", err.Error())
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	notificationID, err := uuid.Parse(req.NotificationID)
	if err != nil {
		response.BadRequest(c, "Invalid notification ID", err.Error())
		return
	}

	deviceID := middleware.DeviceID(c)

	if err := action(c.Request.Context(), eventID, deviceID, notificationID); err != nil {
		switch err {
		case ErrNotificationNotFound:
			response.Error(c, http.StatusNotFound, err.Error(), nil)
		case ErrNotYourNotification:
			response.Error(c, http.StatusForbidden, err.Error(), nil)
		case ErrAlreadyResponded:
			response.Error(c, http.StatusConflict, err.Error(), nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to process invitation response", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, successMessage, nil)
}
