package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"raffly/internal/shared/utils/response"
)

type Controller interface {
	Broadcast(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Broadcast(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "Invalid event ID", err.Error())
		return
	}

	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	result, err := ctrl.service.Broadcast(c.Request.Context(), eventID, req)
	if err != nil {
		switch err {
		case ErrInvalidGroup, ErrInvalidMessage:
			response.BadRequest(c, err.Error(), nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to broadcast notification", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, "Broadcast completed successfully", result)
}
