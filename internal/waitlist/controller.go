package waitlist

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"raffly/internal/shared/middleware"
	"raffly/internal/shared/utils/response"
)

type Controller interface {
	Join(c *gin.Context)
	GetStatus(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Join(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "Invalid event ID", err.Error())
		return
	}

	deviceID := middleware.DeviceID(c)

	result, err := ctrl.service.Join(c.Request.Context(), eventID, deviceID)
	if err != nil {
		if err == ErrEventNotFound {
			response.Error(c, http.StatusNotFound, "Event not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to join waitlist", nil)
		return
	}

	if !result.Success {
		response.RespondJSON(c, "error", http.StatusConflict, result.Message, result, nil)
		return
	}

	response.Success(c, http.StatusCreated, result.Message, result)
}

func (ctrl *controller) GetStatus(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "Invalid event ID", err.Error())
		return
	}

	deviceID := middleware.DeviceID(c)

	status, err := ctrl.service.GetStatus(c.Request.Context(), eventID, deviceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get waitlist status", nil)
		return
	}

	response.Success(c, http.StatusOK, "Waitlist status retrieved successfully", status)
}
