package draw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"raffly/internal/shared/utils/response"
)

type Controller interface {
	RunDraw(c *gin.Context)
	ListAudits(c *gin.Context)
}

type controller struct {
	service         Service
	defaultPoolSize int
}

func NewController(service Service, defaultPoolSize int) Controller {
	return &controller{service: service, defaultPoolSize: defaultPoolSize}
}

func (ctrl *controller) RunDraw(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "Invalid event ID", err.Error())
		return
	}

	var req DrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	poolSize := ctrl.defaultPoolSize
	if req.PoolSize != nil {
		poolSize = *req.PoolSize
	}

	result, err := ctrl.service.Run(c.Request.Context(), eventID, req.NumWinners, poolSize)
	if err != nil {
		switch err {
		case ErrNoEntrants:
			response.Error(c, http.StatusNotFound, err.Error(), nil)
		case ErrInvalidWinners, ErrInvalidPoolSize, ErrInvalidEventID:
			response.BadRequest(c, err.Error(), nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to run draw", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, "Draw completed successfully", result)
}

func (ctrl *controller) ListAudits(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "Invalid event ID", err.Error())
		return
	}

	audits, err := ctrl.service.ListAudits(eventID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list decline audits", nil)
		return
	}

	response.Success(c, http.StatusOK, "Decline audits retrieved successfully", audits)
}
