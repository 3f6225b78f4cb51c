package events

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"raffly/internal/shared/middleware"
	"raffly/internal/shared/utils/response"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	GetAllEvents(c *gin.Context)
	GetMyEvents(c *gin.Context)
	UpdateEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	organizerID := middleware.OrganizerID(c)
	if organizerID == "" {
		response.Error(c, http.StatusUnauthorized, "Organizer not authenticated", nil)
		return
	}

	event, err := ctrl.service.CreateEvent(organizerID, req)
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusCreated, "Event created successfully", event)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "Invalid event ID", err.Error())
		return
	}

	event, err := ctrl.service.GetEventByID(c.Request.Context(), eventID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == ErrEventNotFound {
			statusCode = http.StatusNotFound
		}
		response.Error(c, statusCode, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Event retrieved successfully", event)
}

func (ctrl *controller) GetAllEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, total, err := ctrl.service.GetAllEvents(limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Events retrieved successfully", gin.H{
		"events": events,
		"total":  total,
	})
}

func (ctrl *controller) GetMyEvents(c *gin.Context) {
	organizerID := middleware.OrganizerID(c)
	if organizerID == "" {
		response.Error(c, http.StatusUnauthorized, "Organizer not authenticated", nil)
		return
	}

	events, err := ctrl.service.GetOrganizerEvents(organizerID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Events retrieved successfully", events)
}

func (ctrl *controller) UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "Invalid event ID", err.Error())
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	organizerID := middleware.OrganizerID(c)
	if organizerID == "" {
		response.Error(c, http.StatusUnauthorized, "Organizer not authenticated", nil)
		return
	}

	event, err := ctrl.service.UpdateEvent(organizerID, eventID, req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if err == ErrEventNotFound {
			statusCode = http.StatusNotFound
		}
		response.Error(c, statusCode, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Event updated successfully", event)
}

func (ctrl *controller) DeleteEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "Invalid event ID", err.Error())
		return
	}

	organizerID := middleware.OrganizerID(c)
	if organizerID == "" {
		response.Error(c, http.StatusUnauthorized, "Organizer not authenticated", nil)
		return
	}

	if err := ctrl.service.DeleteEvent(organizerID, eventID); err != nil {
		statusCode := http.StatusBadRequest
		if err == ErrEventNotFound {
			statusCode = http.StatusNotFound
		}
		response.Error(c, statusCode, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Event deleted successfully", nil)
}
