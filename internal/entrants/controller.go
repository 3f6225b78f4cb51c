package entrants

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"raffly/internal/shared/middleware"
	"raffly/internal/shared/utils/response"
)

type Controller interface {
	GetProfile(c *gin.Context)
	UpsertProfile(c *gin.Context)
	SetPreference(c *gin.Context)
	ListNotifications(c *gin.Context)
	ListHistory(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetProfile(c *gin.Context) {
	deviceID := middleware.DeviceID(c)

	profile, err := ctrl.service.GetProfile(deviceID)
	if err != nil {
		if err == ErrProfileNotFound {
			response.Error(c, http.StatusNotFound, "Profile not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (ctrl *controller) UpsertProfile(c *gin.Context) {
	deviceID := middleware.DeviceID(c)

	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	profile, err := ctrl.service.UpsertProfile(deviceID, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Profile saved successfully", profile)
}

func (ctrl *controller) SetPreference(c *gin.Context) {
	deviceID := middleware.DeviceID(c)

	var req PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	if err := ctrl.service.SetNotificationPreference(deviceID, req.NotificationsEnabled); err != nil {
		if err == ErrProfileNotFound {
			response.Error(c, http.StatusNotFound, "Profile not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Preference updated successfully", nil)
}

func (ctrl *controller) ListNotifications(c *gin.Context) {
	deviceID := middleware.DeviceID(c)

	notifications, err := ctrl.service.ListNotifications(deviceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Notifications retrieved successfully", notifications)
}

func (ctrl *controller) ListHistory(c *gin.Context) {
	deviceID := middleware.DeviceID(c)

	history, err := ctrl.service.ListHistory(deviceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, "Registration history retrieved successfully", history)
}
