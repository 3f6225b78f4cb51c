package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"raffly/internal/shared/utils/response"
)

type Controller interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := ctrl.service.Register(&req)
	if err != nil {
		if err == ErrOrganizerAlreadyExists {
			response.Error(c, http.StatusConflict, err.Error(), nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to register", nil)
		return
	}

	response.Success(c, http.StatusCreated, "Organizer registered successfully", resp)
}

func (ctrl *controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := ctrl.service.Login(&req)
	if err != nil {
		if err == ErrInvalidCredentials {
			response.Error(c, http.StatusUnauthorized, err.Error(), nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to log in", nil)
		return
	}

	response.Success(c, http.StatusOK, "Logged in successfully", resp)
}
