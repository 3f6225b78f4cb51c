package middleware

import (
	"net/http"
	"strings"
	"time"

	"raffly/internal/shared/config"
	"raffly/internal/shared/utils/response"
	"raffly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// DeviceIDHeader carries the entrant's device identity. Device provisioning
// happens on the client; the server trusts the header as an opaque ID.
const DeviceIDHeader = "X-Device-ID"

// RequireDeviceID extracts the device ID header and stores it in the gin
// context under "device_id". Requests without it are rejected.
func RequireDeviceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := strings.TrimSpace(c.GetHeader(DeviceIDHeader))
		if deviceID == "" {
			response.Error(c, http.StatusUnauthorized, "X-Device-ID header is required", nil)
			c.Abort()
			return
		}
		c.Set("device_id", deviceID)
		c.Next()
	}
}

// DeviceID returns the device ID stored by RequireDeviceID.
func DeviceID(c *gin.Context) string {
	if v, ok := c.Get("device_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// JWTAuth creates a JWT authentication middleware for organizer routes
func JWTAuth() gin.HandlerFunc {
	return JWTAuthWithConfig(config.Load())
}

// JWTAuthWithConfig creates a JWT authentication middleware with config
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header is required", nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil)
			c.Abort()
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})

		if err != nil || !token.Valid {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "invalid token claims", nil)
			c.Abort()
			return
		}

		organizerID, ok := claims["sub"].(string)
		if !ok || organizerID == "" {
			response.Error(c, http.StatusUnauthorized, "invalid token subject", nil)
			c.Abort()
			return
		}

		c.Set("organizer_id", organizerID)
		c.Next()
	}
}

// OrganizerID returns the organizer ID stored by JWTAuth.
func OrganizerID(c *gin.Context) string {
	if v, ok := c.Get("organizer_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequestLogger logs every request through the shared structured logger.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.LogHTTPRequest(c, time.Since(start))
	}
}
