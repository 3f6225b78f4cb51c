package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Organizer is an account that can create events and run draws.
type Organizer struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex;size:255"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type JWTClaims struct {
	OrganizerID string `json:"organizer_id"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}

// Request/Response Models

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OrganizerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Organizer   OrganizerResponse `json:"organizer"`
	AccessToken string            `json:"access_token"`
	ExpiresIn   int64             `json:"expires_in"`
}

func (o *Organizer) ToResponse() OrganizerResponse {
	return OrganizerResponse{
		ID:        o.ID.String(),
		Name:      o.Name,
		Email:     o.Email,
		CreatedAt: o.CreatedAt,
	}
}
