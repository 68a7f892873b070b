package dto

import (
	"time"

	"github.com/komiteku/komite-backend/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a collecting actor.
type CreateUserRequest struct {
	Username      string   `json:"username" binding:"required"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Password      string   `json:"password" binding:"required,min=8"`
	Role          string   `json:"role" binding:"required,oneof=admin user"`
	ClassAssigned []string `json:"classAssigned"`
}

// LoginRequest defines the credentials for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse defines the data returned for a user. The password hash
// never leaves the service layer.
type UserResponse struct {
	UserID        string          `json:"userID"`
	Username      string          `json:"username"`
	Email         string          `json:"email,omitempty"`
	Role          domain.UserRole `json:"role"`
	ClassAssigned []string        `json:"classAssigned,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:        u.UserID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		ClassAssigned: u.ClassAssigned,
		CreatedAt:     u.CreatedAt,
	}
}
