package dto

import (
	"time"

	"readhub/internal/http-api/models"
)

// UserResponse: public view of a user account
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	Points      int        `json:"points"`
	Level       int        `json:"level"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// UpdateRoleRequest: payload for an admin changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=STUDENT TEACHER ADMIN"`
}

func FromModelToUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Points:      u.Points,
		Level:       u.Level,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
	}
}
