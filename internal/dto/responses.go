package dto

import (
	"github.com/dkovalev/skillswap-backend/internal/models"
	"github.com/dkovalev/skillswap-backend/internal/service"
)

// ErrorResponse represents a standardized error payload
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse represents a standardized success payload
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// AuthResponse represents the result of register/login
type AuthResponse struct {
	User      *models.User       `json:"user"`
	TokenPair *service.TokenPair `json:"tokens"`
}

// NewAuthResponse creates an AuthResponse from the service result
func NewAuthResponse(result *service.AuthResult) *AuthResponse {
	return &AuthResponse{
		User:      result.User,
		TokenPair: result.TokenPair,
	}
}

// UnreadCountResponse carries the unread notifications counter
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
