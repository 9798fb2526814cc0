package dto

import (
	"time"

	"github.com/noah-isme/campusprep-api/internal/models"
)

// RegisterRequest describes the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty"`
}

// LoginRequest describes the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountResponse is the redacted account view.
type AccountResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccountResponse converts a model into a DTO.
func NewAccountResponse(model models.Account) AccountResponse {
	return AccountResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Account     *AccountResponse `json:"account,omitempty"`
}

// AuthResult carries the issued pair; the refresh token never leaves the server in a body.
type AuthResult struct {
	Response         AuthResponse
	RefreshToken     string
	RefreshExpiresAt time.Time
}
