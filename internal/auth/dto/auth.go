package dto

import (
	authdomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/auth/domain"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	User        *authdomain.User `json:"user"`
}
