package usecase

import (
	authdomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/auth/domain"
	authdto "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/auth/dto"
)

// AuthUsecase defines staff authentication operations
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	ValidateToken(token string) (*authdomain.User, error)
	GetUser(userID string) (*authdomain.User, error)
}
