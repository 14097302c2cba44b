package repository

import (
	authdomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/auth/domain"
)

// UserRepository defines the interface for staff user persistence
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error
}
