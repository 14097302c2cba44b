package domain

import (
	"time"

	"golang.org/x/oauth2"
)

// GoogleCredential stores the OAuth tokens obtained through the code
// exchange. Refreshed access tokens are written back through the token
// update callback so the stored row stays usable across restarts.
type GoogleCredential struct {
	UserID       string    `json:"user_id" gorm:"primaryKey"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"token_expiry"`
	Scope        string    `json:"scope"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenUpdateFunc is invoked when the oauth2 transport refreshes the
// access token mid-call.
type TokenUpdateFunc func(token *oauth2.Token) error
