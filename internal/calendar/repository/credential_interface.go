package repository

import (
	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"
)

// CredentialRepository stores the per-user Google OAuth credential.
type CredentialRepository interface {
	// Get returns the stored credential, or nil when the user has never
	// completed the code exchange.
	Get(userID string) (*caldomain.GoogleCredential, error)
	// Save upserts the credential row.
	Save(credential *caldomain.GoogleCredential) error
	// Delete removes the credential, forcing a re-auth.
	Delete(userID string) error
}
