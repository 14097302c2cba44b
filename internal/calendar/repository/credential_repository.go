package repository

import (
	"errors"
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// credentialRepository implements CredentialRepository
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new instance of credentialRepository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{
		db: db,
	}
}

func (r *credentialRepository) Get(userID string) (*caldomain.GoogleCredential, error) {
	var credential caldomain.GoogleCredential
	err := r.db.Where("user_id = ?", userID).First(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credential, nil
}

func (r *credentialRepository) Save(credential *caldomain.GoogleCredential) error {
	now := time.Now()
	if credential.CreatedAt.IsZero() {
		credential.CreatedAt = now
	}
	credential.UpdatedAt = now
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token", "token_expiry", "scope", "updated_at",
		}),
	}).Create(credential).Error
}

func (r *credentialRepository) Delete(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&caldomain.GoogleCredential{}).Error
}
