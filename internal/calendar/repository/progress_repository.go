package repository

import (
	"errors"
	"time"

	caldomain "github.com/matthewlkramer/Wildflower-TLs-and-Schools-sub002/internal/calendar/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// syncProgressRepository implements SyncProgressRepository
type syncProgressRepository struct {
	db *gorm.DB
}

// NewSyncProgressRepository creates a new instance of syncProgressRepository
func NewSyncProgressRepository(db *gorm.DB) SyncProgressRepository {
	return &syncProgressRepository{
		db: db,
	}
}

func (r *syncProgressRepository) GetOverall(userID string) (*caldomain.OverallSyncProgress, error) {
	var progress caldomain.OverallSyncProgress
	err := r.db.Where("user_id = ?", userID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}

func (r *syncProgressRepository) SaveOverall(progress *caldomain.OverallSyncProgress) error {
	progress.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(progress).Error
}

func (r *syncProgressRepository) TryMarkRunning(userID, runID string, startedAt time.Time) (bool, error) {
	// Make sure the row exists so the conditional update has something to hit.
	seed := &caldomain.OverallSyncProgress{
		UserID:    userID,
		Status:    caldomain.SyncStatusNotStarted,
		UpdatedAt: time.Now(),
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(seed).Error; err != nil {
		return false, err
	}

	result := r.db.Model(&caldomain.OverallSyncProgress{}).
		Where("user_id = ? AND status <> ?", userID, caldomain.SyncStatusRunning).
		Updates(map[string]interface{}{
			"status":         caldomain.SyncStatusRunning,
			"current_run_id": runID,
			"started_at":     startedAt,
			"completed_at":   nil,
			"error_message":  "",
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *syncProgressRepository) ListMonths(userID string) ([]*caldomain.MonthSyncProgress, error) {
	var months []*caldomain.MonthSyncProgress
	err := r.db.Where("user_id = ?", userID).
		Order("year asc, month asc, calendar_id asc").
		Find(&months).Error
	if err != nil {
		return nil, err
	}
	return months, nil
}

func (r *syncProgressRepository) GetMonth(userID, calendarID string, year, month int) (*caldomain.MonthSyncProgress, error) {
	var progress caldomain.MonthSyncProgress
	err := r.db.Where("user_id = ? AND calendar_id = ? AND year = ? AND month = ?", userID, calendarID, year, month).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}

func (r *syncProgressRepository) SaveMonth(progress *caldomain.MonthSyncProgress) error {
	if progress.ID == "" {
		progress.ID = uuid.New().String()
	}
	progress.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "calendar_id"}, {Name: "year"}, {Name: "month"}},
		UpdateAll: true,
	}).Create(progress).Error
}
