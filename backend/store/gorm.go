package store

import (
	"context"
	"errors"

	"project/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProgressStore implements ProgressStore on the progress_entries table.
type GormProgressStore struct {
	DB *gorm.DB
}

func NewGormProgressStore(db *gorm.DB) *GormProgressStore {
	return &GormProgressStore{DB: db}
}

func (s *GormProgressStore) Query(ctx context.Context, userID uint, startDate, endDate string) ([]models.ProgressEntry, error) {
	var entries []models.ProgressEntry
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, startDate, endDate).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *GormProgressStore) Upsert(ctx context.Context, userID uint, date, actionID string, completed bool) error {
	entry := models.ProgressEntry{
		UserID:    userID,
		Date:      date,
		ActionID:  actionID,
		Completed: completed,
	}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "action_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *GormProgressStore) Delete(ctx context.Context, userID uint, date, actionID string) error {
	// Deleting an absent row is fine; gorm reports no error on zero rows.
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND date = ? AND action_id = ?", userID, date, actionID).
		Delete(&models.ProgressEntry{}).Error
}

// GormKV implements KV on the wizard_fields table.
type GormKV struct {
	DB *gorm.DB
}

func NewGormKV(db *gorm.DB) *GormKV {
	return &GormKV{DB: db}
}

func (s *GormKV) Get(ctx context.Context, userID uint, field string) (string, bool, error) {
	var row models.WizardField
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND field = ?", userID, field).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *GormKV) Set(ctx context.Context, userID uint, field, value string) error {
	row := models.WizardField{
		UserID: userID,
		Field:  field,
		Value:  value,
	}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "field"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}
