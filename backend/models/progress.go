package models

import (
	"time"

	"gorm.io/gorm"
)

// ProgressEntry is one remote completion row. The composite key
// (user_id, date, action_id) is unique; a false value is represented by
// the row's absence, so no soft delete here — deletes must actually free
// the key for the next upsert.
type ProgressEntry struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"uniqueIndex:idx_progress_key;not null"`
	Date      string `gorm:"uniqueIndex:idx_progress_key;size:10;not null"` // ISO calendar date, YYYY-MM-DD
	ActionID  string `gorm:"uniqueIndex:idx_progress_key;size:64;not null"`
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserGoal struct {
	gorm.Model
	UserID     uint
	Category   string
	Struggle   string
	TimePerDay int
	Budget     string // low, medium, high
}

type UserCommitment struct {
	gorm.Model
	UserID      uint
	ActionID    string
	Description string
	Schedule    string
	TargetDate  string
}
