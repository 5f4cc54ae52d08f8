package model

import (
	"time"
)

// Checkin marks one day of training activity for a user. Streaks are read
// off the StreakDays of the latest row.
// swagger:model Checkin
type Checkin struct {
	BaseModel
	UserID     uint      `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_user_checkin_day" json:"userId"`
	Day        time.Time `gorm:"type:date;not null;uniqueIndex:idx_user_checkin_day" json:"day"`
	StreakDays int       `gorm:"default:1" json:"streakDays"`
}

func (Checkin) TableName() string {
	return "checkins"
}
