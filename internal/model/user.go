package model

import (
	"time"
)

type UserRole string

const (
	Citizen UserRole = "CITIZEN"
	Worker  UserRole = "WORKER"
	Admin   UserRole = "ADMIN"
)

// ValidRole reports whether r is one of the three platform roles.
func ValidRole(r UserRole) bool {
	switch r {
	case Citizen, Worker, Admin:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Phone    string   `gorm:"size:20" json:"phone"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('CITIZEN','WORKER','ADMIN');default:'CITIZEN'" json:"role"`
	// XP mirrors the sum of the user's module progress XP. It is adjusted
	// inside the same transaction as every module recompute so the
	// leaderboard never reads a partially applied submission.
	XP       int       `gorm:"default:0" json:"xp"`
	Disabled bool      `gorm:"default:false" json:"disabled"`
	LastSeen time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
