package model

import (
	"time"
)

// ItemProgress is the single per-(user, item) progress row shared by all
// three item kinds. Resubmission replaces the row, it never duplicates or
// accumulates.
// swagger:model ItemProgress
type ItemProgress struct {
	UUIDBase
	UserID   uint     `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_user_item" json:"userId"`
	ItemID   string   `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_item" json:"itemId"`
	ModuleID string   `gorm:"type:varchar(36);index;not null" json:"moduleId"`
	Kind     ItemKind `gorm:"type:enum('FLASHCARD','VIDEO','QUIZ');not null" json:"kind"`
	// Completed holds the kind-specific predicate: mastered for
	// flashcards, watched for videos, submitted-as-completed for quizzes.
	Completed   bool       `gorm:"default:false" json:"completed"`
	Score       *int       `json:"score,omitempty"`
	XPEarned    int        `gorm:"default:0" json:"xpEarned"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (ItemProgress) TableName() string {
	return "item_progress"
}

// ModuleProgress is derived from the item rows of one module. It is only
// ever written by the recompute path.
// swagger:model ModuleProgress
type ModuleProgress struct {
	UUIDBase
	UserID      uint       `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_user_module" json:"userId"`
	ModuleID    string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_module" json:"moduleId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	XPEarned    int        `gorm:"default:0" json:"xpEarned"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (ModuleProgress) TableName() string {
	return "module_progress"
}

// ModuleState is the presentation of a module's progress row.
type ModuleState string

const (
	StateNotStarted ModuleState = "NOT_STARTED"
	StateInProgress ModuleState = "IN_PROGRESS"
	StateCompleted  ModuleState = "COMPLETED"
)

// State classifies a (possibly missing) progress row.
func (mp *ModuleProgress) State(itemRows int) ModuleState {
	switch {
	case mp == nil:
		return StateNotStarted
	case mp.Completed:
		return StateCompleted
	case mp.XPEarned > 0 || itemRows > 0:
		return StateInProgress
	default:
		return StateNotStarted
	}
}
