package model

// ProgressEvent is the DTO a client submits for one learning item.
// swagger:model ProgressEvent
type ProgressEvent struct {
	ModuleID string   `json:"moduleId" binding:"required"`
	Type     ItemKind `json:"type" binding:"required"`
	ItemID   string   `json:"itemId" binding:"required"`
	Status   string   `json:"status" binding:"required"`
	XP       int      `json:"xp"`
	Score    *int     `json:"score,omitempty"`
}

// ResolvedItem is a catalog lookup result: which kind an item id is and
// which module owns it.
type ResolvedItem struct {
	ID       string
	Kind     ItemKind
	ModuleID string
}

// ModuleItems is the full item-id set of one module, the denominator of
// the completion recompute.
type ModuleItems struct {
	FlashcardIDs []string
	VideoIDs     []string
	QuizIDs      []string
}

func (m *ModuleItems) Total() int {
	return len(m.FlashcardIDs) + len(m.VideoIDs) + len(m.QuizIDs)
}

func (m *ModuleItems) AllIDs() []string {
	ids := make([]string, 0, m.Total())
	ids = append(ids, m.FlashcardIDs...)
	ids = append(ids, m.VideoIDs...)
	ids = append(ids, m.QuizIDs...)
	return ids
}

// OverallProgress is the user's derived training profile.
// swagger:model OverallProgress
type OverallProgress struct {
	XP               int           `json:"xp"`
	Level            int           `json:"level"`
	XPToNext         int           `json:"xpToNext"`
	CompletedModules int           `json:"completedModules"`
	TotalModules     int           `json:"totalModules"`
	Streak           int           `json:"streak"`
	Achievements     []Achievement `json:"achievements"`
}

// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	UserID uint     `json:"userId"`
	Name   string   `json:"name"`
	Role   UserRole `json:"role"`
	XP     int      `json:"xp"`
	Rank   int      `json:"rank"`
}

// MyRank is the caller's leaderboard entry regardless of position.
// swagger:model MyRank
type MyRank struct {
	LeaderboardEntry
	TotalUsers int `json:"totalUsers"`
}

// ModuleWithProgress decorates a catalog module with the caller's
// progress rows.
// swagger:model ModuleWithProgress
type ModuleWithProgress struct {
	TrainingModule
	Progress     *ModuleProgress `json:"progress,omitempty"`
	State        ModuleState     `json:"state"`
	ItemProgress []ItemProgress  `json:"itemProgress,omitempty"`
}
