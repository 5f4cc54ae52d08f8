package model

// Achievement is a named badge earned by a user, currently awarded on a
// module's first completion.
type Achievement struct {
	BaseModel
	UserID   uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	ModuleID string `gorm:"type:varchar(36);index" json:"moduleId,omitempty"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Icon     string `gorm:"size:255" json:"icon"`
	EarnedXP int    `gorm:"default:0" json:"earnedXp"`
}

func (Achievement) TableName() string {
	return "achievements"
}
