package service

import (
	"time"

	"projectgreen_backend/internal/model"
)

// Store is the persistence contract the training engine runs against.
// The gorm implementation lives in internal/repository; tests substitute
// an in-memory fake.
//
// Lookup methods for progress rows return (nil, nil) when no row exists,
// since absence is the normal starting state.
type Store interface {
	// Transaction runs fn against a store bound to one database
	// transaction. The record-progress + recompute pair always runs
	// inside a single transaction so readers never observe an updated
	// item row with a stale module aggregate.
	Transaction(fn func(Store) error) error

	// Catalog, read-only to the engine.
	ResolveItem(itemID string) (*model.ResolvedItem, error)
	ModuleItems(moduleID string) (*model.ModuleItems, error)
	ModuleTitle(moduleID string) (string, error)
	ModuleWithContent(moduleID string) (*model.TrainingModule, error)
	ListModules(role model.UserRole) ([]model.TrainingModule, error)
	CountModules(role model.UserRole) (int64, error)

	// Progress rows.
	GetItemProgress(userID uint, itemID string) (*model.ItemProgress, error)
	SaveItemProgress(p *model.ItemProgress) error
	ListItemProgress(userID uint, itemIDs []string) ([]model.ItemProgress, error)
	GetModuleProgress(userID uint, moduleID string) (*model.ModuleProgress, error)
	SaveModuleProgress(p *model.ModuleProgress) error
	ListModuleProgress(userID uint, moduleIDs []string) ([]model.ModuleProgress, error)

	// Users and gamification.
	GetUser(id uint) (*model.User, error)
	AddUserXP(userID uint, delta int) error
	ListUsersByRole(role model.UserRole) ([]model.User, error)
	ListAchievements(userID uint) ([]model.Achievement, error)
	CreateAchievement(a *model.Achievement) error
	HasModuleAchievement(userID uint, moduleID string) (bool, error)

	// TouchCheckin records activity for the given day (idempotent per
	// day) and returns the streak length ending on that day.
	TouchCheckin(userID uint, day time.Time) (int, error)
	// CurrentStreak returns the run of consecutive active days ending
	// today or yesterday, 0 otherwise.
	CurrentStreak(userID uint, today time.Time) (int, error)
}

// UserStore is the slice of user persistence the auth service needs.
type UserStore interface {
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
}
