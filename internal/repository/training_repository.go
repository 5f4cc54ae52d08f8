package repository

import (
	"errors"
	"time"

	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/service"
	"projectgreen_backend/internal/util"

	"gorm.io/gorm"
)

// TrainingRepository is the gorm implementation of the engine's store
// contract (service.Store).
type TrainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// Transaction binds a store to one database transaction. Combined with
// the engine's per-(user, module) lock this keeps the item upsert and
// the aggregate recompute atomic for readers.
func (r *TrainingRepository) Transaction(fn func(service.Store) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&TrainingRepository{db: tx})
	})
}

// ResolveItem finds which kind a globally unique item id is and which
// module owns it. Ids never collide across the three tables.
func (r *TrainingRepository) ResolveItem(itemID string) (*model.ResolvedItem, error) {
	var f model.Flashcard
	err := r.db.Select("id", "module_id").First(&f, "id = ?", itemID).Error
	if err == nil {
		return &model.ResolvedItem{ID: f.ID, Kind: model.KindFlashcard, ModuleID: f.ModuleID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var v model.Video
	err = r.db.Select("id", "module_id").First(&v, "id = ?", itemID).Error
	if err == nil {
		return &model.ResolvedItem{ID: v.ID, Kind: model.KindVideo, ModuleID: v.ModuleID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var q model.Quiz
	err = r.db.Select("id", "module_id").First(&q, "id = ?", itemID).Error
	if err == nil {
		return &model.ResolvedItem{ID: q.ID, Kind: model.KindQuiz, ModuleID: q.ModuleID}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return nil, util.ErrNotFound
}

// ModuleItems loads the module's full item-id set in one pass per kind.
func (r *TrainingRepository) ModuleItems(moduleID string) (*model.ModuleItems, error) {
	var module model.TrainingModule
	if err := r.db.Select("id").First(&module, "id = ?", moduleID).Error; err != nil {
		return nil, notFoundOr(err)
	}

	items := &model.ModuleItems{}
	if err := r.db.Model(&model.Flashcard{}).Where("module_id = ?", moduleID).Pluck("id", &items.FlashcardIDs).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Video{}).Where("module_id = ?", moduleID).Pluck("id", &items.VideoIDs).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Quiz{}).Where("module_id = ?", moduleID).Pluck("id", &items.QuizIDs).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *TrainingRepository) ModuleTitle(moduleID string) (string, error) {
	var module model.TrainingModule
	if err := r.db.Select("id", "title").First(&module, "id = ?", moduleID).Error; err != nil {
		return "", notFoundOr(err)
	}
	return module.Title, nil
}

func (r *TrainingRepository) ModuleWithContent(moduleID string) (*model.TrainingModule, error) {
	var module model.TrainingModule
	err := r.db.
		Preload("Flashcards").
		Preload("Videos").
		Preload("Quizzes.Questions.Options").
		First(&module, "id = ?", moduleID).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &module, nil
}

func (r *TrainingRepository) ListModules(role model.UserRole) ([]model.TrainingModule, error) {
	var modules []model.TrainingModule
	err := r.db.
		Preload("Flashcards").
		Preload("Videos").
		Preload("Quizzes.Questions.Options").
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&modules).Error
	return modules, err
}

func (r *TrainingRepository) CountModules(role model.UserRole) (int64, error) {
	var count int64
	err := r.db.Model(&model.TrainingModule{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *TrainingRepository) GetItemProgress(userID uint, itemID string) (*model.ItemProgress, error) {
	var row model.ItemProgress
	err := r.db.Where("user_id = ? AND item_id = ?", userID, itemID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// SaveItemProgress persists the single (user, item) row. A duplicate-key
// failure means another writer inserted the row concurrently (possible
// across replicas, where the in-process lock does not reach); the caller
// retries on ErrConflict.
func (r *TrainingRepository) SaveItemProgress(p *model.ItemProgress) error {
	if p.ID == "" {
		if err := r.db.Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.ErrConflict
			}
			return err
		}
		return nil
	}
	return r.db.Save(p).Error
}

func (r *TrainingRepository) ListItemProgress(userID uint, itemIDs []string) ([]model.ItemProgress, error) {
	if len(itemIDs) == 0 {
		return []model.ItemProgress{}, nil
	}
	var rows []model.ItemProgress
	err := r.db.Where("user_id = ? AND item_id IN ?", userID, itemIDs).Find(&rows).Error
	return rows, err
}

func (r *TrainingRepository) GetModuleProgress(userID uint, moduleID string) (*model.ModuleProgress, error) {
	var row model.ModuleProgress
	err := r.db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *TrainingRepository) SaveModuleProgress(p *model.ModuleProgress) error {
	if p.ID == "" {
		if err := r.db.Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.ErrConflict
			}
			return err
		}
		return nil
	}
	return r.db.Save(p).Error
}

func (r *TrainingRepository) ListModuleProgress(userID uint, moduleIDs []string) ([]model.ModuleProgress, error) {
	if len(moduleIDs) == 0 {
		return []model.ModuleProgress{}, nil
	}
	var rows []model.ModuleProgress
	err := r.db.Where("user_id = ? AND module_id IN ?", userID, moduleIDs).Find(&rows).Error
	return rows, err
}

func (r *TrainingRepository) GetUser(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *TrainingRepository) AddUserXP(userID uint, delta int) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("xp", gorm.Expr("xp + ?", delta)).Error
}

func (r *TrainingRepository) ListUsersByRole(role model.UserRole) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("role = ? AND disabled = ?", role, false).Find(&users).Error
	return users, err
}

func (r *TrainingRepository) ListAchievements(userID uint) ([]model.Achievement, error) {
	var rows []model.Achievement
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *TrainingRepository) CreateAchievement(a *model.Achievement) error {
	return r.db.Create(a).Error
}

func (r *TrainingRepository) HasModuleAchievement(userID uint, moduleID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Achievement{}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Count(&count).Error
	return count > 0, err
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TouchCheckin marks the day active for the user, extending yesterday's
// streak when there is one. Repeat calls on the same day are no-ops.
func (r *TrainingRepository) TouchCheckin(userID uint, day time.Time) (int, error) {
	today := dateOnly(day)

	var existing model.Checkin
	err := r.db.Where("user_id = ? AND day = ?", userID, today).First(&existing).Error
	if err == nil {
		return existing.StreakDays, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	streak := 1
	var prev model.Checkin
	err = r.db.Where("user_id = ? AND day = ?", userID, today.AddDate(0, 0, -1)).First(&prev).Error
	if err == nil {
		streak = prev.StreakDays + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	row := model.Checkin{UserID: userID, Day: today, StreakDays: streak}
	if err := r.db.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent touch on the same day; the streak is already
			// recorded.
			return streak, nil
		}
		return 0, err
	}
	return streak, nil
}

func (r *TrainingRepository) CurrentStreak(userID uint, today time.Time) (int, error) {
	var latest model.Checkin
	err := r.db.Where("user_id = ?", userID).Order("day DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	day := dateOnly(today)
	latestDay := dateOnly(latest.Day)
	if latestDay.Equal(day) || latestDay.Equal(day.AddDate(0, 0, -1)) {
		return latest.StreakDays, nil
	}
	return 0, nil
}
