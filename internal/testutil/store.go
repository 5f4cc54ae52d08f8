// Package testutil provides in-memory fakes shared by the service and
// controller tests.
package testutil

import (
	"fmt"
	"sync"
	"time"

	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/service"
	"projectgreen_backend/internal/util"
)

// FakeStore is an in-memory service.Store. It keeps the same lookup
// contract as the gorm implementation: progress getters return (nil, nil)
// when no row exists, catalog lookups return util.ErrNotFound.
type FakeStore struct {
	mu sync.Mutex

	modules      map[string]*model.TrainingModule
	items        map[string]model.ResolvedItem
	itemRows     map[string]*model.ItemProgress   // userID:itemID
	moduleRows   map[string]*model.ModuleProgress // userID:moduleID
	users        map[uint]*model.User
	achievements []model.Achievement
	checkins     map[string]*model.Checkin // userID:day

	nextRowID int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		modules:    make(map[string]*model.TrainingModule),
		items:      make(map[string]model.ResolvedItem),
		itemRows:   make(map[string]*model.ItemProgress),
		moduleRows: make(map[string]*model.ModuleProgress),
		users:      make(map[uint]*model.User),
		checkins:   make(map[string]*model.Checkin),
	}
}

func (f *FakeStore) AddUser(id uint, name string, role model.UserRole) *model.User {
	u := &model.User{Name: name, Role: role}
	u.ID = id
	f.users[id] = u
	return u
}

func (f *FakeStore) AddModule(id, title string, role model.UserRole) {
	m := &model.TrainingModule{Title: title, Role: role}
	m.ID = id
	f.modules[id] = m
}

func (f *FakeStore) AddItem(id string, kind model.ItemKind, moduleID string) {
	f.items[id] = model.ResolvedItem{ID: id, Kind: kind, ModuleID: moduleID}
	m := f.modules[moduleID]
	switch kind {
	case model.KindFlashcard:
		card := model.Flashcard{ModuleID: moduleID}
		card.ID = id
		m.Flashcards = append(m.Flashcards, card)
	case model.KindVideo:
		video := model.Video{ModuleID: moduleID}
		video.ID = id
		m.Videos = append(m.Videos, video)
	case model.KindQuiz:
		quiz := model.Quiz{ModuleID: moduleID}
		quiz.ID = id
		m.Quizzes = append(m.Quizzes, quiz)
	}
}

func rowKey(userID uint, id string) string {
	return fmt.Sprintf("%d:%s", userID, id)
}

func (f *FakeStore) Transaction(fn func(service.Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(txStore{f})
}

// txStore bypasses the outer mutex for calls made inside a transaction.
type txStore struct{ *FakeStore }

func (t txStore) Transaction(fn func(service.Store) error) error {
	return fn(t)
}

func (f *FakeStore) ResolveItem(itemID string) (*model.ResolvedItem, error) {
	if item, ok := f.items[itemID]; ok {
		return &item, nil
	}
	return nil, util.ErrNotFound
}

func (f *FakeStore) ModuleItems(moduleID string) (*model.ModuleItems, error) {
	m, ok := f.modules[moduleID]
	if !ok {
		return nil, util.ErrNotFound
	}
	items := &model.ModuleItems{}
	for _, c := range m.Flashcards {
		items.FlashcardIDs = append(items.FlashcardIDs, c.ID)
	}
	for _, v := range m.Videos {
		items.VideoIDs = append(items.VideoIDs, v.ID)
	}
	for _, q := range m.Quizzes {
		items.QuizIDs = append(items.QuizIDs, q.ID)
	}
	return items, nil
}

func (f *FakeStore) ModuleTitle(moduleID string) (string, error) {
	if m, ok := f.modules[moduleID]; ok {
		return m.Title, nil
	}
	return "", util.ErrNotFound
}

func (f *FakeStore) ModuleWithContent(moduleID string) (*model.TrainingModule, error) {
	if m, ok := f.modules[moduleID]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, util.ErrNotFound
}

func (f *FakeStore) ListModules(role model.UserRole) ([]model.TrainingModule, error) {
	var out []model.TrainingModule
	for _, m := range f.modules {
		if m.Role == role {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *FakeStore) CountModules(role model.UserRole) (int64, error) {
	ms, _ := f.ListModules(role)
	return int64(len(ms)), nil
}

func (f *FakeStore) GetItemProgress(userID uint, itemID string) (*model.ItemProgress, error) {
	if p, ok := f.itemRows[rowKey(userID, itemID)]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (f *FakeStore) SaveItemProgress(p *model.ItemProgress) error {
	if p.ID == "" {
		f.nextRowID++
		p.ID = fmt.Sprintf("row-%d", f.nextRowID)
	}
	copied := *p
	f.itemRows[rowKey(p.UserID, p.ItemID)] = &copied
	return nil
}

func (f *FakeStore) ListItemProgress(userID uint, itemIDs []string) ([]model.ItemProgress, error) {
	var out []model.ItemProgress
	for _, id := range itemIDs {
		if p, ok := f.itemRows[rowKey(userID, id)]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *FakeStore) GetModuleProgress(userID uint, moduleID string) (*model.ModuleProgress, error) {
	if p, ok := f.moduleRows[rowKey(userID, moduleID)]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (f *FakeStore) SaveModuleProgress(p *model.ModuleProgress) error {
	if p.ID == "" {
		f.nextRowID++
		p.ID = fmt.Sprintf("agg-%d", f.nextRowID)
	}
	copied := *p
	f.moduleRows[rowKey(p.UserID, p.ModuleID)] = &copied
	return nil
}

func (f *FakeStore) ListModuleProgress(userID uint, moduleIDs []string) ([]model.ModuleProgress, error) {
	var out []model.ModuleProgress
	for _, id := range moduleIDs {
		if p, ok := f.moduleRows[rowKey(userID, id)]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *FakeStore) GetUser(id uint) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, util.ErrUserNotFound
}

func (f *FakeStore) AddUserXP(userID uint, delta int) error {
	u, ok := f.users[userID]
	if !ok {
		return util.ErrUserNotFound
	}
	u.XP += delta
	return nil
}

func (f *FakeStore) ListUsersByRole(role model.UserRole) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.Role == role && !u.Disabled {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *FakeStore) ListAchievements(userID uint) ([]model.Achievement, error) {
	var out []model.Achievement
	for _, a := range f.achievements {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *FakeStore) CreateAchievement(a *model.Achievement) error {
	f.achievements = append(f.achievements, *a)
	return nil
}

func (f *FakeStore) HasModuleAchievement(userID uint, moduleID string) (bool, error) {
	for _, a := range f.achievements {
		if a.UserID == userID && a.ModuleID == moduleID {
			return true, nil
		}
	}
	return false, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (f *FakeStore) TouchCheckin(userID uint, day time.Time) (int, error) {
	d := dateOnly(day)
	key := rowKey(userID, d.Format("2006-01-02"))
	if row, ok := f.checkins[key]; ok {
		return row.StreakDays, nil
	}

	streak := 1
	yesterday := rowKey(userID, d.AddDate(0, 0, -1).Format("2006-01-02"))
	if prev, ok := f.checkins[yesterday]; ok {
		streak = prev.StreakDays + 1
	}
	f.checkins[key] = &model.Checkin{UserID: userID, Day: d, StreakDays: streak}
	return streak, nil
}

func (f *FakeStore) CurrentStreak(userID uint, today time.Time) (int, error) {
	d := dateOnly(today)
	if row, ok := f.checkins[rowKey(userID, d.Format("2006-01-02"))]; ok {
		return row.StreakDays, nil
	}
	if row, ok := f.checkins[rowKey(userID, d.AddDate(0, 0, -1).Format("2006-01-02"))]; ok {
		return row.StreakDays, nil
	}
	return 0, nil
}
