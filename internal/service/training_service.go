package service

import (
	"context"
	"fmt"
	"time"

	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/util"
	"projectgreen_backend/pkg/logger"
	"projectgreen_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// TrainingService is the progress aggregation engine: it records item
// progress, derives module completion and the user's overall profile, and
// keeps the denormalized user XP in step.
type TrainingService struct {
	store       Store
	leaderboard *LeaderboardService
	locks       keyedMutex
}

func NewTrainingService(store Store, leaderboard *LeaderboardService) *TrainingService {
	return &TrainingService{
		store:       store,
		leaderboard: leaderboard,
	}
}

func progressKey(userID uint, moduleID string) string {
	return fmt.Sprintf("%d:%s", userID, moduleID)
}

// itemCompleted evaluates the kind-specific completion predicate of a
// submission. Anything other than the expected status records the item
// as not completed; unknown kinds are rejected before this point.
func itemCompleted(kind model.ItemKind, status string) bool {
	switch kind {
	case model.KindFlashcard:
		return status == util.StatusMastered
	default:
		return status == util.StatusCompleted
	}
}

// RecordItemProgress upserts the caller's progress for one learning item
// and synchronously recomputes the owning module's aggregate. The upsert
// and the recompute run in one transaction under a per-(user, module)
// lock, so concurrent submissions for the same module cannot read a stale
// row set.
//
// Resubmission replaces the row's predicate, score and xp; it never
// double-counts.
func (s *TrainingService) RecordItemProgress(ctx context.Context, userID uint, ev model.ProgressEvent) (*model.ItemProgress, *model.ModuleProgress, error) {
	if ev.XP < 0 {
		return nil, nil, fmt.Errorf("%w: xp must be non-negative", util.ErrInvalidArgument)
	}
	switch ev.Type {
	case model.KindFlashcard, model.KindVideo, model.KindQuiz:
	default:
		return nil, nil, fmt.Errorf("%w: unsupported progress type %q", util.ErrInvalidArgument, ev.Type)
	}

	item, err := s.store.ResolveItem(ev.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if item.Kind != ev.Type {
		return nil, nil, fmt.Errorf("%w: item %s is a %s, not a %s", util.ErrInvalidArgument, ev.ItemID, item.Kind, ev.Type)
	}
	if ev.ModuleID != "" && ev.ModuleID != item.ModuleID {
		return nil, nil, fmt.Errorf("%w: item %s does not belong to module %s", util.ErrInvalidArgument, ev.ItemID, ev.ModuleID)
	}

	unlock := s.locks.Lock(progressKey(userID, item.ModuleID))
	defer unlock()

	var (
		row  *model.ItemProgress
		agg  *model.ModuleProgress
		role model.UserRole
	)
	err = s.store.Transaction(func(tx Store) error {
		now := time.Now()

		existing, err := tx.GetItemProgress(userID, ev.ItemID)
		if err != nil {
			return err
		}
		if existing == nil {
			existing = &model.ItemProgress{
				UserID:   userID,
				ItemID:   ev.ItemID,
				ModuleID: item.ModuleID,
				Kind:     item.Kind,
			}
		}

		completed := itemCompleted(item.Kind, ev.Status)
		existing.XPEarned = ev.XP
		if item.Kind == model.KindQuiz {
			existing.Score = ev.Score
		} else {
			existing.Score = nil
		}
		if completed {
			if !existing.Completed || existing.CompletedAt == nil {
				t := now
				existing.CompletedAt = &t
			}
		} else {
			existing.CompletedAt = nil
		}
		existing.Completed = completed

		if err := tx.SaveItemProgress(existing); err != nil {
			return err
		}

		agg, err = s.recompute(tx, userID, item.ModuleID, now)
		if err != nil {
			return err
		}

		if _, err := tx.TouchCheckin(userID, now); err != nil {
			return err
		}

		user, err := tx.GetUser(userID)
		if err != nil {
			return err
		}
		role = user.Role

		row = existing
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	monitoring.ProgressEvents.WithLabelValues(string(item.Kind)).Inc()
	s.leaderboard.Invalidate(ctx, role)

	return row, agg, nil
}

// RecomputeModuleProgress re-derives the (user, module) aggregate from
// the current item rows. Idempotent: with no intervening item change it
// rewrites the same values and leaves completedAt untouched.
func (s *TrainingService) RecomputeModuleProgress(ctx context.Context, userID uint, moduleID string) (*model.ModuleProgress, error) {
	unlock := s.locks.Lock(progressKey(userID, moduleID))
	defer unlock()

	var (
		agg  *model.ModuleProgress
		role model.UserRole
	)
	err := s.store.Transaction(func(tx Store) error {
		var err error
		agg, err = s.recompute(tx, userID, moduleID, time.Now())
		if err != nil {
			return err
		}
		user, err := tx.GetUser(userID)
		if err != nil {
			return err
		}
		role = user.Role
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.leaderboard.Invalidate(ctx, role)
	return agg, nil
}

// recompute must run inside a transaction with the (user, module) lock
// held. Completion is conjunctive over the module's current item set:
// every flashcard mastered, every video watched, every quiz submitted as
// completed; an empty kind is vacuously satisfied. XP is the sum over
// all matched rows whether or not they are individually complete.
func (s *TrainingService) recompute(tx Store, userID uint, moduleID string, now time.Time) (*model.ModuleProgress, error) {
	items, err := tx.ModuleItems(moduleID)
	if err != nil {
		return nil, err
	}

	rows, err := tx.ListItemProgress(userID, items.AllIDs())
	if err != nil {
		return nil, err
	}
	byItem := make(map[string]*model.ItemProgress, len(rows))
	for i := range rows {
		byItem[rows[i].ItemID] = &rows[i]
	}

	completed := true
	for _, id := range items.FlashcardIDs {
		if p, ok := byItem[id]; !ok || !p.Completed {
			completed = false
			break
		}
	}
	if completed {
		for _, id := range items.VideoIDs {
			if p, ok := byItem[id]; !ok || !p.Completed {
				completed = false
				break
			}
		}
	}
	if completed {
		for _, id := range items.QuizIDs {
			if p, ok := byItem[id]; !ok || p.CompletedAt == nil {
				completed = false
				break
			}
		}
	}

	xp := 0
	for i := range rows {
		xp += rows[i].XPEarned
	}

	agg, err := tx.GetModuleProgress(userID, moduleID)
	if err != nil {
		return nil, err
	}
	if agg == nil {
		agg = &model.ModuleProgress{UserID: userID, ModuleID: moduleID}
	}

	wasCompleted := agg.Completed
	prevXP := agg.XPEarned

	agg.XPEarned = xp
	if completed {
		if !wasCompleted || agg.CompletedAt == nil {
			t := now
			agg.CompletedAt = &t
		}
	} else {
		agg.CompletedAt = nil
	}
	agg.Completed = completed

	if err := tx.SaveModuleProgress(agg); err != nil {
		return nil, err
	}

	if delta := xp - prevXP; delta != 0 {
		if err := tx.AddUserXP(userID, delta); err != nil {
			return nil, err
		}
	}

	if completed && !wasCompleted {
		monitoring.ModulesCompleted.Inc()
		if err := s.awardModuleBadge(tx, userID, moduleID, xp); err != nil {
			return nil, err
		}
		logger.Log.Info("module completed",
			zap.Uint("userID", userID),
			zap.String("moduleID", moduleID),
			zap.Int("xp", xp),
		)
	}

	return agg, nil
}

// awardModuleBadge grants the first-completion badge for a module,
// exactly once per (user, module).
func (s *TrainingService) awardModuleBadge(tx Store, userID uint, moduleID string, xp int) error {
	has, err := tx.HasModuleAchievement(userID, moduleID)
	if err != nil || has {
		return err
	}
	title, err := tx.ModuleTitle(moduleID)
	if err != nil {
		return err
	}
	return tx.CreateAchievement(&model.Achievement{
		UserID:   userID,
		ModuleID: moduleID,
		Name:     fmt.Sprintf("Completed: %s", title),
		Icon:     "medal",
		EarnedXP: xp,
	})
}

// GetModules returns the role's catalog. With a non-zero userID the
// caller's module aggregates and item rows are attached.
func (s *TrainingService) GetModules(role model.UserRole, userID uint) ([]model.ModuleWithProgress, error) {
	modules, err := s.store.ListModules(role)
	if err != nil {
		return nil, err
	}

	out := make([]model.ModuleWithProgress, 0, len(modules))
	if userID == 0 {
		for i := range modules {
			out = append(out, model.ModuleWithProgress{
				TrainingModule: modules[i],
				State:          model.StateNotStarted,
			})
		}
		return out, nil
	}

	moduleIDs := make([]string, len(modules))
	for i := range modules {
		moduleIDs[i] = modules[i].ID
	}
	aggs, err := s.store.ListModuleProgress(userID, moduleIDs)
	if err != nil {
		return nil, err
	}
	aggByModule := make(map[string]*model.ModuleProgress, len(aggs))
	for i := range aggs {
		aggByModule[aggs[i].ModuleID] = &aggs[i]
	}

	for i := range modules {
		decorated, err := s.decorate(&modules[i], userID, aggByModule[modules[i].ID])
		if err != nil {
			return nil, err
		}
		out = append(out, *decorated)
	}
	return out, nil
}

// GetModuleByID returns one module with full content, decorated with the
// caller's progress when userID is non-zero.
func (s *TrainingService) GetModuleByID(moduleID string, userID uint) (*model.ModuleWithProgress, error) {
	module, err := s.store.ModuleWithContent(moduleID)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		return &model.ModuleWithProgress{TrainingModule: *module, State: model.StateNotStarted}, nil
	}
	agg, err := s.store.GetModuleProgress(userID, moduleID)
	if err != nil {
		return nil, err
	}
	return s.decorate(module, userID, agg)
}

func (s *TrainingService) decorate(module *model.TrainingModule, userID uint, agg *model.ModuleProgress) (*model.ModuleWithProgress, error) {
	items, err := s.store.ModuleItems(module.ID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListItemProgress(userID, items.AllIDs())
	if err != nil {
		return nil, err
	}
	return &model.ModuleWithProgress{
		TrainingModule: *module,
		Progress:       agg,
		State:          agg.State(len(rows)),
		ItemProgress:   rows,
	}, nil
}

// GetModuleProgress returns the caller's aggregate for one module. A
// module never touched yields a synthesized empty aggregate, not an
// error.
func (s *TrainingService) GetModuleProgress(userID uint, moduleID string) (*model.ModuleProgress, error) {
	if _, err := s.store.ModuleItems(moduleID); err != nil {
		return nil, err
	}
	agg, err := s.store.GetModuleProgress(userID, moduleID)
	if err != nil {
		return nil, err
	}
	if agg == nil {
		agg = &model.ModuleProgress{UserID: userID, ModuleID: moduleID}
	}
	return agg, nil
}

// GetUserOverallProgress derives the caller's training profile from
// their module aggregates, restricted to the role's catalog.
func (s *TrainingService) GetUserOverallProgress(userID uint, role model.UserRole) (*model.OverallProgress, error) {
	modules, err := s.store.ListModules(role)
	if err != nil {
		return nil, err
	}
	moduleIDs := make([]string, len(modules))
	for i := range modules {
		moduleIDs[i] = modules[i].ID
	}

	aggs, err := s.store.ListModuleProgress(userID, moduleIDs)
	if err != nil {
		return nil, err
	}

	xp := 0
	completedModules := 0
	for i := range aggs {
		xp += aggs[i].XPEarned
		if aggs[i].Completed {
			completedModules++
		}
	}

	streak, err := s.store.CurrentStreak(userID, time.Now())
	if err != nil {
		return nil, err
	}
	achievements, err := s.store.ListAchievements(userID)
	if err != nil {
		return nil, err
	}
	if achievements == nil {
		achievements = []model.Achievement{}
	}

	return &model.OverallProgress{
		XP:               xp,
		Level:            xp/util.XPPerLevel + 1,
		XPToNext:         util.XPPerLevel - xp%util.XPPerLevel,
		CompletedModules: completedModules,
		TotalModules:     len(modules),
		Streak:           streak,
		Achievements:     achievements,
	}, nil
}
