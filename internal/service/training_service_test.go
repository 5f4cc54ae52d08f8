package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/service"
	"projectgreen_backend/internal/testutil"
	"projectgreen_backend/internal/util"
)

func newTrainingService(store *testutil.FakeStore) *service.TrainingService {
	return service.NewTrainingService(store, service.NewLeaderboardService(store, nil))
}

// seedModule builds a CITIZEN module with two flashcards, one video and
// one quiz, which is enough to exercise every completion predicate.
func seedModule(store *testutil.FakeStore) {
	store.AddModule("m1", "Waste Segregation Basics", model.Citizen)
	store.AddItem("f1", model.KindFlashcard, "m1")
	store.AddItem("f2", model.KindFlashcard, "m1")
	store.AddItem("v1", model.KindVideo, "m1")
	store.AddItem("q1", model.KindQuiz, "m1")
}

func mastered(itemID string, xp int) model.ProgressEvent {
	return model.ProgressEvent{ModuleID: "m1", Type: model.KindFlashcard, ItemID: itemID, Status: util.StatusMastered, XP: xp}
}

func watched(itemID string, xp int) model.ProgressEvent {
	return model.ProgressEvent{ModuleID: "m1", Type: model.KindVideo, ItemID: itemID, Status: util.StatusCompleted, XP: xp}
}

func quizDone(itemID string, xp int, score int) model.ProgressEvent {
	return model.ProgressEvent{ModuleID: "m1", Type: model.KindQuiz, ItemID: itemID, Status: util.StatusCompleted, XP: xp, Score: &score}
}

func TestRecordItemProgressAggregates(t *testing.T) {
	store := testutil.NewFakeStore()
	seedModule(store)
	store.AddUser(1, "Asha", model.Citizen)
	svc := newTrainingService(store)
	ctx := context.Background()

	row, agg, err := svc.RecordItemProgress(ctx, 1, mastered("f1", 10))
	if err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	if !row.Completed || row.CompletedAt == nil {
		t.Errorf("flashcard row: completed=%v completedAt=%v", row.Completed, row.CompletedAt)
	}
	if agg.Completed {
		t.Error("module complete after one of four items")
	}
	if agg.XPEarned != 10 {
		t.Errorf("module xp = %d, want 10", agg.XPEarned)
	}

	if _, agg, err = svc.RecordItemProgress(ctx, 1, mastered("f2", 10)); err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	if _, agg, err = svc.RecordItemProgress(ctx, 1, watched("v1", 20)); err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	if agg.Completed {
		t.Error("module complete with quiz outstanding")
	}
	if agg.XPEarned != 40 {
		t.Errorf("module xp = %d, want 40", agg.XPEarned)
	}

	if _, agg, err = svc.RecordItemProgress(ctx, 1, quizDone("q1", 50, 80)); err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	if !agg.Completed || agg.CompletedAt == nil {
		t.Errorf("module aggregate: completed=%v completedAt=%v", agg.Completed, agg.CompletedAt)
	}
	if agg.XPEarned != 90 {
		t.Errorf("module xp = %d, want 90", agg.XPEarned)
	}

	user, _ := store.GetUser(1)
	if user.XP != 90 {
		t.Errorf("user xp = %d, want 90", user.XP)
	}
}

func TestResubmissionReplacesNotAdds(t *testing.T) {
	store := testutil.NewFakeStore()
	seedModule(store)
	store.AddUser(1, "Asha", model.Citizen)
	svc := newTrainingService(store)
	ctx := context.Background()

	if _, _, err := svc.RecordItemProgress(ctx, 1, quizDone("q1", 225, 90)); err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	row, agg, err := svc.RecordItemProgress(ctx, 1, quizDone("q1", 200, 80))
	if err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}

	if row.XPEarned != 200 {
		t.Errorf("row xp = %d, want 200 after resubmission", row.XPEarned)
	}
	if row.Score == nil || *row.Score != 80 {
		t.Errorf("row score = %v, want 80", row.Score)
	}
	if agg.XPEarned != 200 {
		t.Errorf("module xp = %d, want 200, resubmission must replace", agg.XPEarned)
	}
	user, _ := store.GetUser(1)
	if user.XP != 200 {
		t.Errorf("user xp = %d, want 200", user.XP)
	}
}

func TestResubmissionPreservesCompletedAt(t *testing.T) {
	store := testutil.NewFakeStore()
	seedModule(store)
	store.AddUser(1, "Asha", model.Citizen)
	svc := newTrainingService(store)
	ctx := context.Background()

	row1, _, err := svc.RecordItemProgress(ctx, 1, mastered("f1", 10))
	if err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	row2, _, err := svc.RecordItemProgress(ctx, 1, mastered("f1", 10))
	if err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	if row2.CompletedAt == nil || !row2.CompletedAt.Equal(*row1.CompletedAt) {
		t.Errorf("completedAt changed on still-complete resubmission: %v vs %v", row2.CompletedAt, row1.CompletedAt)
	}
}

func TestCompletionIsRevocable(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddModule("m1", "Compost At Home", model.Citizen)
	store.AddItem("f1", model.KindFlashcard, "m1")
	store.AddUser(1, "Asha", model.Citizen)
	svc := newTrainingService(store)
	ctx := context.Background()

	_, agg, err := svc.RecordItemProgress(ctx, 1, mastered("f1", 10))
	if err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	if !agg.Completed {
		t.Fatal("single-flashcard module should be complete")
	}

	ev := mastered("f1", 5)
	ev.Status = "IN_PROGRESS"
	row, agg, err := svc.RecordItemProgress(ctx, 1, ev)
	if err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	if row.Completed || row.CompletedAt != nil {
		t.Errorf("row after demotion: completed=%v completedAt=%v", row.Completed, row.CompletedAt)
	}
	if agg.Completed || agg.CompletedAt != nil {
		t.Errorf("aggregate after demotion: completed=%v completedAt=%v", agg.Completed, agg.CompletedAt)
	}
	user, _ := store.GetUser(1)
	if user.XP != 5 {
		t.Errorf("user xp = %d, want 5", user.XP)
	}
}

func TestRecordItemProgressValidation(t *testing.T) {
	store := testutil.NewFakeStore()
	seedModule(store)
	store.AddUser(1, "Asha", model.Citizen)
	store.AddModule("m2", "Hazardous Waste Handling", model.Worker)
	svc := newTrainingService(store)
	ctx := context.Background()

	tests := []struct {
		name    string
		ev      model.ProgressEvent
		wantErr error
	}{
		{"negative xp", model.ProgressEvent{ModuleID: "m1", Type: model.KindVideo, ItemID: "v1", Status: util.StatusCompleted, XP: -5}, util.ErrInvalidArgument},
		{"unknown type", model.ProgressEvent{ModuleID: "m1", Type: "PODCAST", ItemID: "v1", Status: util.StatusCompleted}, util.ErrInvalidArgument},
		{"unknown item", model.ProgressEvent{ModuleID: "m1", Type: model.KindVideo, ItemID: "nope", Status: util.StatusCompleted}, util.ErrNotFound},
		{"kind mismatch", model.ProgressEvent{ModuleID: "m1", Type: model.KindQuiz, ItemID: "v1", Status: util.StatusCompleted}, util.ErrInvalidArgument},
		{"wrong module", model.ProgressEvent{ModuleID: "m2", Type: model.KindVideo, ItemID: "v1", Status: util.StatusCompleted}, util.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.RecordItemProgress(ctx, 1, tt.ev); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNonQuizScoreIgnored(t *testing.T) {
	store := testutil.NewFakeStore()
	seedModule(store)
	store.AddUser(1, "Asha", model.Citizen)
	svc := newTrainingService(store)

	score := 95
	ev := watched("v1", 20)
	ev.Score = &score
	row, _, err := svc.RecordItemProgress(context.Background(), 1, ev)
	if err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	if row.Score != nil {
		t.Errorf("video row score = %v, want nil", *row.Score)
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddModule("m1", "Compost At Home", model.Citizen)
	store.AddItem("f1", model.KindFlashcard, "m1")
	store.AddUser(1, "Asha", model.Citizen)
	svc := newTrainingService(store)
	ctx := context.Background()

	_, first, err := svc.RecordItemProgress(ctx, 1, mastered("f1", 10))
	if err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}

	again, err := svc.RecomputeModuleProgress(ctx, 1, "m1")
	if err != nil {
		t.Fatalf("RecomputeModuleProgress: %v", err)
	}
	if again.Completed != first.Completed || again.XPEarned != first.XPEarned {
		t.Errorf("recompute changed aggregate: %+v vs %+v", again, first)
	}
	if again.CompletedAt == nil || !again.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("recompute moved completedAt: %v vs %v", again.CompletedAt, first.CompletedAt)
	}
	user, _ := store.GetUser(1)
	if user.XP != 10 {
		t.Errorf("user xp = %d after idempotent recompute, want 10", user.XP)
	}
}

func TestBadgeAwardedOncePerModule(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddModule("m1", "Compost At Home", model.Citizen)
	store.AddItem("f1", model.KindFlashcard, "m1")
	store.AddUser(1, "Asha", model.Citizen)
	svc := newTrainingService(store)
	ctx := context.Background()

	if _, _, err := svc.RecordItemProgress(ctx, 1, mastered("f1", 10)); err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}

	// Lose and regain completion; the badge must not be granted twice.
	ev := mastered("f1", 10)
	ev.Status = "IN_PROGRESS"
	if _, _, err := svc.RecordItemProgress(ctx, 1, ev); err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	if _, _, err := svc.RecordItemProgress(ctx, 1, mastered("f1", 10)); err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}

	badges, _ := store.ListAchievements(1)
	if len(badges) != 1 {
		t.Fatalf("achievements = %d, want 1", len(badges))
	}
	if badges[0].Name != "Completed: Compost At Home" {
		t.Errorf("badge name = %q", badges[0].Name)
	}
}

func TestConcurrentSubmissionsSameModule(t *testing.T) {
	store := testutil.NewFakeStore()
	seedModule(store)
	store.AddUser(1, "Asha", model.Citizen)
	svc := newTrainingService(store)
	ctx := context.Background()

	events := []model.ProgressEvent{
		mastered("f1", 10),
		mastered("f2", 10),
		watched("v1", 20),
		quizDone("q1", 50, 80),
	}

	var wg sync.WaitGroup
	for _, ev := range events {
		wg.Add(1)
		go func(ev model.ProgressEvent) {
			defer wg.Done()
			if _, _, err := svc.RecordItemProgress(ctx, 1, ev); err != nil {
				t.Errorf("RecordItemProgress(%s): %v", ev.ItemID, err)
			}
		}(ev)
	}
	wg.Wait()

	agg, err := svc.GetModuleProgress(1, "m1")
	if err != nil {
		t.Fatalf("GetModuleProgress: %v", err)
	}
	if !agg.Completed {
		t.Error("module not complete after all items submitted concurrently")
	}
	if agg.XPEarned != 90 {
		t.Errorf("module xp = %d, want 90", agg.XPEarned)
	}
	user, _ := store.GetUser(1)
	if user.XP != 90 {
		t.Errorf("user xp = %d, want 90", user.XP)
	}
}

func TestGetModuleProgressUntouchedModule(t *testing.T) {
	store := testutil.NewFakeStore()
	seedModule(store)
	store.AddUser(1, "Asha", model.Citizen)
	svc := newTrainingService(store)

	agg, err := svc.GetModuleProgress(1, "m1")
	if err != nil {
		t.Fatalf("GetModuleProgress: %v", err)
	}
	if agg.Completed || agg.XPEarned != 0 {
		t.Errorf("untouched module aggregate = %+v, want empty", agg)
	}

	if _, err := svc.GetModuleProgress(1, "missing"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("unknown module err = %v, want ErrNotFound", err)
	}
}

func TestGetModulesStates(t *testing.T) {
	store := testutil.NewFakeStore()
	seedModule(store)
	store.AddModule("m2", "Recycling Streams", model.Citizen)
	store.AddItem("f3", model.KindFlashcard, "m2")
	store.AddUser(1, "Asha", model.Citizen)
	svc := newTrainingService(store)

	if _, _, err := svc.RecordItemProgress(context.Background(), 1, mastered("f1", 10)); err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}

	modules, err := svc.GetModules(model.Citizen, 1)
	if err != nil {
		t.Fatalf("GetModules: %v", err)
	}
	states := make(map[string]model.ModuleState, len(modules))
	for _, m := range modules {
		states[m.ID] = m.State
	}
	if states["m1"] != model.StateInProgress {
		t.Errorf("m1 state = %s, want IN_PROGRESS", states["m1"])
	}
	if states["m2"] != model.StateNotStarted {
		t.Errorf("m2 state = %s, want NOT_STARTED", states["m2"])
	}
}

func TestOverallProgressProfile(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddModule("m1", "Compost At Home", model.Citizen)
	store.AddItem("f1", model.KindFlashcard, "m1")
	store.AddModule("m2", "Recycling Streams", model.Citizen)
	store.AddItem("f2", model.KindFlashcard, "m2")
	store.AddModule("w1", "Route Safety", model.Worker)
	store.AddUser(1, "Asha", model.Citizen)
	svc := newTrainingService(store)
	ctx := context.Background()

	if _, _, err := svc.RecordItemProgress(ctx, 1, mastered("f1", 120)); err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}
	ev := model.ProgressEvent{ModuleID: "m2", Type: model.KindFlashcard, ItemID: "f2", Status: "IN_PROGRESS", XP: 30}
	if _, _, err := svc.RecordItemProgress(ctx, 1, ev); err != nil {
		t.Fatalf("RecordItemProgress: %v", err)
	}

	p, err := svc.GetUserOverallProgress(1, model.Citizen)
	if err != nil {
		t.Fatalf("GetUserOverallProgress: %v", err)
	}
	if p.XP != 150 {
		t.Errorf("xp = %d, want 150", p.XP)
	}
	if p.Level != 2 {
		t.Errorf("level = %d, want 2", p.Level)
	}
	if p.XPToNext != 50 {
		t.Errorf("xpToNext = %d, want 50", p.XPToNext)
	}
	if p.CompletedModules != 1 {
		t.Errorf("completedModules = %d, want 1", p.CompletedModules)
	}
	if p.TotalModules != 2 {
		t.Errorf("totalModules = %d, want 2 (worker module excluded)", p.TotalModules)
	}
	if p.Streak != 1 {
		t.Errorf("streak = %d, want 1", p.Streak)
	}
	if len(p.Achievements) != 1 {
		t.Errorf("achievements = %d, want 1", len(p.Achievements))
	}
}

func TestProfileLevelBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		xp       int
		level    int
		xpToNext int
	}{
		{"fresh account", 0, 1, 100},
		{"exact multiple of 100", 100, 2, 100},
		{"mid level", 250, 3, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewFakeStore()
			store.AddModule("m1", "Compost At Home", model.Citizen)
			store.AddItem("f1", model.KindFlashcard, "m1")
			store.AddUser(1, "Asha", model.Citizen)
			svc := newTrainingService(store)

			if tt.xp > 0 {
				if _, _, err := svc.RecordItemProgress(context.Background(), 1, mastered("f1", tt.xp)); err != nil {
					t.Fatalf("RecordItemProgress: %v", err)
				}
			}

			p, err := svc.GetUserOverallProgress(1, model.Citizen)
			if err != nil {
				t.Fatalf("GetUserOverallProgress: %v", err)
			}
			if p.XP != tt.xp {
				t.Errorf("xp = %d, want %d", p.XP, tt.xp)
			}
			if p.Level != tt.level {
				t.Errorf("level at xp %d = %d, want %d", tt.xp, p.Level, tt.level)
			}
			if p.XPToNext != tt.xpToNext {
				t.Errorf("xpToNext at xp %d = %d, want %d", tt.xp, p.XPToNext, tt.xpToNext)
			}
		})
	}
}
