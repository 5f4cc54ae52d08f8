package service_test

import (
	"context"
	"errors"
	"testing"

	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/service"
	"projectgreen_backend/internal/testutil"
	"projectgreen_backend/internal/util"
)

func TestLeaderboardOrdering(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddUser(1, "Asha", model.Citizen).XP = 120
	store.AddUser(2, "Binod", model.Citizen).XP = 300
	store.AddUser(3, "Chitra", model.Citizen).XP = 120
	store.AddUser(4, "Dev", model.Worker).XP = 999
	svc := service.NewLeaderboardService(store, nil)

	entries, err := svc.GetLeaderboard(context.Background(), model.Citizen)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3 (worker excluded)", len(entries))
	}

	// XP descending, ties broken by ascending user id.
	wantOrder := []uint{2, 1, 3}
	for i, want := range wantOrder {
		if entries[i].UserID != want {
			t.Errorf("rank %d userID = %d, want %d", i+1, entries[i].UserID, want)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, entries[i].Rank, i+1)
		}
	}
}

func TestLeaderboardExcludesDisabled(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddUser(1, "Asha", model.Citizen).XP = 50
	disabled := store.AddUser(2, "Binod", model.Citizen)
	disabled.XP = 500
	disabled.Disabled = true
	svc := service.NewLeaderboardService(store, nil)

	entries, err := svc.GetLeaderboard(context.Background(), model.Citizen)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].UserID != 1 {
		t.Errorf("entries = %+v, want only user 1", entries)
	}
}

func TestLeaderboardRejectsUnknownRole(t *testing.T) {
	svc := service.NewLeaderboardService(testutil.NewFakeStore(), nil)
	if _, err := svc.GetLeaderboard(context.Background(), "MANAGER"); !errors.Is(err, util.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.GetLeaderboard(context.Background(), model.Admin); !errors.Is(err, util.ErrInvalidArgument) {
		t.Errorf("admin err = %v, want ErrInvalidArgument", err)
	}
}

func TestGetMyRankDeepInTheSet(t *testing.T) {
	store := testutil.NewFakeStore()
	for i := uint(1); i <= 50; i++ {
		store.AddUser(i, "user", model.Citizen).XP = int(1000 - i)
	}
	svc := service.NewLeaderboardService(store, nil)

	rank, err := svc.GetMyRank(context.Background(), 50)
	if err != nil {
		t.Fatalf("GetMyRank: %v", err)
	}
	if rank.Rank != 50 {
		t.Errorf("rank = %d, want 50", rank.Rank)
	}
	if rank.TotalUsers != 50 {
		t.Errorf("totalUsers = %d, want 50", rank.TotalUsers)
	}
	if rank.XP != 950 {
		t.Errorf("xp = %d, want 950", rank.XP)
	}
}

func TestGetMyRankUnknownUser(t *testing.T) {
	svc := service.NewLeaderboardService(testutil.NewFakeStore(), nil)
	if _, err := svc.GetMyRank(context.Background(), 42); !errors.Is(err, util.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
