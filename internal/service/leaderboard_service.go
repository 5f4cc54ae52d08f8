package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"projectgreen_backend/internal/model"
	"projectgreen_backend/internal/util"
	"projectgreen_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardTTL = 30 * time.Second

// LeaderboardService ranks the users of a role by total XP. Ordering is
// deterministic: XP descending, ties broken by ascending user id. Results
// are cached in redis and invalidated whenever a recompute changes any
// user's XP, so a cache hit can never serve a stale ranking.
type LeaderboardService struct {
	store Store
	rdb   *redis.Client // nil disables caching
}

func NewLeaderboardService(store Store, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{store: store, rdb: rdb}
}

func leaderboardKey(role model.UserRole) string {
	return "training:leaderboard:" + string(role)
}

// GetLeaderboard returns the full ranked set for a role.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, role model.UserRole) ([]model.LeaderboardEntry, error) {
	if role != model.Citizen && role != model.Worker {
		return nil, util.ErrInvalidArgument
	}

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, leaderboardKey(role)).Result()
		if err == nil {
			var entries []model.LeaderboardEntry
			if jsonErr := json.Unmarshal([]byte(cached), &entries); jsonErr == nil {
				return entries, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
		}
	}

	entries, err := s.rank(role)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.rdb.Set(ctx, leaderboardKey(role), payload, leaderboardTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	return entries, nil
}

// GetMyRank returns the caller's entry even when they are nowhere near
// the top: it searches the full ranked set, not a top-K slice.
func (s *LeaderboardService) GetMyRank(ctx context.Context, userID uint) (*model.MyRank, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.GetLeaderboard(ctx, user.Role)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].UserID == userID {
			return &model.MyRank{
				LeaderboardEntry: entries[i],
				TotalUsers:       len(entries),
			}, nil
		}
	}
	return nil, util.ErrNotFound
}

// Invalidate drops the cached ranking for a role after an XP change.
func (s *LeaderboardService) Invalidate(ctx context.Context, role model.UserRole) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, leaderboardKey(role)).Err(); err != nil {
		logger.Log.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}

func (s *LeaderboardService) rank(role model.UserRole) ([]model.LeaderboardEntry, error) {
	users, err := s.store.ListUsersByRole(role)
	if err != nil {
		return nil, err
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].XP != users[j].XP {
			return users[i].XP > users[j].XP
		}
		return users[i].ID < users[j].ID
	})

	entries := make([]model.LeaderboardEntry, len(users))
	for i := range users {
		entries[i] = model.LeaderboardEntry{
			UserID: users[i].ID,
			Name:   users[i].Name,
			Role:   users[i].Role,
			XP:     users[i].XP,
			Rank:   i + 1,
		}
	}
	return entries, nil
}
