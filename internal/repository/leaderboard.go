package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
)

var ErrLeaderboardNotFound = errors.New("leaderboard not found")

// LeaderboardRepository - persists the whole win-count board as one JSON
// array under a fixed key, rewritten in full on every update.
type LeaderboardRepository interface {
	Save(ctx context.Context, entries []entity.LeaderboardEntry) error
	Load(ctx context.Context) ([]entity.LeaderboardEntry, error)
}

type dbLeaderboard struct {
	client *redis.Client
	key    string
}

func NewLeaderboardRepository(client *redis.Client, key string) LeaderboardRepository {
	return &dbLeaderboard{
		client: client,
		key:    key,
	}
}

func (that *dbLeaderboard) Save(ctx context.Context, entries []entity.LeaderboardEntry) error {
	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("could not marshal leaderboard: %w", err)
	}

	if err = that.client.Set(ctx, that.key, entriesJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set leaderboard: %w", err)
	}

	return nil
}

func (that *dbLeaderboard) Load(ctx context.Context) ([]entity.LeaderboardEntry, error) {
	response, err := that.client.Get(ctx, that.key).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrLeaderboardNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	var entries []entity.LeaderboardEntry
	if err = json.Unmarshal([]byte(response), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leaderboard: %w", err)
	}

	return entries, nil
}
