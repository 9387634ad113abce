package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/repository"
)

type LeaderboardService interface {
	RecordWin(ctx context.Context, name string) error
	Top(ctx context.Context) []entity.LeaderboardEntry
}

type leaderboardRepo interface {
	Save(ctx context.Context, entries []entity.LeaderboardEntry) error
	Load(ctx context.Context) ([]entity.LeaderboardEntry, error)
}

type leaderboardService struct {
	logger *slog.Logger
	repo   leaderboardRepo
}

func NewLeaderboardService(logger *slog.Logger, repo leaderboardRepo) LeaderboardService {
	return &leaderboardService{
		logger: logger.With("component", "leaderboard"),
		repo:   repo,
	}
}

// RecordWin - credits a win to the named player and rewrites the stored
// board, kept sorted by wins descending. Names match exactly, one entry per
// name.
func (that *leaderboardService) RecordWin(ctx context.Context, name string) error {
	entries := that.load(ctx)

	credited := false
	for i := range entries {
		if entries[i].Name == name {
			entries[i].Wins++
			credited = true
			break
		}
	}

	if !credited {
		entries = append(entries, entity.LeaderboardEntry{Name: name, Wins: 1})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Wins > entries[j].Wins
	})

	if err := that.repo.Save(ctx, entries); err != nil {
		return fmt.Errorf("failed to save leaderboard: %w", err)
	}

	return nil
}

// Top - returns the stored board, already sorted by wins descending.
func (that *leaderboardService) Top(ctx context.Context) []entity.LeaderboardEntry {
	return that.load(ctx)
}

// load - a missing or unreadable record degrades to an empty board;
// persistence is best-effort, never fatal to gameplay.
func (that *leaderboardService) load(ctx context.Context) []entity.LeaderboardEntry {
	entries, err := that.repo.Load(ctx)
	if errors.Is(err, repository.ErrLeaderboardNotFound) {
		return nil
	}

	if err != nil {
		that.logger.Warn("falling back to empty leaderboard", "error", err)
		return nil
	}

	return entries
}
