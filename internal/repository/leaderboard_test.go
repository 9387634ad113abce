package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/testing/suite"
)

const testKey = "tictactoe:leaderboard"

func TestLeaderboardRepository_SaveLoad(t *testing.T) {
	ctx, st := suite.New(t)

	leaderboardRepo := NewLeaderboardRepository(st.Storage, testKey)

	// Given: a sorted board
	entries := []entity.LeaderboardEntry{
		{Name: "Ann", Wins: 3},
		{Name: "Bo", Wins: 1},
	}

	// When: saving and loading it back
	require.NoError(t, leaderboardRepo.Save(ctx, entries))

	loaded, err := leaderboardRepo.Load(ctx)

	// Then: the round trip preserves entries and order
	require.NoError(t, err)
	require.Equal(t, entries, loaded)
}

func TestLeaderboardRepository_Load(t *testing.T) {
	t.Run("Load_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		leaderboardRepo := NewLeaderboardRepository(st.Storage, testKey)

		// When: loading with nothing stored
		loaded, err := leaderboardRepo.Load(ctx)

		// Then: ErrLeaderboardNotFound is returned
		require.Error(t, err)
		assert.Equal(t, ErrLeaderboardNotFound, err)
		assert.Empty(t, loaded)
	})

	t.Run("Load_CorruptRecord", func(t *testing.T) {
		ctx, st := suite.New(t)

		leaderboardRepo := NewLeaderboardRepository(st.Storage, testKey)

		// Given: garbage under the leaderboard key
		require.NoError(t, st.Storage.Set(ctx, testKey, "not json", 0).Err())

		// When: loading
		_, err := leaderboardRepo.Load(ctx)

		// Then: the corruption surfaces as an unmarshal error
		require.Error(t, err)
		assert.NotEqual(t, ErrLeaderboardNotFound, err)
	})
}

func TestLeaderboardRepository_SaveRewritesInFull(t *testing.T) {
	ctx, st := suite.New(t)

	leaderboardRepo := NewLeaderboardRepository(st.Storage, testKey)

	// Given: an earlier, larger record
	require.NoError(t, leaderboardRepo.Save(ctx, []entity.LeaderboardEntry{
		{Name: "Ann", Wins: 1},
		{Name: "Bo", Wins: 1},
	}))

	// When: saving a smaller board
	require.NoError(t, leaderboardRepo.Save(ctx, []entity.LeaderboardEntry{{Name: "Cy", Wins: 4}}))

	loaded, err := leaderboardRepo.Load(ctx)

	// Then: the record was replaced wholesale
	require.NoError(t, err)
	require.Equal(t, []entity.LeaderboardEntry{{Name: "Cy", Wins: 4}}, loaded)
}
