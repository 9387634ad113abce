package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameState_DetermineResult(t *testing.T) {
	t.Run("Returns PlayerX when X completes a row", func(t *testing.T) {
		// Given: a board where X holds the top row
		state := &GameState{
			Board: [9]string{
				PlayerX, PlayerX, PlayerX,
				PlayerO, PlayerO, EmptyCell,
				EmptyCell, EmptyCell, EmptyCell,
			},
		}

		// When: determining the result
		result := state.DetermineResult()

		// Then: X is the winner
		assert.Equal(t, PlayerX, result)
	})

	t.Run("Returns PlayerO when O completes a column", func(t *testing.T) {
		// Given: a board where O holds the first column
		state := &GameState{
			Board: [9]string{
				PlayerO, PlayerX, PlayerX,
				PlayerO, PlayerX, EmptyCell,
				PlayerO, EmptyCell, EmptyCell,
			},
		}

		// When: determining the result
		result := state.DetermineResult()

		// Then: O is the winner
		assert.Equal(t, PlayerO, result)
	})

	t.Run("Returns the winner regardless of the remaining cells", func(t *testing.T) {
		// Given: a full board where X holds a diagonal
		state := &GameState{
			Board: [9]string{
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
				PlayerO, PlayerX, PlayerX,
			},
		}

		// When: determining the result
		result := state.DetermineResult()

		// Then: the diagonal wins even though every cell is occupied
		assert.Equal(t, PlayerX, result)
	})

	t.Run("Returns WinnerDraw on a full board with no line", func(t *testing.T) {
		// Given: a full board with no three-in-a-row
		state := &GameState{
			Board: [9]string{
				PlayerX, PlayerO, PlayerX,
				PlayerO, PlayerX, PlayerO,
				PlayerO, PlayerX, PlayerO,
			},
		}

		// When: determining the result
		result := state.DetermineResult()

		// Then: the game is a draw
		assert.Equal(t, WinnerDraw, result)
	})

	t.Run("Returns EmptyCell while the game is in progress", func(t *testing.T) {
		// Given: a board with no line and at least one empty cell
		state := &GameState{
			Board: [9]string{
				PlayerX, PlayerO, EmptyCell,
				EmptyCell, PlayerX, EmptyCell,
				EmptyCell, EmptyCell, PlayerO,
			},
		}

		// When: determining the result
		result := state.DetermineResult()

		// Then: there is no result yet
		assert.Equal(t, EmptyCell, result)
	})
}

func TestNewGameState(t *testing.T) {
	// Given: a host and a guest name
	state := NewGameState("Ann", "Bo")

	// Then: the board is empty, X opens, and both names are mapped
	assert.Equal(t, [9]string{}, state.Board)
	assert.Equal(t, PlayerX, state.Turn)
	assert.Equal(t, EmptyCell, state.Winner)
	assert.Equal(t, Players{X: "Ann", O: "Bo"}, state.Players)
	assert.False(t, state.IsFinished())
}

func TestGameState_Reset(t *testing.T) {
	// Given: a decided game
	state := NewGameState("Ann", "Bo")
	state.Board = [9]string{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO, EmptyCell, EmptyCell, EmptyCell, EmptyCell}
	state.Turn = PlayerX
	state.Winner = PlayerX

	// When: resetting for a rematch
	state.Reset()

	// Then: the board is cleared, X opens again, and names survive
	require.Equal(t, [9]string{}, state.Board)
	assert.Equal(t, PlayerX, state.Turn)
	assert.Equal(t, EmptyCell, state.Winner)
	assert.Equal(t, Players{X: "Ann", O: "Bo"}, state.Players)
}

func TestGameState_WinnerName(t *testing.T) {
	t.Run("Resolves the winning mark to a name", func(t *testing.T) {
		// Given: a game won by O
		state := NewGameState("Ann", "Bo")
		state.Winner = PlayerO

		// Then: the winner's name is the guest's
		assert.Equal(t, "Bo", state.WinnerName())
	})

	t.Run("Returns empty on a draw", func(t *testing.T) {
		// Given: a drawn game
		state := NewGameState("Ann", "Bo")
		state.Winner = WinnerDraw

		// Then: nobody is credited
		assert.Empty(t, state.WinnerName())
		assert.True(t, state.IsDraw())
	})

	t.Run("Returns empty while in progress", func(t *testing.T) {
		// Given: a fresh game
		state := NewGameState("Ann", "Bo")

		// Then: nobody is credited
		assert.Empty(t, state.WinnerName())
	})
}
