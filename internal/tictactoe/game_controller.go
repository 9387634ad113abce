package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
)

// MakeTurn - validates and applies a single move on the canonical state.
// Only the host calls this; any validation failure leaves the state untouched.
func MakeTurn(state *entity.GameState, mark string, cell int) error {
	if state.IsFinished() {
		return apperror.ErrGameFinished
	}

	if err := validateMove(state, mark, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	state.Board[cell] = mark
	updateGameStatus(state, mark)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(state *entity.GameState, mark string, cell int) error {
	if cell < 0 || cell >= len(state.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if state.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if state.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameStatus - recomputes the result after a move. The turn flips only
// while the game stays in progress, so a decided game retains the mark that
// ended it.
func updateGameStatus(state *entity.GameState, mark string) {
	switch result := state.DetermineResult(); result {
	case entity.PlayerX, entity.PlayerO, entity.WinnerDraw:
		state.Winner = result
	default:
		state.Turn = toggleMark(mark)
	}
}

func toggleMark(currentMark string) string {
	if currentMark == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}
