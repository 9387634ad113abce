package session

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/protocol"
)

// handleMessage - single entry point for inbound room messages. Runs under
// the session mutex, so message handling never overlaps a user action.
// Unknown kinds and messages that make no sense in the current phase are
// dropped.
func (that *Controller) handleMessage(ctx context.Context, msg *protocol.Message) {
	that.mu.Lock()
	defer that.mu.Unlock()

	handler, ok := that.handlers[msg.Type]
	if !ok {
		that.logger.Debug("dropping unknown message", "type", msg.Type)
		return
	}

	handler(ctx, msg)
}

// handlePlayerJoined - host only: the second participant is here, so build
// the canonical initial state and announce the game.
func (that *Controller) handlePlayerJoined(ctx context.Context, msg *protocol.Message) {
	log := that.logger.With("method", "handlePlayerJoined", "roomID", that.roomID)

	if !that.isHost || that.phase != PhaseLobby {
		log.Debug("dropping unexpected message", "type", msg.Type, "phase", that.phase)
		return
	}

	payload, err := msg.PlayerJoined()
	if err != nil {
		log.Warn("dropping malformed message", "error", err)
		return
	}

	guestName := payload.PlayerName
	if guestName == "" {
		guestName = defaultGuestName
	}

	that.playerCount = 2
	that.game = entity.NewGameState(that.playerName, guestName)
	that.phase = PhaseActive

	if err = that.transport.Send(ctx, protocol.NewGameStart(that.game)); err != nil {
		log.Error("failed to announce game start", "error", err)
	}

	log.Info("game started", "guest", guestName)
	that.notifyUpdateLocked()
}

// handleGameStart - guest only: adopt the host's initial state verbatim.
func (that *Controller) handleGameStart(_ context.Context, msg *protocol.Message) {
	log := that.logger.With("method", "handleGameStart", "roomID", that.roomID)

	if that.isHost || that.phase != PhaseLobby {
		log.Debug("dropping unexpected message", "type", msg.Type, "phase", that.phase)
		return
	}

	payload, err := msg.GameStart()
	if err != nil || payload.GameState == nil {
		log.Warn("dropping malformed message", "error", err)
		return
	}

	that.playerCount = 2
	that.game = payload.GameState
	that.phase = PhaseActive

	log.Info("game started")
	that.notifyUpdateLocked()
}

// handleMakeMove - host only: a guest requested a move; validate and apply.
func (that *Controller) handleMakeMove(ctx context.Context, msg *protocol.Message) {
	log := that.logger.With("method", "handleMakeMove", "roomID", that.roomID)

	if !that.isHost || that.phase != PhaseActive || that.game == nil {
		log.Debug("dropping unexpected message", "type", msg.Type, "phase", that.phase)
		return
	}

	payload, err := msg.MakeMove()
	if err != nil {
		log.Warn("dropping malformed message", "error", err)
		return
	}

	that.applyMoveLocked(ctx, payload.Player, payload.SquareIndex)
}

// handleGameStateUpdate - guest only: the canonical state is accepted
// unconditionally; the host is the single writer.
func (that *Controller) handleGameStateUpdate(_ context.Context, msg *protocol.Message) {
	log := that.logger.With("method", "handleGameStateUpdate", "roomID", that.roomID)

	if that.isHost || that.phase != PhaseActive {
		log.Debug("dropping unexpected message", "type", msg.Type, "phase", that.phase)
		return
	}

	payload, err := msg.GameStateUpdate()
	if err != nil || payload.GameState == nil {
		log.Warn("dropping malformed message", "error", err)
		return
	}

	that.game = payload.GameState
	that.notifyUpdateLocked()
}

// handleGameReset - host only: a guest asked for a rematch.
func (that *Controller) handleGameReset(ctx context.Context, msg *protocol.Message) {
	log := that.logger.With("method", "handleGameReset", "roomID", that.roomID)

	if !that.isHost || that.phase != PhaseActive || that.game == nil {
		log.Debug("dropping unexpected message", "type", msg.Type, "phase", that.phase)
		return
	}

	that.resetGameLocked(ctx)
}

// handlePlayerLeft - either side: the peer is gone, surface a notice and end
// the session without announcing back into a dead room.
func (that *Controller) handlePlayerLeft(ctx context.Context, _ *protocol.Message) {
	that.logger.Info("opponent left", "roomID", that.roomID)

	that.notifyNoticeLocked("Your opponent has left the game.")
	that.teardownLocked(ctx, false)
}
