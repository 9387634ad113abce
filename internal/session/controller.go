package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/transport"
)

const (
	PhaseSetup  = "setup"
	PhaseLobby  = "lobby"
	PhaseActive = "active"
)

const (
	defaultHostName  = "Player 1"
	defaultGuestName = "Player 2"
)

type leaderboard interface {
	RecordWin(ctx context.Context, name string) error
}

// Snapshot - a read-only copy of the session for the presentation layer.
type Snapshot struct {
	Phase       string
	RoomID      string
	PlayerName  string
	LocalMark   string
	IsHost      bool
	PlayerCount int
	Game        *entity.GameState
}

// Controller drives one client's session through Setup -> Lobby -> Active and
// back. The host holds write authority over the canonical state; the guest
// only requests and adopts. All user actions and inbound messages are
// serialized on one mutex, so no two events are ever handled concurrently.
type Controller struct {
	logger      *slog.Logger
	transport   transport.Transport
	leaderboard leaderboard

	handlers map[string]func(ctx context.Context, msg *protocol.Message)

	onUpdate func(snapshot Snapshot)
	onNotice func(notice string)

	mu          sync.Mutex
	phase       string
	roomID      string
	playerName  string
	localMark   string
	isHost      bool
	playerCount int
	game        *entity.GameState
	unsubscribe func()
}

func NewController(logger *slog.Logger, tr transport.Transport, lb leaderboard) *Controller {
	controller := &Controller{
		logger:      logger.With("component", "session"),
		transport:   tr,
		leaderboard: lb,
		phase:       PhaseSetup,
	}

	controller.handlers = map[string]func(context.Context, *protocol.Message){
		protocol.TypePlayerJoined:    controller.handlePlayerJoined,
		protocol.TypeGameStart:       controller.handleGameStart,
		protocol.TypeMakeMove:        controller.handleMakeMove,
		protocol.TypeGameStateUpdate: controller.handleGameStateUpdate,
		protocol.TypeGameReset:       controller.handleGameReset,
		protocol.TypePlayerLeft:      controller.handlePlayerLeft,
	}

	return controller
}

// OnUpdate - registers the state callback. Set before creating or joining a
// game; the callback must not call back into the controller.
func (that *Controller) OnUpdate(fn func(snapshot Snapshot)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onUpdate = fn
}

// OnNotice - registers the callback for user-visible notices.
func (that *Controller) OnNotice(fn func(notice string)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onNotice = fn
}

// CreateGame - opens a fresh room as host and returns its shareable code.
// The host always plays X.
func (that *Controller) CreateGame(ctx context.Context, name string) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if name == "" {
		name = defaultHostName
	}

	roomID := pkg.GenerateRoomCode()
	if err := that.openRoomLocked(ctx, roomID); err != nil {
		return "", err
	}

	that.phase = PhaseLobby
	that.playerName = name
	that.localMark = entity.PlayerX
	that.isHost = true
	that.playerCount = 1
	that.game = nil

	that.logger.Info("room created", "roomID", roomID, "player", name)
	that.notifyUpdateLocked()

	return roomID, nil
}

// JoinGame - enters an existing room as guest and announces presence.
// The guest always plays O.
func (that *Controller) JoinGame(ctx context.Context, name, roomID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if name == "" {
		name = defaultGuestName
	}
	roomID = strings.ToUpper(roomID)

	if err := that.openRoomLocked(ctx, roomID); err != nil {
		return err
	}

	that.phase = PhaseLobby
	that.playerName = name
	that.localMark = entity.PlayerO
	that.isHost = false
	that.playerCount = 1
	that.game = nil

	if err := that.transport.Send(ctx, protocol.NewPlayerJoined(name)); err != nil {
		return fmt.Errorf("failed to announce join: %w", err)
	}

	that.logger.Info("joined room", "roomID", roomID, "player", name)
	that.notifyUpdateLocked()

	return nil
}

// MakeMove - a local click on a cell. The host applies it directly; the
// guest sends a request and waits for the authoritative update. Illegal
// moves are dropped with a diagnostic log and never fail the session.
func (that *Controller) MakeMove(ctx context.Context, cell int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "MakeMove")

	if that.phase != PhaseActive || that.game == nil {
		log.Warn("move ignored outside an active game", "cell", cell)
		return nil
	}

	if that.isHost {
		that.applyMoveLocked(ctx, that.localMark, cell)
		return nil
	}

	if that.game.IsFinished() || that.game.Turn != that.localMark || cell < 0 || cell >= len(that.game.Board) || that.game.Board[cell] != entity.EmptyCell {
		log.Warn("move rejected locally", "mark", that.localMark, "cell", cell)
		return nil
	}

	if err := that.transport.Send(ctx, protocol.NewMakeMove(cell, that.localMark)); err != nil {
		return fmt.Errorf("failed to send move: %w", err)
	}

	return nil
}

// PlayAgain - rematch on the same room. The host resets and broadcasts; the
// guest requests a reset and waits, symmetric with move handling.
func (that *Controller) PlayAgain(ctx context.Context) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.phase != PhaseActive || that.game == nil {
		that.logger.Warn("rematch ignored outside an active game")
		return nil
	}

	if !that.isHost {
		if err := that.transport.Send(ctx, protocol.NewGameReset()); err != nil {
			return fmt.Errorf("failed to request reset: %w", err)
		}
		return nil
	}

	that.resetGameLocked(ctx)

	return nil
}

// Leave - back to menu: announces departure, releases the room, clears the
// session.
func (that *Controller) Leave(ctx context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.teardownLocked(ctx, true)
}

// Snapshot - current session state, with a private copy of the game.
func (that *Controller) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

func (that *Controller) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		Phase:       that.phase,
		RoomID:      that.roomID,
		PlayerName:  that.playerName,
		LocalMark:   that.localMark,
		IsHost:      that.isHost,
		PlayerCount: that.playerCount,
	}

	if that.game != nil {
		game := *that.game
		snapshot.Game = &game
	}

	return snapshot
}

// openRoomLocked - acquires the transport for a room. Any previous session is
// torn down first so the channel is never shared between rooms.
func (that *Controller) openRoomLocked(ctx context.Context, roomID string) error {
	that.teardownLocked(ctx, true)

	if err := that.transport.Open(ctx, roomID); err != nil {
		return fmt.Errorf("failed to open room %s: %w", roomID, err)
	}

	that.roomID = roomID
	that.unsubscribe = that.transport.Subscribe(func(msg *protocol.Message) {
		that.handleMessage(context.Background(), msg)
	})

	return nil
}

// teardownLocked - every exit path funnels here: announce if asked, drop the
// subscription, close the transport, return to setup.
func (that *Controller) teardownLocked(ctx context.Context, announce bool) {
	if that.phase == PhaseSetup && that.roomID == "" {
		return
	}

	log := that.logger.With("method", "teardown", "roomID", that.roomID)

	if announce {
		if err := that.transport.Send(ctx, protocol.NewPlayerLeft()); err != nil {
			log.Warn("failed to announce departure", "error", err)
		}
	}

	if that.unsubscribe != nil {
		that.unsubscribe()
		that.unsubscribe = nil
	}

	if err := that.transport.Close(); err != nil {
		log.Warn("failed to close transport", "error", err)
	}

	that.phase = PhaseSetup
	that.roomID = ""
	that.playerName = ""
	that.localMark = ""
	that.isHost = false
	that.playerCount = 0
	that.game = nil

	that.notifyUpdateLocked()
}

// applyMoveLocked - host-side validation and application of one move. On a
// decided game the winner's name is credited before the state goes out.
func (that *Controller) applyMoveLocked(ctx context.Context, mark string, cell int) {
	log := that.logger.With("method", "applyMove", "roomID", that.roomID)

	if err := tictactoe.MakeTurn(that.game, mark, cell); err != nil {
		log.Warn("move rejected", "mark", mark, "cell", cell, "error", err)
		return
	}

	if name := that.game.WinnerName(); name != "" {
		if err := that.leaderboard.RecordWin(ctx, name); err != nil {
			log.Warn("failed to record win", "winner", name, "error", err)
		}
	}

	that.broadcastStateLocked(ctx)
	that.notifyUpdateLocked()
}

func (that *Controller) resetGameLocked(ctx context.Context) {
	that.game.Reset()
	that.broadcastStateLocked(ctx)
	that.notifyUpdateLocked()
}

// broadcastStateLocked - ships the full canonical state; updates are always
// whole-state, never deltas.
func (that *Controller) broadcastStateLocked(ctx context.Context) {
	if err := that.transport.Send(ctx, protocol.NewGameStateUpdate(that.game)); err != nil {
		that.logger.Error("failed to broadcast state", "roomID", that.roomID, "error", err)
	}
}

func (that *Controller) notifyUpdateLocked() {
	if that.onUpdate != nil {
		that.onUpdate(that.snapshotLocked())
	}
}

func (that *Controller) notifyNoticeLocked(notice string) {
	if that.onNotice != nil {
		that.onNotice(notice)
	}
}
