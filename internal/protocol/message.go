package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
)

// Wire tags for the six message kinds. Only the host transitions game state;
// the guest requests (MAKE_MOVE, GAME_RESET) and consumes (GAME_START,
// GAME_STATE_UPDATE).
const (
	TypePlayerJoined    = "PLAYER_JOINED"
	TypeGameStart       = "GAME_START"
	TypeMakeMove        = "MAKE_MOVE"
	TypeGameStateUpdate = "GAME_STATE_UPDATE"
	TypeGameReset       = "GAME_RESET"
	TypePlayerLeft      = "PLAYER_LEFT"
)

// Message is the tagged envelope exchanged over a room. Receivers ignore
// unknown kinds and unknown payload fields.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type PlayerJoinedPayload struct {
	PlayerName string `json:"playerName"`
}

type GameStartPayload struct {
	GameState *entity.GameState `json:"gameState"`
}

type MakeMovePayload struct {
	SquareIndex int    `json:"squareIndex"`
	Player      string `json:"player"`
}

type GameStateUpdatePayload struct {
	GameState *entity.GameState `json:"gameState"`
}

func NewPlayerJoined(playerName string) *Message {
	return newMessage(TypePlayerJoined, PlayerJoinedPayload{PlayerName: playerName})
}

func NewGameStart(state *entity.GameState) *Message {
	return newMessage(TypeGameStart, GameStartPayload{GameState: state})
}

func NewMakeMove(cell int, mark string) *Message {
	return newMessage(TypeMakeMove, MakeMovePayload{SquareIndex: cell, Player: mark})
}

func NewGameStateUpdate(state *entity.GameState) *Message {
	return newMessage(TypeGameStateUpdate, GameStateUpdatePayload{GameState: state})
}

func NewGameReset() *Message {
	return &Message{Type: TypeGameReset}
}

func NewPlayerLeft() *Message {
	return &Message{Type: TypePlayerLeft}
}

func (that *Message) PlayerJoined() (*PlayerJoinedPayload, error) {
	var payload PlayerJoinedPayload
	if err := json.Unmarshal(that.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s payload: %w", that.Type, err)
	}

	return &payload, nil
}

func (that *Message) GameStart() (*GameStartPayload, error) {
	var payload GameStartPayload
	if err := json.Unmarshal(that.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s payload: %w", that.Type, err)
	}

	return &payload, nil
}

func (that *Message) MakeMove() (*MakeMovePayload, error) {
	var payload MakeMovePayload
	if err := json.Unmarshal(that.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s payload: %w", that.Type, err)
	}

	return &payload, nil
}

func (that *Message) GameStateUpdate() (*GameStateUpdatePayload, error) {
	var payload GameStateUpdatePayload
	if err := json.Unmarshal(that.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s payload: %w", that.Type, err)
	}

	return &payload, nil
}

func newMessage(messageType string, payload any) *Message {
	return &Message{
		Type:    messageType,
		Payload: json.RawMessage(mustMarshal(payload)),
	}
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
