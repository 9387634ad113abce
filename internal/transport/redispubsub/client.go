package redispubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/transport"
)

const roomKeyPrefix = "tictactoe:room:"

// envelope - redis delivers published messages back to every subscriber,
// including the publisher, so each message carries its sender's id and
// receivers drop their own.
type envelope struct {
	Sender  string            `json:"sender"`
	Message *protocol.Message `json:"message"`
}

// Client - room transport over redis pub/sub, letting two processes share a
// room the same way two channels share the in-memory broker.
type Client struct {
	logger   *slog.Logger
	client   *redis.Client
	clientID string

	mu       sync.Mutex
	roomID   string
	pubsub   *redis.PubSub
	nextID   int
	handlers map[int]transport.Handler
}

func New(logger *slog.Logger, client *redis.Client) *Client {
	return &Client{
		logger:   logger.With("component", "redispubsub"),
		client:   client,
		clientID: pkg.NewClientID(),
		handlers: make(map[int]transport.Handler),
	}
}

// Open - subscribes to a room, implicitly closing the previous one.
func (that *Client) Open(ctx context.Context, roomID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closeLocked()

	pubsub := that.client.Subscribe(ctx, roomKeyPrefix+roomID)
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to room %s: %w", roomID, err)
	}

	that.roomID = roomID
	that.pubsub = pubsub

	go that.listen(pubsub)

	return nil
}

func (that *Client) Send(ctx context.Context, msg *protocol.Message) error {
	that.mu.Lock()
	roomID := that.roomID
	open := that.pubsub != nil
	that.mu.Unlock()

	if !open {
		return apperror.ErrNoActiveRoom
	}

	body, err := json.Marshal(envelope{Sender: that.clientID, Message: msg})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err = that.client.Publish(ctx, roomKeyPrefix+roomID, body).Err(); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (that *Client) Subscribe(handler transport.Handler) func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	id := that.nextID
	that.nextID++
	that.handlers[id] = handler

	return func() {
		that.mu.Lock()
		defer that.mu.Unlock()
		delete(that.handlers, id)
	}
}

func (that *Client) Close() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closeLocked()

	return nil
}

func (that *Client) closeLocked() {
	if that.pubsub == nil {
		return
	}

	if err := that.pubsub.Close(); err != nil {
		that.logger.Warn("failed to close subscription", "room", that.roomID, "error", err)
	}

	that.roomID = ""
	that.pubsub = nil
}

// listen - drains the subscription until it is closed. Messages are handled
// one at a time in arrival order.
func (that *Client) listen(pubsub *redis.PubSub) {
	log := that.logger.With("method", "listen")

	for raw := range pubsub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(raw.Payload), &env); err != nil {
			log.Warn("dropping malformed message", "error", err)
			continue
		}

		if env.Sender == that.clientID || env.Message == nil {
			continue
		}

		for _, handler := range that.snapshotHandlers() {
			handler(env.Message)
		}
	}
}

func (that *Client) snapshotHandlers() []transport.Handler {
	that.mu.Lock()
	defer that.mu.Unlock()

	handlers := make([]transport.Handler, 0, len(that.handlers))
	for _, handler := range that.handlers {
		handlers = append(handlers, handler)
	}

	return handlers
}
