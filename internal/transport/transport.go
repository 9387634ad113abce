package transport

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/protocol"
)

// Handler - receives one inbound message. Handlers on a single transport are
// invoked one at a time, never concurrently.
type Handler func(msg *protocol.Message)

// Transport is a best-effort broadcast channel scoped to one logical room.
// A client holds at most one open room; Open on a new room closes the
// previous one. Senders never observe their own messages, and messages sent
// while no peer is subscribed are lost silently.
type Transport interface {
	Open(ctx context.Context, roomID string) error
	Send(ctx context.Context, msg *protocol.Message) error
	Subscribe(handler Handler) (unsubscribe func())
	Close() error
}
