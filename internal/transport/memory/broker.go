package memory

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/transport"
)

const queueSize = 32

// Broker - process-local pub/sub. Rooms are isolated: a message published on
// one room is never observed by members of another.
type Broker struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Channel
}

func NewBroker() *Broker {
	return &Broker{
		rooms: make(map[string]map[string]*Channel),
	}
}

// NewChannel - creates a client endpoint on this broker. Each session owns
// exactly one channel.
func (that *Broker) NewChannel() *Channel {
	return &Channel{
		id:       pkg.NewClientID(),
		broker:   that,
		handlers: make(map[int]transport.Handler),
	}
}

func (that *Broker) join(roomID string, ch *Channel) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.rooms[roomID]
	if !ok {
		members = make(map[string]*Channel)
		that.rooms[roomID] = members
	}

	members[ch.id] = ch
}

func (that *Broker) leave(roomID string, ch *Channel) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.rooms[roomID]
	if !ok {
		return
	}

	delete(members, ch.id)
	if len(members) == 0 {
		delete(that.rooms, roomID)
	}
}

// publish - fans a message out to every room member except the sender.
// Members are snapshotted first so delivery never holds the broker lock.
func (that *Broker) publish(roomID, senderID string, msg *protocol.Message) {
	that.mu.RLock()
	members := make([]*Channel, 0, len(that.rooms[roomID]))
	for id, member := range that.rooms[roomID] {
		if id == senderID {
			continue
		}
		members = append(members, member)
	}
	that.mu.RUnlock()

	for _, member := range members {
		member.enqueue(msg)
	}
}

// Channel is one client's endpoint. Inbound messages are queued and drained
// by a single goroutine, so handlers never overlap.
type Channel struct {
	id     string
	broker *Broker

	mu       sync.Mutex
	roomID   string
	queue    chan *protocol.Message
	done     chan struct{}
	nextID   int
	handlers map[int]transport.Handler
}

// Open - joins a room, implicitly closing the previous one.
func (that *Channel) Open(_ context.Context, roomID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closeLocked()

	that.roomID = roomID
	that.queue = make(chan *protocol.Message, queueSize)
	that.done = make(chan struct{})

	go that.dispatch(that.queue, that.done)
	that.broker.join(roomID, that)

	return nil
}

func (that *Channel) Send(_ context.Context, msg *protocol.Message) error {
	that.mu.Lock()
	roomID := that.roomID
	open := that.queue != nil
	that.mu.Unlock()

	if !open {
		return apperror.ErrNoActiveRoom
	}

	that.broker.publish(roomID, that.id, msg)

	return nil
}

func (that *Channel) Subscribe(handler transport.Handler) func() {
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

func (that *Channel) Close() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closeLocked()

	return nil
}

func (that *Channel) closeLocked() {
	if that.queue == nil {
		return
	}

	that.broker.leave(that.roomID, that)
	close(that.done)

	that.roomID = ""
	that.queue = nil
	that.done = nil
}

func (that *Channel) dispatch(queue chan *protocol.Message, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-queue:
			for _, handler := range that.snapshotHandlers() {
				handler(msg)
			}
		}
	}
}

func (that *Channel) snapshotHandlers() []transport.Handler {
	that.mu.Lock()
	defer that.mu.Unlock()

	handlers := make([]transport.Handler, 0, len(that.handlers))
	for _, handler := range that.handlers {
		handlers = append(handlers, handler)
	}

	return handlers
}

// enqueue - best-effort delivery: a full queue or a closed channel drops the
// message silently.
func (that *Channel) enqueue(msg *protocol.Message) {
	that.mu.Lock()
	queue, done := that.queue, that.done
	that.mu.Unlock()

	if queue == nil {
		return
	}

	select {
	case queue <- msg:
	case <-done:
	default:
	}
}
