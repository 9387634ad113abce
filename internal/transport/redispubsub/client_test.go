package redispubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-p2p/testing/suite"
)

func collect(t *testing.T, client *Client) <-chan *protocol.Message {
	t.Helper()

	inbox := make(chan *protocol.Message, 32)
	unsubscribe := client.Subscribe(func(msg *protocol.Message) {
		inbox <- msg
	})
	t.Cleanup(unsubscribe)

	return inbox
}

func TestClient_SendReceive(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: two clients sharing a room over redis
	host := New(st.Logger, st.Storage)
	guest := New(st.Logger, st.Storage)
	require.NoError(t, host.Open(ctx, "ROOM42"))
	require.NoError(t, guest.Open(ctx, "ROOM42"))

	t.Cleanup(func() {
		_ = host.Close()
		_ = guest.Close()
	})

	hostInbox := collect(t, host)
	guestInbox := collect(t, guest)

	// When: the guest announces itself
	require.NoError(t, guest.Send(ctx, protocol.NewPlayerJoined("Bo")))

	// Then: the host receives it and the guest sees no echo
	select {
	case msg := <-hostInbox:
		assert.Equal(t, protocol.TypePlayerJoined, msg.Type)
		payload, err := msg.PlayerJoined()
		require.NoError(t, err)
		assert.Equal(t, "Bo", payload.PlayerName)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}

	select {
	case msg := <-guestInbox:
		t.Fatalf("unexpected echo: %+v", msg)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestClient_RoomIsolation(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: clients in different rooms
	sender := New(st.Logger, st.Storage)
	bystander := New(st.Logger, st.Storage)
	require.NoError(t, sender.Open(ctx, "ROOMAA"))
	require.NoError(t, bystander.Open(ctx, "ROOMBB"))

	t.Cleanup(func() {
		_ = sender.Close()
		_ = bystander.Close()
	})

	bystanderInbox := collect(t, bystander)

	// When: a message goes out on the first room
	require.NoError(t, sender.Send(ctx, protocol.NewGameReset()))

	// Then: the other room never observes it
	select {
	case msg := <-bystanderInbox:
		t.Fatalf("unexpected message: %+v", msg)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestClient_SendWithoutRoom(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: a client that never opened a room
	client := New(st.Logger, st.Storage)

	// When: sending
	err := client.Send(ctx, protocol.NewGameReset())

	// Then: ErrNoActiveRoom is reported
	require.ErrorIs(t, err, apperror.ErrNoActiveRoom)
}
