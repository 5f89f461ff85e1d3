package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// receive reads one message from a client with a timeout so a broken hub
// fails the test instead of hanging it.
func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed unexpectedly")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a broadcast")
		return nil
	}
}

func TestHubBroadcastReachesMatchFollowers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{MatchID: "match-1", Send: make(chan []byte, 4)}
	b := &Client{MatchID: "match-1", Send: make(chan []byte, 4)}
	other := &Client{MatchID: "match-2", Send: make(chan []byte, 4)}
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)

	hub.BroadcastToMatch("match-1", []byte("standing"))

	require.Equal(t, []byte("standing"), receive(t, a))
	require.Equal(t, []byte("standing"), receive(t, b))

	select {
	case msg := <-other.Send:
		t.Fatalf("client following another match received %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{MatchID: "match-1", Send: make(chan []byte, 4)}
	hub.Register(c)
	hub.Unregister(c)

	// The hub closed Send on unregister; the drained channel reports closed.
	_, ok := <-c.Send
	require.False(t, ok)

	// Broadcasting afterwards must not panic on the departed client.
	hub.BroadcastToMatch("match-1", []byte("standing"))
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// slow's one-slot buffer fills on the first message, so the second finds
	// it full and the hub drops the client instead of blocking every other
	// follower. witness's roomy buffer never fills; once it has seen the
	// third message the hub is past the broadcast that did the dropping.
	slow := &Client{MatchID: "match-1", Send: make(chan []byte, 1)}
	witness := &Client{MatchID: "match-1", Send: make(chan []byte, 8)}
	hub.Register(slow)
	hub.Register(witness)

	hub.BroadcastToMatch("match-1", []byte("one"))
	hub.BroadcastToMatch("match-1", []byte("two"))
	hub.BroadcastToMatch("match-1", []byte("three"))

	require.Equal(t, []byte("one"), receive(t, witness))
	require.Equal(t, []byte("two"), receive(t, witness))
	require.Equal(t, []byte("three"), receive(t, witness))

	require.Equal(t, []byte("one"), receive(t, slow))
	_, ok := <-slow.Send
	require.False(t, ok, "expected the slow client's channel closed, not more data")

	// The socket goroutine always unregisters on its way out; after an
	// inline drop this must be a no-op, not a double close.
	hub.Unregister(slow)
	hub.BroadcastToMatch("match-1", []byte("four"))
	require.Equal(t, []byte("four"), receive(t, witness))
}
