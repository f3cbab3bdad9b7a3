package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()

	a := &Client{ID: "a", Channel: make(chan Event, 4)}
	b := &Client{ID: "b", Channel: make(chan Event, 4)}
	hub.Register(a)
	hub.Register(b)
	assert.Equal(t, 2, hub.ClientCount())

	hub.Emit("file-uploaded", map[string]string{"filename": "a.txt"})

	for _, client := range []*Client{a, b} {
		select {
		case ev := <-client.Channel:
			assert.Equal(t, "file-uploaded", ev.Type)
		default:
			t.Fatalf("client %s received no event", client.ID)
		}
	}
}

func TestHubBroadcastSkipsFullClient(t *testing.T) {
	hub := NewHub()

	full := &Client{ID: "full", Channel: make(chan Event, 1)}
	open := &Client{ID: "open", Channel: make(chan Event, 4)}
	hub.Register(full)
	hub.Register(open)

	full.Channel <- Event{Type: "stale"}

	hub.Emit("folder-deleted", nil)

	// the saturated client keeps only its stale event
	ev := <-full.Channel
	assert.Equal(t, "stale", ev.Type)
	select {
	case ev := <-full.Channel:
		t.Fatalf("unexpected event for full client: %s", ev.Type)
	default:
	}

	select {
	case ev := <-open.Channel:
		assert.Equal(t, "folder-deleted", ev.Type)
	default:
		t.Fatal("open client received no event")
	}
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()

	client := &Client{ID: "a", Channel: make(chan Event, 1)}
	hub.Register(client)
	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount())

	_, ok := <-client.Channel
	assert.False(t, ok, "channel must be closed after unregister")

	// unregistering twice must not panic on a closed channel
	require.NotPanics(t, func() { hub.Unregister(client) })
}

func TestFormatSSE(t *testing.T) {
	ev := Event{Type: "file-deleted", Data: map[string]string{"filename": "a.txt"}}
	assert.Equal(t, "event: file-deleted\ndata: {\"filename\":\"a.txt\"}\n\n", ev.FormatSSE())
}
