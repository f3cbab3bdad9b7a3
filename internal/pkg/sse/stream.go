package sse

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultBufferSize = 10
	defaultHeartbeat  = 30 * time.Second
)

// Stream couples one hub client to a gin request and pumps events to the
// response until the client disconnects.
type Stream struct {
	client    *Client
	ctx       *gin.Context
	hub       *Hub
	heartbeat time.Duration
}

// NewStream creates a stream bound to the given request
func NewStream(c *gin.Context, hub *Hub) *Stream {
	return &Stream{
		client: &Client{
			ID:      uuid.New().String(),
			Channel: make(chan Event, defaultBufferSize),
		},
		ctx:       c,
		hub:       hub,
		heartbeat: defaultHeartbeat,
	}
}

// Serve registers the client and blocks, writing events until the
// connection closes. The client is always unregistered on return.
func (s *Stream) Serve() {
	s.ctx.Header("Content-Type", "text/event-stream")
	s.ctx.Header("Cache-Control", "no-cache")
	s.ctx.Header("Connection", "keep-alive")
	s.ctx.Header("X-Accel-Buffering", "no")

	s.hub.Register(s.client)
	defer s.hub.Unregister(s.client)

	connected := Event{
		Type: "connected",
		Data: map[string]string{"client_id": s.client.ID},
	}
	if _, err := fmt.Fprint(s.ctx.Writer, connected.FormatSSE()); err != nil {
		return
	}
	s.ctx.Writer.Flush()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	clientGone := s.ctx.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			return
		case event, ok := <-s.client.Channel:
			if !ok {
				return
			}
			if _, err := fmt.Fprint(s.ctx.Writer, event.FormatSSE()); err != nil {
				return
			}
			s.ctx.Writer.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(s.ctx.Writer, ": heartbeat\n\n"); err != nil {
				return
			}
			s.ctx.Writer.Flush()
		}
	}
}
