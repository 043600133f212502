package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeed(t *testing.T, snapshot Snapshot) (*Handler, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	h := NewHandler(hub, snapshot, zerolog.Nop())
	router := gin.New()
	router.GET("/ws/notifications", h.HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return h, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications"
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHandler_SendsSnapshotOnConnect(t *testing.T) {
	_, url := newFeed(t, func(_ context.Context, now time.Time) (*Message, error) {
		return &Message{Type: TypeNotification, Index: 1, Total: 3, Payload: map[string]string{"title": "Exam schedule"}, Timestamp: now}, nil
	})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := readMessage(t, conn)
	assert.Equal(t, TypeNotification, msg.Type)
	assert.Equal(t, 1, msg.Index)
	assert.Equal(t, 3, msg.Total)
	assert.Equal(t, "Exam schedule", msg.Payload.(map[string]any)["title"])
}

func TestHandler_RotateBroadcasts(t *testing.T) {
	var calls atomic.Int32
	h, url := newFeed(t, func(_ context.Context, now time.Time) (*Message, error) {
		n := int(calls.Add(1))
		return &Message{Type: TypeNotification, Index: n % 2, Total: 2, Timestamp: now}, nil
	})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	first := readMessage(t, conn)

	require.Eventually(t, func() bool { return h.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Rotate(ctx, 20*time.Millisecond)

	next := readMessage(t, conn)
	assert.Equal(t, TypeNotification, next.Type)
	assert.NotEqual(t, first.Index, next.Index)
}

func TestHub_UnregistersOnClose(t *testing.T) {
	h, url := newFeed(t, func(_ context.Context, now time.Time) (*Message, error) {
		return &Message{Type: TypeEmpty, Timestamp: now}, nil
	})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	assert.Equal(t, TypeEmpty, readMessage(t, conn).Type)
	require.Eventually(t, func() bool { return h.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return h.hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()

	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		client := &Client{hub: hub, send: make(chan []byte, 1)}
		assert.False(t, hub.Register(client))
		hub.Unregister(client)
		assert.Error(t, hub.Broadcast(context.Background(), &Message{Type: TypeEmpty}))
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after shutdown")
	}
}

func TestHandler_ClosesConnectionsAfterShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()
	<-hub.Done()

	h := NewHandler(hub, func(_ context.Context, now time.Time) (*Message, error) {
		return &Message{Type: TypeEmpty, Timestamp: now}, nil
	}, zerolog.Nop())
	router := gin.New()
	router.GET("/ws/notifications", h.HandleConnection)
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/notifications", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.Zero(t, hub.ClientCount())
}
