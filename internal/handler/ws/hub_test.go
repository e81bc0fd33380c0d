package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
)

func startHub(t *testing.T, opts ...Option) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return websocket.DefaultDialer.Dial(url, header)
}

func TestHubBroadcastsEvents(t *testing.T) {
	hub, srv := startHub(t)

	conn, _, err := dial(t, srv, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	at := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, hub.Notify(context.Background(), models.Event{Type: models.EventDataRefreshed, Tick: 3, At: at}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt models.Event
	require.NoError(t, json.Unmarshal(msg, &evt))
	assert.Equal(t, models.EventDataRefreshed, evt.Type)
	assert.EqualValues(t, 3, evt.Tick)
	assert.True(t, at.Equal(evt.At))
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub, srv := startHub(t)

	conn, _, err := dial(t, srv, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubRejectsForeignOrigin(t *testing.T) {
	_, srv := startHub(t, WithAllowedOrigins([]string{"http://localhost:3000"}))

	_, resp, err := dial(t, srv, http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dial(t, srv, http.Header{"Origin": []string{"http://localhost:3000"}})
	require.NoError(t, err)
	_ = conn.Close()
}

func TestNotifyAfterClose(t *testing.T) {
	hub := NewHub(nil)
	require.NoError(t, hub.Close())
	assert.ErrorIs(t, hub.Notify(context.Background(), models.Event{Type: models.EventDataRefreshed}), ErrHubClosed)
}

func TestHubClosesWhenRunContextEnds(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	defer srv.Close()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.ErrorIs(t, hub.Notify(context.Background(), models.Event{Type: models.EventDataRefreshed}), ErrHubClosed)

	conn, _, err := dial(t, srv, nil)
	require.NoError(t, err)
	defer conn.Close()

	start := time.Now()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "late client is dropped instead of hanging on register")
	assert.Zero(t, hub.Clients())
}
