package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sideby/teachconnect/internal/usecase/session"
)

func dial(t *testing.T, hub *Hub, userID, sessionID uuid.UUID) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, userID, sessionID)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitConnections(t *testing.T, hub *Hub, userID uuid.UUID, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Connections(userID) == want }, time.Second, 5*time.Millisecond)
}

func TestNotifyDeliversAndCloses(t *testing.T) {
	hub := NewHub([]string{"*"}, nil)
	userID, sessionID := uuid.New(), uuid.New()
	conn := dial(t, hub, userID, sessionID)
	waitConnections(t, hub, userID, 1)

	notice := session.NoticeFor(session.ReasonSignedOut)
	assert.Equal(t, 1, hub.Notify(userID, sessionID, notice))

	var got session.Notice
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, notice, got)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Zero(t, hub.Connections(userID))
}

func TestNotifyOnlyTargetsSession(t *testing.T) {
	hub := NewHub(nil, nil)
	userID := uuid.New()
	first, second := uuid.New(), uuid.New()
	dial(t, hub, userID, first)
	dial(t, hub, userID, second)
	waitConnections(t, hub, userID, 2)

	assert.Equal(t, 1, hub.Notify(userID, first, session.NoticeFor(session.ReasonLogout)))
	assert.Equal(t, 1, hub.Connections(userID))

	assert.Equal(t, 1, hub.Notify(userID, uuid.Nil, session.NoticeFor(session.ReasonRevoked)))
	assert.Zero(t, hub.Connections(userID))
}

func TestNotifyUnknownUser(t *testing.T) {
	hub := NewHub(nil, nil)
	assert.Zero(t, hub.Notify(uuid.New(), uuid.Nil, session.NoticeFor(session.ReasonExpired)))
}

func TestRejectsForeignOrigin(t *testing.T) {
	hub := NewHub([]string{"http://app.example"}, nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, uuid.New(), uuid.New())
	}))
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
