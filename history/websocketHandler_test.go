package history

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gomokuserver/history/actions"
	"gomokuserver/history/broadcast"
	"gomokuserver/history/database"
	"gomokuserver/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	url      string
	clients  *models.ClientSet
	sessions *database.MemorySessions
	history  *database.MemoryHistory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	// connection goroutines outlive the test, zaptest would panic on late writes
	logger := zap.NewNop()

	ts := &testServer{
		clients:  models.NewClientSet(),
		sessions: database.NewMemorySessions(),
		history:  database.NewMemoryHistory(),
	}
	env := actions.Env{
		Sessions:       ts.sessions,
		History:        ts.history,
		WelcomeMessage: "Moin!",
		GoodbyeMessage: "Servus!",
	}
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		HandleConnections(ctx, c.Writer, c.Request, ts.clients, env, upgrader, logger)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	ts.url = "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	return ts
}

func (ts *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(ts.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func hello(t *testing.T, conn *websocket.Conn) models.WelcomeClient {
	t.Helper()
	require.NoError(t, conn.WriteJSON(models.NewHelloServer()))
	var welcome models.WelcomeClient
	require.NoError(t, conn.ReadJSON(&welcome))
	require.Equal(t, models.TypeWelcomeClient, welcome.MessageType)
	return welcome
}

func readType(t *testing.T, conn *websocket.Conn) models.MessageType {
	t.Helper()
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	messageType, err := models.ParseMessageType(raw)
	require.NoError(t, err)
	return messageType
}

// assertClosed expects the server to close without sending anything first.
func assertClosed(t *testing.T, conn *websocket.Conn, code int) {
	t.Helper()
	_, raw, err := conn.ReadMessage()
	require.Error(t, err, "unexpected frame %s", raw)
	assert.True(t, websocket.IsCloseError(err, code), "got %v", err)
}

func TestHelloServer(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)

	welcome := hello(t, conn)
	assert.NotEmpty(t, welcome.UserID)
	assert.Equal(t, "Moin!", welcome.WelcomeMessage)

	n, _ := ts.sessions.Count(context.Background())
	assert.Equal(t, 1, n)
}

func TestPingEchoesStartTime(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)

	require.NoError(t, conn.WriteJSON(models.NewPingRequest(1234567)))
	var pong models.PingResponse
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, models.TypePingResponse, pong.MessageType)
	assert.EqualValues(t, 1234567, pong.StartTime)
}

func TestHistoryPushAndGetAll(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)
	userID := hello(t, conn).UserID

	first := models.HistoryEntry{PlayerOneName: "Alice", PlayerTwoName: "Bob", PlayerOneWinner: true}
	second := models.HistoryEntry{PlayerOneName: "Carol", PlayerTwoName: "Dave", PlayerTwoWinner: true}

	require.NoError(t, conn.WriteJSON(models.NewHistoryPush(userID, first)))
	assert.Equal(t, models.TypeHistorySaved, readType(t, conn))
	require.NoError(t, conn.WriteJSON(models.NewHistoryPush(userID, second)))
	assert.Equal(t, models.TypeHistorySaved, readType(t, conn))

	require.NoError(t, conn.WriteJSON(models.NewHistoryGetAll(userID)))
	var all models.HistoryAll
	require.NoError(t, conn.ReadJSON(&all))
	assert.Equal(t, models.TypeHistoryAll, all.MessageType)
	assert.Equal(t, []models.HistoryEntry{first, second}, all.History)
}

func TestHistoryGetAllEmpty(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)
	userID := hello(t, conn).UserID

	require.NoError(t, conn.WriteJSON(models.NewHistoryGetAll(userID)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"messageType":"HistoryAll","history":[]}`, string(raw))
}

func TestHistoryPushRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry models.HistoryEntry
	}{
		{"empty player one", models.HistoryEntry{PlayerTwoName: "Bob"}},
		{"empty player two", models.HistoryEntry{PlayerOneName: "Alice", PlayerOneWinner: true}},
		{"two winners", models.HistoryEntry{PlayerOneName: "Alice", PlayerTwoName: "Bob", PlayerOneWinner: true, PlayerTwoWinner: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			conn := ts.dial(t)
			userID := hello(t, conn).UserID

			require.NoError(t, conn.WriteJSON(models.NewHistoryPush(userID, tt.entry)))
			assert.Equal(t, models.TypeHistoryNotSaved, readType(t, conn))

			n, _ := ts.history.Count(context.Background())
			assert.Zero(t, n)
		})
	}
}

func TestUnknownSessionClosesConnection(t *testing.T) {
	tests := []struct {
		name string
		send func(userID string) interface{}
	}{
		{"push", func(id string) interface{} {
			return models.NewHistoryPush(id, models.HistoryEntry{PlayerOneName: "a", PlayerTwoName: "b"})
		}},
		{"get all", func(id string) interface{} { return models.NewHistoryGetAll(id) }},
		{"goodbye", func(id string) interface{} { return models.NewGoodbyeServer(id) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			conn := ts.dial(t)
			hello(t, conn)

			require.NoError(t, conn.WriteJSON(tt.send("00000000-0000-0000-0000-000000000000")))
			assertClosed(t, conn, websocket.ClosePolicyViolation)

			n, _ := ts.history.Count(context.Background())
			assert.Zero(t, n)
		})
	}
}

func TestSessionIsBoundToItsConnection(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.dial(t)
	thief := ts.dial(t)

	stolen := hello(t, owner).UserID
	hello(t, thief)

	require.NoError(t, thief.WriteJSON(models.NewHistoryPush(stolen, models.HistoryEntry{PlayerOneName: "a", PlayerTwoName: "b"})))
	assertClosed(t, thief, websocket.ClosePolicyViolation)

	// the owner is unaffected
	require.NoError(t, owner.WriteJSON(models.NewHistoryGetAll(stolen)))
	assert.Equal(t, models.TypeHistoryAll, readType(t, owner))
}

func TestProtocolViolationsCloseConnection(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `Moin`},
		{"unknown type", `{"messageType":"Teapot"}`},
		{"missing type", `{"userId":"x"}`},
		{"server bound type", `{"messageType":"WelcomeClient","userId":"x","welcomeMessage":"hi"}`},
		{"bad field type", `{"messageType":"PingRequest","startTime":"now"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			conn := ts.dial(t)

			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.raw)))
			assertClosed(t, conn, websocket.ClosePolicyViolation)
		})
	}
}

func TestGoodbyeServer(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)
	userID := hello(t, conn).UserID

	require.NoError(t, conn.WriteJSON(models.NewGoodbyeServer(userID)))
	var goodbye models.GoodbyeClient
	require.NoError(t, conn.ReadJSON(&goodbye))
	assert.Equal(t, models.TypeGoodbyeClient, goodbye.MessageType)
	assert.Equal(t, "Servus!", goodbye.GoodbyeMessage)

	assertClosed(t, conn, websocket.CloseNormalClosure)

	assert.Eventually(t, func() bool {
		n, _ := ts.sessions.Count(context.Background())
		return n == 0 && ts.clients.Len() == 0
	}, 2*time.Second, 10*time.Millisecond, "session revoked and client removed")
}

func TestBroadcastGoodbye(t *testing.T) {
	ts := newTestServer(t)
	conns := []*websocket.Conn{ts.dial(t), ts.dial(t)}
	for _, conn := range conns {
		hello(t, conn)
	}
	require.Eventually(t, func() bool { return ts.clients.Len() == 2 }, 2*time.Second, 10*time.Millisecond)

	broadcast.BroadcastGoodbye(ts.clients, "Bye", zaptest.NewLogger(t))

	for _, conn := range conns {
		var goodbye models.GoodbyeClient
		require.NoError(t, conn.ReadJSON(&goodbye))
		assert.Equal(t, "Bye", goodbye.GoodbyeMessage)
		assertClosed(t, conn, websocket.CloseGoingAway)
	}
}
