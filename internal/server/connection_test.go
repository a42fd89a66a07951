package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireMessage struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

func dialRoom(t *testing.T, srv *httptest.Server, roomID, player string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/rooms/" + roomID + "/ws?player=" + player
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg wireMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func readState(t *testing.T, conn *websocket.Conn) RoomView {
	t.Helper()
	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeState, msg.Type, string(msg.Data))
	var view RoomView
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	return view
}

func TestWebSocketPushesState(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	srv := httptest.NewServer(NewRouter(env.svc, quietLogger(), nil))
	defer srv.Close()
	ctx := context.Background()

	g, err := env.svc.CreateRoom(ctx, "alice", "room", 4)
	require.NoError(t, err)

	conn := dialRoom(t, srv, g.ID, "alice")
	initial := readState(t, conn)
	assert.Equal(t, uint64(1), initial.Version)
	assert.Equal(t, "alice", initial.Viewer)

	_, err = env.svc.Join(ctx, g.ID, "bob")
	require.NoError(t, err)
	joined := readState(t, conn)
	assert.Equal(t, uint64(2), joined.Version)
	assert.Equal(t, []string{"alice", "bob"}, joined.Players)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "start"}))
	started := readState(t, conn)
	assert.Equal(t, "in_progress", started.Status.String())
	assert.Len(t, started.Hand, 6)
}

func TestWebSocketPlayAndErrors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	srv := httptest.NewServer(NewRouter(env.svc, quietLogger(), nil))
	defer srv.Close()
	env.seedNearlyFinished(t, "endgame")

	alice := dialRoom(t, srv, "endgame", "alice")
	bob := dialRoom(t, srv, "endgame", "bob")
	readState(t, alice)
	readState(t, bob)

	require.NoError(t, bob.WriteJSON(map[string]any{"type": "draw"}))
	msg := readMessage(t, bob)
	require.Equal(t, MessageTypeError, msg.Type)
	var errData ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &errData))
	assert.Equal(t, "not_your_turn", errData.Code)

	require.NoError(t, alice.WriteJSON(map[string]any{"type": "dance"}))
	msg = readMessage(t, alice)
	assert.Equal(t, MessageTypeError, msg.Type)

	require.NoError(t, alice.WriteJSON(map[string]any{
		"type": "play",
		"data": map[string]any{"shape": "circle", "rank": "3"},
	}))
	finished := readState(t, alice)
	assert.Equal(t, "alice", finished.Winner)
	assert.Equal(t, "alice", readState(t, bob).Winner)
}

func TestWebSocketRequiresIdentityAndRoom(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	srv := httptest.NewServer(NewRouter(env.svc, quietLogger(), nil))
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(base+"/rooms/nope/ws?player=alice", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	env.seedNearlyFinished(t, "endgame")
	_, resp, err = websocket.DefaultDialer.Dial(base+"/rooms/endgame/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestServerShutdownClosesSubscribers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	srv := httptest.NewServer(NewRouter(env.svc, quietLogger(), nil))
	defer srv.Close()
	env.seedNearlyFinished(t, "endgame")

	conn := dialRoom(t, srv, "endgame", "alice")
	readState(t, conn)
	require.Eventually(t, func() bool { return env.svc.Hub().Subscribers("endgame") == 1 }, time.Second, 10*time.Millisecond)

	env.svc.Hub().Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
}
