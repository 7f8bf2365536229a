package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/hub"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/present"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/types"
)

var (
	allen   = engine.NewPlayer("Josh Allen", "BUF", engine.PosQB, 24.5, "")
	barkley = engine.NewPlayer("Saquon Barkley", "PHI", engine.PosRB, 17.8, "")
	kelce   = engine.NewPlayer("Travis Kelce", "KC", engine.PosTE, 12.4, "")
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func newServer(t *testing.T) (*httptest.Server, *hub.Hub) {
	t.Helper()
	h := hub.NewHub(context.Background(), hub.Options{})
	t.Cleanup(func() {
		h.Inbox() <- hub.ShutdownHub{}
		<-h.Done()
	})
	srv := httptest.NewServer(Handler(h, Options{WriteTimeout: time.Second, ReadTimeout: 5 * time.Second}))
	t.Cleanup(srv.Close)
	return srv, h
}

func setup(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	srv, h := newServer(t)

	st, err := engine.NewState(engine.Seed{
		Slots:  engine.DefaultSlots(),
		Lineup: map[engine.SlotID]engine.Player{"QB": allen},
		Bench:  []engine.Player{barkley, kelce},
	})
	require.NoError(t, err)
	s, err := h.Create(context.Background(), st)
	require.NoError(t, err)
	return srv, s.Code()
}

func wsURL(srv *httptest.Server, code string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "?code=" + code
}

func dial(t *testing.T, srv *httptest.Server, code string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, wsURL(srv, code), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, payload))
}

func TestHandler_GestureRoundTrip(t *testing.T) {
	srv, code := setup(t)
	conn := dial(t, srv, code)

	first := readMsg(t, conn)
	require.Equal(t, types.MsgStateSnapshot, first.Type)
	assert.Equal(t, code, first.SessionCode)
	require.NotNil(t, first.State)
	assert.Equal(t, "24.5", first.State.ProjectedTotalText)

	send(t, conn, types.ClientMessage{Type: "Promote", PlayerID: string(barkley.ID)})

	snap := readMsg(t, conn)
	require.Equal(t, types.MsgStateSnapshot, snap.Type)
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, "42.3", snap.State.ProjectedTotalText)

	note := readMsg(t, conn)
	require.Equal(t, types.MsgNotification, note.Type)
	assert.Equal(t, "Saquon Barkley moved to lineup!", note.Notification.Message)
}

func TestHandler_RejectionSendsOnlyNotification(t *testing.T) {
	srv, code := setup(t)
	conn := dial(t, srv, code)
	readMsg(t, conn)

	send(t, conn, types.ClientMessage{Type: "Swap", EndpointA: "QB", EndpointB: string(kelce.ID)})

	msg := readMsg(t, conn)
	require.Equal(t, types.MsgNotification, msg.Type)
	assert.Equal(t, present.KindError, msg.Notification.Kind)
	assert.Equal(t, "Travis Kelce can't play QB", msg.Notification.Message)
	assert.Equal(t, "incompatible_position", msg.Code)
}

func TestHandler_MalformedInput(t *testing.T) {
	srv, code := setup(t)
	conn := dial(t, srv, code)
	readMsg(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("{not json")))
	msg := readMsg(t, conn)
	assert.Equal(t, types.MsgError, msg.Type)
	assert.Equal(t, "bad_json", msg.Code)

	send(t, conn, types.ClientMessage{Type: "LockPick"})
	msg = readMsg(t, conn)
	assert.Equal(t, types.MsgError, msg.Type)
	assert.Equal(t, "unknown_type", msg.Code)
}

func TestHandler_UnknownSession(t *testing.T) {
	srv, _ := setup(t)

	resp, err := http.Get(srv.URL + "?code=NOPE00")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// readUntilClosed drains conn and returns the error that ended it.
func readUntilClosed(t *testing.T, conn *websocket.Conn) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			require.NotErrorIs(t, err, context.DeadlineExceeded, "server never closed the connection")
			return err
		}
	}
}

func TestHandler_SessionRemovedClosesConnection(t *testing.T) {
	srv, h := newServer(t)
	s, err := h.Create(context.Background(), engine.NewEmptyState())
	require.NoError(t, err)

	conn := dial(t, srv, s.Code())
	readMsg(t, conn)

	removed, err := h.Remove(context.Background(), s.Code())
	require.NoError(t, err)
	require.True(t, removed)

	err = readUntilClosed(t, conn)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
}

func TestHandler_JoinRacingRemove(t *testing.T) {
	srv, h := newServer(t)
	t.Cleanup(http.DefaultClient.CloseIdleConnections)

	for i := 0; i < 20; i++ {
		s, err := h.Create(context.Background(), engine.NewEmptyState())
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.Remove(context.Background(), s.Code())
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		conn, _, err := websocket.Dial(ctx, wsURL(srv, s.Code()), nil)
		cancel()
		wg.Wait()
		if err != nil {
			// Removed before the lookup.
			continue
		}
		readUntilClosed(t, conn)
		conn.CloseNow()
	}
}
