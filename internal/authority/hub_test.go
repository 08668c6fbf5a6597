package authority

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/roilabs/progression-go/internal/protocol"
	"github.com/roilabs/progression-go/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	service := NewService(gameConfig(), nil)
	hub := NewHub(service, nil)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return service, srv
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func joinGame(t *testing.T, conn *websocket.Conn, userID string) {
	t.Helper()
	env, err := protocol.NewEnvelope(protocol.IntentJoinGame, protocol.JoinGame{UserID: userID})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(env))
}

func decodePayload(env protocol.Envelope, out any) error {
	return json.Unmarshal(env.Payload, out)
}

// readEvent reads envelopes until one of eventType arrives.
func readEvent(t *testing.T, conn *websocket.Conn, eventType string) protocol.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var env protocol.Envelope
		require.NoError(t, conn.ReadJSON(&env))
		if env.Type == eventType {
			return env
		}
	}
}

func TestJoinSendsGameStateSnapshot(t *testing.T) {
	_, srv := startHub(t)
	conn := dialHub(t, srv)
	joinGame(t, conn, "user-1")

	env := readEvent(t, conn, protocol.EventGameState)

	var state session.GameState
	require.NoError(t, decodePayload(env, &state))
	assert.Equal(t, 1, state.Progression.Level)
	assert.Equal(t, 50, state.Resources.MaxEnergy)
}

func TestEventsReachOnlyJoinedRoom(t *testing.T) {
	service, srv := startHub(t)

	alpha := dialHub(t, srv)
	joinGame(t, alpha, "user-a")
	readEvent(t, alpha, protocol.EventGameState)

	beta := dialHub(t, srv)
	joinGame(t, beta, "user-b")
	readEvent(t, beta, protocol.EventGameState)

	service.AddResources("user-a", protocol.RewardBundle{Coins: 25})

	env := readEvent(t, alpha, protocol.EventResourcesGained)
	var gained protocol.ResourcesGained
	require.NoError(t, decodePayload(env, &gained))
	assert.Equal(t, 25, gained.Coins)

	// user-b's connection sees nothing within the window.
	require.NoError(t, beta.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var stray protocol.Envelope
	err := beta.ReadJSON(&stray)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "timeout") || websocket.IsUnexpectedCloseError(err))
}

func TestJoinWithoutUserIDReturnsGameError(t *testing.T) {
	_, srv := startHub(t)
	conn := dialHub(t, srv)

	env, err := protocol.NewEnvelope(protocol.IntentJoinGame, protocol.JoinGame{})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(env))

	got := readEvent(t, conn, protocol.EventGameError)
	var gameErr protocol.GameError
	require.NoError(t, decodePayload(got, &gameErr))
	assert.NotEmpty(t, gameErr.Message)
}

func TestUnknownIntentTolerated(t *testing.T) {
	service, srv := startHub(t)
	conn := dialHub(t, srv)
	joinGame(t, conn, "user-1")
	readEvent(t, conn, protocol.EventGameState)

	require.NoError(t, conn.WriteJSON(protocol.Envelope{Type: "start-karaoke"}))

	// The connection keeps working afterwards.
	service.AddResources("user-1", protocol.RewardBundle{Gems: 1})
	env := readEvent(t, conn, protocol.EventResourcesGained)
	var gained protocol.ResourcesGained
	require.NoError(t, decodePayload(env, &gained))
	assert.Equal(t, 1, gained.Gems)
}

func TestLevelUpEventReachesClient(t *testing.T) {
	service, srv := startHub(t)
	conn := dialHub(t, srv)
	joinGame(t, conn, "user-1")
	readEvent(t, conn, protocol.EventGameState)

	service.AddResources("user-1", protocol.RewardBundle{Experience: 250})

	env := readEvent(t, conn, protocol.EventLevelUp)
	var levelUp protocol.LevelUp
	require.NoError(t, decodePayload(env, &levelUp))
	assert.Equal(t, 3, levelUp.NewLevel)
}
