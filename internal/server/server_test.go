package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/courtside/internal/metrics"
	"github.com/mesh-intelligence/courtside/internal/session"
	"github.com/mesh-intelligence/courtside/internal/sqlite"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

// newTestServer wires a scorer on a temp SQLite store behind an httptest
// server.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := sqlite.NewBackend()
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { store.Detach() })

	logger, _ := test.NewNullLogger()
	log := logrus.NewEntry(logger)
	registry := prometheus.NewRegistry()

	scorer := session.New(store,
		session.WithLogger(log),
		session.WithMetrics(metrics.NewMetrics(registry)),
		session.WithTeams(types.Teams{Home: "Cannes", Away: "Tours"}),
	)
	srv := NewServer(scorer, registry, DefaultConfig(), "test-version", log)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(ts.URL+path, "application/json", &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthHandler(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts, "/api/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decodeBody[HealthResponse](t, resp)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test-version", health.Version)
	assert.Empty(t, health.MatchID)
}

func TestMatchBeforeNewMatch(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts, "/api/match")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	e := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "no_match", e.Code)
}

func TestOperatorFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/api/match", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	snap := decodeBody[session.Snapshot](t, resp)
	require.NotEmpty(t, snap.MatchID)
	assert.Equal(t, "Cannes", snap.HomeName)

	resp = post(t, ts, "/api/match/action", ActionRequest{Code: "ATK_POINT"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "confirm before selecting")
	assert.Equal(t, "invalid_selection", decodeBody[ErrorResponse](t, resp).Code)

	resp = post(t, ts, "/api/match/zone", ZoneRequest{Zone: "P4"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decodeBody[session.Snapshot](t, resp)
	require.NotNil(t, snap.Pending)
	assert.Equal(t, "P4", snap.Pending.Zone)

	resp = post(t, ts, "/api/match/player", PlayerRequest{Number: 10})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post(t, ts, "/api/match/action", ActionRequest{Code: "atk_point"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decodeBody[session.Snapshot](t, resp)
	assert.Equal(t, 1, snap.ScoreHome)
	assert.Nil(t, snap.Pending)
	require.Len(t, snap.Log, 1)
	assert.Equal(t, "C. Receiver", snap.Log[0].Player)

	resp = get(t, ts, "/api/match/history")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hist := decodeBody[HistoryResponse](t, resp)
	assert.Equal(t, snap.MatchID, hist.MatchID)
	require.Len(t, hist.Entries, 1)
	assert.NotZero(t, hist.Entries[0].ID)

	resp = get(t, ts, "/api/match/history?set=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[HistoryResponse](t, resp).Entries)

	resp = get(t, ts, "/api/match/history?set=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, ts, "/api/match/undo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decodeBody[session.Snapshot](t, resp).ScoreHome)

	resp = post(t, ts, "/api/match/undo", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "nothing_to_undo", decodeBody[ErrorResponse](t, resp).Code)
}

func TestSelectionErrors(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, "/api/match", nil)

	tests := []struct {
		name       string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"bad zone", "/api/match/zone", ZoneRequest{Zone: "P7"}, http.StatusBadRequest, "invalid_zone"},
		{"player without zone", "/api/match/player", PlayerRequest{Number: 4}, http.StatusBadRequest, "invalid_selection"},
		{"unknown code", "/api/match/action", ActionRequest{Code: "FIN_MATCH"}, http.StatusBadRequest, "invalid_action"},
		{"malformed body", "/api/match/zone", "not an object", http.StatusBadRequest, "bad_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decodeBody[ErrorResponse](t, resp).Code)
		})
	}
}

func TestCancelClearsSelection(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, "/api/match", nil)
	post(t, ts, "/api/match/zone", ZoneRequest{Zone: "2"})

	resp := post(t, ts, "/api/match/cancel", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decodeBody[session.Snapshot](t, resp).Pending)
}

func TestCatalogHandler(t *testing.T) {
	ts := newTestServer(t)

	resp := get(t, ts, "/api/catalog")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cat := decodeBody[CatalogResponse](t, resp)

	require.Len(t, cat.Zones, 6)
	assert.Equal(t, ZoneInfo{Label: "P1", Name: "Back right"}, cat.Zones[0])
	assert.Len(t, cat.Roster, 12)
	assert.Len(t, cat.Categories, 5)
	assert.Equal(t, "Tours", cat.Teams.Away)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, "/api/match", nil)
	post(t, ts, "/api/match/zone", ZoneRequest{Zone: "1"})
	post(t, ts, "/api/match/player", PlayerRequest{Number: 12})
	post(t, ts, "/api/match/action", ActionRequest{Code: "SVC_ACE"})

	resp := get(t, ts, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `courtside_actions_total{category="SVC",code="SVC_ACE"} 1`)
	assert.Contains(t, string(body), `courtside_score{team="HOME"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/match", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { ws.Close() })
	return ws
}

// wsResult mirrors WSResponse with a concrete payload for decoding.
type wsResult struct {
	Type    string            `json:"type"`
	ID      string            `json:"id"`
	Payload *session.Snapshot `json:"payload"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
}

func roundTrip(t *testing.T, ws *websocket.Conn, msgType, id string, payload any) wsResult {
	t.Helper()
	msg := WSMessage{Type: msgType, ID: id}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		msg.Payload = raw
	}
	require.NoError(t, ws.WriteJSON(msg))

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var res wsResult
	require.NoError(t, ws.ReadJSON(&res))
	assert.Equal(t, id, res.ID)
	return res
}

func TestWebSocketPing(t *testing.T) {
	ts := newTestServer(t)
	ws := dialWS(t, ts)

	res := roundTrip(t, ws, MsgPing, "ping-1", nil)
	assert.Equal(t, "pong", res.Type)
}

func TestWebSocketOperatorEvents(t *testing.T) {
	ts := newTestServer(t)
	ws := dialWS(t, ts)

	res := roundTrip(t, ws, MsgSnapshot, "1", nil)
	assert.Equal(t, "error", res.Type)
	assert.Equal(t, "no_match", res.Code)

	res = roundTrip(t, ws, MsgNewMatch, "2", nil)
	require.Equal(t, "snapshot", res.Type, res.Error)
	require.NotNil(t, res.Payload)
	assert.Equal(t, 1, res.Payload.CurrentSet)

	res = roundTrip(t, ws, MsgZoneSelected, "3", ZoneRequest{Zone: "P6"})
	require.Equal(t, "snapshot", res.Type, res.Error)

	res = roundTrip(t, ws, MsgPlayerPicked, "4", PlayerRequest{Number: 8})
	require.Equal(t, "snapshot", res.Type, res.Error)
	assert.Equal(t, "A. Libero", res.Payload.Pending.Player.Name)

	res = roundTrip(t, ws, MsgActionConfirm, "5", ActionRequest{Code: "REC_ERR"})
	require.Equal(t, "snapshot", res.Type, res.Error)
	assert.Equal(t, 1, res.Payload.ScoreAway)

	res = roundTrip(t, ws, MsgZoneSelected, "6", ZoneRequest{Zone: "P1"})
	require.Equal(t, "snapshot", res.Type, res.Error)
	res = roundTrip(t, ws, MsgCancel, "7", nil)
	require.Equal(t, "snapshot", res.Type, res.Error)
	assert.Nil(t, res.Payload.Pending)

	res = roundTrip(t, ws, MsgUndo, "8", nil)
	require.Equal(t, "snapshot", res.Type, res.Error)
	assert.Equal(t, 0, res.Payload.ScoreAway)

	res = roundTrip(t, ws, MsgActionConfirm, "9", ActionRequest{Code: "SVC_ACE"})
	assert.Equal(t, "error", res.Type)
	assert.Equal(t, "invalid_selection", res.Code)

	res = roundTrip(t, ws, "dance", "10", nil)
	assert.Equal(t, "error", res.Type)
	assert.Equal(t, "unknown message type", res.Error)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrMatchAlreadyOver, http.StatusConflict},
		{types.ErrNothingToUndo, http.StatusConflict},
		{types.ErrInvalidSelection, http.StatusBadRequest},
		{types.ErrInvalidZone, http.StatusBadRequest},
		{types.ErrInvalidActionCode, http.StatusBadRequest},
		{types.ErrInvalidPlayer, http.StatusBadRequest},
		{types.ErrNoMatch, http.StatusNotFound},
		{types.ErrPersistenceUnavailable, http.StatusServiceUnavailable},
		{types.ErrLogCorrupt, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, errorStatus(tt.err))
		})
	}
}
