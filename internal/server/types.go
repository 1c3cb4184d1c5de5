package server

import (
	"encoding/json"

	"github.com/mesh-intelligence/courtside/internal/session"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

// ZoneRequest selects a court zone. Zone accepts "4" or "P4".
type ZoneRequest struct {
	Zone string `json:"zone"`
}

// PlayerRequest selects a player by shirt number.
type PlayerRequest struct {
	Number int `json:"number"`
}

// ActionRequest confirms an action outcome, e.g. "ATK_POINT".
type ActionRequest struct {
	Code string `json:"code"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error string `json:"error"`          // Error message
	Code  string `json:"code,omitempty"` // Error code
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status  string `json:"status"`  // "ok"
	Version string `json:"version"` // Build version
	MatchID string `json:"matchId,omitempty"`
}

// HistoryResponse lists stored rows, most-recent-first.
type HistoryResponse struct {
	MatchID string           `json:"matchId"`
	Entries []types.LogEntry `json:"entries"`
}

// ZoneInfo describes one court position.
type ZoneInfo struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// CatalogResponse lists everything a court diagram needs to render its
// pickers.
type CatalogResponse struct {
	Zones      []ZoneInfo       `json:"zones"`
	Roster     []types.Player   `json:"roster"`
	Categories []types.Category `json:"categories"`
	Teams      types.Teams      `json:"teams"`
}

// WebSocket message types sent by the operator.
const (
	MsgNewMatch      = "newMatchRequested"
	MsgZoneSelected  = "zoneSelected"
	MsgPlayerPicked  = "playerSelected"
	MsgActionConfirm = "actionConfirmed"
	MsgCancel        = "cancelSelection"
	MsgUndo          = "undoRequested"
	MsgSnapshot      = "snapshot"
	MsgPing          = "ping"
)

// WSMessage is an operator event received over the WebSocket.
type WSMessage struct {
	Type    string          `json:"type"`    // One of the Msg* constants
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // ZoneRequest, PlayerRequest or ActionRequest
}

// WSResponse answers one WSMessage.
type WSResponse struct {
	Type     string            `json:"type"` // "snapshot", "pong" or "error"
	ID       string            `json:"id,omitempty"`
	Snapshot *session.Snapshot `json:"payload,omitempty"`
	Error    string            `json:"error,omitempty"`
	Code     string            `json:"code,omitempty"`
}
