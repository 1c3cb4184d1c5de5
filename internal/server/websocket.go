package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mesh-intelligence/courtside/internal/session"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSClient represents a connected operator console.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	ctx      context.Context
	sendChan chan WSResponse
}

// WebSocket upgrades the connection and serves operator events until the
// client disconnects.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	h.log.WithField("remote", r.RemoteAddr).Debug("operator connected")
	client := &WSClient{
		conn:     conn,
		handlers: h,
		ctx:      context.WithoutCancel(r.Context()),
		sendChan: make(chan WSResponse, 256),
	}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	scorer := c.handlers.scorer
	switch msg.Type {
	case MsgPing:
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	case MsgSnapshot:
		c.reply(msg, scorer.Snapshot)
	case MsgNewMatch:
		c.reply(msg, func() (session.Snapshot, error) { return scorer.NewMatch(c.ctx) })
	case MsgZoneSelected:
		var req ZoneRequest
		if !c.decode(msg, &req) {
			return
		}
		c.reply(msg, func() (session.Snapshot, error) { return c.handlers.selectZone(req) })
	case MsgPlayerPicked:
		var req PlayerRequest
		if !c.decode(msg, &req) {
			return
		}
		c.reply(msg, func() (session.Snapshot, error) { return scorer.SelectPlayer(req.Number) })
	case MsgActionConfirm:
		var req ActionRequest
		if !c.decode(msg, &req) {
			return
		}
		c.reply(msg, func() (session.Snapshot, error) {
			code, err := types.ParseActionCode(req.Code)
			if err != nil {
				return session.Snapshot{}, err
			}
			return scorer.Confirm(c.ctx, code)
		})
	case MsgCancel:
		c.reply(msg, scorer.Cancel)
	case MsgUndo:
		c.reply(msg, func() (session.Snapshot, error) { return scorer.Undo(c.ctx) })
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type", Code: "bad_request"}
	}
}

func (c *WSClient) decode(msg WSMessage, v any) bool {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "bad_request"}
		return false
	}
	return true
}

func (c *WSClient) reply(msg WSMessage, op func() (session.Snapshot, error)) {
	snap, err := op()
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error(), Code: errorCode(err)}
		return
	}
	c.sendChan <- WSResponse{Type: "snapshot", ID: msg.ID, Snapshot: &snap}
}
