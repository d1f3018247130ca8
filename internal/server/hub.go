package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/config"
	"github.com/magefree/mage-duel-go/internal/game"
)

// Message types exchanged over the socket.
const (
	MessageJoin   = "join"
	MessageAction = "action"
	MessageState  = "state"
	MessageError  = "error"
	MessageHalted = "halted"
)

// CodeHalted is sent for every action once the game has been halted.
const CodeHalted = "game_halted"

// Message is the envelope for everything sent in either direction.
type Message struct {
	Type     string     `json:"type"`
	PlayerID string     `json:"player_id,omitempty"`
	Action   *Action    `json:"action,omitempty"`
	View     *game.View `json:"view,omitempty"`
	Code     string     `json:"code,omitempty"`
	Error    string     `json:"error,omitempty"`
}

type request struct {
	client *Client
	msg    Message
}

// Hub owns one engine. Every engine call happens on the Run goroutine.
type Hub struct {
	engine   *game.Engine
	logger   *zap.Logger
	upgrader websocket.Upgrader

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	requests   chan request
	done       chan struct{}

	// halted is set when the engine panicked. Its state is no longer
	// trusted and no further action reaches it.
	halted string
}

// NewHub creates a hub serving engine.
func NewHub(engine *game.Engine, cfg config.ServerConfig, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		engine: engine,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBuffer,
			WriteBufferSize: cfg.WriteBuffer,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		requests:   make(chan request),
		done:       make(chan struct{}),
	}
}

// Run serves requests until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			close(c.send)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Debug("client connected", zap.String("remote", c.conn.RemoteAddr().String()))
		case c := <-h.unregister:
			h.drop(c)
		case req := <-h.requests:
			h.handle(req.client, req.msg)
		}
	}
}

func (h *Hub) handle(c *Client, msg Message) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	switch msg.Type {
	case MessageJoin:
		if msg.PlayerID != "" && !h.isPlayer(msg.PlayerID) {
			h.sendError(c, "", fmt.Sprintf("%s is not in this game", msg.PlayerID))
			return
		}
		c.playerID = msg.PlayerID
		h.logger.Info("client joined", zap.String("player_id", msg.PlayerID))
		h.sendState(c)
	case MessageAction:
		if c.playerID == "" {
			h.sendError(c, "", "join as a player before acting")
			return
		}
		if msg.Action == nil {
			h.sendError(c, "", "action is required")
			return
		}
		if h.halted != "" {
			h.sendError(c, CodeHalted, h.halted)
			return
		}
		if err := h.apply(c.playerID, *msg.Action); err != nil {
			if h.halted != "" {
				h.broadcast(Message{Type: MessageHalted, Code: CodeHalted, Error: h.halted})
				return
			}
			var ae *game.ActionError
			if errors.As(err, &ae) {
				h.sendError(c, string(ae.Code), ae.Message)
			} else {
				h.sendError(c, "", err.Error())
			}
			return
		}
		for client := range h.clients {
			h.sendState(client)
		}
	default:
		h.sendError(c, "", fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// apply runs an action. An engine panic halts the game: the process stays
// up, but the engine is never called again.
func (h *Hub) apply(playerID string, a Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("engine panic, halting game",
				zap.String("player_id", playerID),
				zap.Any("action", a),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			h.halted = fmt.Sprintf("game halted after an internal error handling %s", a.Type)
			err = errors.New(h.halted)
		}
	}()
	return Apply(h.engine, playerID, a)
}

func (h *Hub) isPlayer(id string) bool {
	for _, p := range h.engine.Data().Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (h *Hub) sendState(c *Client) {
	if h.halted != "" {
		h.send(c, Message{Type: MessageHalted, Code: CodeHalted, Error: h.halted})
		return
	}
	view := h.engine.View()
	h.send(c, Message{Type: MessageState, View: &view})
}

func (h *Hub) broadcast(msg Message) {
	for client := range h.clients {
		h.send(client, msg)
	}
}

func (h *Hub) sendError(c *Client, code, text string) {
	h.send(c, Message{Type: MessageError, Code: code, Error: text})
}

func (h *Hub) send(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode message", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
		h.logger.Warn("client too slow, dropping", zap.String("player_id", c.playerID))
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}
