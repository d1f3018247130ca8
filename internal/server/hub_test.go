package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-duel-go/internal/cards"
	"github.com/magefree/mage-duel-go/internal/config"
	"github.com/magefree/mage-duel-go/internal/game"
	"github.com/magefree/mage-duel-go/internal/game/mana"
)

func newTestEngine(t *testing.T) *game.Engine {
	t.Helper()
	cat, err := cards.LoadEmbedded()
	require.NoError(t, err)
	deck, err := cat.Deck([]string{"20 Lightning Bolt"})
	require.NoError(t, err)
	return newEngineWithDeck(t, deck)
}

func newEngineWithDeck(t *testing.T, deck []*game.Card) *game.Engine {
	t.Helper()
	cfg := config.Default().Engine
	cfg.Mulligan = false
	e, err := game.NewEngine(zaptest.NewLogger(t), cfg, []game.PlayerSetup{
		{ID: "alice", Deck: deck},
		{ID: "bob", Deck: deck},
	})
	require.NoError(t, err)
	return e
}

// explode breaks the engine the way a bug in a card effect would.
type explode struct{}

func (explode) Apply(*game.EffectContext) error {
	panic("effect exploded")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg Message) Message {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

// readUntil reads messages until one of type want arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == want {
			return msg
		}
	}
}

func startHub(t *testing.T, e *game.Engine) *httptest.Server {
	t.Helper()
	hub := NewHub(e, config.Default().Server, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv
}

func TestHubPlaysActions(t *testing.T) {
	srv := startHub(t, newTestEngine(t))
	conn := dial(t, srv.URL)

	reply := roundTrip(t, conn, Message{Type: MessageJoin, PlayerID: "alice"})
	require.Equal(t, MessageState, reply.Type)
	require.NotNil(t, reply.View)
	assert.Equal(t, "alice", reply.View.PriorityPlayer)
	assert.Equal(t, 1, reply.View.Turn)

	reply = roundTrip(t, conn, Message{Type: MessageAction, Action: &Action{Type: ActionPass}})
	require.Equal(t, MessageState, reply.Type)
	assert.Equal(t, "bob", reply.View.PriorityPlayer)

	reply = roundTrip(t, conn, Message{Type: MessageAction, Action: &Action{Type: ActionPass}})
	require.Equal(t, MessageError, reply.Type)
	assert.Equal(t, string(game.CodeNotYourPriority), reply.Code)
}

func TestHubRejectsBadRequests(t *testing.T) {
	srv := startHub(t, newTestEngine(t))
	conn := dial(t, srv.URL)

	reply := roundTrip(t, conn, Message{Type: MessageAction, Action: &Action{Type: ActionPass}})
	assert.Equal(t, MessageError, reply.Type)
	assert.Contains(t, reply.Error, "join")

	reply = roundTrip(t, conn, Message{Type: MessageJoin, PlayerID: "mallory"})
	assert.Equal(t, MessageError, reply.Type)

	reply = roundTrip(t, conn, Message{Type: MessageJoin, PlayerID: "alice"})
	require.Equal(t, MessageState, reply.Type)

	reply = roundTrip(t, conn, Message{Type: MessageAction, Action: &Action{Type: "concede"}})
	assert.Equal(t, MessageError, reply.Type)
	assert.Contains(t, reply.Error, "unknown action")

	reply = roundTrip(t, conn, Message{Type: "chat"})
	assert.Equal(t, MessageError, reply.Type)
}

func TestHubSpectatorSeesBroadcast(t *testing.T) {
	srv := startHub(t, newTestEngine(t))
	player := dial(t, srv.URL)
	watcher := dial(t, srv.URL)

	require.Equal(t, MessageState, roundTrip(t, watcher, Message{Type: MessageJoin}).Type)
	require.Equal(t, MessageState, roundTrip(t, player, Message{Type: MessageJoin, PlayerID: "alice"}).Type)

	require.Equal(t, MessageState, roundTrip(t, player, Message{Type: MessageAction, Action: &Action{Type: ActionPass}}).Type)

	require.NoError(t, watcher.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, watcher.ReadJSON(&msg))
	require.Equal(t, MessageState, msg.Type)
	assert.Equal(t, "bob", msg.View.PriorityPlayer)
}

func TestApply(t *testing.T) {
	e := newTestEngine(t)
	alice := e.Data().Players[0]

	bolt := alice.Hand[0].ID
	alice.Pool.Add(mana.Red, 1)

	require.NoError(t, Apply(e, "alice", Action{Type: ActionCast, CardID: bolt, Targets: []string{"bob"}}))
	require.NoError(t, Apply(e, "alice", Action{Type: ActionPass}))
	require.NoError(t, Apply(e, "bob", Action{Type: ActionPass}))
	assert.Equal(t, 17, e.Data().Players[1].Life)

	err := Apply(e, "alice", Action{Type: ActionChooseColor, Color: "purple"})
	assert.Error(t, err)
	err = Apply(e, "alice", Action{Type: ActionMay, Accept: true})
	assert.True(t, game.IsCode(err, game.CodeInvalidChoice))
	assert.ErrorIs(t, Apply(e, "alice", Action{Type: "shuffle"}), ErrUnknownAction)
}

func TestHubHaltsAfterEnginePanic(t *testing.T) {
	card := &game.Card{
		ID:      "glitch",
		Name:    "Glitch",
		Cost:    mana.MustParseCost("{0}"),
		Types:   []string{game.TypeInstant},
		Effects: map[game.Slot][]game.Effect{game.SlotSpell: {explode{}}},
	}
	deck := make([]*game.Card, 20)
	for i := range deck {
		deck[i] = card
	}
	e := newEngineWithDeck(t, deck)
	srv := startHub(t, e)
	alice := dial(t, srv.URL)
	bob := dial(t, srv.URL)

	require.Equal(t, MessageState, roundTrip(t, alice, Message{Type: MessageJoin, PlayerID: "alice"}).Type)
	require.Equal(t, MessageState, roundTrip(t, bob, Message{Type: MessageJoin, PlayerID: "bob"}).Type)

	glitch := e.Data().Players[0].Hand[0].ID
	reply := roundTrip(t, alice, Message{Type: MessageAction, Action: &Action{Type: ActionCast, CardID: glitch}})
	require.Equal(t, MessageState, reply.Type)
	require.Len(t, reply.View.Stack, 1)
	reply = roundTrip(t, alice, Message{Type: MessageAction, Action: &Action{Type: ActionPass}})
	require.Equal(t, MessageState, reply.Type)
	assert.Equal(t, "bob", reply.View.PriorityPlayer)

	require.NoError(t, bob.WriteJSON(Message{Type: MessageAction, Action: &Action{Type: ActionPass}}))

	halted := readUntil(t, bob, MessageHalted)
	assert.Equal(t, CodeHalted, halted.Code)
	assert.Contains(t, halted.Error, "pass")
	assert.Equal(t, CodeHalted, readUntil(t, alice, MessageHalted).Code)

	reply = roundTrip(t, alice, Message{Type: MessageAction, Action: &Action{Type: ActionPass}})
	require.Equal(t, MessageError, reply.Type)
	assert.Equal(t, CodeHalted, reply.Code)

	reply = roundTrip(t, bob, Message{Type: MessageJoin, PlayerID: "bob"})
	assert.Equal(t, MessageHalted, reply.Type)
}

func TestApplyMulligan(t *testing.T) {
	cat, err := cards.LoadEmbedded()
	require.NoError(t, err)
	deck, err := cat.Deck([]string{"20 Lightning Bolt"})
	require.NoError(t, err)
	e, err := game.NewEngine(zaptest.NewLogger(t), config.Default().Engine, []game.PlayerSetup{
		{ID: "alice", Deck: deck},
		{ID: "bob", Deck: deck},
	})
	require.NoError(t, err)

	err = Apply(e, "alice", Action{Type: ActionPass})
	assert.True(t, game.IsCode(err, game.CodeInteractionPending), "got %v", err)
	err = Apply(e, "alice", Action{Type: ActionChooseTarget, TargetID: "bob"})
	assert.True(t, game.IsCode(err, game.CodeInvalidChoice), "got %v", err)

	require.NoError(t, Apply(e, "alice", Action{Type: ActionMulligan, Accept: true}))
	require.NoError(t, Apply(e, "bob", Action{Type: ActionMulligan, Accept: true}))
	assert.Nil(t, e.Pending())
	assert.Equal(t, "alice", e.PriorityPlayer())
}
