package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-duel-go/internal/game/rules"
)

func newMulliganHarness(t *testing.T) *testHarness {
	t.Helper()
	cfg := testConfig()
	cfg.OpeningHand = 7
	cfg.Mulligan = true
	deck := func() []*Card {
		out := make([]*Card, 10)
		for i := range out {
			out[i] = forest()
		}
		return out
	}
	e, err := NewEngine(zaptest.NewLogger(t), cfg, []PlayerSetup{
		{ID: alice, Deck: deck()},
		{ID: bob, Deck: deck()},
	})
	require.NoError(t, err)
	return &testHarness{t: t, e: e}
}

func TestMulliganAskedBeforeFirstTurn(t *testing.T) {
	h := newMulliganHarness(t)

	pending := h.e.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, InteractionMulligan, pending.Kind)
	assert.Equal(t, alice, pending.PlayerID)
	assert.True(t, pending.CanDecline)

	err := h.e.PassPriority(alice)
	assert.True(t, IsCode(err, CodeInteractionPending), "got %v", err)
	err = h.e.HandleMulligan(bob, true)
	assert.True(t, IsCode(err, CodeNotYourPriority), "alice decides first, got %v", err)

	require.NoError(t, h.e.HandleMulligan(alice, true))
	pending = h.e.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, bob, pending.PlayerID)

	require.NoError(t, h.e.HandleMulligan(bob, true))
	assert.Nil(t, h.e.Pending())
	assert.Equal(t, 1, h.e.data.Turn.TurnNumber())
	assert.Equal(t, rules.StepUpkeep, h.step())
	assert.Equal(t, alice, h.e.PriorityPlayer())
	assert.Len(t, h.e.player(alice).Hand, 7)
	assert.True(t, h.logContains("mulligans complete"))
}

func TestMulliganBottomsOneCardPerRedraw(t *testing.T) {
	h := newMulliganHarness(t)
	player := h.e.player(alice)

	require.NoError(t, h.e.HandleMulligan(alice, false))
	assert.Equal(t, 1, player.Mulligans)
	assert.Len(t, player.Hand, 7)
	assert.Len(t, player.Library, 3)
	assert.True(t, h.logContains("alice takes a mulligan (1)"))

	pending := h.e.Pending()
	require.NotNil(t, pending)
	require.Equal(t, InteractionMulligan, pending.Kind)
	require.NoError(t, h.e.HandleMulligan(alice, true))

	pending = h.e.Pending()
	require.NotNil(t, pending)
	require.Equal(t, InteractionCardChoice, pending.Kind)
	assert.Equal(t, ContextBottom, pending.Context)
	assert.Equal(t, 1, pending.Min)
	assert.Equal(t, 1, pending.Max)

	err := h.e.HandleCardChoice(alice, pending.Choices[:2])
	assert.True(t, IsCode(err, CodeInvalidChoice), "exactly one card goes to the bottom, got %v", err)

	bottomed := player.Hand[0].ID
	require.NoError(t, h.e.HandleCardChoice(alice, []string{bottomed}))
	assert.Len(t, player.Hand, 6)
	require.Len(t, player.Library, 4)
	assert.Equal(t, bottomed, player.Library[3].ID)

	pending = h.e.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, bob, pending.PlayerID)
	require.NoError(t, h.e.HandleMulligan(bob, true))
	assert.Equal(t, rules.StepUpkeep, h.step())
	assert.Equal(t, 1, h.e.View().Players[0].Mulligans)
}

func TestMulliganLimit(t *testing.T) {
	h := newMulliganHarness(t)
	for range MaxMulligans {
		require.NoError(t, h.e.HandleMulligan(alice, false))
	}
	pending := h.e.Pending()
	require.NotNil(t, pending)
	assert.False(t, pending.CanDecline)

	err := h.e.HandleMulligan(alice, false)
	assert.True(t, IsCode(err, CodeInvalidChoice), "got %v", err)
	assert.Equal(t, MaxMulligans, h.e.player(alice).Mulligans)

	require.NoError(t, h.e.HandleMulligan(alice, true))
	pending = h.e.Pending()
	require.NotNil(t, pending)
	require.Len(t, pending.Choices, 7)
	require.NoError(t, h.e.HandleCardChoice(alice, pending.Choices))
	assert.Empty(t, h.e.player(alice).Hand)
	assert.Len(t, h.e.player(alice).Library, 10)
}
