package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/rules"
)

func TestNewEngineStartsInFirstUpkeep(t *testing.T) {
	h := newTestHarness(t)
	d := h.e.Data()

	assert.Equal(t, 1, d.Turn.TurnNumber())
	assert.Equal(t, rules.StepUpkeep, h.step())
	assert.Equal(t, alice, d.Turn.ActivePlayer())
	assert.Equal(t, alice, h.e.PriorityPlayer())
	for _, p := range d.Players {
		assert.Equal(t, 20, p.Life)
		assert.Len(t, p.Library, 10)
		assert.Empty(t, p.Hand)
	}
	assert.Nil(t, h.e.Pending())
}

func TestNewEngineRejectsBadSeats(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := NewEngine(logger, testConfig(), []PlayerSetup{{ID: alice}})
	assert.Error(t, err)

	_, err = NewEngine(logger, testConfig(), []PlayerSetup{{ID: alice}, {ID: alice}})
	assert.Error(t, err)
}

func TestSameSeedSameGame(t *testing.T) {
	build := func() *Engine {
		deck := []*Card{forest(), creature("Bear", 2, 2), shock(), creature("Elf", 1, 1), forest()}
		cfg := testConfig()
		cfg.OpeningHand = 3
		e, err := NewEngine(zaptest.NewLogger(t), cfg, []PlayerSetup{{ID: alice, Deck: deck}, {ID: bob, Deck: deck}})
		require.NoError(t, err)
		return e
	}
	a, b := build(), build()

	assert.Equal(t, a.Data().ID, b.Data().ID)
	for i := range a.Data().Players {
		pa, pb := a.Data().Players[i], b.Data().Players[i]
		require.Len(t, pa.Hand, 3)
		for j := range pa.Hand {
			assert.Equal(t, pa.Hand[j].ID, pb.Hand[j].ID)
			assert.Equal(t, pa.Hand[j].Card.Name, pb.Hand[j].Card.Name)
		}
	}
}

func TestStartingPlayerSkipsFirstDraw(t *testing.T) {
	h := newTestHarness(t)
	h.toStep(rules.StepMain1)
	assert.Empty(t, h.e.player(alice).Hand)
	assert.Len(t, h.e.player(alice).Library, 10)

	// On to Bob's turn: he draws.
	for h.e.data.Turn.ActivePlayer() != bob {
		h.pass()
	}
	h.toStep(rules.StepMain1)
	assert.Len(t, h.e.player(bob).Hand, 1)
	assert.Equal(t, 1, h.e.CardsDrawn(bob))
}

func TestPassPriorityRejectsNonHolder(t *testing.T) {
	h := newTestHarness(t)

	err := h.e.PassPriority(bob)
	assert.True(t, IsCode(err, CodeNotYourPriority), "got %v", err)

	err = h.e.PassPriority("carol")
	assert.True(t, IsCode(err, CodeNotFound), "got %v", err)
}

func TestViewSummarizesGame(t *testing.T) {
	h := newTestHarness(t)
	h.toStep(rules.StepMain1)
	bear := h.put(alice, creature("Grizzly Bears", 2, 2))
	bear.PowerModifier = 1

	v := h.e.View()
	assert.Equal(t, "MAIN1", v.Step)
	assert.Equal(t, alice, v.ActivePlayer)
	assert.Equal(t, alice, v.PriorityPlayer)
	require.Len(t, v.Players, 2)
	assert.Equal(t, 10, v.Players[1].Library)
	require.Len(t, v.Battlefield, 1)
	assert.Equal(t, "Grizzly Bears", v.Battlefield[0].Name)
	assert.Equal(t, 3, v.Battlefield[0].Power)
	assert.Equal(t, []string{"green"}, v.Battlefield[0].Colors)
	assert.Nil(t, v.Interaction)
	assert.NotEmpty(t, v.Log)
}

func TestLogLimitTrimsOldestEntries(t *testing.T) {
	cfg := testConfig()
	cfg.LogLimit = 3
	e, err := NewEngine(zaptest.NewLogger(t), cfg, []PlayerSetup{{ID: alice}, {ID: bob}})
	require.NoError(t, err)

	for i := range 10 {
		e.logf("line %d", i)
	}
	require.Len(t, e.data.Log, 3)
	assert.Equal(t, "line 9", e.data.Log[2].Text)
}

func TestUpkeepTriggerFiresForControllerOnly(t *testing.T) {
	h := newTestHarness(t)
	h.put(bob, &Card{
		Name:    "Phyrexian Arena",
		Types:   []string{TypeEnchantment},
		Effects: map[Slot][]Effect{SlotUpkeep: {DrawCards{Count: 1}, LoseLife{Amount: 1}}},
	})

	h.nextTurn()
	require.Equal(t, rules.StepUpkeep, h.step())
	require.Equal(t, 1, h.e.data.Stack.Len())
	top, _ := h.e.data.Stack.Peek()
	assert.Equal(t, bob, top.Controller)

	hand := len(h.e.player(bob).Hand)
	h.passBoth()
	assert.Equal(t, 19, h.life(bob))
	assert.Len(t, h.e.player(bob).Hand, hand+1)

	h.nextTurn()
	require.Equal(t, rules.StepUpkeep, h.step())
	assert.True(t, h.e.data.Stack.IsEmpty())
}

func TestEndStepTrigger(t *testing.T) {
	h := newTestHarness(t)
	h.put(alice, &Card{
		Name:    "Sunny Shrine",
		Types:   []string{TypeEnchantment},
		Effects: map[Slot][]Effect{SlotEndStep: {GainLife{Amount: 2}}},
	})

	h.toStep(rules.StepEnd)
	assert.Equal(t, 22, h.life(alice))
	assert.Equal(t, 20, h.life(bob))
}

func TestDoesntUntapStaysTapped(t *testing.T) {
	h := newTestHarness(t)
	colossus := h.put(alice, creature("Colossus of Sardia", 9, 9, effects.DoesntUntap))
	colossus.Tapped = true
	land := h.put(alice, forest())
	land.Tapped = true

	h.nextTurn()
	assert.True(t, colossus.Tapped, "bob's untap step leaves alice's permanents alone")
	assert.True(t, land.Tapped)

	h.nextTurn()
	require.Equal(t, 3, h.e.data.Turn.TurnNumber())
	assert.True(t, colossus.Tapped)
	assert.False(t, land.Tapped)
	assert.False(t, colossus.SummoningSick)
}
