package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-duel-go/internal/config"
	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/rules"
	"github.com/magefree/mage-duel-go/internal/game/targeting"
)

const (
	alice = "alice"
	bob   = "bob"
)

// testHarness builds game states quickly. Both players start with ten
// Forests in their library and an empty hand; Alice is on the play and
// holds priority in her first upkeep.
type testHarness struct {
	t *testing.T
	e *Engine
}

func testConfig() config.EngineConfig {
	return config.EngineConfig{
		StartingLife:     20,
		HandSize:         7,
		OpeningHand:      0,
		MaxSBAIterations: 100,
		LogLimit:         1000,
		Seed:             7,
	}
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	deck := func() []*Card {
		out := make([]*Card, 10)
		for i := range out {
			out[i] = forest()
		}
		return out
	}
	e, err := NewEngine(zaptest.NewLogger(t), testConfig(), []PlayerSetup{
		{ID: alice, Deck: deck()},
		{ID: bob, Deck: deck()},
	})
	require.NoError(t, err)
	return &testHarness{t: t, e: e}
}

func (h *testHarness) step() rules.Step {
	return h.e.data.Turn.CurrentStep()
}

// pass passes priority for whoever holds it.
func (h *testHarness) pass() {
	h.t.Helper()
	require.NoError(h.t, h.e.PassPriority(h.e.PriorityPlayer()))
}

// passBoth has both players pass in succession.
func (h *testHarness) passBoth() {
	h.t.Helper()
	h.pass()
	h.pass()
}

// toStep passes until the game reaches step with an empty stack.
func (h *testHarness) toStep(step rules.Step) {
	h.t.Helper()
	for range 100 {
		if h.step() == step && h.e.data.Stack.IsEmpty() {
			return
		}
		h.pass()
	}
	h.t.Fatalf("never reached %s, stuck in %s", step, h.step())
}

// put puts a card onto the battlefield for controller, ready to attack or tap.
func (h *testHarness) put(controller string, card *Card) *Permanent {
	h.t.Helper()
	inst := &CardInstance{ID: h.e.newID("card"), Card: card, Owner: controller}
	p := h.e.enterBattlefield(inst, controller, nil)
	p.SummoningSick = false
	h.e.settle()
	return p
}

// hand adds a card to a player's hand and returns its id.
func (h *testHarness) hand(playerID string, card *Card) string {
	inst := &CardInstance{ID: h.e.newID("card"), Card: card, Owner: playerID}
	player := h.e.player(playerID)
	player.Hand = append(player.Hand, inst)
	return inst.ID
}

func (h *testHarness) addMana(playerID string, colors ...mana.Color) {
	for _, c := range colors {
		h.e.player(playerID).Pool.Add(c, 1)
	}
}

func (h *testHarness) life(playerID string) int {
	return h.e.player(playerID).Life
}

func (h *testHarness) onBattlefield(p *Permanent) bool {
	return h.e.permanent(p.ID) != nil
}

func (h *testHarness) graveyardNames(playerID string) []string {
	var names []string
	for _, inst := range h.e.player(playerID).Graveyard {
		names = append(names, inst.Card.Name)
	}
	return names
}

func (h *testHarness) logContains(text string) bool {
	for _, l := range h.e.data.Log {
		if strings.Contains(l.Text, text) {
			return true
		}
	}
	return false
}

// attack moves to declare attackers and declares the given attackers at Bob.
func (h *testHarness) attack(attackers ...*Permanent) {
	h.t.Helper()
	h.toStep(rules.StepDeclareAttackers)
	attacks := make([]Attack, len(attackers))
	for i, p := range attackers {
		attacks[i] = Attack{AttackerID: p.ID, Target: bob}
	}
	require.NoError(h.t, h.e.DeclareAttackers(alice, attacks))
	h.passBoth()
	require.Equal(h.t, rules.StepDeclareBlockers, h.step())
}

// Test cards.

func forest() *Card {
	return &Card{
		ID:         "forest",
		Name:       "Forest",
		Types:      []string{TypeLand},
		Supertypes: []string{SupertypeBasic},
		Subtypes:   []string{"Forest"},
		Abilities: []Ability{{
			Kind:        AbilityMana,
			Description: "{T}: Add {G}.",
			Tap:         true,
			Effects:     []Effect{AddMana{Colors: []mana.Color{mana.Green}}},
		}},
	}
}

func creature(name string, power, toughness int, keywords ...effects.Keyword) *Card {
	return &Card{
		ID:        strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Name:      name,
		Cost:      mana.MustParseCost("{1}{G}"),
		Types:     []string{TypeCreature},
		Colors:    []mana.Color{mana.Green},
		Power:     power,
		Toughness: toughness,
		Keywords:  keywords,
	}
}

func anyTarget() *targeting.TargetRequirement {
	req := targeting.Single(targeting.TargetTypeAny, "", "any target")
	return &req
}

func creatureTarget() *targeting.TargetRequirement {
	req := targeting.Single(targeting.TargetTypeCreature, "", "target creature")
	return &req
}

func shock() *Card {
	return &Card{
		ID:      "shock",
		Name:    "Shock",
		Cost:    mana.MustParseCost("{R}"),
		Types:   []string{TypeInstant},
		Colors:  []mana.Color{mana.Red},
		Target:  anyTarget(),
		Effects: map[Slot][]Effect{SlotSpell: {DealDamage{Target: 0, Amount: 2}}},
	}
}
