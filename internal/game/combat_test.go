package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/rules"
)

func TestUnblockedAttackerHitsPlayer(t *testing.T) {
	h := newTestHarness(t)
	bear := h.put(alice, creature("Grizzly Bears", 2, 2))

	h.attack(bear)
	assert.True(t, bear.Tapped)
	require.NoError(t, h.e.DeclareBlockers(bob, nil))
	h.passBoth()

	assert.Equal(t, rules.StepCombatDamage, h.step())
	assert.Equal(t, 18, h.life(bob))

	h.toStep(rules.StepMain2)
	assert.False(t, bear.Attacking, "combat ends before the second main phase")
}

func TestNoAttackersSkipsCombatDamage(t *testing.T) {
	h := newTestHarness(t)
	h.toStep(rules.StepDeclareAttackers)
	h.passBoth()
	assert.Equal(t, rules.StepEndCombat, h.step())
}

func TestAttackRestrictions(t *testing.T) {
	h := newTestHarness(t)
	sick := h.put(alice, creature("Fresh Recruit", 2, 2))
	sick.SummoningSick = true
	hasty := h.put(alice, creature("Raging Goblin", 1, 1, effects.Haste))
	hasty.SummoningSick = true
	wall := h.put(alice, creature("Wall of Wood", 0, 3, effects.Defender))
	tapped := h.put(alice, creature("Tired Bear", 2, 2))
	tapped.Tapped = true
	h.toStep(rules.StepDeclareAttackers)

	cases := []struct {
		name     string
		attacker *Permanent
	}{
		{"summoning sick", sick},
		{"defender", wall},
		{"tapped", tapped},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := h.e.DeclareAttackers(alice, []Attack{{AttackerID: tc.attacker.ID, Target: bob}})
			assert.True(t, IsCode(err, CodeIllegalAttack), "got %v", err)
		})
	}

	err := h.e.DeclareAttackers(alice, []Attack{{AttackerID: hasty.ID, Target: alice}})
	assert.True(t, IsCode(err, CodeIllegalAttack), "cannot attack yourself, got %v", err)

	require.NoError(t, h.e.DeclareAttackers(alice, []Attack{{AttackerID: hasty.ID, Target: bob}}))
	assert.True(t, hasty.Attacking)

	err = h.e.DeclareAttackers(alice, nil)
	assert.True(t, IsCode(err, CodeWrongTiming), "attackers are declared once, got %v", err)
}

func TestVigilanceDoesNotTap(t *testing.T) {
	h := newTestHarness(t)
	knight := h.put(alice, creature("Knight", 2, 2, effects.Vigilance))
	h.attack(knight)
	assert.True(t, knight.Attacking)
	assert.False(t, knight.Tapped)
}

func TestBlockRestrictions(t *testing.T) {
	h := newTestHarness(t)
	flyer := h.put(alice, creature("Wind Drake", 2, 2, effects.Flying))
	brute := h.put(alice, creature("Goblin Brute", 3, 3, effects.Menace))
	ground := h.put(bob, creature("Bear", 2, 2))
	spider := h.put(bob, creature("Spider", 1, 3, effects.Reach))
	pacifist := h.put(bob, creature("Pacifist", 1, 1, effects.CantBlock))
	h.attack(flyer, brute)

	cases := []struct {
		name   string
		blocks []Block
	}{
		{"flying needs flying or reach", []Block{{BlockerID: ground.ID, AttackerID: flyer.ID}}},
		{"menace needs two blockers", []Block{{BlockerID: ground.ID, AttackerID: brute.ID}}},
		{"cant block", []Block{{BlockerID: pacifist.ID, AttackerID: brute.ID}, {BlockerID: ground.ID, AttackerID: brute.ID}}},
		{"one attacker per blocker", []Block{{BlockerID: ground.ID, AttackerID: brute.ID}, {BlockerID: ground.ID, AttackerID: flyer.ID}}},
		{"own creature", []Block{{BlockerID: flyer.ID, AttackerID: brute.ID}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := h.e.DeclareBlockers(bob, tc.blocks)
			assert.True(t, IsCode(err, CodeIllegalBlock), "got %v", err)
		})
	}

	err := h.e.DeclareBlockers(alice, nil)
	assert.True(t, IsCode(err, CodeWrongTiming), "the attacker does not block, got %v", err)

	require.NoError(t, h.e.DeclareBlockers(bob, []Block{
		{BlockerID: spider.ID, AttackerID: flyer.ID},
	}))
	assert.Equal(t, []string{spider.ID}, flyer.BlockedBy)
	assert.Equal(t, []string{flyer.ID}, spider.Blocking)
	assert.False(t, brute.IsBlocked())
}

func TestTrampleAssignsExcessToPlayer(t *testing.T) {
	h := newTestHarness(t)
	wurm := h.put(alice, creature("Craw Wurm", 9, 9, effects.Trample))
	chump := h.put(bob, creature("Bear", 2, 2))
	h.attack(wurm)
	require.NoError(t, h.e.DeclareBlockers(bob, []Block{{BlockerID: chump.ID, AttackerID: wurm.ID}}))
	h.passBoth()

	assert.Equal(t, 13, h.life(bob))
	assert.False(t, h.onBattlefield(chump))
	assert.Equal(t, 2, wurm.Damage)
}

func TestBlockedWithoutTrampleDealsNothingToPlayer(t *testing.T) {
	h := newTestHarness(t)
	ogre := h.put(alice, creature("Ogre", 5, 5))
	chump := h.put(bob, creature("Bear", 2, 2))
	h.attack(ogre)
	require.NoError(t, h.e.DeclareBlockers(bob, []Block{{BlockerID: chump.ID, AttackerID: ogre.ID}}))

	// The blocker leaves before damage; the attacker stays blocked.
	h.e.putIntoGraveyard(chump, "test")
	h.passBoth()

	assert.Equal(t, 20, h.life(bob))
	assert.True(t, ogre.IsBlocked())
}

func TestFirstStrikeKillsBlockerFirst(t *testing.T) {
	h := newTestHarness(t)
	knight := h.put(alice, creature("White Knight", 2, 2, effects.FirstStrike))
	bear := h.put(bob, creature("Bear", 2, 2))
	h.attack(knight)
	require.NoError(t, h.e.DeclareBlockers(bob, []Block{{BlockerID: bear.ID, AttackerID: knight.ID}}))
	h.passBoth()

	require.Equal(t, rules.StepFirstStrikeDamage, h.step())
	assert.False(t, h.onBattlefield(bear))

	h.passBoth()
	assert.Equal(t, rules.StepCombatDamage, h.step())
	assert.Equal(t, 0, knight.Damage)
	assert.True(t, h.onBattlefield(knight))
}

func TestDoubleStrikeDealsDamageTwice(t *testing.T) {
	h := newTestHarness(t)
	champion := h.put(alice, creature("Fencing Ace", 3, 3, effects.DoubleStrike))
	h.attack(champion)
	require.NoError(t, h.e.DeclareBlockers(bob, nil))

	h.passBoth()
	require.Equal(t, rules.StepFirstStrikeDamage, h.step())
	assert.Equal(t, 17, h.life(bob))

	h.passBoth()
	require.Equal(t, rules.StepCombatDamage, h.step())
	assert.Equal(t, 14, h.life(bob))
}

func TestLifelinkAndDeathtouch(t *testing.T) {
	h := newTestHarness(t)
	vampire := h.put(alice, creature("Vampire", 1, 1, effects.Lifelink, effects.Deathtouch))
	giant := h.put(bob, creature("Giant", 6, 6))
	h.attack(vampire)
	require.NoError(t, h.e.DeclareBlockers(bob, []Block{{BlockerID: giant.ID, AttackerID: vampire.ID}}))
	h.passBoth()

	assert.False(t, h.onBattlefield(giant), "any deathtouch damage is lethal")
	assert.False(t, h.onBattlefield(vampire))
	assert.Equal(t, 21, h.life(alice))
}

func TestMultipleBlockersNeedDamageAssignment(t *testing.T) {
	h := newTestHarness(t)
	ogre := h.put(alice, creature("Ogre", 5, 5))
	first := h.put(bob, creature("First Bear", 2, 2))
	second := h.put(bob, creature("Second Bear", 2, 2))
	h.attack(ogre)
	require.NoError(t, h.e.DeclareBlockers(bob, []Block{
		{BlockerID: first.ID, AttackerID: ogre.ID},
		{BlockerID: second.ID, AttackerID: ogre.ID},
	}))
	h.passBoth()

	pending := h.e.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, InteractionCombatDamageAssignment, pending.Kind)
	assert.Equal(t, alice, pending.PlayerID)
	assert.Equal(t, []string{first.ID, second.ID}, pending.Choices)

	invalid := map[string][]DamageAssignment{
		"lethal in order": {{TargetID: first.ID, Amount: 1}, {TargetID: second.ID, Amount: 4}},
		"wrong total":     {{TargetID: first.ID, Amount: 2}, {TargetID: second.ID, Amount: 2}},
		"no trample":      {{TargetID: first.ID, Amount: 2}, {TargetID: second.ID, Amount: 2}, {TargetID: bob, Amount: 1}},
	}
	for name, assignment := range invalid {
		t.Run(name, func(t *testing.T) {
			err := h.e.AssignCombatDamage(alice, ogre.ID, assignment)
			assert.True(t, IsCode(err, CodeInvalidChoice), "got %v", err)
			assert.NotNil(t, h.e.Pending())
		})
	}

	err := h.e.AssignCombatDamage(bob, ogre.ID, nil)
	assert.True(t, IsCode(err, CodeNotYourPriority), "got %v", err)

	require.NoError(t, h.e.AssignCombatDamage(alice, ogre.ID, []DamageAssignment{
		{TargetID: first.ID, Amount: 2},
		{TargetID: second.ID, Amount: 3},
	}))
	assert.Nil(t, h.e.Pending())
	assert.False(t, h.onBattlefield(first))
	assert.False(t, h.onBattlefield(second))
	assert.Equal(t, 4, ogre.Damage)
	assert.Equal(t, alice, h.e.PriorityPlayer())
}

func TestTrampleOverMultipleBlockers(t *testing.T) {
	h := newTestHarness(t)
	wurm := h.put(alice, creature("Wurm", 6, 6, effects.Trample))
	first := h.put(bob, creature("First Bear", 2, 2))
	second := h.put(bob, creature("Second Bear", 2, 2))
	h.attack(wurm)
	require.NoError(t, h.e.DeclareBlockers(bob, []Block{
		{BlockerID: first.ID, AttackerID: wurm.ID},
		{BlockerID: second.ID, AttackerID: wurm.ID},
	}))
	h.passBoth()

	require.NotNil(t, h.e.Pending())
	assert.Contains(t, h.e.Pending().Choices, bob)

	err := h.e.AssignCombatDamage(alice, wurm.ID, []DamageAssignment{{TargetID: first.ID, Amount: 2}, {TargetID: bob, Amount: 4}})
	assert.True(t, IsCode(err, CodeInvalidChoice), "the second blocker needs lethal first, got %v", err)

	require.NoError(t, h.e.AssignCombatDamage(alice, wurm.ID, []DamageAssignment{
		{TargetID: first.ID, Amount: 2},
		{TargetID: second.ID, Amount: 2},
		{TargetID: bob, Amount: 2},
	}))
	assert.Equal(t, 18, h.life(bob))
}

func TestAttackingPlaneswalker(t *testing.T) {
	h := newTestHarness(t)
	bear := h.put(alice, creature("Bear", 2, 2))
	pw := h.put(bob, planeswalker())
	h.toStep(rules.StepDeclareAttackers)
	require.NoError(t, h.e.DeclareAttackers(alice, []Attack{{AttackerID: bear.ID, Target: pw.ID}}))
	h.passBoth()
	require.NoError(t, h.e.DeclareBlockers(bob, nil))
	h.passBoth()

	assert.Equal(t, 1, pw.Loyalty())
	assert.Equal(t, 20, h.life(bob))
}

func TestAttacksTriggerGoesOnStack(t *testing.T) {
	h := newTestHarness(t)
	raider := creature("Raider", 2, 2)
	raider.Effects = map[Slot][]Effect{SlotAttacks: {LoseLife{Amount: 1, EachOpponent: true}}}
	p := h.put(alice, raider)

	h.toStep(rules.StepDeclareAttackers)
	require.NoError(t, h.e.DeclareAttackers(alice, []Attack{{AttackerID: p.ID, Target: bob}}))
	assert.Equal(t, 1, h.e.data.Stack.Len())
	h.passBoth()
	assert.Equal(t, 19, h.life(bob))
}
