package game

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// Attack declares one attacker. Target is the defending player or one of
// their planeswalkers.
type Attack struct {
	AttackerID string
	Target     string
}

// Block declares one blocker.
type Block struct {
	BlockerID  string
	AttackerID string
}

// DamageAssignment is part of an attacker's combat damage.
type DamageAssignment struct {
	TargetID string
	Amount   int
}

// combatState is reset at the beginning of every turn.
type combatState struct {
	attackersDeclared bool
	blockersDeclared  bool
	// dealtFirstStrike holds creatures that dealt damage in the first
	// strike step; only double strikers deal damage again.
	dealtFirstStrike map[string]bool

	assignments []combatDamage
	queue       []string
}

type combatDamage struct {
	source damageSource
	target string
	amount int
}

// DeclareAttackers declares the active player's attackers. It may be called
// once, in the declare attackers step, with an empty stack.
func (e *Engine) DeclareAttackers(playerID string, attacks []Attack) error {
	if err := e.checkAction(playerID); err != nil {
		return e.rejected("attack", playerID, err)
	}
	tm := e.data.Turn
	switch {
	case tm.ActivePlayer() != playerID:
		return e.rejected("attack", playerID, reject(CodeWrongTiming, "only the active player attacks"))
	case tm.CurrentStep() != rules.StepDeclareAttackers:
		return e.rejected("attack", playerID, reject(CodeWrongTiming, "attackers are declared in the declare attackers step"))
	case e.combat.attackersDeclared:
		return e.rejected("attack", playerID, reject(CodeWrongTiming, "attackers were already declared"))
	case !e.data.Stack.IsEmpty():
		return e.rejected("attack", playerID, reject(CodeWrongTiming, "the stack is not empty"))
	}

	defender := e.opponentOf(playerID)
	attackers := make([]*Permanent, 0, len(attacks))
	for i, a := range attacks {
		p := e.permanent(a.AttackerID)
		if p == nil {
			return e.rejected("attack", playerID, reject(CodeNotFound, "permanent %s not found", a.AttackerID))
		}
		if err := e.canAttack(p, playerID); err != nil {
			return e.rejected("attack", playerID, err)
		}
		if slices.ContainsFunc(attacks[:i], func(prev Attack) bool { return prev.AttackerID == a.AttackerID }) {
			return e.rejected("attack", playerID, reject(CodeIllegalAttack, "%s attacks twice", p.Name()))
		}
		if a.Target != defender {
			pw := e.permanent(a.Target)
			if pw == nil || pw.Controller != defender || !e.IsPlaneswalker(pw) {
				return e.rejected("attack", playerID, reject(CodeIllegalAttack, "%s cannot attack %s", p.Name(), a.Target))
			}
		}
		attackers = append(attackers, p)
	}

	e.combat.attackersDeclared = true
	for i, p := range attackers {
		p.Attacking = true
		p.AttackTarget = attacks[i].Target
		if !e.HasKeyword(p, effects.Vigilance) {
			e.tap(p)
		}
		e.logf("%s attacks %s", p.Name(), e.describe(p.AttackTarget))
		e.publish(rules.NewEvent(rules.EventAttackerDeclared, p.ID, p.ID, playerID))
	}
	e.logger.Debug("attackers declared",
		zap.String("player_id", playerID),
		zap.Int("attackers", len(attackers)),
	)
	e.data.Priority.Acted()
	e.settle()
	return nil
}

func (e *Engine) canAttack(p *Permanent, playerID string) error {
	snap := e.Characteristics(p)
	switch {
	case p.Controller != playerID:
		return reject(CodeIllegalAttack, "%s is not yours", snap.Name)
	case !snap.HasType(TypeCreature):
		return reject(CodeIllegalAttack, "%s is not a creature", snap.Name)
	case p.Tapped:
		return reject(CodeIllegalAttack, "%s is tapped", snap.Name)
	case p.SummoningSick && !snap.HasKeyword(effects.Haste):
		return reject(CodeIllegalAttack, "%s has summoning sickness", snap.Name)
	case snap.HasKeyword(effects.Defender):
		return reject(CodeIllegalAttack, "%s has defender", snap.Name)
	}
	return nil
}

// DeclareBlockers declares the defending player's blockers. It may be
// called once, in the declare blockers step; the defender does not need
// priority to do so.
func (e *Engine) DeclareBlockers(playerID string, blocks []Block) error {
	switch {
	case e.data.GameOver:
		return e.rejected("block", playerID, reject(CodeGameOver, "the game is over"))
	case e.data.Interaction != nil:
		return e.rejected("block", playerID, reject(CodeInteractionPending, "waiting for %s from %s", e.data.Interaction.Kind, e.data.Interaction.PlayerID))
	case e.player(playerID) == nil:
		return e.rejected("block", playerID, reject(CodeNotFound, "unknown player %s", playerID))
	case e.data.Turn.ActivePlayer() == playerID:
		return e.rejected("block", playerID, reject(CodeWrongTiming, "the active player does not block"))
	case e.data.Turn.CurrentStep() != rules.StepDeclareBlockers:
		return e.rejected("block", playerID, reject(CodeWrongTiming, "blockers are declared in the declare blockers step"))
	case e.combat.blockersDeclared:
		return e.rejected("block", playerID, reject(CodeWrongTiming, "blockers were already declared"))
	case !e.data.Stack.IsEmpty():
		return e.rejected("block", playerID, reject(CodeWrongTiming, "the stack is not empty"))
	}

	blockersOf := make(map[string]int)
	pairs := make([][2]*Permanent, 0, len(blocks))
	for i, b := range blocks {
		blocker := e.permanent(b.BlockerID)
		attacker := e.permanent(b.AttackerID)
		if blocker == nil || attacker == nil {
			return e.rejected("block", playerID, reject(CodeNotFound, "block %s -> %s refers to a missing permanent", b.BlockerID, b.AttackerID))
		}
		if slices.ContainsFunc(blocks[:i], func(prev Block) bool { return prev.BlockerID == b.BlockerID }) {
			return e.rejected("block", playerID, reject(CodeIllegalBlock, "%s can block only one attacker", blocker.Name()))
		}
		if err := e.canBlock(blocker, attacker, playerID); err != nil {
			return e.rejected("block", playerID, err)
		}
		blockersOf[attacker.ID]++
		pairs = append(pairs, [2]*Permanent{blocker, attacker})
	}
	for _, pair := range pairs {
		attacker := pair[1]
		if e.HasKeyword(attacker, effects.Menace) && blockersOf[attacker.ID] < 2 {
			return e.rejected("block", playerID, reject(CodeIllegalBlock, "%s has menace and needs two or more blockers", attacker.Name()))
		}
	}

	e.combat.blockersDeclared = true
	for _, pair := range pairs {
		blocker, attacker := pair[0], pair[1]
		blocker.Blocking = []string{attacker.ID}
		attacker.BlockedBy = append(attacker.BlockedBy, blocker.ID)
		attacker.WasBlocked = true
		e.logf("%s blocks %s", blocker.Name(), attacker.Name())
		e.publish(rules.NewEvent(rules.EventBlockerDeclared, attacker.ID, blocker.ID, playerID))
	}
	e.data.Priority.Acted()
	e.settle()
	return nil
}

func (e *Engine) canBlock(blocker, attacker *Permanent, playerID string) error {
	snap := e.Characteristics(blocker)
	switch {
	case blocker.Controller != playerID:
		return reject(CodeIllegalBlock, "%s is not yours", snap.Name)
	case !snap.HasType(TypeCreature):
		return reject(CodeIllegalBlock, "%s is not a creature", snap.Name)
	case blocker.Tapped:
		return reject(CodeIllegalBlock, "%s is tapped", snap.Name)
	case snap.HasKeyword(effects.CantBlock):
		return reject(CodeIllegalBlock, "%s cannot block", snap.Name)
	case !attacker.Attacking:
		return reject(CodeIllegalBlock, "%s is not attacking", attacker.Name())
	case e.HasKeyword(attacker, effects.Flying) && !snap.HasKeyword(effects.Flying) && !snap.HasKeyword(effects.Reach):
		return reject(CodeIllegalBlock, "%s cannot block %s, which has flying", snap.Name, attacker.Name())
	}
	return nil
}

func (e *Engine) anyAttackers() bool {
	return slices.ContainsFunc(e.data.Battlefield, func(p *Permanent) bool { return p.Attacking })
}

func (e *Engine) inCombat(p *Permanent) bool {
	return p.Attacking || len(p.Blocking) > 0
}

// combatHasFirstStrike reports whether a first strike damage step is needed.
func (e *Engine) combatHasFirstStrike() bool {
	for _, p := range e.data.Battlefield {
		if !e.inCombat(p) {
			continue
		}
		if e.HasKeyword(p, effects.FirstStrike) || e.HasKeyword(p, effects.DoubleStrike) {
			return true
		}
	}
	return false
}

// dealsDamageThisStep reports whether p assigns combat damage in the current
// damage step.
func (e *Engine) dealsDamageThisStep(p *Permanent, firstStrikeStep bool) bool {
	double := e.HasKeyword(p, effects.DoubleStrike)
	if firstStrikeStep {
		return double || e.HasKeyword(p, effects.FirstStrike)
	}
	return double || !e.combat.dealtFirstStrike[p.ID]
}

// combatDamageStep works out every creature's combat damage, asking the
// attacking player to divide damage among multiple blockers, and then deals
// it all at once.
func (e *Engine) combatDamageStep(firstStrikeStep bool) {
	e.combat.assignments = nil
	e.combat.queue = nil
	if e.combat.dealtFirstStrike == nil {
		e.combat.dealtFirstStrike = make(map[string]bool)
	}
	defender := e.opponentOf(e.data.Turn.ActivePlayer())

	for _, p := range e.data.Battlefield {
		if !e.inCombat(p) || !e.dealsDamageThisStep(p, firstStrikeStep) {
			continue
		}
		if firstStrikeStep {
			e.combat.dealtFirstStrike[p.ID] = true
		}
		power := e.EffectivePower(p)
		if power <= 0 {
			continue
		}
		src := e.permanentSource(p)

		if len(p.Blocking) > 0 {
			if attacker := e.permanent(p.Blocking[0]); attacker != nil && attacker.Attacking {
				e.addCombatDamage(src, attacker.ID, power)
			}
			continue
		}

		target := p.AttackTarget
		if target != defender && e.permanent(target) == nil {
			// The planeswalker it attacked is gone.
			target = ""
		}
		trample := e.HasKeyword(p, effects.Trample)
		switch {
		case !p.WasBlocked:
			e.addCombatDamage(src, target, power)
		case len(p.BlockedBy) == 0:
			if trample {
				e.addCombatDamage(src, target, power)
			}
		case len(p.BlockedBy) == 1:
			blocker := e.permanent(p.BlockedBy[0])
			toBlocker := power
			if trample && target != "" {
				toBlocker = min(power, e.lethalFrom(p, blocker))
			}
			e.addCombatDamage(src, blocker.ID, toBlocker)
			e.addCombatDamage(src, target, power-toBlocker)
		default:
			e.combat.queue = append(e.combat.queue, p.ID)
		}
	}
	e.assignNext()
}

func (e *Engine) addCombatDamage(src damageSource, target string, amount int) {
	if target == "" || amount <= 0 {
		return
	}
	e.combat.assignments = append(e.combat.assignments, combatDamage{source: src, target: target, amount: amount})
}

// assignNext asks for the next attacker's damage division, or deals the
// damage once every division is known.
func (e *Engine) assignNext() {
	if len(e.combat.queue) == 0 {
		e.applyCombatDamage()
		e.stepReady()
		return
	}
	attacker := e.permanent(e.combat.queue[0])
	e.combat.queue = e.combat.queue[1:]
	invariant(attacker != nil, "queued attacker left the battlefield before assigning damage")

	power := e.EffectivePower(attacker)
	choices := slices.Clone(attacker.BlockedBy)
	target := attacker.AttackTarget
	if e.HasKeyword(attacker, effects.Trample) && (target == e.opponentOf(attacker.Controller) || e.permanent(target) != nil) {
		choices = append(choices, target)
	}
	src := e.permanentSource(attacker)
	e.ask(&Interaction{
		Kind:       InteractionCombatDamageAssignment,
		PlayerID:   attacker.Controller,
		Prompt:     fmt.Sprintf("Assign %d combat damage from %s", power, attacker.Name()),
		Choices:    choices,
		Min:        power,
		Max:        power,
		Origin:     attacker.ID,
		AttackerID: attacker.ID,
		checkAssign: func(assignments []DamageAssignment) error {
			return e.validateAssignment(attacker, power, choices, assignments)
		},
		onAssign: func(assignments []DamageAssignment) error {
			for _, a := range assignments {
				e.addCombatDamage(src, a.TargetID, a.Amount)
			}
			e.assignNext()
			return nil
		},
	})
}

// validateAssignment checks a division of combat damage: all of it is
// assigned, each blocker in order gets lethal damage before anything after
// it, and only trample lets damage through to the player.
func (e *Engine) validateAssignment(attacker *Permanent, power int, choices []string, assignments []DamageAssignment) error {
	amounts := make(map[string]int, len(assignments))
	total := 0
	for _, a := range assignments {
		if !slices.Contains(choices, a.TargetID) {
			return fmt.Errorf("%s cannot be assigned damage from %s", a.TargetID, attacker.Name())
		}
		if a.Amount < 0 {
			return errors.New("damage amounts cannot be negative")
		}
		if _, dup := amounts[a.TargetID]; dup {
			return fmt.Errorf("%s is assigned damage twice", a.TargetID)
		}
		amounts[a.TargetID] = a.Amount
		total += a.Amount
	}
	if total != power {
		return fmt.Errorf("assigned %d damage, %s has %d power", total, attacker.Name(), power)
	}

	// choices lists the blockers in order, then the trample target if any.
	shortfall := ""
	for i, id := range choices {
		if shortfall != "" && amounts[id] > 0 {
			return fmt.Errorf("%s must be assigned lethal damage before %s", shortfall, e.describe(id))
		}
		if i >= len(attacker.BlockedBy) {
			break
		}
		if blocker := e.permanent(id); blocker != nil && shortfall == "" && amounts[id] < e.lethalFrom(attacker, blocker) {
			shortfall = blocker.Name()
		}
	}
	return nil
}

// applyCombatDamage deals all assigned combat damage simultaneously.
func (e *Engine) applyCombatDamage() {
	assignments := e.combat.assignments
	e.combat.assignments = nil
	total := 0
	for _, a := range assignments {
		total += e.dealDamage(a.source, a.target, a.amount, true)
	}
	e.logger.Debug("combat damage dealt",
		zap.Int("assignments", len(assignments)),
		zap.Int("total", total),
	)
	active := e.data.Turn.ActivePlayer()
	e.publish(rules.NewEventWithAmount(rules.EventCombatDamageApplied, "", "", active, total))
}

// endCombat removes every creature from combat.
func (e *Engine) endCombat() {
	for _, p := range e.data.Battlefield {
		p.removeFromCombat()
	}
	e.combat.dealtFirstStrike = nil
}

// removeFromCombat takes p out of combat and out of every other creature's
// block relation.
func (e *Engine) removeFromCombat(p *Permanent) {
	p.removeFromCombat()
	for _, other := range e.data.Battlefield {
		if other == p {
			continue
		}
		other.removeBlocker(p.ID)
		other.removeBlocked(p.ID)
	}
}

// describe names a player or permanent for the game log.
func (e *Engine) describe(id string) string {
	if p := e.permanent(id); p != nil {
		return p.Name()
	}
	return id
}
