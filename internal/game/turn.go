package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// advance leaves the current step and enters the next one.
func (e *Engine) advance() {
	tm := e.data.Turn
	e.emptyManaPools()

	switch tm.CurrentStep() {
	case rules.StepDeclareAttackers:
		if !e.anyAttackers() {
			// Nothing attacked: blockers and damage are skipped.
			tm.SkipTo(rules.StepEndCombat)
			e.enterStep()
			return
		}
	case rules.StepDeclareBlockers:
		tm.SetHasFirstStrike(e.combatHasFirstStrike())
	}

	if _, newTurn := tm.AdvanceStep(e.opponentOf(tm.ActivePlayer())); newTurn {
		e.beginTurn()
	}
	e.enterStep()
}

func (e *Engine) beginTurn() {
	e.combat = combatState{}
	active := e.data.Turn.ActivePlayer()
	e.logf("Turn %d: %s", e.data.Turn.TurnNumber(), active)
	e.publish(rules.NewEvent(rules.EventBeginTurn, active, "", active))
}

// enterStep performs the turn-based actions of the current step.
func (e *Engine) enterStep() {
	tm := e.data.Turn
	step := tm.CurrentStep()
	active := tm.ActivePlayer()

	e.logger.Debug("step changed",
		zap.Int("turn", tm.TurnNumber()),
		zap.Stringer("step", step),
		zap.String("active_player", active),
	)
	evt := rules.NewEvent(rules.EventStepChanged, active, "", active)
	evt.Data = step.String()
	e.publish(evt)

	switch step {
	case rules.StepUntap:
		e.untapStep(active)
	case rules.StepUpkeep:
		e.publish(rules.NewEvent(rules.EventUpkeepStep, active, "", active))
	case rules.StepDraw:
		// The player who goes first skips their first draw.
		if tm.TurnNumber() > 1 || active != e.data.StartingPlayer {
			e.draw(e.player(active), 1)
		}
	case rules.StepFirstStrikeDamage:
		e.combatDamageStep(true)
		return
	case rules.StepCombatDamage:
		e.combatDamageStep(false)
		return
	case rules.StepMain2:
		e.endCombat()
	case rules.StepEnd:
		e.publish(rules.NewEvent(rules.EventEndTurnStep, active, "", active))
	case rules.StepCleanup:
		e.cleanupStep(active)
		return
	}
	e.stepReady()
}

// stepReady hands priority to the active player, or moves on at once in
// steps where nobody receives priority.
func (e *Engine) stepReady() {
	step := e.data.Turn.CurrentStep()
	if !step.GivesPriority() {
		e.advance()
		return
	}
	err := e.data.Priority.Reset(e.data.Turn.ActivePlayer())
	invariant(err == nil, "reset priority: %v", err)
}

func (e *Engine) untapStep(active string) {
	for _, p := range e.permanentsOf(active) {
		p.SummoningSick = false
		if !p.Tapped {
			continue
		}
		if e.HasKeyword(p, effects.DoesntUntap) {
			continue
		}
		p.Tapped = false
		e.publish(rules.NewEvent(rules.EventUntapped, p.ID, p.ID, p.Controller))
	}
}

// cleanupStep discards down to hand size, then clears damage and
// until-end-of-turn effects.
func (e *Engine) cleanupStep(active string) {
	player := e.player(active)
	excess := len(player.Hand) - e.cfg.HandSize
	if excess <= 0 {
		e.finishCleanup()
		return
	}
	choices := make([]string, 0, len(player.Hand))
	for _, c := range player.Hand {
		choices = append(choices, c.ID)
	}
	e.ask(&Interaction{
		Kind:     InteractionCardChoice,
		PlayerID: active,
		Prompt:   fmt.Sprintf("Discard %d card(s) down to %d", excess, e.cfg.HandSize),
		Choices:  choices,
		Min:      excess,
		Max:      excess,
		Context:  ContextDiscard,
		onChoose: func(ids []string) error {
			for _, id := range ids {
				e.discard(player, id)
			}
			e.finishCleanup()
			return nil
		},
	})
}

func (e *Engine) finishCleanup() {
	e.revertControl()
	for _, p := range e.data.Battlefield {
		p.resetEndOfTurn()
	}
	e.watchRegistry.ResetWatchers()
	active := e.data.Turn.ActivePlayer()
	e.publish(rules.NewEvent(rules.EventCleanupStep, active, "", active))
	e.stepReady()
}

func (e *Engine) emptyManaPools() {
	for _, player := range e.data.Players {
		if player.Pool.Total() == 0 {
			continue
		}
		player.Pool.Empty()
		e.publish(rules.NewEvent(rules.EventEmptyManaPool, player.ID, "", player.ID))
	}
}
