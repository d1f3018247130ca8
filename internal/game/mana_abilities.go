package game

import (
	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// ActivateManaAbility activates a mana ability. It does not use the stack and
// does not reset the run of passes.
func (e *Engine) ActivateManaAbility(playerID, permanentID string, index int) error {
	if err := e.checkAction(playerID); err != nil {
		return e.rejected("mana_ability", playerID, err)
	}
	p, ability, err := e.findAbility(playerID, permanentID, index)
	if err != nil {
		return e.rejected("mana_ability", playerID, err)
	}
	if ability.Kind != AbilityMana {
		return e.rejected("mana_ability", playerID, reject(CodeNotFound, "%s ability %d is not a mana ability", p.Name(), index))
	}
	if err := e.checkTapCost(p, ability); err != nil {
		return e.rejected("mana_ability", playerID, err)
	}
	player := e.player(playerID)
	payment := mana.CalculatePayment(ability.Cost, player.Pool, 0, nil)
	if !payment.Success {
		return e.rejected("mana_ability", playerID, reject(CodeCannotPay, "cannot pay for %s: %s", ability.Description, payment.Reason))
	}

	invariant(mana.ExecutePayment(payment.Plan, player.Pool), "payment plan for %s no longer fits the pool", ability.Description)
	card := p.EffectiveCard()
	e.payNonManaCosts(p, ability)
	e.logger.Debug("mana ability",
		zap.String("player_id", playerID),
		zap.String("source", card.Name),
		zap.String("ability", ability.Description),
	)

	ctx := &EffectContext{engine: e, Controller: playerID, SourceID: p.ID, Card: card}
	res := &resolution{ctx: ctx, effects: ability.Effects}
	ctx.res = res
	e.resolving = res
	e.publish(rules.NewEvent(rules.EventActivatedAbility, p.ID, p.ID, playerID))
	e.settle()
	return nil
}
