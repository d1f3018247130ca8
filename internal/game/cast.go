package game

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/game/counters"
	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// CastRequest describes a spell being cast.
type CastRequest struct {
	CardID  string
	Targets []string
	X       int
	// Convoke lists untapped creatures tapped to help pay.
	Convoke []string
}

// PlayLand puts a land from the hand onto the battlefield. It does not use
// the stack.
func (e *Engine) PlayLand(playerID, cardID string) error {
	if err := e.checkAction(playerID); err != nil {
		return e.rejected("play_land", playerID, err)
	}
	player := e.player(playerID)
	inst := player.find(ZoneHand, cardID)
	switch {
	case inst == nil:
		return e.rejected("play_land", playerID, reject(CodeNotFound, "card %s is not in hand", cardID))
	case !inst.Card.HasType(TypeLand):
		return e.rejected("play_land", playerID, reject(CodeWrongTiming, "%s is not a land", inst.Card.Name))
	case !e.sorcerySpeed(playerID):
		return e.rejected("play_land", playerID, reject(CodeWrongTiming, "lands can only be played in your main phase with an empty stack"))
	case e.landsPlayed.Count(playerID) >= 1:
		return e.rejected("play_land", playerID, reject(CodeWrongTiming, "already played a land this turn"))
	}

	player.take(ZoneHand, cardID)
	p := e.enterBattlefield(inst, playerID, nil)
	e.logf("%s plays %s", playerID, inst.Card.Name)
	e.publish(rules.NewEvent(rules.EventLandPlayed, p.ID, p.ID, playerID))
	e.data.Priority.Acted()
	e.settle()
	return nil
}

// CastSpell casts a spell from the hand and puts it on the stack. Timing,
// targets and payment are all checked before anything changes.
func (e *Engine) CastSpell(playerID string, req CastRequest) error {
	if err := e.checkAction(playerID); err != nil {
		return e.rejected("cast", playerID, err)
	}
	player := e.player(playerID)
	inst := player.find(ZoneHand, req.CardID)
	if inst == nil {
		return e.rejected("cast", playerID, reject(CodeNotFound, "card %s is not in hand", req.CardID))
	}
	card := inst.Card
	if card.HasType(TypeLand) {
		return e.rejected("cast", playerID, reject(CodeWrongTiming, "%s is a land; play it instead", card.Name))
	}
	if !card.HasType(TypeInstant) && !e.sorcerySpeed(playerID) {
		return e.rejected("cast", playerID, reject(CodeWrongTiming, "%s can only be cast at sorcery speed", card.Name))
	}

	targets, err := e.chooseTargets(playerID, card, card.Target, req.Targets)
	if err != nil {
		return e.rejected("cast", playerID, err)
	}

	convokers, convokeColors, err := e.checkConvoke(playerID, card, req.Convoke)
	if err != nil {
		return e.rejected("cast", playerID, err)
	}

	payment := mana.CalculatePayment(card.ManaCost(), player.Pool, req.X, convokeColors)
	if !payment.Success {
		return e.rejected("cast", playerID, reject(CodeCannotPay, "cannot pay %s for %s: %s", card.ManaCost(), card.Name, payment.Reason))
	}

	// Everything checked; pay and put the spell on the stack.
	invariant(mana.ExecutePayment(payment.Plan, player.Pool), "payment plan for %s no longer fits the pool", card.Name)
	for _, p := range convokers {
		e.tap(p)
	}
	player.take(ZoneHand, req.CardID)

	entry := &StackEntry{
		ID:          e.newID("spell"),
		Kind:        rules.StackItemKindSpell,
		Card:        card,
		Instance:    inst,
		Controller:  playerID,
		Targets:     targets,
		Requirement: card.Target,
		X:           req.X,
		Effects:     slices.Clone(card.Effects[SlotSpell]),
		Description: card.Name,
	}
	e.data.Stack.Push(entry)
	e.logf("%s casts %s", playerID, card.Name)
	e.logger.Debug("spell cast",
		zap.String("player_id", playerID),
		zap.String("card", card.Name),
		zap.Int("x", req.X),
		zap.Int("targets", len(targets)),
	)
	e.publish(rules.NewEvent(rules.EventSpellCast, entry.ID, inst.ID, playerID))
	e.data.Priority.Acted()
	e.settle()
	return nil
}

func (e *Engine) checkConvoke(playerID string, card *Card, ids []string) ([]*Permanent, [][]mana.Color, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	if !card.HasKeyword(effects.Convoke) {
		return nil, nil, reject(CodeCannotPay, "%s does not have convoke", card.Name)
	}
	var (
		perms  []*Permanent
		colors [][]mana.Color
	)
	for i, id := range ids {
		if slices.Contains(ids[:i], id) {
			return nil, nil, reject(CodeCannotPay, "creature %s convokes twice", id)
		}
		p := e.permanent(id)
		switch {
		case p == nil:
			return nil, nil, reject(CodeNotFound, "permanent %s not found", id)
		case p.Controller != playerID:
			return nil, nil, reject(CodeCannotPay, "%s is not yours to tap", p.Name())
		case p.Tapped:
			return nil, nil, reject(CodeCannotPay, "%s is already tapped", p.Name())
		case !e.IsCreature(p):
			return nil, nil, reject(CodeCannotPay, "%s is not a creature", p.Name())
		}
		perms = append(perms, p)
		colors = append(colors, e.EffectiveColors(p))
	}
	return perms, colors, nil
}

// ActivateAbility activates a non-mana ability of a permanent. Mana
// abilities are passed on to ActivateManaAbility.
func (e *Engine) ActivateAbility(playerID, permanentID string, index int, targetIDs []string, x int) error {
	if err := e.checkAction(playerID); err != nil {
		return e.rejected("activate", playerID, err)
	}
	p, ability, err := e.findAbility(playerID, permanentID, index)
	if err != nil {
		return e.rejected("activate", playerID, err)
	}
	if ability.Kind == AbilityMana {
		return e.ActivateManaAbility(playerID, permanentID, index)
	}

	if ability.SorcerySpeed || ability.Kind == AbilityLoyalty {
		if !e.sorcerySpeed(playerID) {
			return e.rejected("activate", playerID, reject(CodeWrongTiming, "%s can only be activated at sorcery speed", ability.Description))
		}
	}
	if ability.Kind == AbilityLoyalty {
		if p.LoyaltyActivatedThisTurn {
			return e.rejected("activate", playerID, reject(CodeWrongTiming, "%s already activated a loyalty ability this turn", p.Name()))
		}
		if ability.Loyalty < 0 && p.Loyalty() < -ability.Loyalty {
			return e.rejected("activate", playerID, reject(CodeCannotPay, "%s has only %d loyalty", p.Name(), p.Loyalty()))
		}
	}
	if err := e.checkTapCost(p, ability); err != nil {
		return e.rejected("activate", playerID, err)
	}

	card := p.EffectiveCard()
	targets, err := e.chooseTargets(playerID, card, ability.Target, targetIDs)
	if err != nil {
		return e.rejected("activate", playerID, err)
	}

	player := e.player(playerID)
	payment := mana.CalculatePayment(ability.Cost, player.Pool, x, nil)
	if !payment.Success {
		return e.rejected("activate", playerID, reject(CodeCannotPay, "cannot pay for %s: %s", ability.Description, payment.Reason))
	}

	invariant(mana.ExecutePayment(payment.Plan, player.Pool), "payment plan for %s no longer fits the pool", ability.Description)
	entry := &StackEntry{
		ID:          e.newID("ability"),
		Kind:        rules.StackItemKindActivated,
		Card:        card,
		SourceID:    p.ID,
		Controller:  playerID,
		Targets:     targets,
		Requirement: ability.Target,
		X:           x,
		Effects:     slices.Clone(ability.Effects),
		Description: fmt.Sprintf("%s: %s", card.Name, ability.Description),
	}
	e.payNonManaCosts(p, ability)
	e.data.Stack.Push(entry)
	e.logf("%s activates %s", playerID, entry.Description)
	e.publish(rules.NewEvent(rules.EventActivatedAbility, entry.ID, p.ID, playerID))
	e.data.Priority.Acted()
	e.settle()
	return nil
}

func (e *Engine) findAbility(playerID, permanentID string, index int) (*Permanent, Ability, error) {
	p := e.permanent(permanentID)
	if p == nil {
		return nil, Ability{}, reject(CodeNotFound, "permanent %s not found", permanentID)
	}
	if p.Controller != playerID {
		return nil, Ability{}, reject(CodeNotYourPriority, "%s does not control %s", playerID, p.Name())
	}
	abilities := p.EffectiveCard().Abilities
	if index < 0 || index >= len(abilities) {
		return nil, Ability{}, reject(CodeNotFound, "%s has no ability %d", p.Name(), index)
	}
	return p, abilities[index], nil
}

func (e *Engine) checkTapCost(p *Permanent, ability Ability) error {
	if !ability.Tap {
		return nil
	}
	if p.Tapped {
		return reject(CodeCannotPay, "%s is already tapped", p.Name())
	}
	if p.SummoningSick && e.IsCreature(p) && !e.HasKeyword(p, effects.Haste) {
		return reject(CodeCannotPay, "%s has summoning sickness", p.Name())
	}
	return nil
}

// payNonManaCosts taps, adjusts loyalty and sacrifices as the ability requires.
func (e *Engine) payNonManaCosts(p *Permanent, ability Ability) {
	if ability.Tap {
		e.tap(p)
	}
	if ability.Kind == AbilityLoyalty {
		p.LoyaltyActivatedThisTurn = true
		if ability.Loyalty > 0 {
			p.Counters.Add(counters.Loyalty, ability.Loyalty)
		} else if ability.Loyalty < 0 {
			p.Counters.Remove(counters.Loyalty, -ability.Loyalty)
		}
	}
	if ability.SacrificeSelf {
		e.logf("%s sacrifices %s", p.Controller, p.Name())
		e.putIntoGraveyard(p, "sacrificed")
	}
}
