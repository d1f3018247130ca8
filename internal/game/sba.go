package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// checkStateBasedActions performs one sweep and reports whether anything
// happened. Each group is decided on the state at the start of the group
// and then applied together. The legend rule only runs once every other
// check is quiet.
func (e *Engine) checkStateBasedActions() bool {
	if e.checkLosses() {
		return true
	}
	acted := false
	acted = e.checkCreatures() || acted
	acted = e.checkPlaneswalkers() || acted
	acted = e.checkAttachments() || acted
	acted = e.checkCounterAnnihilation() || acted
	if acted {
		e.publish(rules.NewEvent(rules.EventStateBasedActions, "", "", e.data.Turn.ActivePlayer()))
		return true
	}
	return e.checkLegendRule()
}

func (e *Engine) checkLosses() bool {
	var losers []*Player
	for _, player := range e.data.Players {
		if player.Lost {
			continue
		}
		switch {
		case player.Life <= 0:
			player.LossReason = "life total is 0 or less"
		case player.drewFromEmpty:
			player.LossReason = "drew from an empty library"
		default:
			continue
		}
		player.Lost = true
		losers = append(losers, player)
	}
	if len(losers) == 0 {
		return false
	}

	for _, player := range losers {
		e.logf("%s loses (%s)", player.ID, player.LossReason)
		e.publish(rules.NewEvent(rules.EventLost, player.ID, "", player.ID))
	}
	e.data.GameOver = true
	e.data.Interaction = nil
	e.resolving = nil
	for _, player := range e.data.Players {
		if !player.Lost {
			e.data.Winner = player.ID
		}
	}
	if e.data.Winner == "" {
		e.logf("The game is a draw")
	} else {
		e.logf("%s wins", e.data.Winner)
	}
	e.logger.Info("duel over",
		zap.String("winner", e.data.Winner),
		zap.Int("turn", e.data.Turn.TurnNumber()),
	)
	return true
}

// checkCreatures puts creatures with toughness 0 or less into the graveyard
// and destroys creatures with lethal damage.
func (e *Engine) checkCreatures() bool {
	var zero, lethal []*Permanent
	for _, p := range e.data.Battlefield {
		snap := e.Characteristics(p)
		if !snap.HasType(TypeCreature) {
			continue
		}
		switch {
		case snap.Toughness <= 0:
			zero = append(zero, p)
		case p.Damage >= snap.Toughness || (p.DeathtouchDamaged && p.Damage > 0):
			lethal = append(lethal, p)
		}
	}
	acted := false
	for _, p := range zero {
		e.putIntoGraveyard(p, "toughness 0 or less")
		acted = true
	}
	for _, p := range lethal {
		if e.permanent(p.ID) == nil {
			continue
		}
		if e.destroy(p, "lethal damage") {
			acted = true
		}
	}
	return acted
}

func (e *Engine) checkPlaneswalkers() bool {
	var dead []*Permanent
	for _, p := range e.data.Battlefield {
		if e.IsPlaneswalker(p) && p.Loyalty() <= 0 {
			dead = append(dead, p)
		}
	}
	for _, p := range dead {
		e.putIntoGraveyard(p, "no loyalty")
	}
	return len(dead) > 0
}

// checkAttachments puts unattached or illegally attached Auras into the
// graveyard and unattaches Equipment.
func (e *Engine) checkAttachments() bool {
	var auras []*Permanent
	acted := false
	for _, p := range e.data.Battlefield {
		card := p.EffectiveCard()
		switch {
		case card.IsAura():
			if p.AttachedTo == "" || !e.attachmentLegal(p) {
				auras = append(auras, p)
			}
		case p.AttachedTo != "" && !e.attachmentLegal(p):
			e.logf("%s becomes unattached", p.Name())
			p.AttachedTo = ""
			acted = true
		}
	}
	for _, p := range auras {
		e.putIntoGraveyard(p, "not attached to a legal permanent")
	}
	return acted || len(auras) > 0
}

func (e *Engine) checkCounterAnnihilation() bool {
	acted := false
	for _, p := range e.data.Battlefield {
		if p.Counters.Annihilate() {
			acted = true
		}
	}
	return acted
}

type legendKey struct {
	controller string
	name       string
}

// checkLegendRule asks the controller of the first group of same-named
// legendary permanents which one to keep. The rest go to the graveyard.
func (e *Engine) checkLegendRule() bool {
	groups := make(map[legendKey][]string)
	var order []legendKey
	for _, p := range e.data.Battlefield {
		snap := e.Characteristics(p)
		if !snap.HasSupertype(SupertypeLegendary) {
			continue
		}
		key := legendKey{controller: p.Controller, name: snap.Name}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p.ID)
	}

	for _, key := range order {
		ids := groups[key]
		if len(ids) < 2 {
			continue
		}
		e.ask(&Interaction{
			Kind:     InteractionPermanentChoice,
			PlayerID: key.controller,
			Prompt:   fmt.Sprintf("Choose the %s to keep", key.name),
			Choices:  ids,
			Min:      1,
			Max:      1,
			Origin:   ids[0],
			Context:  ContextLegendRule,
			onChoose: func(chosen []string) error {
				for _, id := range ids {
					if id == chosen[0] {
						continue
					}
					if p := e.permanent(id); p != nil {
						e.putIntoGraveyard(p, "legend rule")
					}
				}
				return nil
			},
		})
		return true
	}
	return false
}

// lethalDamage is how much more damage p needs to be destroyed. It is at
// least 1 unless p already has lethal damage marked.
func (e *Engine) lethalDamage(p *Permanent) int {
	if p.DeathtouchDamaged && p.Damage > 0 {
		return 0
	}
	remaining := e.EffectiveToughness(p) - p.Damage
	if remaining <= 0 {
		return 0
	}
	return remaining
}

// lethalFrom is lethalDamage as seen by a source that may have deathtouch.
func (e *Engine) lethalFrom(source *Permanent, p *Permanent) int {
	need := e.lethalDamage(p)
	if need > 1 && source != nil && e.HasKeyword(source, effects.Deathtouch) {
		return 1
	}
	return need
}
