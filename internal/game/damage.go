package game

import (
	"github.com/magefree/mage-duel-go/internal/game/counters"
	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// damageSource is what dealt the damage, captured before any of it is dealt.
type damageSource struct {
	ID         string
	Controller string
	Name       string
	Lifelink   bool
	Deathtouch bool
}

func (e *Engine) permanentSource(p *Permanent) damageSource {
	snap := e.Characteristics(p)
	return damageSource{
		ID:         p.ID,
		Controller: p.Controller,
		Name:       snap.Name,
		Lifelink:   snap.HasKeyword(effects.Lifelink),
		Deathtouch: snap.HasKeyword(effects.Deathtouch),
	}
}

// effectSource is the damage source of a resolving spell or ability. The
// source permanent's keywords count while it is still on the battlefield.
func (e *Engine) effectSource(ctx *EffectContext) damageSource {
	if p := ctx.Source(); p != nil {
		return e.permanentSource(p)
	}
	src := damageSource{Controller: ctx.Controller, Name: ctx.SourceName()}
	if ctx.Entry != nil {
		src.ID = ctx.Entry.ID
	}
	if ctx.Card != nil {
		src.Lifelink = ctx.Card.HasKeyword(effects.Lifelink)
		src.Deathtouch = ctx.Card.HasKeyword(effects.Deathtouch)
	}
	return src
}

// dealDamage deals amount to a player or permanent and returns how much was
// actually dealt after prevention. Destruction is left to state-based actions.
func (e *Engine) dealDamage(src damageSource, targetID string, amount int, combat bool) int {
	if amount <= 0 {
		return 0
	}
	dealt := 0
	if player := e.player(targetID); player != nil {
		dealt = amount
		player.Life -= dealt
		e.logf("%s deals %d damage to %s", src.Name, dealt, player.ID)
		e.publish(rules.NewEventWithAmount(rules.EventDamagedPlayer, player.ID, src.ID, src.Controller, dealt))
	} else if p := e.permanent(targetID); p != nil {
		dealt = e.preventDamage(p, amount)
		if dealt == 0 {
			return 0
		}
		snap := e.Characteristics(p)
		if snap.HasType(TypePlaneswalker) {
			p.Counters.Remove(counters.Loyalty, dealt)
		}
		if snap.HasType(TypeCreature) {
			p.Damage += dealt
			if src.Deathtouch {
				p.DeathtouchDamaged = true
			}
		}
		e.logf("%s deals %d damage to %s", src.Name, dealt, snap.Name)
		evt := rules.NewEventWithAmount(rules.EventDamagedPermanent, p.ID, src.ID, src.Controller, dealt)
		evt.Flag = combat
		e.publish(evt)
	} else {
		return 0
	}

	if src.Lifelink {
		if controller := e.player(src.Controller); controller != nil {
			e.gainLife(controller, dealt, src.ID)
		}
	}
	return dealt
}

// preventDamage uses up the permanent's prevention shield and returns the
// damage left over.
func (e *Engine) preventDamage(p *Permanent, amount int) int {
	if p.PreventionShield <= 0 {
		return amount
	}
	prevented := min(amount, p.PreventionShield)
	p.PreventionShield -= prevented
	e.logf("%d damage to %s is prevented", prevented, p.Name())
	e.publish(rules.NewEventWithAmount(rules.EventPreventedDamage, p.ID, "", p.Controller, prevented))
	return amount - prevented
}
