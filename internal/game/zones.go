package game

import (
	"fmt"
	"slices"

	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// enterBattlefield puts a card onto the battlefield under controller. setup
// runs before the permanent is announced, so enters triggers see it.
func (e *Engine) enterBattlefield(inst *CardInstance, controller string, setup func(*Permanent)) *Permanent {
	p := newPermanent(e.newID("permanent"), inst, controller)
	if setup != nil {
		setup(p)
	}
	e.data.Battlefield = append(e.data.Battlefield, p)
	e.registerTriggers(p)

	evt := rules.NewEvent(rules.EventEntersBattlefield, p.ID, p.ID, controller)
	evt.Data = string(ZoneBattlefield)
	if inst.Card.Token {
		evt.Flag = true
	}
	e.publish(evt)
	return p
}

// createToken puts a fresh token onto the battlefield.
func (e *Engine) createToken(template *Card, controller string) *Permanent {
	inst := &CardInstance{ID: e.newID("token"), Card: template, Owner: controller}
	p := e.enterBattlefield(inst, controller, nil)
	e.publish(rules.NewEvent(rules.EventTokenCreated, p.ID, p.ID, controller))
	return p
}

// registerTriggers registers the triggered abilities of a permanent's card.
func (e *Engine) registerTriggers(p *Permanent) {
	card := p.EffectiveCard()
	for _, slot := range TriggerSlots {
		effs := card.Effects[slot]
		if len(effs) == 0 {
			continue
		}
		trigger := rules.AbilityTrigger[*StackEntry]{
			ID:         e.newID("trigger"),
			SourceID:   p.ID,
			Controller: p.Controller,
		}
		switch slot {
		case SlotEnters:
			trigger.EventType = rules.EventEntersBattlefield
			trigger.Condition = func(ev rules.Event) bool { return ev.TargetID == p.ID }
			trigger.Once = true
		case SlotDies:
			trigger.EventType = rules.EventPermanentDies
			trigger.Condition = func(ev rules.Event) bool { return ev.TargetID == p.ID }
			trigger.Once = true
		case SlotAttacks:
			trigger.EventType = rules.EventAttackerDeclared
			trigger.Condition = func(ev rules.Event) bool { return ev.TargetID == p.ID }
		case SlotUpkeep:
			trigger.EventType = rules.EventUpkeepStep
			trigger.Condition = func(ev rules.Event) bool { return ev.PlayerID == p.Controller }
		case SlotEndStep:
			trigger.EventType = rules.EventEndTurnStep
			trigger.Condition = func(ev rules.Event) bool { return ev.PlayerID == p.Controller }
		}
		desc := fmt.Sprintf("%s %s trigger", card.Name, slot)
		trigger.Build = func(ev rules.Event) *StackEntry {
			return &StackEntry{
				ID:          e.newID("ability"),
				Kind:        rules.StackItemKindTriggered,
				Card:        card,
				SourceID:    p.ID,
				Controller:  p.Controller,
				Effects:     slices.Clone(effs),
				Description: desc,
			}
		}
		e.triggers.Register(trigger)
	}
}

// leaveBattlefield removes a permanent and moves its card to dest. Tokens
// cease to exist instead.
func (e *Engine) leaveBattlefield(p *Permanent, dest Zone) {
	idx := slices.Index(e.data.Battlefield, p)
	invariant(idx >= 0, "permanent %s is not on the battlefield", p.ID)

	wasCreature := e.IsCreature(p)
	e.data.Battlefield = slices.Delete(slices.Clone(e.data.Battlefield), idx, idx+1)
	for _, other := range e.data.Battlefield {
		other.removeBlocker(p.ID)
		other.removeBlocked(p.ID)
	}

	if !p.Card.Token && p.Instance != nil {
		e.putCard(p.Instance, dest)
	}

	change := rules.NewEvent(rules.EventZoneChange, p.ID, p.ID, p.Controller)
	change.Data = string(dest)
	e.publish(change)
	if dest == ZoneGraveyard {
		dies := rules.NewEventWithFlag(rules.EventPermanentDies, p.ID, p.ID, p.Controller, wasCreature)
		dies.Metadata["owner_id"] = p.Owner
		e.publish(dies)
	}
	e.triggers.UnregisterSource(p.ID)
}

// putCard adds a card to a zone of its owner. Graveyard and exile grow at the end.
func (e *Engine) putCard(inst *CardInstance, zone Zone) {
	owner := e.player(inst.Owner)
	invariant(owner != nil, "card %s has unknown owner %s", inst.ID, inst.Owner)
	switch zone {
	case ZoneLibrary:
		owner.Library = append([]*CardInstance{inst}, owner.Library...)
	default:
		owner.setZone(zone, append(owner.Zone(zone), inst))
	}
}

// destroy moves a permanent to the graveyard unless it is indestructible or
// a regeneration shield replaces the destruction. It reports whether
// anything happened.
func (e *Engine) destroy(p *Permanent, reason string) bool {
	if e.HasKeyword(p, effects.Indestructible) {
		return false
	}
	if p.RegenerationShields > 0 {
		p.RegenerationShields--
		p.Tapped = true
		p.Damage = 0
		p.DeathtouchDamaged = false
		e.removeFromCombat(p)
		e.logf("%s regenerates", p.Name())
		e.publish(rules.NewEvent(rules.EventRegenerated, p.ID, p.ID, p.Controller))
		return true
	}
	e.putIntoGraveyard(p, reason)
	return true
}

// putIntoGraveyard moves a permanent to its owner's graveyard.
func (e *Engine) putIntoGraveyard(p *Permanent, reason string) {
	if e.IsCreature(p) {
		e.logf("%s dies (%s)", p.Name(), reason)
	} else {
		e.logf("%s is put into the graveyard (%s)", p.Name(), reason)
	}
	e.leaveBattlefield(p, ZoneGraveyard)
}

// draw moves up to n cards from the top of the library to the hand and
// returns how many were drawn. Drawing from an empty library is remembered
// for state-based actions.
func (e *Engine) draw(player *Player, n int) int {
	for i := range n {
		if len(player.Library) == 0 {
			player.drewFromEmpty = true
			e.logf("%s cannot draw from an empty library", player.ID)
			return i
		}
		card := player.Library[0]
		player.Library = slices.Clone(player.Library[1:])
		player.Hand = append(player.Hand, card)
		e.publish(rules.NewEvent(rules.EventDrewCard, card.ID, "", player.ID))
	}
	return max(n, 0)
}

func (e *Engine) discard(player *Player, cardID string) {
	card, ok := player.take(ZoneHand, cardID)
	invariant(ok, "card %s is not in %s's hand", cardID, player.ID)
	player.Graveyard = append(player.Graveyard, card)
	e.logf("%s discards %s", player.ID, card.Card.Name)
	e.publish(rules.NewEvent(rules.EventDiscardedCard, card.ID, "", player.ID))
}

func (e *Engine) shuffle(player *Player) {
	lib := player.Library
	e.rng.Shuffle(len(lib), func(i, j int) { lib[i], lib[j] = lib[j], lib[i] })
	e.publish(rules.NewEvent(rules.EventLibraryShuffled, player.ID, "", player.ID))
}

func (e *Engine) tap(p *Permanent) {
	if p.Tapped {
		return
	}
	p.Tapped = true
	e.publish(rules.NewEvent(rules.EventTapped, p.ID, p.ID, p.Controller))
}

func (e *Engine) gainLife(player *Player, amount int, source string) {
	if amount <= 0 {
		return
	}
	player.Life += amount
	e.logf("%s gains %d life", player.ID, amount)
	e.publish(rules.NewEventWithAmount(rules.EventGainedLife, player.ID, source, player.ID, amount))
}

func (e *Engine) loseLife(player *Player, amount int, source string) {
	if amount <= 0 {
		return
	}
	player.Life -= amount
	e.logf("%s loses %d life", player.ID, amount)
	e.publish(rules.NewEventWithAmount(rules.EventLostLife, player.ID, source, player.ID, amount))
}
