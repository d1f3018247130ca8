package game

import (
	"slices"

	"github.com/magefree/mage-duel-go/internal/game/counters"
	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/mana"
)

// Permanent is one object on the battlefield. Its Card travels to the next
// zone when it leaves; the Permanent itself is discarded.
type Permanent struct {
	ID         string
	Card       *Card
	Instance   *CardInstance
	Owner      string
	Controller string
	// ControlRevertsTo is who gets the permanent back at cleanup after a
	// gain-control effect that lasts until end of turn.
	ControlRevertsTo string

	Tapped bool
	// SummoningSick is set until its controller's next untap step. It only
	// matters while the permanent is a creature.
	SummoningSick bool

	Attacking bool
	// AttackTarget is the defending player or planeswalker id.
	AttackTarget string
	Blocking     []string
	// BlockedBy is in damage assignment order.
	BlockedBy  []string
	WasBlocked bool

	Damage            int
	DeathtouchDamaged bool
	Counters          *counters.Counters

	// Until-end-of-turn modifiers.
	PowerModifier     int
	ToughnessModifier int
	GrantedKeywords   []effects.Keyword
	RemovedKeywords   []effects.Keyword
	GrantedSubtypes   []string
	Animated          *Animation

	// AttachedTo is the id of the enchanted or equipped permanent.
	AttachedTo string

	PreventionShield    int
	RegenerationShields int

	LoyaltyActivatedThisTurn bool
	ChosenColor              mana.Color
	// CopyOf is the card this permanent is copying, if any.
	CopyOf *Card
}

// Animation turns a permanent into a creature until end of turn.
type Animation struct {
	Power     int
	Toughness int
	Subtypes  []string
	Keywords  []effects.Keyword
}

func newPermanent(id string, inst *CardInstance, controller string) *Permanent {
	p := &Permanent{
		ID:         id,
		Card:       inst.Card,
		Instance:   inst,
		Owner:      inst.Owner,
		Controller: controller,
		Counters:   counters.NewCounters(),

		SummoningSick: true,
	}
	if inst.Card.HasType(TypePlaneswalker) && inst.Card.Loyalty > 0 {
		p.Counters.Add(counters.Loyalty, inst.Card.Loyalty)
	}
	return p
}

// EffectiveCard is the card whose copiable values the permanent has.
func (p *Permanent) EffectiveCard() *Card {
	if p.CopyOf != nil {
		return p.CopyOf
	}
	return p.Card
}

// Name returns the name of the effective card.
func (p *Permanent) Name() string {
	return p.EffectiveCard().Name
}

// Loyalty returns the number of loyalty counters.
func (p *Permanent) Loyalty() int {
	return p.Counters.Get(counters.Loyalty)
}

// IsBlocked reports whether the permanent was blocked this combat.
func (p *Permanent) IsBlocked() bool {
	return p.WasBlocked
}

func (p *Permanent) removeFromCombat() {
	p.Attacking = false
	p.AttackTarget = ""
	p.Blocking = nil
	p.BlockedBy = nil
	p.WasBlocked = false
}

// resetEndOfTurn clears damage and every until-end-of-turn modifier.
func (p *Permanent) resetEndOfTurn() {
	p.Damage = 0
	p.DeathtouchDamaged = false
	p.PowerModifier = 0
	p.ToughnessModifier = 0
	p.GrantedKeywords = nil
	p.RemovedKeywords = nil
	p.GrantedSubtypes = nil
	p.Animated = nil
	p.PreventionShield = 0
	p.RegenerationShields = 0
	p.LoyaltyActivatedThisTurn = false
}

func (p *Permanent) grantKeyword(kw effects.Keyword) {
	if !slices.Contains(p.GrantedKeywords, kw) {
		p.GrantedKeywords = append(p.GrantedKeywords, kw)
	}
	p.RemovedKeywords = slices.DeleteFunc(p.RemovedKeywords, func(k effects.Keyword) bool { return k == kw })
}

func (p *Permanent) removeBlocker(blockerID string) {
	p.BlockedBy = slices.DeleteFunc(p.BlockedBy, func(id string) bool { return id == blockerID })
}

func (p *Permanent) removeBlocked(attackerID string) {
	p.Blocking = slices.DeleteFunc(p.Blocking, func(id string) bool { return id == attackerID })
}
