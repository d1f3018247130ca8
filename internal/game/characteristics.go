package game

import (
	"slices"

	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/targeting"
)

// Characteristics computes the current characteristics of a permanent.
// Nothing is cached: every call starts again from the printed card and
// applies the continuous effects of whatever is on the battlefield now.
func (e *Engine) Characteristics(p *Permanent) *effects.Snapshot {
	snap := cardSnapshot(p.Card, p)
	effs := e.continuousEffects(p)
	effects.Apply(snap, effs)
	return snap
}

// EffectivePower returns the permanent's current power.
func (e *Engine) EffectivePower(p *Permanent) int {
	return e.Characteristics(p).Power
}

// EffectiveToughness returns the permanent's current toughness.
func (e *Engine) EffectiveToughness(p *Permanent) int {
	return e.Characteristics(p).Toughness
}

// EffectiveKeywords returns the permanent's current keywords.
func (e *Engine) EffectiveKeywords(p *Permanent) []effects.Keyword {
	return e.Characteristics(p).Keywords
}

// HasKeyword reports whether the permanent currently has kw.
func (e *Engine) HasKeyword(p *Permanent, kw effects.Keyword) bool {
	return e.Characteristics(p).HasKeyword(kw)
}

// EffectiveTypes returns the permanent's current card types.
func (e *Engine) EffectiveTypes(p *Permanent) []string {
	return e.Characteristics(p).Types
}

// EffectiveSubtypes returns the permanent's current subtypes.
func (e *Engine) EffectiveSubtypes(p *Permanent) []string {
	return e.Characteristics(p).Subtypes
}

// EffectiveColors returns the permanent's current colors.
func (e *Engine) EffectiveColors(p *Permanent) []mana.Color {
	return e.Characteristics(p).Colors
}

// IsCreature reports whether the permanent is currently a creature.
func (e *Engine) IsCreature(p *Permanent) bool {
	return e.Characteristics(p).HasType(TypeCreature)
}

// IsPlaneswalker reports whether the permanent is currently a planeswalker.
func (e *Engine) IsPlaneswalker(p *Permanent) bool {
	return e.Characteristics(p).HasType(TypePlaneswalker)
}

func cardSnapshot(c *Card, p *Permanent) *effects.Snapshot {
	s := &effects.Snapshot{
		Name:       c.Name,
		Types:      slices.Clone(c.Types),
		Subtypes:   slices.Clone(c.Subtypes),
		Supertypes: slices.Clone(c.Supertypes),
		Colors:     slices.Clone(c.Colors),
		Power:      c.Power,
		Toughness:  c.Toughness,
		Keywords:   slices.Clone(c.Keywords),
	}
	if p != nil {
		s.PermanentID = p.ID
		s.ControllerID = p.Controller
	}
	return s
}

// baseSnapshot is the permanent's characteristics with only its own copy
// effect and type changes applied. Static effects use it to decide whom
// they reach, which keeps the evaluation from recursing into itself.
func (e *Engine) baseSnapshot(p *Permanent) *effects.Snapshot {
	s := cardSnapshot(p.EffectiveCard(), p)
	if p.Animated != nil {
		s.AddType(TypeCreature)
		for _, st := range p.Animated.Subtypes {
			s.AddSubtype(st)
		}
	}
	for _, st := range p.GrantedSubtypes {
		s.AddSubtype(st)
	}
	return s
}

// continuousEffects gathers, fresh, every effect that may touch p in
// timestamp order: its own copy effect, the statics of every permanent on
// the battlefield in the order they entered, its own temporary modifiers,
// and finally its counters.
func (e *Engine) continuousEffects(p *Permanent) []effects.ContinuousEffect {
	self := effects.Permanent(p.ID)
	var effs []effects.ContinuousEffect

	if p.CopyOf != nil {
		effs = append(effs, &effects.CopyEffect{Filter: self, From: cardSnapshot(p.CopyOf, nil)})
	}

	for _, source := range e.data.Battlefield {
		for _, static := range source.EffectiveCard().Statics {
			effs = append(effs, static.Continuous(e, source)...)
		}
	}

	if a := p.Animated; a != nil {
		effs = append(effs,
			&effects.GrantTypes{Filter: self, Types: []string{TypeCreature}, Subtypes: a.Subtypes},
			&effects.SetPowerToughness{Filter: self, Power: a.Power, Toughness: a.Toughness},
		)
		if len(a.Keywords) > 0 {
			effs = append(effs, &effects.GrantKeywords{Filter: self, Keywords: a.Keywords})
		}
	}
	if len(p.GrantedSubtypes) > 0 {
		effs = append(effs, &effects.GrantTypes{Filter: self, Subtypes: p.GrantedSubtypes})
	}
	if p.PowerModifier != 0 || p.ToughnessModifier != 0 {
		effs = append(effs, &effects.BoostPowerToughness{Filter: self, Power: p.PowerModifier, Toughness: p.ToughnessModifier})
	}
	if len(p.GrantedKeywords) > 0 {
		effs = append(effs, &effects.GrantKeywords{Filter: self, Keywords: p.GrantedKeywords})
	}
	if len(p.RemovedKeywords) > 0 {
		effs = append(effs, &effects.RemoveKeywords{Filter: self, Keywords: p.RemovedKeywords})
	}

	power, toughness := p.Counters.Boost()
	effs = append(effs, &effects.CounterBoost{Power: power, Toughness: toughness})
	return effs
}

// attachmentLegal reports whether an Aura or Equipment is attached to a
// permanent it may legally be attached to.
func (e *Engine) attachmentLegal(att *Permanent) bool {
	host := e.permanent(att.AttachedTo)
	if host == nil || host == att {
		return false
	}
	card := att.EffectiveCard()
	hostBase := e.baseSnapshot(host)
	if card.IsAura() {
		if card.Target == nil {
			return true
		}
		if card.Target.Type == targeting.TargetTypeCreature && !hostBase.HasType(TypeCreature) {
			return false
		}
		ok, err := e.predicates.Matches(card.Target.Predicate, e.snapshotAttributes(hostBase, host, att.Controller), nil)
		return err == nil && ok
	}
	if card.HasSubtype(SubtypeEquipment) {
		return hostBase.HasType(TypeCreature) && host.Controller == att.Controller
	}
	return true
}
