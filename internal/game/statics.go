package game

import (
	"slices"

	"github.com/magefree/mage-duel-go/internal/game/effects"
)

// ScopeKind says which permanents a static effect reaches.
type ScopeKind string

const (
	ScopeSelf                     ScopeKind = "self"
	ScopeOtherCreaturesYouControl ScopeKind = "other_creatures_you_control"
	ScopeCreaturesYouControl      ScopeKind = "creatures_you_control"
	ScopeAllCreatures             ScopeKind = "all_creatures"
	ScopeSharingSubtype           ScopeKind = "sharing_subtype"
	ScopeAttached                 ScopeKind = "attached"
)

// Scope selects the permanents a static effect applies to.
type Scope struct {
	Kind ScopeKind
	// Predicate further narrows the scope with a CEL expression over `target`.
	Predicate string
	// ChosenColor limits the scope to permanents of the source's chosen color.
	ChosenColor bool
}

// scopeFilter builds the effects filter for source. Membership is decided on the
// base characteristics of the candidate.
func (e *Engine) scopeFilter(source *Permanent, scope Scope) effects.Filter {
	kind := scope.Kind
	if kind == "" {
		kind = ScopeSelf
	}
	return func(s *effects.Snapshot) bool {
		target := e.permanent(s.PermanentID)
		if target == nil {
			return false
		}
		base := e.baseSnapshot(target)
		switch kind {
		case ScopeSelf:
			if target != source {
				return false
			}
		case ScopeOtherCreaturesYouControl:
			if target == source || target.Controller != source.Controller || !base.HasType(TypeCreature) {
				return false
			}
		case ScopeCreaturesYouControl:
			if target.Controller != source.Controller || !base.HasType(TypeCreature) {
				return false
			}
		case ScopeAllCreatures:
			if !base.HasType(TypeCreature) {
				return false
			}
		case ScopeSharingSubtype:
			if target == source || !base.HasType(TypeCreature) || !base.SharesSubtype(e.baseSnapshot(source)) {
				return false
			}
		case ScopeAttached:
			if source.AttachedTo != target.ID || !e.attachmentLegal(source) {
				return false
			}
		default:
			return false
		}
		if scope.ChosenColor && (source.ChosenColor == "" || !slices.Contains(base.Colors, source.ChosenColor)) {
			return false
		}
		if scope.Predicate != "" {
			ok, err := e.predicates.Matches(scope.Predicate, e.snapshotAttributes(base, target, source.Controller), nil)
			if err != nil || !ok {
				return false
			}
		}
		return true
	}
}

// StaticBoost gives +N/+N to every permanent in scope.
type StaticBoost struct {
	Scope     Scope
	Power     int
	Toughness int
}

func (s StaticBoost) Continuous(e *Engine, source *Permanent) []effects.ContinuousEffect {
	return []effects.ContinuousEffect{&effects.BoostPowerToughness{
		Filter:    e.scopeFilter(source, s.Scope),
		Power:     s.Power,
		Toughness: s.Toughness,
	}}
}

// StaticGrantKeyword grants keywords to every permanent in scope.
type StaticGrantKeyword struct {
	Scope    Scope
	Keywords []effects.Keyword
}

func (s StaticGrantKeyword) Continuous(e *Engine, source *Permanent) []effects.ContinuousEffect {
	return []effects.ContinuousEffect{&effects.GrantKeywords{Filter: e.scopeFilter(source, s.Scope), Keywords: s.Keywords}}
}

// StaticGrantSubtype adds subtypes to every permanent in scope.
type StaticGrantSubtype struct {
	Scope    Scope
	Subtypes []string
}

func (s StaticGrantSubtype) Continuous(e *Engine, source *Permanent) []effects.ContinuousEffect {
	return []effects.ContinuousEffect{&effects.GrantTypes{Filter: e.scopeFilter(source, s.Scope), Subtypes: s.Subtypes}}
}

// CountKind is what a characteristic-defining ability counts.
type CountKind string

const (
	CountHand      CountKind = "cards_in_hand"
	CountCreatures CountKind = "creatures_you_control"
	CountGraveyard CountKind = "cards_in_graveyard"
)

// StaticSetBasePT defines the source's own power and toughness. With a
// Count, both equal that number plus the fixed values.
type StaticSetBasePT struct {
	Count     CountKind
	Power     int
	Toughness int
}

func (s StaticSetBasePT) Continuous(e *Engine, source *Permanent) []effects.ContinuousEffect {
	n := 0
	controller := e.player(source.Controller)
	switch s.Count {
	case CountHand:
		n = len(controller.Hand)
	case CountGraveyard:
		n = len(controller.Graveyard)
	case CountCreatures:
		for _, p := range e.permanentsOf(source.Controller) {
			if e.baseSnapshot(p).HasType(TypeCreature) {
				n++
			}
		}
	}
	return []effects.ContinuousEffect{&effects.CharacteristicDefining{
		Filter:    effects.Permanent(source.ID),
		Power:     n + s.Power,
		Toughness: n + s.Toughness,
	}}
}

// AttachedBoost modifies the enchanted or equipped permanent.
type AttachedBoost struct {
	Power     int
	Toughness int
}

func (s AttachedBoost) Continuous(e *Engine, source *Permanent) []effects.ContinuousEffect {
	return StaticBoost{Scope: Scope{Kind: ScopeAttached}, Power: s.Power, Toughness: s.Toughness}.Continuous(e, source)
}

// AttachedGrantKeyword grants keywords to the enchanted or equipped permanent.
type AttachedGrantKeyword struct {
	Keywords []effects.Keyword
}

func (s AttachedGrantKeyword) Continuous(e *Engine, source *Permanent) []effects.ContinuousEffect {
	return StaticGrantKeyword{Scope: Scope{Kind: ScopeAttached}, Keywords: s.Keywords}.Continuous(e, source)
}
