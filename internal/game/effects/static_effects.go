package effects

import (
	"slices"
)

// Filter decides whether an effect reaches a snapshot. A nil Filter matches everything.
type Filter func(*Snapshot) bool

func (f Filter) match(s *Snapshot) bool {
	return s != nil && (f == nil || f(s))
}

// Permanent matches one permanent by id.
func Permanent(id string) Filter {
	return func(s *Snapshot) bool { return s.PermanentID == id }
}

// ControlledBy matches permanents controlled by the player.
func ControlledBy(playerID string) Filter {
	return func(s *Snapshot) bool { return s.ControllerID == playerID }
}

// Creatures matches anything that is currently a creature.
func Creatures() Filter {
	return func(s *Snapshot) bool { return s.HasType("Creature") }
}

// Except excludes one permanent id.
func Except(id string) Filter {
	return func(s *Snapshot) bool { return s.PermanentID != id }
}

// All combines filters with logical and.
func All(filters ...Filter) Filter {
	return func(s *Snapshot) bool {
		for _, f := range filters {
			if f != nil && !f(s) {
				return false
			}
		}
		return true
	}
}

// CopyEffect makes the snapshot take on the copiable values of another object.
type CopyEffect struct {
	Filter Filter
	From   *Snapshot
}

func (e *CopyEffect) Layer() Layer               { return LayerCopy }
func (e *CopyEffect) Sublayer() int              { return SublayerSet }
func (e *CopyEffect) AppliesTo(s *Snapshot) bool { return e.From != nil && e.Filter.match(s) }

// Apply overwrites everything except identity and control.
func (e *CopyEffect) Apply(s *Snapshot) {
	from := e.From.Clone()
	from.PermanentID = s.PermanentID
	from.ControllerID = s.ControllerID
	*s = *from
}

// CharacteristicDefining sets base power and toughness from a value computed by
// the caller at query time (e.g. "equal to the number of cards in your hand").
type CharacteristicDefining struct {
	Filter    Filter
	Power     int
	Toughness int
}

func (e *CharacteristicDefining) Layer() Layer               { return LayerCopy }
func (e *CharacteristicDefining) Sublayer() int              { return SublayerModify }
func (e *CharacteristicDefining) AppliesTo(s *Snapshot) bool { return e.Filter.match(s) }
func (e *CharacteristicDefining) Apply(s *Snapshot) {
	s.Power = e.Power
	s.Toughness = e.Toughness
}

// GrantTypes adds card types and subtypes.
type GrantTypes struct {
	Filter   Filter
	Types    []string
	Subtypes []string
}

func (e *GrantTypes) Layer() Layer               { return LayerType }
func (e *GrantTypes) Sublayer() int              { return SublayerSet }
func (e *GrantTypes) AppliesTo(s *Snapshot) bool { return e.Filter.match(s) }
func (e *GrantTypes) Apply(s *Snapshot) {
	for _, t := range e.Types {
		s.AddType(t)
	}
	for _, st := range e.Subtypes {
		s.AddSubtype(st)
	}
}

// SetPowerToughness is a "becomes N/N" effect.
type SetPowerToughness struct {
	Filter    Filter
	Power     int
	Toughness int
}

func (e *SetPowerToughness) Layer() Layer               { return LayerPowerToughness }
func (e *SetPowerToughness) Sublayer() int              { return SublayerSet }
func (e *SetPowerToughness) AppliesTo(s *Snapshot) bool { return e.Filter.match(s) }
func (e *SetPowerToughness) Apply(s *Snapshot) {
	s.Power = e.Power
	s.Toughness = e.Toughness
}

// BoostPowerToughness adds a delta. All boosts are summed.
type BoostPowerToughness struct {
	Filter    Filter
	Power     int
	Toughness int
}

func (e *BoostPowerToughness) Layer() Layer               { return LayerPowerToughness }
func (e *BoostPowerToughness) Sublayer() int              { return SublayerModify }
func (e *BoostPowerToughness) AppliesTo(s *Snapshot) bool { return e.Filter.match(s) }
func (e *BoostPowerToughness) Apply(s *Snapshot) {
	s.Power += e.Power
	s.Toughness += e.Toughness
}

// GrantKeywords adds keywords.
type GrantKeywords struct {
	Filter   Filter
	Keywords []Keyword
}

func (e *GrantKeywords) Layer() Layer               { return LayerAbility }
func (e *GrantKeywords) Sublayer() int              { return SublayerSet }
func (e *GrantKeywords) AppliesTo(s *Snapshot) bool { return e.Filter.match(s) }
func (e *GrantKeywords) Apply(s *Snapshot) {
	for _, kw := range e.Keywords {
		s.AddKeyword(kw)
	}
}

// RemoveKeywords strips keywords after all grants have been applied.
type RemoveKeywords struct {
	Filter   Filter
	Keywords []Keyword
}

func (e *RemoveKeywords) Layer() Layer               { return LayerAbility }
func (e *RemoveKeywords) Sublayer() int              { return SublayerModify }
func (e *RemoveKeywords) AppliesTo(s *Snapshot) bool { return e.Filter.match(s) }
func (e *RemoveKeywords) Apply(s *Snapshot) {
	s.Keywords = slices.DeleteFunc(s.Keywords, func(k Keyword) bool {
		return slices.Contains(e.Keywords, k)
	})
}

// CounterBoost applies the net result of +1/+1 style counters.
type CounterBoost struct {
	Power     int
	Toughness int
}

func (e *CounterBoost) Layer() Layer             { return LayerCounters }
func (e *CounterBoost) Sublayer() int            { return SublayerModify }
func (e *CounterBoost) AppliesTo(*Snapshot) bool { return e.Power != 0 || e.Toughness != 0 }
func (e *CounterBoost) Apply(s *Snapshot) {
	s.Power += e.Power
	s.Toughness += e.Toughness
}
