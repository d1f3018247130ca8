package effects

import (
	"slices"
	"sort"
	"strings"

	"github.com/magefree/mage-duel-go/internal/game/mana"
)

// Layer is the application order for continuous effects. Lower layers apply first.
type Layer int

const (
	// LayerCopy covers copy and characteristic-defining effects.
	LayerCopy Layer = 1 + iota
	LayerType
	LayerPowerToughness
	LayerAbility
	// LayerCounters applies power/toughness counters after everything else.
	LayerCounters
)

var layerNames = map[Layer]string{
	LayerCopy:           "COPY",
	LayerType:           "TYPE",
	LayerPowerToughness: "POWER_TOUGHNESS",
	LayerAbility:        "ABILITY",
	LayerCounters:       "COUNTERS",
}

func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return "LAYER_?"
}

// Sublayers order effects inside one layer.
const (
	// SublayerSet runs "becomes N/N" and keyword grants.
	SublayerSet = 0
	// SublayerModify runs boosts and keyword removals.
	SublayerModify = 1
)

// Snapshot holds the characteristics of one permanent while continuous
// effects are evaluated against it.
type Snapshot struct {
	PermanentID  string
	ControllerID string
	Name         string
	Types        []string
	Subtypes     []string
	Supertypes   []string
	Colors       []mana.Color
	Power        int
	Toughness    int
	Keywords     []Keyword
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	cpy := *s
	cpy.Types = slices.Clone(s.Types)
	cpy.Subtypes = slices.Clone(s.Subtypes)
	cpy.Supertypes = slices.Clone(s.Supertypes)
	cpy.Colors = slices.Clone(s.Colors)
	cpy.Keywords = slices.Clone(s.Keywords)
	return &cpy
}

// HasType returns true if the snapshot includes the provided card type.
func (s *Snapshot) HasType(typeName string) bool {
	return containsFold(s.Types, typeName)
}

// HasSubtype returns true if the snapshot includes the provided subtype.
func (s *Snapshot) HasSubtype(subtype string) bool {
	return containsFold(s.Subtypes, subtype)
}

// HasSupertype returns true for e.g. "Legendary" or "Basic".
func (s *Snapshot) HasSupertype(supertype string) bool {
	return containsFold(s.Supertypes, supertype)
}

// HasKeyword reports whether the keyword is present.
func (s *Snapshot) HasKeyword(kw Keyword) bool {
	return slices.Contains(s.Keywords, kw)
}

// AddKeyword adds kw once.
func (s *Snapshot) AddKeyword(kw Keyword) {
	if !s.HasKeyword(kw) {
		s.Keywords = append(s.Keywords, kw)
	}
}

// RemoveKeyword drops kw if present.
func (s *Snapshot) RemoveKeyword(kw Keyword) {
	s.Keywords = slices.DeleteFunc(s.Keywords, func(k Keyword) bool { return k == kw })
}

// AddType adds a card type once.
func (s *Snapshot) AddType(t string) {
	if !s.HasType(t) {
		s.Types = append(s.Types, t)
	}
}

// AddSubtype adds a subtype once.
func (s *Snapshot) AddSubtype(t string) {
	if !s.HasSubtype(t) {
		s.Subtypes = append(s.Subtypes, t)
	}
}

// SharesSubtype reports whether the two snapshots have a subtype in common.
func (s *Snapshot) SharesSubtype(other *Snapshot) bool {
	for _, st := range s.Subtypes {
		if other.HasSubtype(st) {
			return true
		}
	}
	return false
}

// ContinuousEffect modifies characteristics during evaluation.
type ContinuousEffect interface {
	Layer() Layer
	Sublayer() int
	AppliesTo(*Snapshot) bool
	Apply(*Snapshot)
}

// Apply evaluates effects against snapshot in layer order. Effects within
// the same layer and sublayer keep the order they were supplied in, which is
// the caller's timestamp order. AppliesTo is asked against the snapshot as
// modified by the earlier layers.
func Apply(snapshot *Snapshot, effs []ContinuousEffect) {
	if snapshot == nil || len(effs) == 0 {
		return
	}
	ordered := slices.Clone(effs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Layer() != ordered[j].Layer() {
			return ordered[i].Layer() < ordered[j].Layer()
		}
		return ordered[i].Sublayer() < ordered[j].Sublayer()
	})
	for _, effect := range ordered {
		if effect.AppliesTo(snapshot) {
			effect.Apply(snapshot)
		}
	}
}

func containsFold(list []string, want string) bool {
	want = strings.TrimSpace(want)
	for _, have := range list {
		if strings.EqualFold(strings.TrimSpace(have), want) {
			return true
		}
	}
	return false
}
