package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bear() *Snapshot {
	return &Snapshot{
		PermanentID:  "bear",
		ControllerID: "Alice",
		Name:         "Grizzly Bears",
		Types:        []string{"Creature"},
		Subtypes:     []string{"Bear"},
		Power:        2,
		Toughness:    2,
	}
}

func TestApplyBoostsAreSummed(t *testing.T) {
	s := bear()
	Apply(s, []ContinuousEffect{
		&BoostPowerToughness{Filter: ControlledBy("Alice"), Power: 1, Toughness: 1},
		&BoostPowerToughness{Filter: ControlledBy("Bob"), Power: 5, Toughness: 5},
		&BoostPowerToughness{Power: 0, Toughness: 1},
	})
	assert.Equal(t, 3, s.Power)
	assert.Equal(t, 4, s.Toughness)
}

func TestApplyLayerOrderIsIndependentOfInputOrder(t *testing.T) {
	// Counters come last and "becomes 0/1" comes before boosts no matter how
	// the effects were supplied.
	effs := []ContinuousEffect{
		&CounterBoost{Power: 1, Toughness: 1},
		&BoostPowerToughness{Power: 2, Toughness: 0},
		&SetPowerToughness{Power: 0, Toughness: 1},
	}
	s := bear()
	Apply(s, effs)
	assert.Equal(t, 3, s.Power)
	assert.Equal(t, 2, s.Toughness)
}

func TestApplyTypeGrantFeedsLaterFilters(t *testing.T) {
	artifact := &Snapshot{PermanentID: "golem", ControllerID: "Alice", Types: []string{"Artifact"}}
	Apply(artifact, []ContinuousEffect{
		&BoostPowerToughness{Filter: Creatures(), Power: 1, Toughness: 1},
		&GrantTypes{Types: []string{"Creature"}, Subtypes: []string{"Golem"}},
		&SetPowerToughness{Filter: Creatures(), Power: 3, Toughness: 3},
	})
	assert.True(t, artifact.HasType("creature"))
	assert.True(t, artifact.HasSubtype("Golem"))
	assert.Equal(t, 4, artifact.Power)
	assert.Equal(t, 4, artifact.Toughness)
}

func TestApplyKeywordRemovalBeatsGrant(t *testing.T) {
	s := bear()
	Apply(s, []ContinuousEffect{
		&RemoveKeywords{Keywords: []Keyword{Flying}},
		&GrantKeywords{Keywords: []Keyword{Flying, Trample}},
	})
	assert.False(t, s.HasKeyword(Flying))
	assert.True(t, s.HasKeyword(Trample))
}

func TestCopyEffectKeepsIdentity(t *testing.T) {
	angel := &Snapshot{
		PermanentID: "angel", ControllerID: "Bob", Name: "Serra Angel",
		Types: []string{"Creature"}, Subtypes: []string{"Angel"},
		Power: 4, Toughness: 4, Keywords: []Keyword{Flying, Vigilance},
	}
	s := bear()
	Apply(s, []ContinuousEffect{
		&BoostPowerToughness{Power: 1, Toughness: 1},
		&CopyEffect{From: angel},
	})
	assert.Equal(t, "Serra Angel", s.Name)
	assert.Equal(t, "bear", s.PermanentID)
	assert.Equal(t, "Alice", s.ControllerID)
	assert.Equal(t, 5, s.Power)
	assert.True(t, s.HasKeyword(Flying))
	assert.Equal(t, []Keyword{Flying, Vigilance}, angel.Keywords, "source snapshot is not aliased")
}

func TestFilters(t *testing.T) {
	s := bear()
	assert.True(t, All(ControlledBy("Alice"), Creatures(), Except("other"))(s))
	assert.False(t, All(ControlledBy("Alice"), Except("bear"))(s))
	assert.True(t, Permanent("bear")(s))
}

func TestParseKeyword(t *testing.T) {
	kw, ok := ParseKeyword("First Strike")
	assert.True(t, ok)
	assert.Equal(t, FirstStrike, kw)

	_, ok = ParseKeyword("banding")
	assert.False(t, ok)
}
