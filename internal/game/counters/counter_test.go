package counters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersAddRemove(t *testing.T) {
	cs := NewCounters()
	cs.Add(Loyalty, 3)
	cs.Add(Loyalty, 2)
	cs.Add(Charge, 0)

	assert.Equal(t, 5, cs.Get(Loyalty))
	assert.Equal(t, 2, cs.Remove(Loyalty, 2))
	assert.Equal(t, 3, cs.Remove(Loyalty, 10), "removal is capped at what is present")
	assert.Equal(t, 0, cs.Get(Loyalty))
	assert.Empty(t, cs.Types())
}

func TestCountersBoost(t *testing.T) {
	cs := NewCounters()
	cs.Add(P1P1, 3)
	cs.Add(M1M1, 1)
	cs.Add(P0P1, 1)
	cs.Add(Loyalty, 4)

	power, toughness := cs.Boost()
	assert.Equal(t, 2, power)
	assert.Equal(t, 3, toughness)
}

func TestCountersAnnihilate(t *testing.T) {
	cs := NewCounters()
	cs.Add(P1P1, 2)
	cs.Add(M1M1, 3)

	assert.True(t, cs.Annihilate())
	assert.Equal(t, 0, cs.Get(P1P1))
	assert.Equal(t, 1, cs.Get(M1M1))
	assert.False(t, cs.Annihilate())
}

func TestCounterTypeBoost(t *testing.T) {
	tests := []struct {
		name      CounterType
		power     int
		toughness int
		ok        bool
	}{
		{P1P1, 1, 1, true},
		{M1M1, -1, -1, true},
		{P1P0, 1, 0, true},
		{Loyalty, 0, 0, false},
		{"1/1", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			p, tough, ok := tt.name.Boost()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.power, p)
			assert.Equal(t, tt.toughness, tough)
		})
	}
}
