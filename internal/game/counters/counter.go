package counters

import "sort"

// Counters is the set of counters on one permanent or player.
type Counters struct {
	counts map[CounterType]int
}

// NewCounters creates an empty collection.
func NewCounters() *Counters {
	return &Counters{counts: make(map[CounterType]int)}
}

// Add puts amount counters of the given type.
func (cs *Counters) Add(t CounterType, amount int) {
	if amount <= 0 {
		return
	}
	cs.counts[t] += amount
}

// Remove takes away up to amount counters and returns how many were removed.
func (cs *Counters) Remove(t CounterType, amount int) int {
	if amount <= 0 {
		return 0
	}
	have := cs.counts[t]
	removed := min(have, amount)
	if have-removed == 0 {
		delete(cs.counts, t)
	} else {
		cs.counts[t] = have - removed
	}
	return removed
}

// Set overwrites the count for one type.
func (cs *Counters) Set(t CounterType, amount int) {
	if amount <= 0 {
		delete(cs.counts, t)
		return
	}
	cs.counts[t] = amount
}

// Get returns the count of one type.
func (cs *Counters) Get(t CounterType) int {
	return cs.counts[t]
}

// Types returns the counter types present, sorted by name.
func (cs *Counters) Types() []CounterType {
	out := make([]CounterType, 0, len(cs.counts))
	for t := range cs.counts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Boost sums the power/toughness change of every boost counter.
func (cs *Counters) Boost() (power, toughness int) {
	for _, t := range cs.Types() {
		p, tough, ok := t.Boost()
		if !ok {
			continue
		}
		n := cs.counts[t]
		power += p * n
		toughness += tough * n
	}
	return power, toughness
}

// Annihilate removes matched pairs of +1/+1 and -1/-1 counters and reports
// whether anything changed.
func (cs *Counters) Annihilate() bool {
	pairs := min(cs.counts[P1P1], cs.counts[M1M1])
	if pairs == 0 {
		return false
	}
	cs.Remove(P1P1, pairs)
	cs.Remove(M1M1, pairs)
	return true
}

// Clear removes every counter.
func (cs *Counters) Clear() {
	cs.counts = make(map[CounterType]int)
}

// Copy creates a deep copy of the collection.
func (cs *Counters) Copy() *Counters {
	cpy := NewCounters()
	for t, n := range cs.counts {
		cpy.counts[t] = n
	}
	return cpy
}
