package counters

import (
	"strconv"
	"strings"
)

// CounterType names a kind of counter.
type CounterType string

const (
	Loyalty CounterType = "loyalty"
	P1P1    CounterType = "+1/+1"
	M1M1    CounterType = "-1/-1"
	P1P0    CounterType = "+1/+0"
	P0P1    CounterType = "+0/+1"
	Charge  CounterType = "charge"
)

// Boost parses a power/toughness counter name such as "+1/+1" or "-1/-1".
// ok is false for counters that do not modify power and toughness.
func (t CounterType) Boost() (power, toughness int, ok bool) {
	parts := strings.Split(string(t), "/")
	if len(parts) != 2 {
		return 0, 0, false
	}
	p, err := parseSigned(parts[0])
	if err != nil {
		return 0, 0, false
	}
	tough, err := parseSigned(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return p, tough, true
}

func parseSigned(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || (s[0] != '+' && s[0] != '-') {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s)
}
