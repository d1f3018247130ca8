package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ManaCost represents a parsed mana cost.
type ManaCost struct {
	Generic int
	Colored map[Color]int
	X       int // number of {X} symbols
}

// ParseCost parses a mana cost string (e.g., "{1}{G}", "{2}{R}{R}", "{X}{R}").
// Supports generic numbers, the five colors, {C} and {X}.
func ParseCost(costStr string) (*ManaCost, error) {
	cost := &ManaCost{Colored: make(map[Color]int)}
	costStr = strings.TrimSpace(costStr)
	if costStr == "" {
		return cost, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(costStr, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("invalid mana cost %q", costStr)
	}

	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))

		switch symbol {
		case "X":
			cost.X++
		case "W", "U", "B", "R", "G", "C":
			cost.Colored[Color(symbol)]++
		default:
			num, err := strconv.Atoi(symbol)
			if err != nil || num < 0 {
				return nil, fmt.Errorf("unknown mana symbol: {%s}", symbol)
			}
			cost.Generic += num
		}
	}

	return cost, nil
}

// MustParseCost is ParseCost for static card definitions. It panics on error.
func MustParseCost(costStr string) *ManaCost {
	cost, err := ParseCost(costStr)
	if err != nil {
		panic(err)
	}
	return cost
}

// Of returns the colored requirement for one color.
func (mc *ManaCost) Of(c Color) int {
	if mc == nil {
		return 0
	}
	return mc.Colored[c]
}

// ManaValue returns the converted mana value with X counted as xValue.
func (mc *ManaCost) ManaValue(xValue int) int {
	if mc == nil {
		return 0
	}
	total := mc.Generic + mc.X*xValue
	for _, c := range Colors {
		total += mc.Colored[c]
	}
	return total
}

// IsZero reports whether the cost requires no mana at all.
func (mc *ManaCost) IsZero() bool {
	return mc == nil || (mc.ManaValue(0) == 0 && mc.X == 0)
}

// Colors returns the card colors appearing in the cost, in WUBRG order.
func (mc *ManaCost) Colors() []Color {
	var out []Color
	for _, c := range CardColors {
		if mc.Of(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// String returns a string representation of the mana cost.
func (mc *ManaCost) String() string {
	if mc == nil {
		return ""
	}
	var parts []string
	for i := 0; i < mc.X; i++ {
		parts = append(parts, "{X}")
	}
	if mc.Generic > 0 {
		parts = append(parts, fmt.Sprintf("{%d}", mc.Generic))
	}
	for _, c := range Colors {
		for i := 0; i < mc.Colored[c]; i++ {
			parts = append(parts, "{"+string(c)+"}")
		}
	}
	if len(parts) == 0 {
		return "{0}"
	}
	return strings.Join(parts, "")
}

// CanPay checks if a mana pool can pay for this cost with the given X value.
func (mc *ManaCost) CanPay(pool *ManaPool, xValue int) bool {
	return CalculatePayment(mc, pool, xValue, nil).Success
}
