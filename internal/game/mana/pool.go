package mana

import (
	"fmt"
	"strings"
)

// Color identifies a mana symbol color. Colorless is a valid mana color but not a card color.
type Color string

const (
	White     Color = "W"
	Blue      Color = "U"
	Black     Color = "B"
	Red       Color = "R"
	Green     Color = "G"
	Colorless Color = "C"
)

// Colors lists every mana color in canonical WUBRG order followed by colorless.
var Colors = []Color{White, Blue, Black, Red, Green, Colorless}

// CardColors lists the five card colors in WUBRG order.
var CardColors = []Color{White, Blue, Black, Red, Green}

var colorNames = map[Color]string{
	White:     "white",
	Blue:      "blue",
	Black:     "black",
	Red:       "red",
	Green:     "green",
	Colorless: "colorless",
}

// String returns the lower-case color name.
func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return string(c)
}

// ParseColor accepts either a symbol ("G") or a name ("green").
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	for _, c := range Colors {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, colorNames[c]) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown color %q", s)
}

// IsCardColor reports whether c is one of the five card colors.
func (c Color) IsCardColor() bool {
	return c != Colorless && colorNames[c] != ""
}

// ManaPool holds the mana a player has available. It empties between steps.
type ManaPool struct {
	amounts map[Color]int
}

// NewManaPool creates a new empty mana pool.
func NewManaPool() *ManaPool {
	return &ManaPool{amounts: make(map[Color]int, len(Colors))}
}

// Add adds mana of one color.
func (mp *ManaPool) Add(color Color, amount int) {
	if amount <= 0 {
		return
	}
	mp.amounts[color] += amount
}

// Get returns the amount of one color.
func (mp *ManaPool) Get(color Color) int {
	return mp.amounts[color]
}

// Spend removes mana of one color. Returns false and leaves the pool untouched
// if there is not enough.
func (mp *ManaPool) Spend(color Color, amount int) bool {
	if amount <= 0 {
		return true
	}
	if mp.amounts[color] < amount {
		return false
	}
	mp.amounts[color] -= amount
	return true
}

// Total returns the amount of mana across all colors.
func (mp *ManaPool) Total() int {
	total := 0
	for _, c := range Colors {
		total += mp.amounts[c]
	}
	return total
}

// Empty removes all mana from the pool.
func (mp *ManaPool) Empty() {
	for _, c := range Colors {
		delete(mp.amounts, c)
	}
}

// Copy creates a deep copy of the mana pool.
func (mp *ManaPool) Copy() *ManaPool {
	cpy := NewManaPool()
	for _, c := range Colors {
		if n := mp.amounts[c]; n > 0 {
			cpy.amounts[c] = n
		}
	}
	return cpy
}

// Amounts returns a snapshot keyed by color, omitting zero entries.
func (mp *ManaPool) Amounts() map[Color]int {
	out := make(map[Color]int)
	for _, c := range Colors {
		if n := mp.amounts[c]; n > 0 {
			out[c] = n
		}
	}
	return out
}

// String renders the pool as mana symbols, e.g. "{G}{G}{C}".
func (mp *ManaPool) String() string {
	var b strings.Builder
	for _, c := range Colors {
		for i := 0; i < mp.amounts[c]; i++ {
			b.WriteString("{" + string(c) + "}")
		}
	}
	return b.String()
}
