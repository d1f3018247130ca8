package game

import (
	"slices"
	"strings"

	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/targeting"
)

// Card types used by the engine.
const (
	TypeCreature     = "Creature"
	TypeLand         = "Land"
	TypeInstant      = "Instant"
	TypeSorcery      = "Sorcery"
	TypeArtifact     = "Artifact"
	TypeEnchantment  = "Enchantment"
	TypePlaneswalker = "Planeswalker"

	SupertypeLegendary = "Legendary"
	SupertypeBasic     = "Basic"

	SubtypeAura      = "Aura"
	SubtypeEquipment = "Equipment"
)

// Slot names the moment a card's effects are used.
type Slot string

const (
	SlotEnters  Slot = "enters"
	SlotDies    Slot = "dies"
	SlotAttacks Slot = "attacks"
	SlotUpkeep  Slot = "upkeep"
	SlotEndStep Slot = "end_step"
	SlotSpell   Slot = "spell"
)

// TriggerSlots are the slots that produce triggered abilities.
var TriggerSlots = []Slot{SlotEnters, SlotDies, SlotAttacks, SlotUpkeep, SlotEndStep}

// Card is an immutable card template. Many objects may share one Card.
type Card struct {
	ID         string
	Name       string
	Cost       *mana.ManaCost
	Types      []string
	Subtypes   []string
	Supertypes []string
	Colors     []mana.Color
	Power      int
	Toughness  int
	Loyalty    int
	Keywords   []effects.Keyword

	// Effects holds the one-shot effects for each slot.
	Effects map[Slot][]Effect
	// Statics are continuous effects active while the card is on the battlefield.
	Statics   []StaticEffect
	Abilities []Ability

	// Target is what the spell targets; for an Aura it is the enchant restriction.
	Target *targeting.TargetRequirement
	Token  bool
}

// HasType reports whether the printed card has a card type.
func (c *Card) HasType(t string) bool {
	return containsFold(c.Types, t)
}

// HasSubtype reports whether the printed card has a subtype.
func (c *Card) HasSubtype(t string) bool {
	return containsFold(c.Subtypes, t)
}

// HasSupertype reports whether the printed card has a supertype.
func (c *Card) HasSupertype(t string) bool {
	return containsFold(c.Supertypes, t)
}

// HasKeyword reports whether the printed card has a keyword.
func (c *Card) HasKeyword(kw effects.Keyword) bool {
	return slices.Contains(c.Keywords, kw)
}

// IsPermanentCard reports whether the card becomes a permanent when it resolves.
func (c *Card) IsPermanentCard() bool {
	return !c.HasType(TypeInstant) && !c.HasType(TypeSorcery)
}

// IsAura reports whether the card is an Aura.
func (c *Card) IsAura() bool {
	return c.HasType(TypeEnchantment) && c.HasSubtype(SubtypeAura)
}

// ManaCost returns the cost, never nil.
func (c *Card) ManaCost() *mana.ManaCost {
	if c.Cost == nil {
		return &mana.ManaCost{}
	}
	return c.Cost
}

func (c *Card) String() string {
	return c.Name
}

// NewToken builds a fresh token template.
func NewToken(name string, power, toughness int, colors []mana.Color, subtypes ...string) *Card {
	return &Card{
		ID:        "token-" + strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Name:      name,
		Types:     []string{TypeCreature},
		Subtypes:  subtypes,
		Colors:    colors,
		Power:     power,
		Toughness: toughness,
		Token:     true,
	}
}

// AbilityKind distinguishes the activated abilities a permanent can have.
type AbilityKind string

const (
	AbilityActivated AbilityKind = "activated"
	AbilityMana      AbilityKind = "mana"
	AbilityLoyalty   AbilityKind = "loyalty"
)

// Ability is an activated, mana or loyalty ability printed on a card.
type Ability struct {
	Kind        AbilityKind
	Description string
	Cost        *mana.ManaCost
	Tap         bool
	// SacrificeSelf sacrifices the source as part of the cost.
	SacrificeSelf bool
	// Loyalty is the loyalty change for loyalty abilities.
	Loyalty      int
	SorcerySpeed bool
	Target       *targeting.TargetRequirement
	Effects      []Effect
}

func containsFold(list []string, want string) bool {
	for _, have := range list {
		if strings.EqualFold(have, want) {
			return true
		}
	}
	return false
}
