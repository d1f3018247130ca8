package targeting

import (
	"fmt"
	"strings"
)

// TargetType represents what kind of object a target slot accepts.
type TargetType string

const (
	// TargetTypePermanent targets permanents on the battlefield.
	TargetTypePermanent TargetType = "PERMANENT"
	// TargetTypeCreature targets creature permanents.
	TargetTypeCreature TargetType = "CREATURE"
	// TargetTypePlayer targets players.
	TargetTypePlayer TargetType = "PLAYER"
	// TargetTypeSpell targets spells or abilities on the stack.
	TargetTypeSpell TargetType = "SPELL"
	// TargetTypeAny targets a creature, planeswalker or player.
	TargetTypeAny TargetType = "ANY"
)

// ParseTargetType accepts the lower-case names used in card data.
func ParseTargetType(s string) (TargetType, error) {
	switch TargetType(strings.ToUpper(strings.TrimSpace(s))) {
	case TargetTypePermanent:
		return TargetTypePermanent, nil
	case TargetTypeCreature:
		return TargetTypeCreature, nil
	case TargetTypePlayer:
		return TargetTypePlayer, nil
	case TargetTypeSpell:
		return TargetTypeSpell, nil
	case TargetTypeAny, "":
		return TargetTypeAny, nil
	}
	return "", fmt.Errorf("unknown target type %q", s)
}

// TargetRequirement defines what targets a spell or ability requires.
type TargetRequirement struct {
	Type TargetType
	// Predicate is a CEL boolean expression over `target` and `source`. Empty means no restriction.
	Predicate  string
	MinTargets int
	MaxTargets int
	// Distinct forbids choosing the same object for two slots.
	Distinct    bool
	Description string
}

// Single returns the common "one target" requirement.
func Single(t TargetType, predicate, description string) TargetRequirement {
	return TargetRequirement{Type: t, Predicate: predicate, MinTargets: 1, MaxTargets: 1, Distinct: true, Description: description}
}

// IsSingle reports whether exactly one target is required.
func (r TargetRequirement) IsSingle() bool {
	return r.MinTargets == 1 && r.MaxTargets == 1
}

// TargetSelection represents a player's target selection for a spell or ability.
type TargetSelection struct {
	Targets     []string
	Requirement TargetRequirement
}

// Validate checks the count bounds and distinctness of the selection.
func (ts *TargetSelection) Validate() error {
	if ts == nil {
		return fmt.Errorf("target selection is nil")
	}
	count := len(ts.Targets)
	if count < ts.Requirement.MinTargets {
		return fmt.Errorf("not enough targets: need at least %d, got %d", ts.Requirement.MinTargets, count)
	}
	if count > ts.Requirement.MaxTargets {
		return fmt.Errorf("too many targets: need at most %d, got %d", ts.Requirement.MaxTargets, count)
	}
	if ts.Requirement.Distinct {
		seen := make(map[string]bool, count)
		for _, targetID := range ts.Targets {
			if seen[targetID] {
				return fmt.Errorf("duplicate target: %s", targetID)
			}
			seen[targetID] = true
		}
	}
	return nil
}
