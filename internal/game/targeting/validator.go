package targeting

import (
	"fmt"
)

// TargetValidator validates that selected targets are legal.
type TargetValidator struct {
	gameState TargetGameStateAccessor
	registry  *Registry
}

// TargetGameStateAccessor provides access to game state needed for target validation.
type TargetGameStateAccessor interface {
	// FindTargetCandidate resolves an id to a player, permanent or stack entry.
	FindTargetCandidate(id string) (TargetCandidate, bool)
}

// TargetCandidate describes one object that might be targeted.
type TargetCandidate struct {
	ID             string
	Type           TargetType // PERMANENT, PLAYER or SPELL
	ControllerID   string
	IsCreature     bool
	IsPlaneswalker bool
	Hexproof       bool
	// Attributes is the `target` map seen by predicates.
	Attributes map[string]any
}

// TargetSource describes the spell or ability doing the targeting.
type TargetSource struct {
	ControllerID string
	// Attributes is the `source` map seen by predicates.
	Attributes map[string]any
}

// NewTargetValidator creates a new target validator.
func NewTargetValidator(gameState TargetGameStateAccessor, registry *Registry) *TargetValidator {
	return &TargetValidator{
		gameState: gameState,
		registry:  registry,
	}
}

// ValidateTarget checks if a single target ID is valid for the given requirement.
func (tv *TargetValidator) ValidateTarget(targetID string, requirement TargetRequirement, source TargetSource) error {
	if tv == nil || tv.gameState == nil || tv.registry == nil {
		return fmt.Errorf("target validator not initialized")
	}

	candidate, ok := tv.gameState.FindTargetCandidate(targetID)
	if !ok {
		return fmt.Errorf("target %s not found", targetID)
	}

	if !typeMatches(requirement.Type, candidate) {
		return fmt.Errorf("target %s is not a legal %s target", targetID, requirement.Type)
	}

	if candidate.Hexproof && candidate.ControllerID != source.ControllerID {
		return fmt.Errorf("target %s has hexproof", targetID)
	}

	matched, err := tv.registry.Matches(requirement.Predicate, candidate.Attributes, source.Attributes)
	if err != nil {
		return err
	}
	if !matched {
		desc := requirement.Description
		if desc == "" {
			desc = requirement.Predicate
		}
		return fmt.Errorf("target %s does not match %q", targetID, desc)
	}
	return nil
}

// ValidateTargetSelection validates an entire target selection against its requirements.
func (tv *TargetValidator) ValidateTargetSelection(selection *TargetSelection, source TargetSource) error {
	if tv == nil {
		return fmt.Errorf("target validator not initialized")
	}
	if err := selection.Validate(); err != nil {
		return err
	}
	for _, targetID := range selection.Targets {
		if err := tv.ValidateTarget(targetID, selection.Requirement, source); err != nil {
			return fmt.Errorf("invalid target %s: %w", targetID, err)
		}
	}
	return nil
}

func typeMatches(want TargetType, c TargetCandidate) bool {
	switch want {
	case TargetTypePermanent:
		return c.Type == TargetTypePermanent
	case TargetTypeCreature:
		return c.Type == TargetTypePermanent && c.IsCreature
	case TargetTypePlayer:
		return c.Type == TargetTypePlayer
	case TargetTypeSpell:
		return c.Type == TargetTypeSpell
	case TargetTypeAny:
		return c.Type == TargetTypePlayer || (c.Type == TargetTypePermanent && (c.IsCreature || c.IsPlaneswalker))
	}
	return false
}
