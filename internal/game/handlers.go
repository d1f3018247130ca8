package game

import (
	"slices"

	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/game/mana"
)

// interactionFor returns the pending interaction if it is of kind and
// belongs to playerID.
func (e *Engine) interactionFor(playerID string, kind InteractionKind) (*Interaction, error) {
	in := e.data.Interaction
	switch {
	case e.data.GameOver:
		return nil, reject(CodeGameOver, "the game is over")
	case in == nil:
		return nil, reject(CodeInvalidChoice, "no %s is pending", kind)
	case in.Kind != kind:
		return nil, reject(CodeInvalidChoice, "pending decision is %s, not %s", in.Kind, kind)
	case in.PlayerID != playerID:
		return nil, reject(CodeNotYourPriority, "the decision belongs to %s", in.PlayerID)
	}
	return in, nil
}

// resume clears the interaction, runs its continuation and lets the game
// settle again.
func (e *Engine) resume(in *Interaction, run func() error) {
	e.data.Interaction = nil
	e.logger.Debug("decision received",
		zap.String("kind", string(in.Kind)),
		zap.String("player_id", in.PlayerID),
	)
	if err := run(); err != nil {
		e.logger.Error("continuation failed",
			zap.String("kind", string(in.Kind)),
			zap.String("origin", in.Origin),
			zap.Error(err),
		)
	}
	e.settle()
}

// HandleMayAbility answers a "you may" prompt.
func (e *Engine) HandleMayAbility(playerID string, accept bool) error {
	in, err := e.interactionFor(playerID, InteractionMayAbility)
	if err != nil {
		return e.rejected("may_ability", playerID, err)
	}
	e.resume(in, func() error { return in.onAccept(accept) })
	return nil
}

// HandleColorChoice answers a color choice.
func (e *Engine) HandleColorChoice(playerID string, color mana.Color) error {
	in, err := e.interactionFor(playerID, InteractionColorChoice)
	if err != nil {
		return e.rejected("color_choice", playerID, err)
	}
	if !in.hasChoice(string(color)) {
		return e.rejected("color_choice", playerID, reject(CodeInvalidChoice, "%q is not one of %v", color, in.Choices))
	}
	e.resume(in, func() error { return in.onChoose([]string{string(color)}) })
	return nil
}

// HandleCardChoice answers a choice of cards, such as discarding.
func (e *Engine) HandleCardChoice(playerID string, cardIDs []string) error {
	return e.handleChoice(playerID, InteractionCardChoice, cardIDs)
}

// HandlePermanentChoice answers a choice of exactly one permanent.
func (e *Engine) HandlePermanentChoice(playerID, permanentID string) error {
	return e.handleChoice(playerID, InteractionPermanentChoice, []string{permanentID})
}

// HandleMultiPermanentChoice answers a choice of several permanents.
func (e *Engine) HandleMultiPermanentChoice(playerID string, permanentIDs []string) error {
	return e.handleChoice(playerID, InteractionMultiPermanentChoice, permanentIDs)
}

// HandleLibrarySearch picks a card found by a search. An empty cardID finds
// nothing, which is allowed when the search may decline.
func (e *Engine) HandleLibrarySearch(playerID, cardID string) error {
	in, err := e.interactionFor(playerID, InteractionLibrarySearch)
	if err != nil {
		return e.rejected("library_search", playerID, err)
	}
	if cardID == "" {
		if !in.CanDecline {
			return e.rejected("library_search", playerID, reject(CodeInvalidChoice, "a card must be chosen"))
		}
		e.resume(in, func() error { return in.onChoose(nil) })
		return nil
	}
	if !in.hasChoice(cardID) {
		return e.rejected("library_search", playerID, reject(CodeInvalidChoice, "card %s does not match the search", cardID))
	}
	e.resume(in, func() error { return in.onChoose([]string{cardID}) })
	return nil
}

// HandleLibraryReorder puts the looked-at cards back in the given order.
func (e *Engine) HandleLibraryReorder(playerID string, orderedIDs []string) error {
	in, err := e.interactionFor(playerID, InteractionLibraryReorder)
	if err != nil {
		return e.rejected("library_reorder", playerID, err)
	}
	sorted := slices.Clone(orderedIDs)
	slices.Sort(sorted)
	want := slices.Clone(in.Choices)
	slices.Sort(want)
	if !slices.Equal(sorted, want) {
		return e.rejected("library_reorder", playerID, reject(CodeInvalidChoice, "order must contain each of %v exactly once", in.Choices))
	}
	ids := slices.Clone(orderedIDs)
	e.resume(in, func() error { return in.onChoose(ids) })
	return nil
}

// AssignCombatDamage divides an attacker's combat damage among its blockers
// and, with trample, the player or planeswalker it attacked.
func (e *Engine) AssignCombatDamage(playerID, attackerID string, assignments []DamageAssignment) error {
	in, err := e.interactionFor(playerID, InteractionCombatDamageAssignment)
	if err != nil {
		return e.rejected("assign_damage", playerID, err)
	}
	if in.AttackerID != attackerID {
		return e.rejected("assign_damage", playerID, reject(CodeInvalidChoice, "damage is being assigned for %s, not %s", in.AttackerID, attackerID))
	}
	if in.checkAssign != nil {
		if err := in.checkAssign(assignments); err != nil {
			return e.rejected("assign_damage", playerID, reject(CodeInvalidChoice, "%v", err))
		}
	}
	given := slices.Clone(assignments)
	e.resume(in, func() error { return in.onAssign(given) })
	return nil
}

// handleChoice validates ids against the pending choice's set and bounds.
func (e *Engine) handleChoice(playerID string, kind InteractionKind, ids []string) error {
	action := string(kind)
	in, err := e.interactionFor(playerID, kind)
	if err != nil {
		return e.rejected(action, playerID, err)
	}
	if len(ids) < in.Min || len(ids) > in.Max {
		return e.rejected(action, playerID, reject(CodeInvalidChoice, "choose between %d and %d, got %d", in.Min, in.Max, len(ids)))
	}
	for i, id := range ids {
		if !in.hasChoice(id) {
			return e.rejected(action, playerID, reject(CodeInvalidChoice, "%s is not a valid choice", id))
		}
		if slices.Contains(ids[:i], id) {
			return e.rejected(action, playerID, reject(CodeInvalidChoice, "%s chosen twice", id))
		}
	}
	chosen := slices.Clone(ids)
	e.resume(in, func() error { return in.onChoose(chosen) })
	return nil
}
