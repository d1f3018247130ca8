package game

import (
	"slices"

	"go.uber.org/zap"
)

// InteractionKind names the decision the engine is waiting for.
type InteractionKind string

const (
	InteractionNone                   InteractionKind = "none"
	InteractionMayAbility             InteractionKind = "may_ability"
	InteractionColorChoice            InteractionKind = "color_choice"
	InteractionCardChoice             InteractionKind = "card_choice"
	InteractionPermanentChoice        InteractionKind = "permanent_choice"
	InteractionMultiPermanentChoice   InteractionKind = "multi_permanent_choice"
	InteractionLibrarySearch          InteractionKind = "library_search"
	InteractionLibraryReorder         InteractionKind = "library_reorder"
	InteractionCombatDamageAssignment InteractionKind = "combat_damage_assignment"
	InteractionMulligan               InteractionKind = "mulligan"
	InteractionTargetChoice           InteractionKind = "target_choice"
)

// Interaction contexts that say why a choice was requested.
const (
	ContextLegendRule  = "legend_rule"
	ContextDiscard     = "discard"
	ContextSacrifice   = "sacrifice"
	ContextCopy        = "copy"
	ContextCounters    = "counters"
	ContextManaColor   = "mana_color"
	ContextChosenColor = "chosen_color"
	ContextMulligan    = "mulligan"
	ContextBottom      = "mulligan_bottom"
	ContextGraveyard   = "graveyard_return"
	ContextRetarget    = "retarget"
)

// Interaction is the single outstanding player decision. The engine does not
// advance priority, steps or the stack while one is pending.
type Interaction struct {
	Kind     InteractionKind
	PlayerID string
	Prompt   string
	// Choices are the valid ids, colors or card ids for this decision.
	Choices    []string
	Min        int
	Max        int
	CanDecline bool
	// Origin is the stack entry or permanent that asked.
	Origin  string
	Context string
	// AttackerID is set for combat damage assignment.
	AttackerID string

	onAccept func(accept bool) error
	onChoose func(ids []string) error
	onAssign func(assignments []DamageAssignment) error
	// checkAssign validates a damage assignment before it is accepted.
	checkAssign func(assignments []DamageAssignment) error
}

// InteractionView is the read-only part of an Interaction shown to clients.
type InteractionView struct {
	Kind       InteractionKind `json:"kind"`
	PlayerID   string          `json:"player_id"`
	Prompt     string          `json:"prompt"`
	Choices    []string        `json:"choices,omitempty"`
	Min        int             `json:"min"`
	Max        int             `json:"max"`
	CanDecline bool            `json:"can_decline"`
	Context    string          `json:"context,omitempty"`
	AttackerID string          `json:"attacker_id,omitempty"`
}

func (i *Interaction) view() *InteractionView {
	if i == nil {
		return nil
	}
	return &InteractionView{
		Kind:       i.Kind,
		PlayerID:   i.PlayerID,
		Prompt:     i.Prompt,
		Choices:    slices.Clone(i.Choices),
		Min:        i.Min,
		Max:        i.Max,
		CanDecline: i.CanDecline,
		Context:    i.Context,
		AttackerID: i.AttackerID,
	}
}

// hasChoice reports whether id is in the valid choice set.
func (i *Interaction) hasChoice(id string) bool {
	return slices.Contains(i.Choices, id)
}

// Pending returns the outstanding interaction, or nil.
func (e *Engine) Pending() *InteractionView {
	return e.data.Interaction.view()
}

// ask records an interaction. Only one may be outstanding.
func (e *Engine) ask(in *Interaction) {
	invariant(e.data.Interaction == nil, "interaction %s requested while %s is pending", in.Kind, e.pendingKind())
	e.data.Interaction = in
	e.logger.Debug("awaiting player decision",
		zap.String("kind", string(in.Kind)),
		zap.String("player_id", in.PlayerID),
		zap.String("context", in.Context),
	)
}

func (e *Engine) pendingKind() InteractionKind {
	if e.data.Interaction == nil {
		return InteractionNone
	}
	return e.data.Interaction.Kind
}
