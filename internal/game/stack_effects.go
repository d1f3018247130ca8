package game

import (
	"fmt"
	"slices"

	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// stackTarget returns the spell or ability in target slot i while it is
// still on the stack.
func (c *EffectContext) stackTarget(i int) *StackEntry {
	if !c.TargetLegal(i) || c.Targets[i].Kind != TargetStack {
		return nil
	}
	idx := c.engine.stackIndex(c.Targets[i].ID)
	if idx < 0 {
		return nil
	}
	entry, _ := c.engine.data.Stack.At(idx)
	return entry
}

// CopySpell puts a copy of the spell in slot Target on the stack under the
// controller. The copy keeps the original's targets and X. It was not cast
// and has no card, so nothing moves to a graveyard when it resolves.
type CopySpell struct {
	Target int
}

func (c CopySpell) Apply(ctx *EffectContext) error {
	original := ctx.stackTarget(c.Target)
	if original == nil {
		return nil
	}
	e := ctx.engine
	cp := &StackEntry{
		ID:          e.newID("copy"),
		Kind:        original.Kind,
		Card:        original.Card,
		SourceID:    original.SourceID,
		Controller:  ctx.Controller,
		Targets:     slices.Clone(original.Targets),
		Requirement: original.Requirement,
		X:           original.X,
		Effects:     slices.Clone(original.Effects),
		Description: "copy of " + original.Description,
	}
	e.data.Stack.Push(cp)
	e.logf("%s puts a %s on the stack", ctx.Controller, cp.Description)
	e.publish(rules.NewEvent(rules.EventSpellCopied, cp.ID, original.ID, ctx.Controller))
	return nil
}

// ChangeTarget has the controller choose a new target for the spell in slot
// Target. Only spells with exactly one target can be redirected, and the new
// target must be legal for that spell.
type ChangeTarget struct {
	Target int
}

func (c ChangeTarget) Apply(ctx *EffectContext) error {
	spell := ctx.stackTarget(c.Target)
	if spell == nil {
		return nil
	}
	e := ctx.engine
	if len(spell.Targets) != 1 || spell.Requirement == nil {
		e.logf("%s has no effect: %s does not have a single target", ctx.SourceName(), spell.Description)
		return nil
	}
	choices := e.retargetChoices(spell, ctx.Entry)
	if len(choices) == 0 {
		e.logf("no legal new target for %s", spell.Description)
		return nil
	}
	e.ask(&Interaction{
		Kind:     InteractionTargetChoice,
		PlayerID: ctx.Controller,
		Prompt:   fmt.Sprintf("Choose a new target for %s", spell.Description),
		Choices:  choices,
		Min:      1,
		Max:      1,
		Origin:   ctx.SourceID,
		Context:  ContextRetarget,
		onChoose: func(ids []string) error {
			if e.stackIndex(spell.ID) < 0 {
				return nil
			}
			targets, err := e.chooseTargets(spell.Controller, spell.Card, spell.Requirement, ids)
			if err != nil {
				return fmt.Errorf("retarget %s: %w", spell.Description, err)
			}
			spell.Targets = targets
			e.logf("%s now targets %s", spell.Description, e.describeTarget(ids[0]))
			e.publish(rules.NewEvent(rules.EventTargetChanged, spell.ID, ctx.SourceID, ctx.Controller))
			return nil
		},
	})
	return nil
}

// retargetChoices lists every object other than the current target that
// spell could legally target now. The redirecting entry is never a choice.
func (e *Engine) retargetChoices(spell, redirecting *StackEntry) []string {
	current := spell.Targets[0].ID
	var candidates []string
	for _, p := range e.data.Players {
		candidates = append(candidates, p.ID)
	}
	for _, p := range e.data.Battlefield {
		candidates = append(candidates, p.ID)
	}
	for _, entry := range e.data.Stack.List() {
		if entry != spell && entry != redirecting {
			candidates = append(candidates, entry.ID)
		}
	}

	v := e.validator(spell.Controller)
	src := targetSource(spell.Controller, spell.Card)
	var out []string
	for _, id := range candidates {
		if id == current {
			continue
		}
		if v.ValidateTarget(id, *spell.Requirement, src) == nil {
			out = append(out, id)
		}
	}
	return out
}

// describeTarget names a player, permanent or stack entry for the log.
func (e *Engine) describeTarget(id string) string {
	if p := e.permanent(id); p != nil {
		return p.Name()
	}
	if idx := e.stackIndex(id); idx >= 0 {
		entry, _ := e.data.Stack.At(idx)
		return entry.Description
	}
	return id
}

// HandleTargetChoice answers a request to choose a new target.
func (e *Engine) HandleTargetChoice(playerID, targetID string) error {
	return e.handleChoice(playerID, InteractionTargetChoice, []string{targetID})
}
