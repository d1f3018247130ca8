package game

import (
	"slices"

	"github.com/magefree/mage-duel-go/internal/game/effects"
)

// Effect is one step of a spell or ability. Apply either completes, or asks
// for a decision with an Interaction and returns; resolution continues with
// the next effect once the decision arrives.
type Effect interface {
	Apply(ctx *EffectContext) error
}

// StaticEffect contributes continuous effects while its source is on the
// battlefield. It is asked again on every characteristic query.
type StaticEffect interface {
	Continuous(e *Engine, source *Permanent) []effects.ContinuousEffect
}

// EffectContext is what an effect sees while it resolves.
type EffectContext struct {
	engine *Engine
	// Entry is nil for mana abilities.
	Entry      *StackEntry
	Controller string
	SourceID   string
	Card       *Card
	X          int
	Targets    []Target

	legal []bool
	res   *resolution
}

// Engine returns the engine running the effect.
func (c *EffectContext) Engine() *Engine {
	return c.engine
}

// TargetLegal reports whether target slot i survived the resolution recheck.
func (c *EffectContext) TargetLegal(i int) bool {
	if i < 0 || i >= len(c.Targets) {
		return false
	}
	return c.legal == nil || c.legal[i]
}

// TargetPermanent returns the permanent in slot i while it is legal.
func (c *EffectContext) TargetPermanent(i int) *Permanent {
	if !c.TargetLegal(i) || c.Targets[i].Kind != TargetPermanent {
		return nil
	}
	return c.engine.permanent(c.Targets[i].ID)
}

// TargetPlayer returns the player in slot i while it is legal.
func (c *EffectContext) TargetPlayer(i int) *Player {
	if !c.TargetLegal(i) || c.Targets[i].Kind != TargetPlayer {
		return nil
	}
	return c.engine.player(c.Targets[i].ID)
}

// Source returns the source permanent, or nil once it has left the battlefield.
func (c *EffectContext) Source() *Permanent {
	if c.SourceID == "" {
		return nil
	}
	return c.engine.permanent(c.SourceID)
}

// SourceName names the card the effect came from.
func (c *EffectContext) SourceName() string {
	if c.Card == nil {
		return "effect"
	}
	return c.Card.Name
}

// then runs effs right after the current effect.
func (c *EffectContext) then(effs ...Effect) {
	invariant(c.res != nil, "effect spliced outside a resolution")
	c.res.effects = slices.Insert(c.res.effects, c.res.next, effs...)
}

// resolution is the cursor of the spell or ability being resolved.
type resolution struct {
	ctx     *EffectContext
	effects []Effect
	next    int
	done    func()
}
