package game

import (
	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// resolveTop starts resolving the top of the stack. A spell or ability whose
// targets have all become illegal does nothing and is removed.
func (e *Engine) resolveTop() {
	entry, ok := e.data.Stack.Peek()
	invariant(ok, "resolveTop on an empty stack")

	ctx := &EffectContext{
		engine:     e,
		Entry:      entry,
		Controller: entry.Controller,
		SourceID:   entry.SourceID,
		Card:       entry.Card,
		X:          entry.X,
		Targets:    entry.Targets,
	}
	if len(entry.Targets) > 0 {
		ctx.legal = e.recheckTargets(entry)
		anyLegal := false
		for _, ok := range ctx.legal {
			anyLegal = anyLegal || ok
		}
		if !anyLegal {
			e.fizzle(entry)
			return
		}
	}

	e.logger.Debug("resolving",
		zap.String("entry_id", entry.ID),
		zap.String("description", entry.Description),
		zap.String("controller", entry.Controller),
	)
	res := &resolution{ctx: ctx, effects: entry.Effects}
	res.done = func() { e.finishEntry(entry, ctx) }
	ctx.res = res
	e.resolving = res
	e.continueResolution()
}

func (e *Engine) fizzle(entry *StackEntry) {
	e.removeEntry(entry)
	e.logf("%s fizzles", entry.Description)
	e.publish(rules.NewEvent(rules.EventFizzled, entry.ID, entry.SourceID, entry.Controller))
	if entry.Kind == rules.StackItemKindSpell && entry.Instance != nil {
		e.putCard(entry.Instance, ZoneGraveyard)
	}
	e.givePriorityToActive()
}

// finishEntry leaves the stack once every effect has run. Permanent spells
// enter the battlefield here; instants and sorceries go to the graveyard.
func (e *Engine) finishEntry(entry *StackEntry, ctx *EffectContext) {
	e.removeEntry(entry)
	if entry.Kind == rules.StackItemKindSpell && entry.Instance != nil {
		card := entry.Instance.Card
		if card.IsPermanentCard() {
			var setup func(*Permanent)
			if card.IsAura() && len(ctx.Targets) > 0 {
				host := ctx.Targets[0].ID
				setup = func(p *Permanent) { p.AttachedTo = host }
			}
			p := e.enterBattlefield(entry.Instance, entry.Controller, setup)
			e.logf("%s enters the battlefield", p.Name())
		} else {
			e.putCard(entry.Instance, ZoneGraveyard)
		}
	}
	e.logf("%s resolves", entry.Description)
	e.givePriorityToActive()
}

// removeEntry takes entry off the stack wherever it is now. Triggers may
// have been put above it while it resolved.
func (e *Engine) removeEntry(entry *StackEntry) {
	idx := e.data.Stack.IndexFunc(func(s *StackEntry) bool { return s.ID == entry.ID })
	if idx < 0 {
		// Already gone, for example countered by its own effect.
		return
	}
	e.data.Stack.RemoveAt(idx)
}

func (e *Engine) givePriorityToActive() {
	err := e.data.Priority.Reset(e.data.Turn.ActivePlayer())
	invariant(err == nil, "reset priority: %v", err)
}
