package game

import (
	"slices"

	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/rules"
	"github.com/magefree/mage-duel-go/internal/game/targeting"
)

// targetView answers target lookups for one controller, so predicates can
// ask whether a target is "controlled_by_you".
type targetView struct {
	e      *Engine
	viewer string
}

func (v targetView) FindTargetCandidate(id string) (targeting.TargetCandidate, bool) {
	e := v.e
	if player := e.player(id); player != nil {
		return targeting.TargetCandidate{
			ID:           id,
			Type:         targeting.TargetTypePlayer,
			ControllerID: id,
			Attributes: map[string]any{
				"kind":              "player",
				"id":                id,
				"life":              int64(player.Life),
				"controlled_by_you": id == v.viewer,
				"hand_size":         int64(len(player.Hand)),
			},
		}, true
	}
	if p := e.permanent(id); p != nil {
		snap := e.Characteristics(p)
		return targeting.TargetCandidate{
			ID:             id,
			Type:           targeting.TargetTypePermanent,
			ControllerID:   p.Controller,
			IsCreature:     snap.HasType(TypeCreature),
			IsPlaneswalker: snap.HasType(TypePlaneswalker),
			Hexproof:       snap.HasKeyword(effects.Hexproof),
			Attributes:     e.snapshotAttributes(snap, p, v.viewer),
		}, true
	}
	if idx := e.stackIndex(id); idx >= 0 {
		entry, _ := e.data.Stack.At(idx)
		attrs := map[string]any{
			"kind":              "spell",
			"id":                entry.ID,
			"name":              entry.Description,
			"controller":        entry.Controller,
			"controlled_by_you": entry.Controller == v.viewer,
			"types":             []string{},
			"subtypes":          []string{},
			"supertypes":        []string{},
			"mana_value":        int64(0),
			"is_spell":          entry.Kind == rules.StackItemKindSpell,
			"target_count":      int64(len(entry.Targets)),
		}
		if entry.Card != nil {
			attrs["name"] = entry.Card.Name
			attrs["types"] = slices.Clone(entry.Card.Types)
			attrs["subtypes"] = slices.Clone(entry.Card.Subtypes)
			attrs["supertypes"] = slices.Clone(entry.Card.Supertypes)
			attrs["mana_value"] = int64(entry.Card.ManaCost().ManaValue(entry.X))
		}
		return targeting.TargetCandidate{
			ID:           entry.ID,
			Type:         targeting.TargetTypeSpell,
			ControllerID: entry.Controller,
			Attributes:   attrs,
		}, true
	}
	return targeting.TargetCandidate{}, false
}

// snapshotAttributes is the `target` map predicates see for a permanent.
// Integers are int64 to match CEL.
func (e *Engine) snapshotAttributes(s *effects.Snapshot, p *Permanent, viewer string) map[string]any {
	return map[string]any{
		"kind":              "permanent",
		"id":                p.ID,
		"name":              s.Name,
		"types":             slices.Clone(s.Types),
		"subtypes":          slices.Clone(s.Subtypes),
		"supertypes":        slices.Clone(s.Supertypes),
		"colors":            colorNames(s.Colors),
		"keywords":          keywordNames(s.Keywords),
		"tapped":            p.Tapped,
		"power":             int64(s.Power),
		"toughness":         int64(s.Toughness),
		"controller":        p.Controller,
		"controlled_by_you": p.Controller == viewer,
		"attacking":         p.Attacking,
		"blocking":          len(p.Blocking) > 0,
		"damage":            int64(p.Damage),
		"mana_value":        int64(p.EffectiveCard().ManaCost().ManaValue(0)),
	}
}

// cardAttributes is the map predicates see for a card outside the battlefield.
func cardAttributes(inst *CardInstance) map[string]any {
	c := inst.Card
	return map[string]any{
		"kind":       "card",
		"id":         inst.ID,
		"name":       c.Name,
		"types":      slices.Clone(c.Types),
		"subtypes":   slices.Clone(c.Subtypes),
		"supertypes": slices.Clone(c.Supertypes),
		"colors":     colorNames(c.Colors),
		"power":      int64(c.Power),
		"toughness":  int64(c.Toughness),
		"mana_value": int64(c.ManaCost().ManaValue(0)),
	}
}

// targetSource describes who is targeting for predicates and hexproof.
func targetSource(controller string, card *Card) targeting.TargetSource {
	attrs := map[string]any{"controller": controller}
	if card != nil {
		attrs["name"] = card.Name
		attrs["types"] = slices.Clone(card.Types)
		attrs["subtypes"] = slices.Clone(card.Subtypes)
	}
	return targeting.TargetSource{ControllerID: controller, Attributes: attrs}
}

func (e *Engine) validator(viewer string) *targeting.TargetValidator {
	return targeting.NewTargetValidator(targetView{e: e, viewer: viewer}, e.predicates)
}

func (e *Engine) stackIndex(id string) int {
	for i, entry := range e.data.Stack.List() {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

// chooseTargets checks the announced targets of a spell or ability and
// returns them as Targets. Nothing is changed.
func (e *Engine) chooseTargets(controller string, card *Card, req *targeting.TargetRequirement, ids []string) ([]Target, error) {
	if req == nil {
		if len(ids) > 0 {
			return nil, reject(CodeIllegalTarget, "%s does not target", card.Name)
		}
		return nil, nil
	}
	selection := &targeting.TargetSelection{Targets: ids, Requirement: *req}
	if err := e.validator(controller).ValidateTargetSelection(selection, targetSource(controller, card)); err != nil {
		return nil, reject(CodeIllegalTarget, "%s: %v", card.Name, err)
	}
	targets := make([]Target, 0, len(ids))
	for _, id := range ids {
		switch {
		case e.player(id) != nil:
			targets = append(targets, Target{Kind: TargetPlayer, ID: id})
		case e.permanent(id) != nil:
			targets = append(targets, Target{Kind: TargetPermanent, ID: id})
		default:
			targets = append(targets, Target{Kind: TargetStack, ID: id, StackIndex: e.stackIndex(id)})
		}
	}
	return targets, nil
}

// recheckTargets validates each captured target again at resolution.
// Stack targets must still be the same entry at the same position.
func (e *Engine) recheckTargets(entry *StackEntry) []bool {
	legal := make([]bool, len(entry.Targets))
	v := e.validator(entry.Controller)
	src := targetSource(entry.Controller, entry.Card)
	for i, t := range entry.Targets {
		switch t.Kind {
		case TargetPermanent:
			if e.permanent(t.ID) == nil {
				continue
			}
		case TargetPlayer:
			if p := e.player(t.ID); p == nil || p.Lost {
				continue
			}
		case TargetStack:
			item, ok := e.data.Stack.At(t.StackIndex)
			if !ok || item.ID != t.ID {
				continue
			}
		}
		if entry.Requirement != nil && v.ValidateTarget(t.ID, *entry.Requirement, src) != nil {
			continue
		}
		legal[i] = true
	}
	return legal
}

// colorNames returns lower-case color names, the form predicates compare against.
func colorNames(colors []mana.Color) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.String()
	}
	return out
}
