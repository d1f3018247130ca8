package main

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/game"
	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/rules"
	"github.com/magefree/mage-duel-go/internal/game/targeting"
)

// autopilot plays both seats with a simple strategy: play a land, cast
// whatever fits the untapped mana, attack with everything and never block.
type autopilot struct {
	e      *game.Engine
	logger *zap.Logger

	turn       int
	landPlayed bool
	attacked   bool
	tried      map[string]bool
}

func newAutopilot(e *game.Engine, logger *zap.Logger) *autopilot {
	return &autopilot{e: e, logger: logger, tried: make(map[string]bool)}
}

// run plays until the game ends or turn maxTurns is over.
func (a *autopilot) run(maxTurns int) error {
	d := a.e.Data()
	for range maxTurns * 500 {
		if d.GameOver || d.Turn.TurnNumber() > maxTurns {
			return nil
		}
		if n := d.Turn.TurnNumber(); n != a.turn {
			a.turn, a.landPlayed, a.attacked = n, false, false
			clear(a.tried)
		}
		if in := a.e.Pending(); in != nil {
			if err := a.answer(in); err != nil {
				return fmt.Errorf("answering %s for %s: %w", in.Kind, in.PlayerID, err)
			}
			continue
		}
		if a.act() {
			continue
		}
		if err := a.e.PassPriority(a.e.PriorityPlayer()); err != nil {
			return err
		}
	}
	return fmt.Errorf("autopilot stalled in turn %d", d.Turn.TurnNumber())
}

func (a *autopilot) act() bool {
	d := a.e.Data()
	p := a.e.PriorityPlayer()
	if p != d.Turn.ActivePlayer() || !d.Stack.IsEmpty() {
		return false
	}
	switch d.Turn.CurrentStep() {
	case rules.StepMain1, rules.StepMain2:
		return a.playLand(p) || a.cast(p)
	case rules.StepDeclareAttackers:
		if a.attacked {
			return false
		}
		a.attacked = true
		return a.attack(p)
	}
	return false
}

func (a *autopilot) playLand(p string) bool {
	if a.landPlayed {
		return false
	}
	for _, inst := range a.player(p).Hand {
		if !inst.Card.HasType(game.TypeLand) {
			continue
		}
		a.landPlayed = true
		if err := a.e.PlayLand(p, inst.ID); err != nil {
			a.logger.Debug("land not played", zap.String("card", inst.Card.Name), zap.Error(err))
			return false
		}
		return true
	}
	return false
}

type manaSource struct {
	id    string
	index int
}

func (a *autopilot) manaSources(p string) []manaSource {
	var out []manaSource
	for _, perm := range a.e.Data().Battlefield {
		if perm.Controller != p || perm.Tapped {
			continue
		}
		if perm.SummoningSick && a.e.IsCreature(perm) {
			continue
		}
		for i, ab := range perm.Card.Abilities {
			if ab.Kind == game.AbilityMana && ab.Tap {
				out = append(out, manaSource{id: perm.ID, index: i})
				break
			}
		}
	}
	return out
}

func (a *autopilot) cast(p string) bool {
	player := a.player(p)
	for _, inst := range slices.Clone(player.Hand) {
		card := inst.Card
		if card.HasType(game.TypeLand) || a.tried[inst.ID] {
			continue
		}
		a.tried[inst.ID] = true

		targets, ok := a.targets(p, card)
		if !ok {
			continue
		}
		sources := a.manaSources(p)
		available := len(sources) + player.Pool.Total()
		cost := card.ManaCost()
		need := cost.ManaValue(0)
		if need > available {
			continue
		}
		x := 0
		if cost.X > 0 {
			if x = (available - need) / cost.X; x == 0 {
				continue
			}
			need += x * cost.X
		}
		for _, src := range sources {
			if player.Pool.Total() >= need {
				break
			}
			if err := a.e.ActivateManaAbility(p, src.id, src.index); err != nil {
				a.logger.Debug("mana ability failed", zap.String("permanent_id", src.id), zap.Error(err))
			}
		}
		if err := a.e.CastSpell(p, game.CastRequest{CardID: inst.ID, Targets: targets, X: x}); err != nil {
			a.logger.Debug("spell not cast", zap.String("card", card.Name), zap.Error(err))
			continue
		}
		return true
	}
	return false
}

// targets aims harmful spells at the opponent and helpful ones at our own
// creatures. Spells it cannot aim are skipped.
func (a *autopilot) targets(p string, card *game.Card) ([]string, bool) {
	req := card.Target
	if req == nil {
		return nil, true
	}
	if req.MinTargets > 1 {
		return nil, false
	}
	opp := a.opponent(p)
	switch req.Type {
	case targeting.TargetTypeAny, targeting.TargetTypePlayer:
		return []string{opp}, true
	case targeting.TargetTypeCreature:
		owner := opp
		if helpful(card) {
			owner = p
		}
		for _, perm := range a.e.Data().Battlefield {
			if perm.Controller == owner && a.e.IsCreature(perm) {
				return []string{perm.ID}, true
			}
		}
	}
	return nil, false
}

func helpful(card *game.Card) bool {
	if card.IsAura() {
		return true
	}
	for _, eff := range card.Effects[game.SlotSpell] {
		switch eff.(type) {
		case game.BoostUntilEndOfTurn, game.GrantKeywordUntilEndOfTurn, game.PutCounters, game.Regenerate, game.PreventDamage:
			return true
		}
	}
	return false
}

func (a *autopilot) attack(p string) bool {
	opp := a.opponent(p)
	var attacks []game.Attack
	for _, perm := range a.e.Data().Battlefield {
		if perm.Controller != p || perm.Tapped || !a.e.IsCreature(perm) {
			continue
		}
		if perm.SummoningSick && !a.e.HasKeyword(perm, effects.Haste) {
			continue
		}
		if a.e.HasKeyword(perm, effects.Defender) {
			continue
		}
		attacks = append(attacks, game.Attack{AttackerID: perm.ID, Target: opp})
	}
	if len(attacks) == 0 {
		return false
	}
	if err := a.e.DeclareAttackers(p, attacks); err != nil {
		a.logger.Debug("attack rejected", zap.Error(err))
		return false
	}
	return true
}

func (a *autopilot) answer(in *game.InteractionView) error {
	p := in.PlayerID
	switch in.Kind {
	case game.InteractionMayAbility:
		return a.e.HandleMayAbility(p, true)
	case game.InteractionColorChoice:
		if len(in.Choices) == 0 {
			return fmt.Errorf("no colors offered")
		}
		color, err := mana.ParseColor(in.Choices[0])
		if err != nil {
			return err
		}
		return a.e.HandleColorChoice(p, color)
	case game.InteractionCardChoice:
		return a.e.HandleCardChoice(p, in.Choices[:in.Min])
	case game.InteractionPermanentChoice:
		if len(in.Choices) == 0 {
			return fmt.Errorf("no permanents offered")
		}
		return a.e.HandlePermanentChoice(p, in.Choices[0])
	case game.InteractionMultiPermanentChoice:
		return a.e.HandleMultiPermanentChoice(p, in.Choices[:min(in.Max, len(in.Choices))])
	case game.InteractionLibrarySearch:
		if len(in.Choices) == 0 {
			return a.e.HandleLibrarySearch(p, "")
		}
		return a.e.HandleLibrarySearch(p, in.Choices[0])
	case game.InteractionLibraryReorder:
		return a.e.HandleLibraryReorder(p, in.Choices)
	case game.InteractionMulligan:
		return a.e.HandleMulligan(p, true)
	case game.InteractionTargetChoice:
		if len(in.Choices) == 0 {
			return fmt.Errorf("no targets offered")
		}
		return a.e.HandleTargetChoice(p, in.Choices[0])
	case game.InteractionCombatDamageAssignment:
		var assignments []game.DamageAssignment
		if in.Min > 0 && len(in.Choices) > 0 {
			assignments = append(assignments, game.DamageAssignment{TargetID: in.Choices[0], Amount: in.Min})
		}
		return a.e.AssignCombatDamage(p, in.AttackerID, assignments)
	}
	return fmt.Errorf("unsupported decision %s", in.Kind)
}

func (a *autopilot) player(id string) *game.Player {
	for _, p := range a.e.Data().Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (a *autopilot) opponent(id string) string {
	for _, p := range a.e.Data().Players {
		if p.ID != id {
			return p.ID
		}
	}
	return ""
}
