package cards

import (
	"fmt"
	"strings"

	"github.com/magefree/mage-duel-go/internal/game"
	"github.com/magefree/mage-duel-go/internal/game/counters"
	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/targeting"
)

// builder turns specs into engine cards. Every CEL expression is compiled
// on the way so that a bad predicate fails the load, not the game.
type builder struct {
	predicates *targeting.Registry
}

func (b *builder) card(spec CardSpec) (*game.Card, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("card without a name")
	}
	if len(spec.Types) == 0 {
		return nil, fmt.Errorf("card %s has no types", spec.Name)
	}
	c := &game.Card{
		ID:         slug(spec.Name),
		Name:       spec.Name,
		Types:      spec.Types,
		Subtypes:   spec.Subtypes,
		Supertypes: spec.Supertypes,
		Power:      spec.Power,
		Toughness:  spec.Toughness,
		Loyalty:    spec.Loyalty,
	}
	var err error
	if spec.Cost != "" {
		if c.Cost, err = mana.ParseCost(spec.Cost); err != nil {
			return nil, fmt.Errorf("card %s: %w", spec.Name, err)
		}
	}
	if c.Colors, err = parseColors(spec.Colors); err != nil {
		return nil, fmt.Errorf("card %s: %w", spec.Name, err)
	}
	if len(c.Colors) == 0 && c.Cost != nil {
		c.Colors = c.Cost.Colors()
	}
	if c.Keywords, err = parseKeywords(spec.Keywords); err != nil {
		return nil, fmt.Errorf("card %s: %w", spec.Name, err)
	}
	if c.Target, err = b.target(spec.Target); err != nil {
		return nil, fmt.Errorf("card %s target: %w", spec.Name, err)
	}

	if len(spec.Effects) > 0 {
		c.Effects = make(map[game.Slot][]game.Effect, len(spec.Effects))
	}
	for name, list := range spec.Effects {
		slot, err := parseSlot(name)
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", spec.Name, err)
		}
		effs, err := b.effects(list)
		if err != nil {
			return nil, fmt.Errorf("card %s %s effects: %w", spec.Name, name, err)
		}
		c.Effects[slot] = effs
	}
	for i, s := range spec.Statics {
		static, err := b.static(s)
		if err != nil {
			return nil, fmt.Errorf("card %s static %d: %w", spec.Name, i, err)
		}
		c.Statics = append(c.Statics, static)
	}
	for i, a := range spec.Abilities {
		ability, err := b.ability(a)
		if err != nil {
			return nil, fmt.Errorf("card %s ability %d: %w", spec.Name, i, err)
		}
		c.Abilities = append(c.Abilities, ability)
	}

	if c.IsAura() && c.Target == nil {
		return nil, fmt.Errorf("aura %s needs an enchant target", spec.Name)
	}
	return c, nil
}

func (b *builder) target(spec *TargetSpec) (*targeting.TargetRequirement, error) {
	if spec == nil {
		return nil, nil
	}
	t, err := targeting.ParseTargetType(spec.Type)
	if err != nil {
		return nil, err
	}
	if err := b.compile(spec.Predicate); err != nil {
		return nil, err
	}
	req := targeting.Single(t, spec.Predicate, spec.Description)
	if spec.Min != nil {
		req.MinTargets = *spec.Min
	}
	if spec.Max != nil {
		req.MaxTargets = *spec.Max
	}
	if req.MinTargets < 0 || req.MaxTargets < req.MinTargets {
		return nil, fmt.Errorf("bad target bounds %d..%d", req.MinTargets, req.MaxTargets)
	}
	return &req, nil
}

func (b *builder) compile(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := b.predicates.Compile(expr)
	return err
}

func (b *builder) ability(spec AbilitySpec) (game.Ability, error) {
	a := game.Ability{
		Description:   spec.Description,
		Tap:           spec.Tap,
		SacrificeSelf: spec.Sacrifice,
		Loyalty:       spec.Loyalty,
		SorcerySpeed:  spec.SorcerySpeed,
	}
	switch game.AbilityKind(spec.Kind) {
	case game.AbilityActivated, "":
		a.Kind = game.AbilityActivated
	case game.AbilityMana:
		a.Kind = game.AbilityMana
		if spec.Target != nil {
			return a, fmt.Errorf("mana abilities cannot target")
		}
	case game.AbilityLoyalty:
		a.Kind = game.AbilityLoyalty
	default:
		return a, fmt.Errorf("unknown ability kind %q", spec.Kind)
	}
	var err error
	if spec.Cost != "" {
		if a.Cost, err = mana.ParseCost(spec.Cost); err != nil {
			return a, err
		}
	}
	if a.Target, err = b.target(spec.Target); err != nil {
		return a, fmt.Errorf("target: %w", err)
	}
	if a.Effects, err = b.effects(spec.Effects); err != nil {
		return a, err
	}
	return a, nil
}

func (b *builder) static(spec StaticSpec) (game.StaticEffect, error) {
	scope, err := b.scope(spec.Scope)
	if err != nil {
		return nil, err
	}
	switch spec.Type {
	case "boost":
		return game.StaticBoost{Scope: scope, Power: spec.Power, Toughness: spec.Toughness}, nil
	case "grant_keyword":
		kws, err := parseKeywords(spec.Keywords)
		if err != nil {
			return nil, err
		}
		return game.StaticGrantKeyword{Scope: scope, Keywords: kws}, nil
	case "grant_subtype":
		return game.StaticGrantSubtype{Scope: scope, Subtypes: spec.Subtypes}, nil
	case "set_base_pt":
		switch game.CountKind(spec.Count) {
		case "", game.CountHand, game.CountCreatures, game.CountGraveyard:
		default:
			return nil, fmt.Errorf("unknown count %q", spec.Count)
		}
		return game.StaticSetBasePT{Count: game.CountKind(spec.Count), Power: spec.Power, Toughness: spec.Toughness}, nil
	case "attached_boost":
		return game.AttachedBoost{Power: spec.Power, Toughness: spec.Toughness}, nil
	case "attached_keyword":
		kws, err := parseKeywords(spec.Keywords)
		if err != nil {
			return nil, err
		}
		return game.AttachedGrantKeyword{Keywords: kws}, nil
	}
	return nil, fmt.Errorf("unknown static type %q", spec.Type)
}

func (b *builder) scope(spec ScopeSpec) (game.Scope, error) {
	kind := game.ScopeKind(spec.Kind)
	switch kind {
	case "", game.ScopeSelf, game.ScopeOtherCreaturesYouControl, game.ScopeCreaturesYouControl,
		game.ScopeAllCreatures, game.ScopeSharingSubtype, game.ScopeAttached:
	default:
		return game.Scope{}, fmt.Errorf("unknown scope %q", spec.Kind)
	}
	if err := b.compile(spec.Predicate); err != nil {
		return game.Scope{}, err
	}
	return game.Scope{Kind: kind, Predicate: spec.Predicate, ChosenColor: spec.ChosenColor}, nil
}

func (b *builder) effects(specs []EffectSpec) ([]game.Effect, error) {
	out := make([]game.Effect, 0, len(specs))
	for i, spec := range specs {
		eff, err := b.effect(spec)
		if err != nil {
			return nil, fmt.Errorf("effect %d (%s): %w", i, spec.Type, err)
		}
		out = append(out, eff)
	}
	return out, nil
}

func (b *builder) effect(s EffectSpec) (game.Effect, error) {
	switch s.Type {
	case "deal_damage":
		return game.DealDamage{Target: s.Target, Amount: s.Amount, UseX: s.UseX}, nil
	case "deal_ordered_damage":
		if len(s.Amounts) == 0 {
			return nil, fmt.Errorf("amounts are required")
		}
		return game.DealOrderedDamage{Amounts: s.Amounts}, nil
	case "damage_each_opponent":
		return game.DamageEachOpponent{Amount: s.Amount}, nil
	case "gain_life":
		return game.GainLife{Amount: s.Amount, UseX: s.UseX}, nil
	case "lose_life":
		return game.LoseLife{Amount: s.Amount, EachOpponent: s.Opponent}, nil
	case "draw_cards":
		return game.DrawCards{Count: s.Count, UseX: s.UseX}, nil
	case "destroy":
		return game.Destroy{Target: s.Target}, nil
	case "counter_spell":
		return game.CounterSpell{Target: s.Target}, nil
	case "bounce":
		return game.BounceToHand{Target: s.Target}, nil
	case "create_token":
		token, err := b.token(s.Token)
		if err != nil {
			return nil, err
		}
		return game.CreateToken{Token: token, Count: s.Count}, nil
	case "boost":
		return game.BoostUntilEndOfTurn{Self: s.Self, Target: s.Target, Power: s.Power, Toughness: s.Toughness}, nil
	case "grant_keyword":
		kws, err := parseKeywords(s.Keywords)
		if err != nil {
			return nil, err
		}
		return game.GrantKeywordUntilEndOfTurn{Self: s.Self, Target: s.Target, Keywords: kws}, nil
	case "animate_self":
		kws, err := parseKeywords(s.Keywords)
		if err != nil {
			return nil, err
		}
		return game.AnimateSelf{Power: s.Power, Toughness: s.Toughness, Subtypes: s.Subtypes, Keywords: kws}, nil
	case "put_counters":
		if s.Counter == "" {
			return nil, fmt.Errorf("counter is required")
		}
		return game.PutCounters{Self: s.Self, Target: s.Target, Counter: counters.CounterType(s.Counter), Count: s.Count}, nil
	case "add_mana":
		colors, err := parseManaColors(s.Colors)
		if err != nil {
			return nil, err
		}
		return game.AddMana{Colors: colors}, nil
	case "add_mana_any_color":
		return game.AddManaOfAnyColor{Amount: s.Amount}, nil
	case "may":
		inner, err := b.effects(s.Effects)
		if err != nil {
			return nil, err
		}
		return game.May{Prompt: s.Prompt, Effects: inner}, nil
	case "search_library":
		if err := b.compile(s.Predicate); err != nil {
			return nil, err
		}
		dest, err := parseZone(s.Destination)
		if err != nil {
			return nil, err
		}
		return game.SearchLibrary{Predicate: s.Predicate, Destination: dest, Tapped: s.Tapped, Shuffle: s.Shuffle}, nil
	case "reorder_top":
		return game.ReorderTop{Count: s.Count, ToBottom: s.ToBottom}, nil
	case "discard":
		return game.Discard{Count: s.Count, Opponent: s.Opponent}, nil
	case "sacrifice":
		return game.Sacrifice{Opponent: s.Opponent}, nil
	case "counters_on_chosen":
		return game.CountersOnChosen{Max: s.Max, Counter: counters.CounterType(s.Counter), Count: s.Count}, nil
	case "choose_color":
		return game.ChooseColor{}, nil
	case "copy_permanent":
		return game.CopyPermanent{}, nil
	case "regenerate":
		return game.Regenerate{Self: s.Self, Target: s.Target}, nil
	case "prevent_damage":
		return game.PreventDamage{Self: s.Self, Target: s.Target, Amount: s.Amount}, nil
	case "attach":
		return game.Attach{Target: s.Target}, nil
	case "untap":
		return game.Untap{Target: s.Target}, nil
	case "exile":
		return game.Exile{Target: s.Target}, nil
	case "exile_graveyard":
		return game.ExileGraveyard{Target: s.Target}, nil
	case "return_from_graveyard":
		if err := b.compile(s.Predicate); err != nil {
			return nil, err
		}
		dest, err := parseZone(s.Destination)
		if err != nil {
			return nil, err
		}
		if dest != game.ZoneHand && dest != game.ZoneBattlefield {
			return nil, fmt.Errorf("cards return to hand or battlefield, not %s", dest)
		}
		return game.ReturnFromGraveyard{Predicate: s.Predicate, Destination: dest}, nil
	case "gain_control":
		return game.GainControl{Target: s.Target, UntilEndOfTurn: s.UntilEndOfTurn}, nil
	case "copy_spell":
		return game.CopySpell{Target: s.Target}, nil
	case "change_target":
		return game.ChangeTarget{Target: s.Target}, nil
	}
	return nil, fmt.Errorf("unknown effect type %q", s.Type)
}

func (b *builder) token(spec *TokenSpec) (*game.Card, error) {
	if spec == nil || spec.Name == "" {
		return nil, fmt.Errorf("token is required")
	}
	colors, err := parseColors(spec.Colors)
	if err != nil {
		return nil, err
	}
	kws, err := parseKeywords(spec.Keywords)
	if err != nil {
		return nil, err
	}
	token := game.NewToken(spec.Name, spec.Power, spec.Toughness, colors, spec.Subtypes...)
	token.Keywords = kws
	return token, nil
}

func parseSlot(name string) (game.Slot, error) {
	slot := game.Slot(name)
	if slot == game.SlotSpell {
		return slot, nil
	}
	for _, s := range game.TriggerSlots {
		if s == slot {
			return slot, nil
		}
	}
	return "", fmt.Errorf("unknown effect slot %q", name)
}

func parseZone(name string) (game.Zone, error) {
	switch z := game.Zone(name); z {
	case "", game.ZoneHand:
		return game.ZoneHand, nil
	case game.ZoneBattlefield, game.ZoneGraveyard, game.ZoneLibrary, game.ZoneExile:
		return z, nil
	}
	return "", fmt.Errorf("unknown destination %q", name)
}

func parseKeywords(names []string) ([]effects.Keyword, error) {
	out := make([]effects.Keyword, 0, len(names))
	for _, name := range names {
		kw, ok := effects.ParseKeyword(name)
		if !ok {
			return nil, fmt.Errorf("unknown keyword %q", name)
		}
		out = append(out, kw)
	}
	return out, nil
}

// parseColors accepts card colors only.
func parseColors(names []string) ([]mana.Color, error) {
	out, err := parseManaColors(names)
	if err != nil {
		return nil, err
	}
	for _, c := range out {
		if !c.IsCardColor() {
			return nil, fmt.Errorf("%s is not a card color", c)
		}
	}
	return out, nil
}

func parseManaColors(names []string) ([]mana.Color, error) {
	out := make([]mana.Color, 0, len(names))
	for _, name := range names {
		c, err := mana.ParseColor(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func slug(name string) string {
	r := strings.NewReplacer(" ", "-", ",", "", "'", "")
	return r.Replace(strings.ToLower(strings.TrimSpace(name)))
}
