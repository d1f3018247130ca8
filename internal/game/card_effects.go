package game

import (
	"fmt"
	"slices"

	"github.com/magefree/mage-duel-go/internal/game/counters"
	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// permanentFor returns the source when self is set, otherwise the permanent
// in target slot i.
func (c *EffectContext) permanentFor(self bool, i int) *Permanent {
	if self {
		return c.Source()
	}
	return c.TargetPermanent(i)
}

func (c *EffectContext) amount(n int, useX bool) int {
	if useX {
		return c.X
	}
	return n
}

// DealDamage deals damage to the target in slot Target.
type DealDamage struct {
	Target int
	Amount int
	UseX   bool
}

func (d DealDamage) Apply(ctx *EffectContext) error {
	if !ctx.TargetLegal(d.Target) {
		return nil
	}
	e := ctx.engine
	e.dealDamage(e.effectSource(ctx), ctx.Targets[d.Target].ID, ctx.amount(d.Amount, d.UseX), false)
	return nil
}

// DealOrderedDamage deals Amounts[i] to target slot i. Illegal slots are
// skipped and the others are still dealt their own amount.
type DealOrderedDamage struct {
	Amounts []int
}

func (d DealOrderedDamage) Apply(ctx *EffectContext) error {
	e := ctx.engine
	src := e.effectSource(ctx)
	for i, amount := range d.Amounts {
		if !ctx.TargetLegal(i) {
			continue
		}
		e.dealDamage(src, ctx.Targets[i].ID, amount, false)
	}
	return nil
}

// DamageEachOpponent deals damage to every opponent of the controller.
type DamageEachOpponent struct {
	Amount int
}

func (d DamageEachOpponent) Apply(ctx *EffectContext) error {
	e := ctx.engine
	src := e.effectSource(ctx)
	for _, player := range e.data.Players {
		if player.ID != ctx.Controller {
			e.dealDamage(src, player.ID, d.Amount, false)
		}
	}
	return nil
}

// GainLife makes the controller gain life.
type GainLife struct {
	Amount int
	UseX   bool
}

func (g GainLife) Apply(ctx *EffectContext) error {
	e := ctx.engine
	e.gainLife(e.player(ctx.Controller), ctx.amount(g.Amount, g.UseX), ctx.SourceID)
	return nil
}

// LoseLife makes the controller, or each opponent, lose life.
type LoseLife struct {
	Amount       int
	EachOpponent bool
}

func (l LoseLife) Apply(ctx *EffectContext) error {
	e := ctx.engine
	for _, player := range e.data.Players {
		if (player.ID == ctx.Controller) != l.EachOpponent {
			e.loseLife(player, l.Amount, ctx.SourceID)
		}
	}
	return nil
}

// DrawCards makes the controller draw.
type DrawCards struct {
	Count int
	UseX  bool
}

func (d DrawCards) Apply(ctx *EffectContext) error {
	e := ctx.engine
	player := e.player(ctx.Controller)
	if n := e.draw(player, ctx.amount(d.Count, d.UseX)); n > 0 {
		e.logf("%s draws %d card(s)", player.ID, n)
	}
	return nil
}

// Destroy destroys the permanent in slot Target.
type Destroy struct {
	Target int
}

func (d Destroy) Apply(ctx *EffectContext) error {
	p := ctx.TargetPermanent(d.Target)
	if p == nil {
		return nil
	}
	if !ctx.engine.destroy(p, "destroyed by "+ctx.SourceName()) {
		ctx.engine.logf("%s is indestructible", p.Name())
	}
	return nil
}

// CounterSpell counters the spell or ability in slot Target.
type CounterSpell struct {
	Target int
}

func (c CounterSpell) Apply(ctx *EffectContext) error {
	if !ctx.TargetLegal(c.Target) || ctx.Targets[c.Target].Kind != TargetStack {
		return nil
	}
	e := ctx.engine
	target := ctx.Targets[c.Target]
	entry, ok := e.data.Stack.At(target.StackIndex)
	if !ok || entry.ID != target.ID {
		return fmt.Errorf("countered entry %s moved on the stack", target.ID)
	}
	e.data.Stack.RemoveAt(target.StackIndex)
	if entry.Kind == rules.StackItemKindSpell && entry.Instance != nil {
		e.putCard(entry.Instance, ZoneGraveyard)
	}
	e.logf("%s is countered by %s", entry.Description, ctx.SourceName())
	e.publish(rules.NewEvent(rules.EventCountered, entry.ID, ctx.SourceID, ctx.Controller))
	return nil
}

// BounceToHand returns the permanent in slot Target to its owner's hand.
type BounceToHand struct {
	Target int
}

func (b BounceToHand) Apply(ctx *EffectContext) error {
	p := ctx.TargetPermanent(b.Target)
	if p == nil {
		return nil
	}
	e := ctx.engine
	e.logf("%s returns to %s's hand", p.Name(), p.Owner)
	e.leaveBattlefield(p, ZoneHand)
	return nil
}

// BoostUntilEndOfTurn gives +Power/+Toughness until end of turn.
type BoostUntilEndOfTurn struct {
	Self      bool
	Target    int
	Power     int
	Toughness int
}

func (b BoostUntilEndOfTurn) Apply(ctx *EffectContext) error {
	p := ctx.permanentFor(b.Self, b.Target)
	if p == nil {
		return nil
	}
	p.PowerModifier += b.Power
	p.ToughnessModifier += b.Toughness
	ctx.engine.logf("%s gets %+d/%+d until end of turn", p.Name(), b.Power, b.Toughness)
	return nil
}

// GrantKeywordUntilEndOfTurn grants keywords until end of turn.
type GrantKeywordUntilEndOfTurn struct {
	Self     bool
	Target   int
	Keywords []effects.Keyword
}

func (g GrantKeywordUntilEndOfTurn) Apply(ctx *EffectContext) error {
	p := ctx.permanentFor(g.Self, g.Target)
	if p == nil {
		return nil
	}
	for _, kw := range g.Keywords {
		p.grantKeyword(kw)
	}
	return nil
}

// AnimateSelf makes the source a creature until end of turn.
type AnimateSelf struct {
	Power     int
	Toughness int
	Subtypes  []string
	Keywords  []effects.Keyword
}

func (a AnimateSelf) Apply(ctx *EffectContext) error {
	p := ctx.Source()
	if p == nil {
		return nil
	}
	p.Animated = &Animation{Power: a.Power, Toughness: a.Toughness, Subtypes: a.Subtypes, Keywords: a.Keywords}
	ctx.engine.logf("%s becomes a %d/%d creature until end of turn", p.Name(), a.Power, a.Toughness)
	return nil
}

// PutCounters puts counters on a permanent.
type PutCounters struct {
	Self    bool
	Target  int
	Counter counters.CounterType
	Count   int
}

func (pc PutCounters) Apply(ctx *EffectContext) error {
	p := ctx.permanentFor(pc.Self, pc.Target)
	if p == nil || pc.Count <= 0 {
		return nil
	}
	ctx.engine.addCounters(p, pc.Counter, pc.Count)
	return nil
}

func (e *Engine) addCounters(p *Permanent, counter counters.CounterType, n int) {
	p.Counters.Add(counter, n)
	e.logf("%s gets %d %s counter(s)", p.Name(), n, counter)
	evt := rules.NewEventWithAmount(rules.EventCounterAdded, p.ID, "", p.Controller, n)
	evt.Data = string(counter)
	e.publish(evt)
}

// CreateToken creates Count copies of a token for the controller.
type CreateToken struct {
	Token *Card
	Count int
}

func (c CreateToken) Apply(ctx *EffectContext) error {
	e := ctx.engine
	for range max(c.Count, 1) {
		e.createToken(c.Token, ctx.Controller)
	}
	e.logf("%s creates %d %s token(s)", ctx.Controller, max(c.Count, 1), c.Token.Name)
	return nil
}

// AddMana adds fixed mana to the controller's pool.
type AddMana struct {
	Colors []mana.Color
}

func (a AddMana) Apply(ctx *EffectContext) error {
	e := ctx.engine
	player := e.player(ctx.Controller)
	for _, c := range a.Colors {
		e.addMana(player, c, 1, ctx.SourceID)
	}
	return nil
}

func (e *Engine) addMana(player *Player, c mana.Color, n int, source string) {
	player.Pool.Add(c, n)
	evt := rules.NewEventWithAmount(rules.EventManaAdded, player.ID, source, player.ID, n)
	evt.Data = string(c)
	e.publish(evt)
}

// AddManaOfAnyColor asks the controller for a color and adds Amount mana of it.
type AddManaOfAnyColor struct {
	Amount int
}

func (a AddManaOfAnyColor) Apply(ctx *EffectContext) error {
	e := ctx.engine
	player := e.player(ctx.Controller)
	e.ask(&Interaction{
		Kind:     InteractionColorChoice,
		PlayerID: ctx.Controller,
		Prompt:   fmt.Sprintf("Choose a color of mana to add (%s)", ctx.SourceName()),
		Choices:  manaChoices(),
		Min:      1,
		Max:      1,
		Origin:   ctx.SourceID,
		Context:  ContextManaColor,
		onChoose: func(ids []string) error {
			e.addMana(player, mana.Color(ids[0]), max(a.Amount, 1), ctx.SourceID)
			return nil
		},
	})
	return nil
}

func manaChoices() []string {
	out := make([]string, len(mana.CardColors))
	for i, c := range mana.CardColors {
		out[i] = string(c)
	}
	return out
}

// May asks the controller whether to run Effects.
type May struct {
	Prompt  string
	Effects []Effect
}

func (m May) Apply(ctx *EffectContext) error {
	e := ctx.engine
	prompt := m.Prompt
	if prompt == "" {
		prompt = fmt.Sprintf("Use %s?", ctx.SourceName())
	}
	e.ask(&Interaction{
		Kind:       InteractionMayAbility,
		PlayerID:   ctx.Controller,
		Prompt:     prompt,
		CanDecline: true,
		Max:        1,
		Origin:     ctx.SourceID,
		onAccept: func(accept bool) error {
			if !accept {
				e.logf("%s declines %s", ctx.Controller, ctx.SourceName())
				return nil
			}
			ctx.then(m.Effects...)
			return nil
		},
	})
	return nil
}

// SearchLibrary lets the controller find a card matching Predicate and put
// it into Destination.
type SearchLibrary struct {
	Predicate   string
	Destination Zone
	Tapped      bool
	Shuffle     bool
}

func (s SearchLibrary) Apply(ctx *EffectContext) error {
	e := ctx.engine
	player := e.player(ctx.Controller)
	var choices []string
	for _, inst := range player.Library {
		ok, err := e.predicates.Matches(s.Predicate, cardAttributes(inst), nil)
		if err != nil {
			return fmt.Errorf("search predicate: %w", err)
		}
		if ok {
			choices = append(choices, inst.ID)
		}
	}
	e.logf("%s searches their library", player.ID)
	e.ask(&Interaction{
		Kind:       InteractionLibrarySearch,
		PlayerID:   player.ID,
		Prompt:     fmt.Sprintf("Search for a card (%s)", ctx.SourceName()),
		Choices:    choices,
		Min:        0,
		Max:        1,
		CanDecline: true,
		Origin:     ctx.SourceID,
		onChoose: func(ids []string) error {
			if len(ids) == 1 {
				inst, ok := player.take(ZoneLibrary, ids[0])
				invariant(ok, "searched card %s left the library", ids[0])
				e.moveFound(player, inst, s)
			} else {
				e.logf("%s finds nothing", player.ID)
			}
			if s.Shuffle {
				e.shuffle(player)
			}
			return nil
		},
	})
	return nil
}

func (e *Engine) moveFound(player *Player, inst *CardInstance, s SearchLibrary) {
	switch s.Destination {
	case ZoneBattlefield:
		var setup func(*Permanent)
		if s.Tapped {
			setup = func(p *Permanent) { p.Tapped = true }
		}
		e.enterBattlefield(inst, player.ID, setup)
		e.logf("%s puts %s onto the battlefield", player.ID, inst.Card.Name)
	case ZoneHand, "":
		player.Hand = append(player.Hand, inst)
		e.logf("%s puts %s into their hand", player.ID, inst.Card.Name)
	default:
		e.putCard(inst, s.Destination)
		e.logf("%s puts %s into their %s", player.ID, inst.Card.Name, s.Destination)
	}
}

// ReorderTop looks at the top Count cards of the controller's library and
// puts them back in any order, on top or on the bottom.
type ReorderTop struct {
	Count    int
	ToBottom bool
}

func (r ReorderTop) Apply(ctx *EffectContext) error {
	e := ctx.engine
	player := e.player(ctx.Controller)
	n := min(r.Count, len(player.Library))
	if n == 0 {
		return nil
	}
	ids := make([]string, n)
	for i, inst := range player.Library[:n] {
		ids[i] = inst.ID
	}
	where := "top"
	if r.ToBottom {
		where = "bottom"
	}
	e.ask(&Interaction{
		Kind:     InteractionLibraryReorder,
		PlayerID: player.ID,
		Prompt:   fmt.Sprintf("Put these cards on the %s of your library in any order", where),
		Choices:  ids,
		Min:      n,
		Max:      n,
		Origin:   ctx.SourceID,
		onChoose: func(order []string) error {
			looked := make([]*CardInstance, 0, n)
			for _, id := range order {
				inst, ok := player.take(ZoneLibrary, id)
				invariant(ok, "reordered card %s left the library", id)
				looked = append(looked, inst)
			}
			if r.ToBottom {
				player.Library = append(slices.Clone(player.Library), looked...)
			} else {
				player.Library = append(looked, player.Library...)
			}
			e.logf("%s puts %d card(s) on the %s of their library", player.ID, n, where)
			return nil
		},
	})
	return nil
}

// Discard makes the controller, or each opponent, discard Count cards of
// their choice.
type Discard struct {
	Count    int
	Opponent bool
}

func (d Discard) Apply(ctx *EffectContext) error {
	e := ctx.engine
	chooser := ctx.Controller
	if d.Opponent {
		chooser = e.opponentOf(ctx.Controller)
	}
	player := e.player(chooser)
	n := min(d.Count, len(player.Hand))
	if n == 0 {
		return nil
	}
	choices := make([]string, len(player.Hand))
	for i, inst := range player.Hand {
		choices[i] = inst.ID
	}
	e.ask(&Interaction{
		Kind:     InteractionCardChoice,
		PlayerID: chooser,
		Prompt:   fmt.Sprintf("Discard %d card(s)", n),
		Choices:  choices,
		Min:      n,
		Max:      n,
		Origin:   ctx.SourceID,
		Context:  ContextDiscard,
		onChoose: func(ids []string) error {
			for _, id := range ids {
				e.discard(player, id)
			}
			return nil
		},
	})
	return nil
}

// Sacrifice makes the controller, or the opponent, sacrifice a creature.
type Sacrifice struct {
	Opponent bool
}

func (s Sacrifice) Apply(ctx *EffectContext) error {
	e := ctx.engine
	chooser := ctx.Controller
	if s.Opponent {
		chooser = e.opponentOf(ctx.Controller)
	}
	var choices []string
	for _, p := range e.permanentsOf(chooser) {
		if e.IsCreature(p) {
			choices = append(choices, p.ID)
		}
	}
	if len(choices) == 0 {
		return nil
	}
	e.ask(&Interaction{
		Kind:     InteractionPermanentChoice,
		PlayerID: chooser,
		Prompt:   "Sacrifice a creature",
		Choices:  choices,
		Min:      1,
		Max:      1,
		Origin:   ctx.SourceID,
		Context:  ContextSacrifice,
		onChoose: func(ids []string) error {
			p := e.permanent(ids[0])
			invariant(p != nil, "chosen sacrifice %s left the battlefield", ids[0])
			e.logf("%s sacrifices %s", chooser, p.Name())
			e.putIntoGraveyard(p, "sacrificed")
			return nil
		},
	})
	return nil
}

// CountersOnChosen puts counters on up to Max creatures the controller
// chooses among their own.
type CountersOnChosen struct {
	Max     int
	Counter counters.CounterType
	Count   int
}

func (c CountersOnChosen) Apply(ctx *EffectContext) error {
	e := ctx.engine
	var choices []string
	for _, p := range e.permanentsOf(ctx.Controller) {
		if e.IsCreature(p) {
			choices = append(choices, p.ID)
		}
	}
	if len(choices) == 0 {
		return nil
	}
	e.ask(&Interaction{
		Kind:     InteractionMultiPermanentChoice,
		PlayerID: ctx.Controller,
		Prompt:   fmt.Sprintf("Choose up to %d creature(s) to get %d %s counter(s)", c.Max, c.Count, c.Counter),
		Choices:  choices,
		Min:      0,
		Max:      min(c.Max, len(choices)),
		Origin:   ctx.SourceID,
		Context:  ContextCounters,
		onChoose: func(ids []string) error {
			for _, id := range ids {
				if p := e.permanent(id); p != nil {
					e.addCounters(p, c.Counter, c.Count)
				}
			}
			return nil
		},
	})
	return nil
}

// ChooseColor has the controller choose a color for the source permanent.
type ChooseColor struct{}

func (ChooseColor) Apply(ctx *EffectContext) error {
	e := ctx.engine
	source := ctx.Source()
	if source == nil {
		return nil
	}
	e.ask(&Interaction{
		Kind:     InteractionColorChoice,
		PlayerID: ctx.Controller,
		Prompt:   fmt.Sprintf("Choose a color for %s", source.Name()),
		Choices:  manaChoices(),
		Min:      1,
		Max:      1,
		Origin:   source.ID,
		Context:  ContextChosenColor,
		onChoose: func(ids []string) error {
			if p := e.permanent(source.ID); p != nil {
				p.ChosenColor = mana.Color(ids[0])
				e.logf("%s chooses %s for %s", ctx.Controller, p.ChosenColor, p.Name())
			}
			return nil
		},
	})
	return nil
}

// CopyPermanent has the source become a copy of a creature the controller
// chooses.
type CopyPermanent struct{}

func (CopyPermanent) Apply(ctx *EffectContext) error {
	e := ctx.engine
	source := ctx.Source()
	if source == nil {
		return nil
	}
	var choices []string
	for _, p := range e.data.Battlefield {
		if p != source && e.IsCreature(p) {
			choices = append(choices, p.ID)
		}
	}
	if len(choices) == 0 {
		return nil
	}
	e.ask(&Interaction{
		Kind:     InteractionPermanentChoice,
		PlayerID: ctx.Controller,
		Prompt:   fmt.Sprintf("Choose a creature for %s to copy", source.Name()),
		Choices:  choices,
		Min:      1,
		Max:      1,
		Origin:   source.ID,
		Context:  ContextCopy,
		onChoose: func(ids []string) error {
			original := e.permanent(ids[0])
			if original == nil || e.permanent(source.ID) == nil {
				return nil
			}
			source.CopyOf = original.EffectiveCard()
			e.triggers.UnregisterSource(source.ID)
			e.registerTriggers(source)
			e.logf("%s becomes a copy of %s", source.Card.Name, source.CopyOf.Name)
			return nil
		},
	})
	return nil
}

// Regenerate gives a regeneration shield for this turn.
type Regenerate struct {
	Self   bool
	Target int
}

func (r Regenerate) Apply(ctx *EffectContext) error {
	p := ctx.permanentFor(r.Self, r.Target)
	if p == nil {
		return nil
	}
	p.RegenerationShields++
	ctx.engine.logf("%s gains a regeneration shield", p.Name())
	return nil
}

// PreventDamage prevents the next Amount damage to a permanent this turn.
type PreventDamage struct {
	Self   bool
	Target int
	Amount int
}

func (pd PreventDamage) Apply(ctx *EffectContext) error {
	p := ctx.permanentFor(pd.Self, pd.Target)
	if p == nil {
		return nil
	}
	p.PreventionShield += pd.Amount
	ctx.engine.logf("the next %d damage to %s is prevented this turn", pd.Amount, p.Name())
	return nil
}

// Attach attaches the source to the permanent in slot Target.
type Attach struct {
	Target int
}

func (a Attach) Apply(ctx *EffectContext) error {
	source := ctx.Source()
	host := ctx.TargetPermanent(a.Target)
	if source == nil || host == nil {
		return nil
	}
	source.AttachedTo = host.ID
	ctx.engine.logf("%s is attached to %s", source.Name(), host.Name())
	return nil
}

// Untap untaps the permanent in slot Target.
type Untap struct {
	Target int
}

func (u Untap) Apply(ctx *EffectContext) error {
	p := ctx.TargetPermanent(u.Target)
	if p == nil || !p.Tapped {
		return nil
	}
	p.Tapped = false
	ctx.engine.publish(rules.NewEvent(rules.EventUntapped, p.ID, ctx.SourceID, p.Controller))
	return nil
}

// Exile exiles the permanent in slot Target.
type Exile struct {
	Target int
}

func (x Exile) Apply(ctx *EffectContext) error {
	p := ctx.TargetPermanent(x.Target)
	if p == nil {
		return nil
	}
	e := ctx.engine
	e.logf("%s is exiled by %s", p.Name(), ctx.SourceName())
	e.leaveBattlefield(p, ZoneExile)
	return nil
}

// ExileGraveyard exiles every card in the graveyard of the player in slot Target.
type ExileGraveyard struct {
	Target int
}

func (x ExileGraveyard) Apply(ctx *EffectContext) error {
	player := ctx.TargetPlayer(x.Target)
	if player == nil || len(player.Graveyard) == 0 {
		return nil
	}
	e := ctx.engine
	n := len(player.Graveyard)
	player.Exile = append(player.Exile, player.Graveyard...)
	player.Graveyard = nil
	e.logf("%s exiles %d card(s) from %s's graveyard", ctx.SourceName(), n, player.ID)
	change := rules.NewEventWithAmount(rules.EventZoneChange, player.ID, ctx.SourceID, player.ID, n)
	change.Data = string(ZoneExile)
	e.publish(change)
	return nil
}

// ReturnFromGraveyard has the controller choose a card matching Predicate in
// their graveyard and put it into their hand or onto the battlefield.
type ReturnFromGraveyard struct {
	Predicate   string
	Destination Zone
}

func (r ReturnFromGraveyard) Apply(ctx *EffectContext) error {
	e := ctx.engine
	player := e.player(ctx.Controller)
	var choices []string
	for _, inst := range player.Graveyard {
		ok, err := e.predicates.Matches(r.Predicate, cardAttributes(inst), nil)
		if err != nil {
			return fmt.Errorf("graveyard predicate: %w", err)
		}
		if ok {
			choices = append(choices, inst.ID)
		}
	}
	if len(choices) == 0 {
		e.logf("%s finds no matching card in %s's graveyard", ctx.SourceName(), player.ID)
		return nil
	}
	e.ask(&Interaction{
		Kind:     InteractionCardChoice,
		PlayerID: player.ID,
		Prompt:   fmt.Sprintf("Choose a card to return from your graveyard (%s)", ctx.SourceName()),
		Choices:  choices,
		Min:      1,
		Max:      1,
		Origin:   ctx.SourceID,
		Context:  ContextGraveyard,
		onChoose: func(ids []string) error {
			inst, ok := player.take(ZoneGraveyard, ids[0])
			invariant(ok, "returned card %s left the graveyard", ids[0])
			if r.Destination == ZoneBattlefield {
				e.enterBattlefield(inst, player.ID, nil)
				e.logf("%s returns %s from their graveyard to the battlefield", player.ID, inst.Card.Name)
			} else {
				player.Hand = append(player.Hand, inst)
				e.logf("%s returns %s from their graveyard to their hand", player.ID, inst.Card.Name)
			}
			evt := rules.NewEvent(rules.EventReturnedFromGraveyard, inst.ID, ctx.SourceID, player.ID)
			evt.Data = string(r.Destination)
			e.publish(evt)
			return nil
		},
	})
	return nil
}

// GainControl gives the controller the permanent in slot Target, until the
// cleanup step when UntilEndOfTurn is set.
type GainControl struct {
	Target         int
	UntilEndOfTurn bool
}

func (g GainControl) Apply(ctx *EffectContext) error {
	p := ctx.TargetPermanent(g.Target)
	if p == nil {
		return nil
	}
	e := ctx.engine
	previous := p.Controller
	if !g.UntilEndOfTurn {
		p.ControlRevertsTo = ""
	}
	if previous == ctx.Controller {
		return nil
	}
	e.changeControl(p, ctx.Controller)
	if g.UntilEndOfTurn && p.ControlRevertsTo == "" {
		p.ControlRevertsTo = previous
	}
	return nil
}

// changeControl moves a permanent to a new controller. It leaves combat and
// has summoning sickness under its new controller.
func (e *Engine) changeControl(p *Permanent, to string) {
	from := p.Controller
	e.removeFromCombat(p)
	p.Controller = to
	p.SummoningSick = true
	e.triggers.UnregisterSource(p.ID)
	e.registerTriggers(p)
	e.logf("%s gains control of %s", to, p.Name())
	evt := rules.NewEvent(rules.EventControlChanged, p.ID, p.ID, to)
	evt.Metadata["previous_controller"] = from
	e.publish(evt)
}

// revertControl hands back permanents taken until end of turn.
func (e *Engine) revertControl() {
	for _, p := range slices.Clone(e.data.Battlefield) {
		if to := p.ControlRevertsTo; to != "" {
			p.ControlRevertsTo = ""
			e.changeControl(p, to)
		}
	}
}
