package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// MaxMulligans is how many times one player may redraw an opening hand.
const MaxMulligans = 7

// askMulligan asks the player in seat whether to keep their hand. Seats
// decide in turn order; the first turn starts after the last one keeps.
func (e *Engine) askMulligan(seat int) {
	if seat >= len(e.data.Players) {
		e.logf("mulligans complete")
		e.startFirstTurn()
		return
	}
	player := e.data.Players[seat]
	e.ask(&Interaction{
		Kind:       InteractionMulligan,
		PlayerID:   player.ID,
		Prompt:     fmt.Sprintf("Keep this hand of %d card(s)?", len(player.Hand)),
		CanDecline: player.Mulligans < MaxMulligans,
		Max:        1,
		Context:    ContextMulligan,
		onAccept: func(keep bool) error {
			if !keep {
				e.mulligan(player)
				e.askMulligan(seat)
				return nil
			}
			e.keepHand(player, seat)
			return nil
		},
	})
}

// mulligan shuffles the hand away and draws a new one.
func (e *Engine) mulligan(player *Player) {
	player.Library = append(player.Library, player.Hand...)
	player.Hand = nil
	e.shuffle(player)
	e.draw(player, e.cfg.OpeningHand)
	player.Mulligans++
	e.logf("%s takes a mulligan (%d)", player.ID, player.Mulligans)
	e.publish(rules.NewEventWithAmount(rules.EventMulligan, player.ID, "", player.ID, player.Mulligans))
}

// keepHand puts one card on the bottom of the library per mulligan taken,
// then moves on to the next seat.
func (e *Engine) keepHand(player *Player, seat int) {
	n := min(player.Mulligans, len(player.Hand))
	if n == 0 {
		e.logf("%s keeps their hand", player.ID)
		e.askMulligan(seat + 1)
		return
	}
	e.logf("%s keeps their hand and must put %d card(s) on the bottom", player.ID, n)
	choices := make([]string, len(player.Hand))
	for i, inst := range player.Hand {
		choices[i] = inst.ID
	}
	e.ask(&Interaction{
		Kind:     InteractionCardChoice,
		PlayerID: player.ID,
		Prompt:   fmt.Sprintf("Put %d card(s) on the bottom of your library", n),
		Choices:  choices,
		Min:      n,
		Max:      n,
		Context:  ContextBottom,
		onChoose: func(ids []string) error {
			for _, id := range ids {
				inst, ok := player.take(ZoneHand, id)
				invariant(ok, "bottomed card %s left the hand", id)
				player.Library = append(player.Library, inst)
			}
			e.logf("%s puts %d card(s) on the bottom of their library", player.ID, n)
			e.askMulligan(seat + 1)
			return nil
		},
	})
}

// HandleMulligan keeps the pending opening hand, or redraws it.
func (e *Engine) HandleMulligan(playerID string, keep bool) error {
	in, err := e.interactionFor(playerID, InteractionMulligan)
	if err != nil {
		return e.rejected("mulligan", playerID, err)
	}
	if !keep && !in.CanDecline {
		return e.rejected("mulligan", playerID, reject(CodeInvalidChoice, "no more than %d mulligans", MaxMulligans))
	}
	e.logger.Debug("mulligan decision", zap.String("player_id", playerID), zap.Bool("keep", keep))
	e.resume(in, func() error { return in.onAccept(keep) })
	return nil
}
