package game

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/config"
	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/rules"
	"github.com/magefree/mage-duel-go/internal/game/targeting"
	"github.com/magefree/mage-duel-go/internal/game/watchers"
)

// idNamespace seeds the deterministic object ids of every game.
var idNamespace = uuid.MustParse("6f1c3d2e-8a4b-5c6d-9e0f-1a2b3c4d5e6f")

// PlayerSetup describes one seat at the start of a match.
type PlayerSetup struct {
	ID   string
	Deck []*Card
}

// Engine runs one match. It is not safe for concurrent use; callers
// serialize access.
type Engine struct {
	logger *zap.Logger
	cfg    config.EngineConfig
	data   *GameData

	events          *rules.EventBus
	triggers        *rules.TriggerManager[*StackEntry]
	pendingTriggers []*StackEntry

	watchRegistry *rules.WatcherRegistry
	landsPlayed   *watchers.LandsPlayedWatcher
	spellsCast    *watchers.SpellsCastWatcher
	creaturesDied *watchers.CreaturesDiedWatcher
	cardsDrawn    *watchers.CardsDrawnWatcher

	predicates *targeting.Registry
	rng        *rand.Rand
	idSeq      int

	resolving *resolution
	combat    combatState
}

// NewEngine sets up a match: libraries are shuffled and opening hands drawn.
// With mulligans enabled the match waits for both players to keep; otherwise
// the first player is left with priority in their first upkeep.
func NewEngine(logger *zap.Logger, cfg config.EngineConfig, players []PlayerSetup) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(players) != 2 {
		return nil, fmt.Errorf("a duel needs exactly 2 players, got %d", len(players))
	}
	if players[0].ID == "" || players[1].ID == "" || players[0].ID == players[1].ID {
		return nil, fmt.Errorf("players need distinct non-empty ids")
	}
	if cfg.MaxSBAIterations <= 0 {
		cfg.MaxSBAIterations = 100
	}

	predicates, err := targeting.NewRegistry()
	if err != nil {
		return nil, err
	}

	gameID := uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s|%s|%d", players[0].ID, players[1].ID, cfg.Seed))).String()
	e := &Engine{
		logger:     logger.With(zap.String("game_id", gameID)),
		cfg:        cfg,
		events:     rules.NewEventBus(),
		triggers:   rules.NewTriggerManager[*StackEntry](),
		predicates: predicates,
		rng:        rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
	e.data = &GameData{
		ID:             gameID,
		StartingPlayer: players[0].ID,
		Stack:          rules.NewStack[*StackEntry](),
		Turn:           rules.NewTurnManager(players[0].ID),
	}

	e.watchRegistry = rules.NewWatcherRegistry()
	e.landsPlayed = watchers.NewLandsPlayedWatcher()
	e.spellsCast = watchers.NewSpellsCastWatcher()
	e.creaturesDied = watchers.NewCreaturesDiedWatcher()
	e.cardsDrawn = watchers.NewCardsDrawnWatcher()
	for _, w := range []rules.Watcher{e.landsPlayed, e.spellsCast, e.creaturesDied, e.cardsDrawn} {
		e.watchRegistry.AddWatcher(w)
	}
	e.events.Subscribe(e.watchRegistry.NotifyWatchers)
	e.events.Subscribe(func(event rules.Event) {
		e.pendingTriggers = append(e.pendingTriggers, e.triggers.Handle(event)...)
	})

	ids := make([]string, 0, len(players))
	for _, setup := range players {
		player := &Player{ID: setup.ID, Life: cfg.StartingLife, Pool: mana.NewManaPool()}
		for _, card := range setup.Deck {
			player.Library = append(player.Library, &CardInstance{ID: e.newID("card"), Card: card, Owner: setup.ID})
		}
		e.data.Players = append(e.data.Players, player)
		ids = append(ids, setup.ID)
	}
	e.data.Priority, err = rules.NewPriorityTracker(ids, players[0].ID)
	if err != nil {
		return nil, err
	}

	for _, player := range e.data.Players {
		e.shuffle(player)
		e.draw(player, cfg.OpeningHand)
	}

	e.logger.Info("duel started",
		zap.String("starting_player", players[0].ID),
		zap.Uint64("seed", cfg.Seed),
		zap.Bool("mulligans", cfg.Mulligan),
	)
	if cfg.Mulligan && cfg.OpeningHand > 0 {
		e.askMulligan(0)
		return e, nil
	}
	e.startFirstTurn()
	e.settle()
	return e, nil
}

func (e *Engine) startFirstTurn() {
	e.beginTurn()
	e.enterStep()
}

// Data exposes the game state for inspection. Callers must not mutate it.
func (e *Engine) Data() *GameData {
	return e.data
}

// Subscribe registers a listener for every game event.
func (e *Engine) Subscribe(listener rules.Listener) int {
	return e.events.Subscribe(listener)
}

// SpellsCast returns how many spells a player cast this turn.
func (e *Engine) SpellsCast(playerID string) int {
	return e.spellsCast.Count(playerID)
}

// CreaturesDied returns how many creatures died this turn.
func (e *Engine) CreaturesDied() int {
	return e.creaturesDied.TotalAmount()
}

// CardsDrawn returns how many cards a player drew this turn.
func (e *Engine) CardsDrawn(playerID string) int {
	return e.cardsDrawn.Count(playerID)
}

func (e *Engine) newID(kind string) string {
	e.idSeq++
	return uuid.NewSHA1(idNamespace, []byte(e.data.ID+"|"+kind+"|"+strconv.Itoa(e.idSeq))).String()
}

func (e *Engine) publish(event rules.Event) {
	e.events.Publish(event)
}

// logf appends a line to the game log.
func (e *Engine) logf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	e.data.Log = append(e.data.Log, LogEntry{
		Turn: e.data.Turn.TurnNumber(),
		Step: e.data.Turn.CurrentStep(),
		Text: text,
	})
	if limit := e.cfg.LogLimit; limit > 0 && len(e.data.Log) > limit {
		e.data.Log = slices.Clone(e.data.Log[len(e.data.Log)-limit:])
	}
	e.logger.Debug(text, zap.Int("turn", e.data.Turn.TurnNumber()), zap.Stringer("step", e.data.Turn.CurrentStep()))
}

func (e *Engine) player(id string) *Player {
	for _, p := range e.data.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (e *Engine) opponentOf(id string) string {
	for _, p := range e.data.Players {
		if p.ID != id {
			return p.ID
		}
	}
	return ""
}

func (e *Engine) permanent(id string) *Permanent {
	if id == "" {
		return nil
	}
	for _, p := range e.data.Battlefield {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (e *Engine) permanentsOf(controller string) []*Permanent {
	var out []*Permanent
	for _, p := range e.data.Battlefield {
		if p.Controller == controller {
			out = append(out, p)
		}
	}
	return out
}

// apnap returns the players starting with the active player.
func (e *Engine) apnap() []*Player {
	active := e.data.Turn.ActivePlayer()
	out := make([]*Player, 0, len(e.data.Players))
	for _, p := range e.data.Players {
		if p.ID == active {
			out = append(out, p)
		}
	}
	for _, p := range e.data.Players {
		if p.ID != active {
			out = append(out, p)
		}
	}
	return out
}

// checkAction applies the checks shared by every priority action.
func (e *Engine) checkAction(playerID string) error {
	switch {
	case e.data.GameOver:
		return reject(CodeGameOver, "the game is over")
	case e.data.Interaction != nil:
		return reject(CodeInteractionPending, "waiting for %s from %s", e.data.Interaction.Kind, e.data.Interaction.PlayerID)
	case e.player(playerID) == nil:
		return reject(CodeNotFound, "unknown player %s", playerID)
	case e.data.Priority.Holder() != playerID:
		return reject(CodeNotYourPriority, "%s does not have priority", playerID)
	}
	return nil
}

// rejected logs a refused action and returns it unchanged.
func (e *Engine) rejected(action, playerID string, err error) error {
	e.logger.Debug("action rejected",
		zap.String("action", action),
		zap.String("player_id", playerID),
		zap.Error(err),
	)
	return err
}

// settle brings the game to a point where a player can act: the current
// resolution continues, state-based actions run to a fixed point, and
// pending triggers go on the stack. It stops early while a decision is
// outstanding.
func (e *Engine) settle() {
	sweeps := 0
	for {
		if e.data.GameOver || e.data.Interaction != nil {
			return
		}
		if e.resolving != nil {
			e.continueResolution()
			continue
		}
		if e.checkStateBasedActions() {
			sweeps++
			invariant(sweeps <= e.cfg.MaxSBAIterations, "state-based actions did not settle after %d sweeps", sweeps)
			continue
		}
		if len(e.pendingTriggers) > 0 {
			e.flushTriggers()
			continue
		}
		return
	}
}

// continueResolution runs effects from the cursor until the resolution
// finishes or an effect asks for a decision.
func (e *Engine) continueResolution() {
	r := e.resolving
	invariant(r != nil, "no resolution to continue")
	for r.next < len(r.effects) {
		eff := r.effects[r.next]
		r.next++
		if err := eff.Apply(r.ctx); err != nil {
			e.logger.Error("effect failed",
				zap.String("source", r.ctx.SourceName()),
				zap.String("effect", fmt.Sprintf("%T", eff)),
				zap.Error(err),
			)
		}
		if e.data.Interaction != nil {
			return
		}
	}
	e.resolving = nil
	if r.done != nil {
		r.done()
	}
}

// flushTriggers puts waiting triggered abilities on the stack, the active
// player's first so the non-active player's resolve first (APNAP).
func (e *Engine) flushTriggers() {
	pending := e.pendingTriggers
	e.pendingTriggers = nil
	for _, player := range e.apnap() {
		for _, entry := range pending {
			if entry.Controller != player.ID {
				continue
			}
			e.data.Stack.Push(entry)
			e.logf("%s triggers", entry.Description)
			e.logger.Debug("queued triggered ability",
				zap.String("ability_id", entry.ID),
				zap.String("controller", entry.Controller),
			)
		}
	}
	e.data.Priority.Acted()
}
