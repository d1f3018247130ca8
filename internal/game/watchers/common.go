package watchers

import (
	"github.com/magefree/mage-duel-go/internal/game/rules"
)

// Keys of the watchers every game registers.
const (
	SpellsCastKey    = "SpellsCastWatcher"
	CreaturesDiedKey = "CreaturesDiedWatcher"
	CardsDrawnKey    = "CardsDrawnWatcher"
	LandsPlayedKey   = "LandsPlayedWatcher"
)

// SpellsCastWatcher tracks spells cast by players this turn.
type SpellsCastWatcher struct {
	*rules.BaseWatcher
	spellsCast map[string][]string // playerID -> list of spell IDs
}

// NewSpellsCastWatcher creates a new spells cast watcher.
func NewSpellsCastWatcher() *SpellsCastWatcher {
	return &SpellsCastWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, SpellsCastKey),
		spellsCast:  make(map[string][]string),
	}
}

// Watch implements the Watcher interface.
func (w *SpellsCastWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventSpellCast {
		return
	}
	playerID := playerOf(event)
	if playerID == "" {
		return
	}
	spellID := event.TargetID
	if spellID == "" {
		spellID = event.SourceID
	}
	w.spellsCast[playerID] = append(w.spellsCast[playerID], spellID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *SpellsCastWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.spellsCast = make(map[string][]string)
}

// SpellsCast returns the list of spell IDs cast by a player.
func (w *SpellsCastWatcher) SpellsCast(playerID string) []string {
	return w.spellsCast[playerID]
}

// Count returns the number of spells cast by a player.
func (w *SpellsCastWatcher) Count(playerID string) int {
	return len(w.spellsCast[playerID])
}

// CreaturesDiedWatcher tracks creatures put into a graveyard from the battlefield.
type CreaturesDiedWatcher struct {
	*rules.BaseWatcher
	byController map[string]int
	byOwner      map[string]int
}

// NewCreaturesDiedWatcher creates a new creatures died watcher.
func NewCreaturesDiedWatcher() *CreaturesDiedWatcher {
	return &CreaturesDiedWatcher{
		BaseWatcher:  rules.NewBaseWatcher(rules.WatcherScopeGame, CreaturesDiedKey),
		byController: make(map[string]int),
		byOwner:      make(map[string]int),
	}
}

// Watch implements the Watcher interface. Non-creature deaths carry
// Flag=false and are ignored.
func (w *CreaturesDiedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventPermanentDies || !event.Flag {
		return
	}
	controllerID := event.Controller
	ownerID := event.Metadata["owner_id"]
	if ownerID == "" {
		ownerID = controllerID
	}
	if controllerID != "" {
		w.byController[controllerID]++
	}
	if ownerID != "" {
		w.byOwner[ownerID]++
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CreaturesDiedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.byController = make(map[string]int)
	w.byOwner = make(map[string]int)
}

// AmountByController returns the number of creatures that died for a controller.
func (w *CreaturesDiedWatcher) AmountByController(controllerID string) int {
	return w.byController[controllerID]
}

// AmountByOwner returns the number of creatures that died for an owner.
func (w *CreaturesDiedWatcher) AmountByOwner(ownerID string) int {
	return w.byOwner[ownerID]
}

// TotalAmount returns the total number of creatures that died.
func (w *CreaturesDiedWatcher) TotalAmount() int {
	total := 0
	for _, count := range w.byController {
		total += count
	}
	return total
}

// CardsDrawnWatcher tracks cards drawn by players.
type CardsDrawnWatcher struct {
	*rules.BaseWatcher
	cardsDrawn map[string]int
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	return &CardsDrawnWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, CardsDrawnKey),
		cardsDrawn:  make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDrewCard {
		return
	}
	if playerID := playerOf(event); playerID != "" {
		w.cardsDrawn[playerID]++
		w.SetCondition(true)
	}
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.cardsDrawn = make(map[string]int)
}

// Count returns the number of cards drawn by a player.
func (w *CardsDrawnWatcher) Count(playerID string) int {
	return w.cardsDrawn[playerID]
}

// LandsPlayedWatcher counts land plays per player; the engine uses it to
// enforce one land per turn.
type LandsPlayedWatcher struct {
	*rules.BaseWatcher
	played map[string]int
}

// NewLandsPlayedWatcher creates a new lands played watcher.
func NewLandsPlayedWatcher() *LandsPlayedWatcher {
	return &LandsPlayedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, LandsPlayedKey),
		played:      make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *LandsPlayedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventLandPlayed {
		return
	}
	if playerID := playerOf(event); playerID != "" {
		w.played[playerID]++
		w.SetCondition(true)
	}
}

// Reset clears the watcher's state.
func (w *LandsPlayedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.played = make(map[string]int)
}

// Count returns the number of lands a player played this turn.
func (w *LandsPlayedWatcher) Count(playerID string) int {
	return w.played[playerID]
}

func playerOf(event rules.Event) string {
	if event.PlayerID != "" {
		return event.PlayerID
	}
	return event.Controller
}
