package rules

// WatcherScope defines the scope of a watcher's tracking.
type WatcherScope int

const (
	// WatcherScopeGame tracks events for the entire game.
	WatcherScopeGame WatcherScope = iota
	// WatcherScopePlayer tracks events for a specific player.
	WatcherScopePlayer
	// WatcherScopeCard tracks events for a specific card/permanent.
	WatcherScopeCard
)

// String returns the string representation of the watcher scope.
func (ws WatcherScope) String() string {
	switch ws {
	case WatcherScopeGame:
		return "GAME"
	case WatcherScopePlayer:
		return "PLAYER"
	case WatcherScopeCard:
		return "CARD"
	default:
		return "UNKNOWN"
	}
}

// Watcher observes game events and remembers facts about the current turn,
// such as how many lands a player has played.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)

	// Reset clears the watcher's state at the end of the turn.
	Reset()

	// ConditionMet returns true if the condition this watcher tracks has been met.
	ConditionMet() bool

	// Scope returns the scope of this watcher.
	Scope() WatcherScope

	// Key returns a unique key for this watcher instance.
	Key() string
}

// BaseWatcher provides the bookkeeping shared by all watchers.
type BaseWatcher struct {
	scope     WatcherScope
	key       string
	condition bool
}

// NewBaseWatcher creates a new base watcher with the specified scope and key.
func NewBaseWatcher(scope WatcherScope, key string) *BaseWatcher {
	return &BaseWatcher{scope: scope, key: key}
}

// Scope returns the watcher's scope.
func (bw *BaseWatcher) Scope() WatcherScope {
	return bw.scope
}

// Key returns the unique key for this watcher.
func (bw *BaseWatcher) Key() string {
	return bw.key
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// WatcherRegistry manages watchers for a game. Watchers are notified in the
// order they were added.
type WatcherRegistry struct {
	watchers []Watcher
}

// NewWatcherRegistry creates a new watcher registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{}
}

// AddWatcher adds a watcher, replacing any watcher with the same key.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) {
	if watcher == nil {
		return
	}
	for i, w := range wr.watchers {
		if w.Key() == watcher.Key() {
			wr.watchers[i] = watcher
			return
		}
	}
	wr.watchers = append(wr.watchers, watcher)
}

// RemoveWatcher removes a watcher from the registry.
func (wr *WatcherRegistry) RemoveWatcher(key string) {
	for i, w := range wr.watchers {
		if w.Key() == key {
			wr.watchers = append(wr.watchers[:i], wr.watchers[i+1:]...)
			return
		}
	}
}

// Watcher retrieves a watcher by key.
func (wr *WatcherRegistry) Watcher(key string) Watcher {
	for _, w := range wr.watchers {
		if w.Key() == key {
			return w
		}
	}
	return nil
}

// WatchersByScope returns all watchers for a given scope.
func (wr *WatcherRegistry) WatchersByScope(scope WatcherScope) []Watcher {
	var result []Watcher
	for _, w := range wr.watchers {
		if w.Scope() == scope {
			result = append(result, w)
		}
	}
	return result
}

// ResetWatchers resets all watchers (called during cleanup).
func (wr *WatcherRegistry) ResetWatchers() {
	for _, w := range wr.watchers {
		w.Reset()
	}
}

// NotifyWatchers notifies all watchers of an event.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	for _, w := range wr.watchers {
		w.Watch(event)
	}
}
