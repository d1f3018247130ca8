package rules

// EventType indicates the category of a rules event.
type EventType string

const (
	// Turn events
	EventStepChanged   EventType = "STEP_CHANGED"
	EventBeginTurn     EventType = "BEGIN_TURN"
	EventUpkeepStep    EventType = "UPKEEP_STEP"
	EventEndTurnStep   EventType = "END_TURN_STEP"
	EventCleanupStep   EventType = "CLEANUP_STEP"
	EventEmptyManaPool EventType = "EMPTY_MANA_POOL"

	// Zone events
	EventZoneChange            EventType = "ZONE_CHANGE"
	EventEntersBattlefield     EventType = "ENTERS_THE_BATTLEFIELD"
	EventPermanentDies         EventType = "PERMANENT_DIES"
	EventTokenCreated          EventType = "TOKEN_CREATED"
	EventLibraryShuffled       EventType = "LIBRARY_SHUFFLED"
	EventReturnedFromGraveyard EventType = "RETURNED_FROM_GRAVEYARD"

	// Card events
	EventDrewCard      EventType = "DREW_CARD"
	EventDiscardedCard EventType = "DISCARDED_CARD"
	EventMulligan      EventType = "MULLIGAN"

	// Life/Damage events
	EventDamagedPlayer    EventType = "DAMAGED_PLAYER"
	EventDamagedPermanent EventType = "DAMAGED_PERMANENT"
	EventPreventedDamage  EventType = "PREVENTED_DAMAGE"
	EventGainedLife       EventType = "GAINED_LIFE"
	EventLostLife         EventType = "LOST_LIFE"

	// Land/Spell/Ability events
	EventLandPlayed       EventType = "LAND_PLAYED"
	EventSpellCast        EventType = "SPELL_CAST"
	EventActivatedAbility EventType = "ACTIVATED_ABILITY"
	EventManaAdded        EventType = "MANA_ADDED"
	EventCountered        EventType = "COUNTERED"
	EventFizzled          EventType = "FIZZLED"
	EventSpellCopied      EventType = "SPELL_COPIED"
	EventTargetChanged    EventType = "TARGET_CHANGED"
	EventLost             EventType = "LOST"

	// Combat events
	EventAttackerDeclared    EventType = "ATTACKER_DECLARED"
	EventBlockerDeclared     EventType = "BLOCKER_DECLARED"
	EventCombatDamageApplied EventType = "COMBAT_DAMAGE_APPLIED"

	// Permanent events
	EventTapped         EventType = "TAPPED"
	EventUntapped       EventType = "UNTAPPED"
	EventCounterAdded   EventType = "COUNTER_ADDED"
	EventCounterRemoved EventType = "COUNTER_REMOVED"
	EventRegenerated    EventType = "REGENERATED"
	EventControlChanged EventType = "CONTROL_CHANGED"

	// State-based actions event
	EventStateBasedActions EventType = "STATE_BASED_ACTIONS"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType
	Sequence    int               // Position in the publish order, assigned by the bus
	TargetID    string            // ID of the target (card, permanent, player)
	SourceID    string            // ID of the source object
	Controller  string            // Player ID of the controller
	PlayerID    string            // Player ID (often same as Controller, but can differ)
	Amount      int               // Numeric value (damage, life, counters, etc.)
	Flag        bool              // Boolean flag (combat damage, token, etc.)
	Data        string            // Additional string data (zone names, counter kinds)
	Metadata    map[string]string // Additional metadata
	Description string            // Human-readable description
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type subscription struct {
	handle    int
	eventType EventType // empty for all events
	callback  Listener
}

// EventBus is a synchronous publish/subscribe bus. Listeners are called in
// subscription order. Listeners may subscribe or unsubscribe while an event
// is being delivered; the change applies from the next publish.
type EventBus struct {
	subs       []subscription
	nextHandle int
	published  int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.SubscribeTyped("", listener)
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback Listener) int {
	if callback == nil {
		return -1
	}
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription{handle: handle, eventType: eventType, callback: callback})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	for i, sub := range bus.subs {
		if sub.handle == handle {
			bus.subs = append(bus.subs[:i:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.published++
	event.Sequence = bus.published
	subs := bus.subs
	for _, sub := range subs {
		if sub.eventType == "" || sub.eventType == event.Type {
			sub.callback(event)
		}
	}
}

// Published returns how many events have been published.
func (bus *EventBus) Published() int {
	return bus.published
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, controllerID string) Event {
	return Event{
		Type:       eventType,
		TargetID:   targetID,
		SourceID:   sourceID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Metadata:   make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, controllerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, controllerID)
	evt.Amount = amount
	return evt
}

// NewEventWithFlag creates a new event with a flag value.
func NewEventWithFlag(eventType EventType, targetID, sourceID, controllerID string, flag bool) Event {
	evt := NewEvent(eventType, targetID, sourceID, controllerID)
	evt.Flag = flag
	return evt
}
