package rules

import (
	"github.com/google/uuid"
)

// AbilityTrigger encapsulates the logic for reacting to a specific event and
// producing stack items when the conditions are satisfied.
type AbilityTrigger[T any] struct {
	ID         string
	SourceID   string
	Controller string
	EventType  EventType
	Condition  func(Event) bool
	Build      func(Event) T
	Once       bool
}

// TriggerManager stores and evaluates ability triggers against events.
// Triggers are evaluated in registration order.
type TriggerManager[T any] struct {
	triggers []AbilityTrigger[T]
}

// NewTriggerManager creates an empty trigger manager.
func NewTriggerManager[T any]() *TriggerManager[T] {
	return &TriggerManager[T]{}
}

// Register adds a new trigger to the manager.
func (tm *TriggerManager[T]) Register(trigger AbilityTrigger[T]) string {
	if trigger.ID == "" {
		trigger.ID = uuid.NewString()
	}
	tm.triggers = append(tm.triggers, trigger)
	return trigger.ID
}

// Unregister removes a trigger by ID.
func (tm *TriggerManager[T]) Unregister(id string) {
	tm.removeWhere(func(t AbilityTrigger[T]) bool { return t.ID == id })
}

// UnregisterSource removes every trigger registered for a source.
func (tm *TriggerManager[T]) UnregisterSource(sourceID string) {
	tm.removeWhere(func(t AbilityTrigger[T]) bool { return t.SourceID == sourceID })
}

// Len returns the number of registered triggers.
func (tm *TriggerManager[T]) Len() int {
	return len(tm.triggers)
}

// Handle evaluates the provided event against all registered triggers and
// returns the stack items they produce.
func (tm *TriggerManager[T]) Handle(event Event) []T {
	if len(tm.triggers) == 0 {
		return nil
	}

	var (
		items    []T
		toRemove []string
	)

	for _, trigger := range tm.triggers {
		if trigger.EventType != event.Type {
			continue
		}
		if trigger.Condition != nil && !trigger.Condition(event) {
			continue
		}
		if trigger.Build == nil {
			continue
		}

		items = append(items, trigger.Build(event))

		if trigger.Once {
			toRemove = append(toRemove, trigger.ID)
		}
	}

	for _, id := range toRemove {
		tm.Unregister(id)
	}

	return items
}

func (tm *TriggerManager[T]) removeWhere(fn func(AbilityTrigger[T]) bool) {
	kept := tm.triggers[:0:0]
	for _, t := range tm.triggers {
		if !fn(t) {
			kept = append(kept, t)
		}
	}
	tm.triggers = kept
}
