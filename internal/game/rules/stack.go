package rules

// StackItemKind describes the type of object on the stack.
type StackItemKind string

const (
	// StackItemKindSpell represents a spell cast by a player.
	StackItemKindSpell StackItemKind = "SPELL"
	// StackItemKindActivated represents an activated ability.
	StackItemKindActivated StackItemKind = "ACTIVATED"
	// StackItemKindTriggered represents a triggered ability.
	StackItemKindTriggered StackItemKind = "TRIGGERED"
)

// Stack is a LIFO sequence. Index 0 is the bottom; the top is the last item.
// It is not safe for concurrent use.
type Stack[T any] struct {
	items []T
}

// NewStack creates an empty stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{items: make([]T, 0, 16)}
}

// Push adds an item to the top of the stack.
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes the top item from the stack.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	idx := len(s.items) - 1
	item := s.items[idx]
	s.items[idx] = zero
	s.items = s.items[:idx]
	return item, true
}

// Peek returns the top item without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// At returns the item at a position counted from the bottom.
func (s *Stack[T]) At(idx int) (T, bool) {
	var zero T
	if idx < 0 || idx >= len(s.items) {
		return zero, false
	}
	return s.items[idx], true
}

// IndexFunc returns the bottom-based index of the topmost item matching fn, or -1.
func (s *Stack[T]) IndexFunc(fn func(T) bool) int {
	for idx := len(s.items) - 1; idx >= 0; idx-- {
		if fn(s.items[idx]) {
			return idx
		}
	}
	return -1
}

// RemoveAt deletes an item from anywhere in the stack.
func (s *Stack[T]) RemoveAt(idx int) (T, bool) {
	var zero T
	if idx < 0 || idx >= len(s.items) {
		return zero, false
	}
	item := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return item, true
}

// List returns a copy of all stack items (topmost last).
func (s *Stack[T]) List() []T {
	cpy := make([]T, len(s.items))
	copy(cpy, s.items)
	return cpy
}

// Len returns the number of items.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// IsEmpty returns whether the stack is empty.
func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}
