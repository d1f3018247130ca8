package rules

import "testing"

type testItem struct {
	ID   string
	Kind StackItemKind
}

func TestStackPushPop(t *testing.T) {
	s := NewStack[testItem]()

	s.Push(testItem{ID: "first", Kind: StackItemKindSpell})
	s.Push(testItem{ID: "second", Kind: StackItemKindTriggered})

	top, ok := s.Peek()
	if !ok || top.ID != "second" {
		t.Fatalf("expected second on top, got %+v", top)
	}

	item, ok := s.Pop()
	if !ok {
		t.Fatalf("unexpected empty stack popping top")
	}
	if item.ID != "second" {
		t.Fatalf("expected LIFO order (second), got %s", item.ID)
	}

	item, ok = s.Pop()
	if !ok || item.ID != "first" {
		t.Fatalf("expected remaining item to be first, got %s", item.ID)
	}

	if !s.IsEmpty() {
		t.Fatalf("expected stack to be empty")
	}
	if _, ok := s.Pop(); ok {
		t.Fatalf("expected pop on empty stack to fail")
	}
}

func TestStackRemoveAt(t *testing.T) {
	s := NewStack[testItem]()

	s.Push(testItem{ID: "first"})
	s.Push(testItem{ID: "second"})
	s.Push(testItem{ID: "third"})

	idx := s.IndexFunc(func(it testItem) bool { return it.ID == "second" })
	if idx != 1 {
		t.Fatalf("expected second at index 1, got %d", idx)
	}

	item, ok := s.RemoveAt(idx)
	if !ok {
		t.Fatalf("expected to remove existing item")
	}
	if item.ID != "second" {
		t.Fatalf("expected removed ID second, got %s", item.ID)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 items left, got %d", s.Len())
	}

	bottom, _ := s.At(0)
	if bottom.ID != "first" {
		t.Fatalf("expected first at the bottom, got %s", bottom.ID)
	}
	top, _ := s.Pop()
	if top.ID != "third" {
		t.Fatalf("expected third to remain on top, got %s", top.ID)
	}

	if s.IndexFunc(func(it testItem) bool { return it.ID == "missing" }) != -1 {
		t.Fatalf("expected -1 for a missing item")
	}
}

func TestStackListIsACopy(t *testing.T) {
	s := NewStack[testItem]()
	s.Push(testItem{ID: "a"})

	list := s.List()
	list[0].ID = "mutated"

	item, _ := s.Peek()
	if item.ID != "a" {
		t.Fatalf("List must not alias stack storage, got %s", item.ID)
	}
}
