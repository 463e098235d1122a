package caption

import (
	"fmt"
	"testing"
)

func TestPushFinalOrderAndEviction(t *testing.T) {
	s := NewState()
	for i := 0; i < 12; i++ {
		s.PushFinal(fmt.Sprintf("cap%d", i))
	}

	if s.Len() != MaxHistory {
		t.Fatalf("history length %d, want %d", s.Len(), MaxHistory)
	}
	// cap11 newest at slot 0, cap0 and cap1 evicted
	for i := 0; i < MaxHistory; i++ {
		want := fmt.Sprintf("cap%d", 11-i)
		if got := s.Line(i); got != want {
			t.Fatalf("slot %d = %q, want %q", i, got, want)
		}
	}
}

func TestHistoryShorterThanCapacity(t *testing.T) {
	s := NewState()
	s.PushFinal("one")
	s.PushFinal("two")

	if s.Len() != 2 {
		t.Fatalf("length %d, want 2", s.Len())
	}
	if s.Line(0) != "two" || s.Line(1) != "one" {
		t.Fatalf("unexpected order: %q, %q", s.Line(0), s.Line(1))
	}
	// Unfilled and out-of-range slots read as empty
	if s.Line(2) != "" || s.Line(MaxHistory) != "" || s.Line(-1) != "" {
		t.Fatal("unfilled slots must be empty")
	}
}

func TestPartialReplacedAndClearedByFinal(t *testing.T) {
	s := NewState()
	s.PushFinal("earlier caption")

	for _, p := range []string{"hel", "hell", "hello"} {
		s.SetPartial(p)
		if s.Partial() != p {
			t.Fatalf("partial = %q, want %q", s.Partial(), p)
		}
	}
	if s.Len() != 1 {
		t.Fatal("partials must not touch history")
	}

	s.PushFinal("hello world")
	if s.Partial() != "" {
		t.Fatalf("partial not cleared by final, got %q", s.Partial())
	}
	if s.Line(0) != "hello world" || s.Line(1) != "earlier caption" {
		t.Fatalf("history disturbed: %q, %q", s.Line(0), s.Line(1))
	}
}
