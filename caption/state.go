// Package caption holds the presentation-side caption model: a bounded
// rolling history of final captions, one mutable partial slot, and the
// recency color ramp. Everything here is owned by the presentation
// goroutine; nothing is safe for concurrent use.
package caption

// MaxHistory is the fixed number of retained final captions.
const MaxHistory = 10

// State is the rolling caption history plus the in-progress partial.
// Index 0 is always the most recent final caption.
type State struct {
	history []string
	partial string
}

func NewState() *State {
	return &State{history: make([]string, 0, MaxHistory)}
}

// PushFinal inserts text at the head, evicts the tail beyond MaxHistory,
// and clears the partial slot.
func (s *State) PushFinal(text string) {
	s.history = append(s.history, "")
	copy(s.history[1:], s.history)
	s.history[0] = text
	if len(s.history) > MaxHistory {
		s.history = s.history[:MaxHistory]
	}
	s.partial = ""
}

// SetPartial replaces the partial slot wholesale. History is untouched.
func (s *State) SetPartial(text string) {
	s.partial = text
}

func (s *State) Partial() string {
	return s.partial
}

// Line returns the history entry at slot i, or "" for unfilled slots.
func (s *State) Line(i int) string {
	if i < 0 || i >= len(s.history) {
		return ""
	}
	return s.history[i]
}

func (s *State) Len() int {
	return len(s.history)
}
