package overlay

import tea "github.com/charmbracelet/bubbletea"

// Stack holds the open overlays, topmost last. Only the top overlay
// receives input; the ones beneath keep their state until revealed again.
type Stack struct {
	overlays []Overlay
}

// NewStack creates an empty stack
func NewStack() *Stack {
	return &Stack{}
}

// Push opens an overlay on top of the stack and runs its Init command
func (s *Stack) Push(o Overlay) tea.Cmd {
	s.overlays = append(s.overlays, o)
	return o.Init()
}

// Pop closes and returns the top overlay, or nil when nothing is open
func (s *Stack) Pop() Overlay {
	n := len(s.overlays)
	if n == 0 {
		return nil
	}

	top := s.overlays[n-1]
	s.overlays[n-1] = nil
	s.overlays = s.overlays[:n-1]
	return top
}

// Current returns the overlay holding focus, or nil when nothing is open
func (s *Stack) Current() Overlay {
	if len(s.overlays) == 0 {
		return nil
	}
	return s.overlays[len(s.overlays)-1]
}

// IsEmpty reports whether any overlay is open
func (s *Stack) IsEmpty() bool {
	return len(s.overlays) == 0
}

// Clear closes every overlay at once
func (s *Stack) Clear() {
	s.overlays = nil
}

// Update routes a message to the focused overlay. CloseOverlayMsg pops
// the top overlay instead of being forwarded to it.
func (s *Stack) Update(msg tea.Msg) tea.Cmd {
	top := s.Current()
	if top == nil {
		return nil
	}

	if _, ok := msg.(CloseOverlayMsg); ok {
		s.Pop()
		return nil
	}

	updated, cmd := top.Update(msg)
	if o, ok := updated.(Overlay); ok {
		s.overlays[len(s.overlays)-1] = o
	}
	return cmd
}
