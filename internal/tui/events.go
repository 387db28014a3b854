package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// callbackMsg carries a timer callback onto the update loop.
type callbackMsg struct {
	fn func()
}

// navigateMsg switches the page to route.
type navigateMsg struct {
	route string
}

func navigateCmd(route string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{route: route}
	}
}

// programSender bridges timer goroutines to the program. Callbacks that
// fire before the program is attached are dropped.
type programSender struct {
	mu      sync.RWMutex
	program *tea.Program
}

func (s *programSender) attach(program *tea.Program) {
	s.mu.Lock()
	s.program = program
	s.mu.Unlock()
}

// post implements clock.Poster.
func (s *programSender) post(fn func()) {
	s.mu.RLock()
	program := s.program
	s.mu.RUnlock()
	if program != nil {
		program.Send(callbackMsg{fn: fn})
	}
}
