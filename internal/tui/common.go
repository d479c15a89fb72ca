// Package tui renders the quiz in a terminal using Bubble Tea.
package tui

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNotTTY is returned when the quiz is launched without a terminal.
var ErrNotTTY = errors.New("the quiz needs an interactive terminal")

// IsTTY returns true if stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run starts the program in alternate screen mode.
func Run(m tea.Model) error {
	if !IsTTY() {
		return ErrNotTTY
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
