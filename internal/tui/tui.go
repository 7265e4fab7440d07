package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"practica/internal/client"
)

// RunSessionTUI starts the interactive practice-session page.
func RunSessionTUI(api *client.Client) error {
	model := NewSessionModel(api)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
