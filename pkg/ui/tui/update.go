package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampOffset()
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.warning = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelled = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.categories)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if len(m.categories) == 0 {
			break
		}
		if m.checked[m.cursor] {
			delete(m.checked, m.cursor)
		} else {
			m.checked[m.cursor] = true
		}

	case key.Matches(msg, m.keys.All):
		m.toggleAll()

	case key.Matches(msg, m.keys.Confirm):
		if len(m.checked) == 0 {
			m.warning = "Select at least one category"
			return m, nil
		}
		m.confirmed = true
		return m, tea.Quit
	}

	m.clampOffset()
	return m, nil
}
