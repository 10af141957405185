package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the category picker state
type Model struct {
	categories []string
	counts     map[string]int
	checked    map[int]bool

	cursor int
	offset int
	height int

	confirmed bool
	cancelled bool
	warning   string

	keys keyMap
	help help.Model
}

// NewModel creates a picker with nothing checked
func NewModel(categories []string, counts map[string]int) *Model {
	return &Model{
		categories: categories,
		counts:     counts,
		checked:    make(map[int]bool),
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Selected returns the checked categories in list order
func (m *Model) Selected() []string {
	var selected []string
	for i, category := range m.categories {
		if m.checked[i] {
			selected = append(selected, category)
		}
	}
	return selected
}

// Confirmed reports whether the user accepted the selection
func (m *Model) Confirmed() bool {
	return m.confirmed
}

// Cancelled reports whether the user left without choosing
func (m *Model) Cancelled() bool {
	return m.cancelled
}

func (m *Model) toggleAll() {
	all := len(m.checked) == len(m.categories)
	m.checked = make(map[int]bool)
	if all {
		return
	}
	for i := range m.categories {
		m.checked[i] = true
	}
}

// visibleRows is how many list rows fit below the title and above the help
func (m *Model) visibleRows() int {
	if m.height == 0 {
		return len(m.categories)
	}
	rows := m.height - 6
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) clampOffset() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}
