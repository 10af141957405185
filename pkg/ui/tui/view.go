package tui

import (
	"fmt"
	"strings"
)

// View renders the picker
func (m *Model) View() string {
	if m.confirmed || m.cancelled {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("emojigrab"))
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%d of %d categories selected", len(m.checked), len(m.categories))))
	b.WriteString("\n\n")

	end := m.offset + m.visibleRows()
	if end > len(m.categories) {
		end = len(m.categories)
	}

	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderItem(i))
		b.WriteString("\n")
	}

	if m.warning != "" {
		b.WriteString(warningStyle.Render(m.warning))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) renderItem(i int) string {
	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("> ")
	}

	box := "[ ]"
	if m.checked[i] {
		box = checkedStyle.Render("[x]")
	}

	line := fmt.Sprintf("%s%s %s", cursor, box, m.categories[i])
	if n, ok := m.counts[m.categories[i]]; ok {
		line += countStyle.Render(fmt.Sprintf(" (%d)", n))
	}
	return itemStyle.Render(line)
}
