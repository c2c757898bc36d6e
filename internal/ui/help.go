package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay from the key map.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	titles := []string{"Views", "Navigation", "Paging", "Copy list", "General"}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.Rule.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	groups := m.keys.FullHelp()
	for i, group := range groups {
		if i < len(titles) {
			b.WriteString(styles.Section.Render(titles[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(styles.Key.Render(h.Key))
			b.WriteString(styles.Desc.Render(h.Desc))
			b.WriteString("\n")
		}
		if i < len(groups)-1 {
			b.WriteString("\n")
		}
	}

	return m.renderModal(b.String(), m.theme.Accent, 40)
}

// renderConfirmClear asks before emptying the whole list.
func (m Model) renderConfirmClear() string {
	styles := m.theme.Styles()
	n := m.entryCount()
	noun := "entries"
	if n == 1 {
		noun = "entry"
	}

	var b strings.Builder
	b.WriteString(styles.Warning.Render("Clear copy list"))
	b.WriteString("\n\n")
	b.WriteString(styles.Desc.Render(fmt.Sprintf("Remove all %d %s?", n, noun)))
	b.WriteString("\n\n")
	b.WriteString(styles.Key.UnsetWidth().Render("y") + styles.Hint.Render(" confirm   "))
	b.WriteString(styles.Key.UnsetWidth().Render("n") + styles.Hint.Render(" cancel"))

	return m.renderModal(b.String(), m.theme.Err, 36)
}

func (m Model) renderModal(content, border string, width int) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(width)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Base)),
	)
}
