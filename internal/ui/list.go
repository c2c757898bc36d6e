package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/copylist/internal/viewsync"
)

// handleListKey processes keyboard input for the copy list view. Each
// binding returns on its own so a delete never falls through to activating
// the row it was pressed on.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Delete):
		row, ok := m.selectedRow()
		if !ok || row.Placeholder {
			return m, nil
		}
		m.setStatus("Removing "+row.Path+"...", statusInfo)
		return m, deleteRowCmd(m.ctx, m.sync, row)

	case key.Matches(msg, m.keys.ClearAll):
		if m.prefs.ConfirmClear {
			m.confirmingClear = true
			return m, nil
		}
		return m, clearAllCmd(m.ctx, m.sync, m.entryCount())

	case key.Matches(msg, m.keys.Activate):
		if row, ok := m.selectedRow(); ok && !row.Placeholder {
			m.setStatus(row.Path, statusInfo)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, refreshCmd(m.ctx, m.sync)

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Top):
		m.moveSelection(-len(m.rows))
	case key.Matches(msg, m.keys.Bottom):
		m.moveSelection(len(m.rows))
	case key.Matches(msg, m.keys.PageUp):
		m.moveSelection(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveSelection(m.listHeight())
	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveSelection(-maxInt(m.listHeight()/2, 1))
	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveSelection(maxInt(m.listHeight()/2, 1))
	}
	return m, nil
}

// handleConfirmKey answers the clear-all confirmation.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.confirmingClear = false
		return m, clearAllCmd(m.ctx, m.sync, m.entryCount())
	case key.Matches(msg, m.keys.No), key.Matches(msg, m.keys.Quit):
		m.confirmingClear = false
		m.setStatus("Clear cancelled", statusInfo)
	}
	return m, nil
}

// applyRows replaces the rendered rows with a new pass. Row IDs are new on
// every pass, so the selection is kept by position.
func (m *Model) applyRows(rows []viewsync.Row) {
	m.rows = rows
	m.loaded = true
	m.lastRendered = time.Now()
	if m.statusKind == statusError {
		m.setStatus("", statusInfo)
	}
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.ensureVisible()
}

func (m Model) selectedRow() (viewsync.Row, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return viewsync.Row{}, false
	}
	return m.rows[m.selected], true
}

func (m Model) entryCount() int {
	n := 0
	for _, row := range m.rows {
		if !row.Placeholder {
			n++
		}
	}
	return n
}

func (m *Model) moveSelection(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	m.ensureVisible()
}

// ensureVisible scrolls the list so the selected row is on screen.
func (m *Model) ensureVisible() {
	h := m.listHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+h {
		m.offset = m.selected - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// listHeight is the number of rows that fit between header and footer.
func (m Model) listHeight() int {
	return maxInt(m.height-3, 1)
}

// renderMain renders header, active view and footer.
func (m Model) renderMain() string {
	var body string
	switch m.currentView {
	case ViewLogs:
		body = m.renderLogs()
	default:
		body = m.renderList()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatusLine(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	sep := styles.BarValue.Render("  ")

	parts := []string{styles.Logo.Render("copylist")}
	switch {
	case !m.loaded:
		parts = append(parts, styles.Connecting.Render("Connecting to "+m.apiBind+"..."))
	default:
		parts = append(parts,
			styles.BarLabel.Render("Entries:")+styles.BarValue.Render(fmt.Sprintf(" %d", m.entryCount())))
		if m.live {
			parts = append(parts, styles.Live.Render("● LIVE"))
		} else {
			parts = append(parts, styles.Offline.Render("● OFFLINE"))
		}
		parts = append(parts, styles.BarFaint.Render(m.lastRendered.Format("15:04:05")))
	}

	return styles.Bar.Width(m.width).Render(strings.Join(parts, sep))
}

func (m Model) renderList() string {
	styles := m.theme.Styles()
	h := m.listHeight()
	width := maxInt(m.width-4, 10)

	lines := make([]string, 0, h)
	end := minInt(m.offset+h, len(m.rows))
	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		label := truncateLeft(row.Label(), width)
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		switch {
		case row.Placeholder:
			lines = append(lines, cursor+styles.Placeholder.Render(label))
		case i == m.selected:
			lines = append(lines, styles.Cursor.Render(cursor+padRight(label, width)))
		default:
			lines = append(lines, cursor+styles.Path.Render(label))
		}
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	if m.status == "" {
		return ""
	}
	text := truncate(m.status, maxInt(m.width-2, 10))
	if m.statusKind == statusError {
		return " " + styles.StatusError.Render(text)
	}
	return " " + styles.StatusInfo.Render(text)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// Commands

// deleteRowCmd removes the row's entry. Store failures reach the status line
// through the bridge's Reporter, so only an unknown row is returned here.
func deleteRowCmd(ctx context.Context, s Syncer, row viewsync.Row) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return nil
		}
		if err := s.DeleteRow(ctx, row.ID); err != nil {
			if errors.Is(err, viewsync.ErrUnknownRow) {
				return errMsg{err: fmt.Errorf("row changed before delete, try again: %w", err)}
			}
			return nil
		}
		return statusMsg("Removed " + row.Path)
	}
}

func clearAllCmd(ctx context.Context, s Syncer, entries int) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return nil
		}
		if err := s.ClearAll(ctx); err != nil {
			return nil
		}
		return statusMsg(fmt.Sprintf("Cleared %d entries", entries))
	}
}

func refreshCmd(ctx context.Context, s Syncer) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return nil
		}
		if err := s.Refresh(ctx); err != nil {
			return nil
		}
		return statusMsg("Refreshed")
	}
}

func focusRegainedCmd(ctx context.Context, s Syncer) tea.Cmd {
	return func() tea.Msg {
		if s != nil {
			s.OnFocusRegained(ctx)
		}
		return nil
	}
}
