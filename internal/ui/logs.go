package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/copylist/internal/logtail"
)

// logTailLines bounds how much of the client log the view holds.
const logTailLines = 500

type logLinesMsg struct {
	lines []string
	err   error
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, logTailLines)
		if err != nil {
			return logLinesMsg{err: err}
		}
		for i, line := range lines {
			lines[i] = logtail.Humanize(line)
		}
		return logLinesMsg{lines: lines}
	}
}

func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(maxInt(m.width, 1), m.listHeight())
}

// updateLogViewport resizes the viewport and re-renders its content,
// staying pinned to the bottom when it already was.
func (m *Model) updateLogViewport() {
	if m.logViewport.Width == 0 {
		m.initLogViewport()
	}
	atBottom := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
	m.logViewport.Width = maxInt(m.width, 1)
	m.logViewport.Height = m.listHeight()
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Panel))
	m.logViewport.SetContent(m.renderLogContent())
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	if msg.err != nil {
		m.setStatus("read log: "+msg.err.Error(), statusError)
		return
	}
	m.logLines = msg.lines
	m.updateLogViewport()
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if len(m.logLines) == 0 {
		return styles.LogDebug.Render("No log entries in " + m.logPath)
	}
	out := make([]string, len(m.logLines))
	for i, line := range m.logLines {
		out[i] = m.levelStyle(line, styles).Render(truncate(line, maxInt(m.width-1, 10)))
	}
	return strings.Join(out, "\n")
}

// levelStyle colors a humanized line by the level token after its timestamp.
func (m Model) levelStyle(line string, styles Styles) lipgloss.Style {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return styles.LogText
	}
	switch fields[1] {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.LogError
	case "WARN":
		return styles.LogWarn
	case "DEBUG":
		return styles.LogDebug
	default:
		return styles.LogText
	}
}

func (m Model) renderLogs() string {
	return m.logViewport.View()
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, loadLogsCmd(m.logPath)
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
	}
	return m, nil
}
