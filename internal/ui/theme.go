package ui

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a theme is built from.
type Palette struct {
	Base  string // behind modals
	Bar   string // header and footer
	Panel string // log view

	Cursor   string
	CursorFg string

	Fg    string
	Dim   string
	Faint string

	Accent string
	Ok     string
	Warn   string
	Err    string
	Info   string
}

// Theme is a named palette.
type Theme struct {
	Name string
	Palette
}

// Styles are the lipgloss styles each view renders with.
type Styles struct {
	// Header and footer
	Bar        lipgloss.Style
	Logo       lipgloss.Style
	BarLabel   lipgloss.Style
	BarValue   lipgloss.Style
	BarFaint   lipgloss.Style
	Live       lipgloss.Style
	Offline    lipgloss.Style
	Connecting lipgloss.Style
	Footer     lipgloss.Style

	// Copy list rows
	Path        lipgloss.Style
	Cursor      lipgloss.Style
	Placeholder lipgloss.Style

	StatusInfo  lipgloss.Style
	StatusError lipgloss.Style

	// Overlays
	Title   lipgloss.Style
	Section lipgloss.Style
	Rule    lipgloss.Style
	Key     lipgloss.Style
	Desc    lipgloss.Style
	Warning lipgloss.Style
	Hint    lipgloss.Style

	// Log view
	LogText  lipgloss.Style
	LogDebug lipgloss.Style
	LogWarn  lipgloss.Style
	LogError lipgloss.Style
}

// Styles derives the view styles from the palette.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	onBar := func(c string) lipgloss.Style { return fg(c).Background(lipgloss.Color(t.Bar)) }
	onPanel := func(c string) lipgloss.Style { return fg(c).Background(lipgloss.Color(t.Panel)) }

	return Styles{
		Bar:        onBar(t.Fg).Padding(0, 1),
		Logo:       onBar(t.Warn).Bold(true),
		BarLabel:   onBar(t.Dim),
		BarValue:   onBar(t.Fg),
		BarFaint:   onBar(t.Faint),
		Live:       onBar(t.Ok).Bold(true),
		Offline:    onBar(t.Warn),
		Connecting: onBar(t.Warn).Bold(true),
		Footer:     onBar(t.Dim).Padding(0, 1),

		Path:        fg(t.Fg),
		Cursor:      fg(t.CursorFg).Background(lipgloss.Color(t.Cursor)),
		Placeholder: fg(t.Faint).Italic(true),

		StatusInfo:  fg(t.Info),
		StatusError: fg(t.Err).Bold(true),

		Title:   fg(t.Fg).Bold(true),
		Section: fg(t.Accent).Bold(true),
		Rule:    fg(t.Faint),
		Key:     fg(t.Warn).Width(12),
		Desc:    fg(t.Fg),
		Warning: fg(t.Err).Bold(true),
		Hint:    fg(t.Dim),

		LogText:  onPanel(t.Fg),
		LogDebug: onPanel(t.Faint),
		LogWarn:  onPanel(t.Warn),
		LogError: onPanel(t.Err).Bold(true),
	}
}

var themes = []Theme{
	// https://github.com/EdenEast/nightfox.nvim
	{Name: "Nightfox", Palette: Palette{
		Base: "#131a24", Bar: "#192330", Panel: "#29394f",
		Cursor: "#2b3b51", CursorFg: "#cdcecf",
		Fg: "#cdcecf", Dim: "#738091", Faint: "#71839b",
		Accent: "#719cd6", Ok: "#81b29a", Warn: "#dbc074", Err: "#c94f6d", Info: "#63cdcf",
	}},
	// https://github.com/rebelot/kanagawa.nvim
	{Name: "Kanagawa", Palette: Palette{
		Base: "#16161D", Bar: "#1F1F28", Panel: "#2A2A37",
		Cursor: "#2D4F67", CursorFg: "#DCD7BA",
		Fg: "#DCD7BA", Dim: "#C8C093", Faint: "#727169",
		Accent: "#7E9CD8", Ok: "#98BB6C", Warn: "#E6C384", Err: "#E46876", Info: "#7FB4CA",
	}},
	// Tailwind slate/sky
	{Name: "Slate", Palette: Palette{
		Base: "#020617", Bar: "#0f172a", Panel: "#1e293b",
		Cursor: "#0284c7", CursorFg: "#f8fafc",
		Fg: "#f1f5f9", Dim: "#94a3b8", Faint: "#64748b",
		Accent: "#38bdf8", Ok: "#22c55e", Warn: "#f59e0b", Err: "#ef4444", Info: "#06b6d4",
	}},
}

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, t := range themes {
		if t.Name == current {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
