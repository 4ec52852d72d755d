package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the stats panel. The grid itself is always drawn in the
// buffer's own colors.
type Theme struct {
	Name    string
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeAbyss = Theme{
		Name:    "abyss",
		Accent:  lipgloss.Color("#00ccff"),
		Text:    lipgloss.Color("#e0e8ff"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Accent:  lipgloss.Color("#00ff00"),
		Text:    lipgloss.Color("#88ff88"),
		Muted:   lipgloss.Color("#007700"),
		Warning: lipgloss.Color("#ccff00"),
		Error:   lipgloss.Color("#ff3300"),
	}

	ThemeEmber = Theme{
		Name:    "ember",
		Accent:  lipgloss.Color("#ff8800"),
		Text:    lipgloss.Color("#ffe0c0"),
		Muted:   lipgloss.Color("#885533"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff0044"),
	}
)

var themes = []Theme{ThemeAbyss, ThemeRetro, ThemeEmber}

// GetTheme returns the named theme, falling back to abyss.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeAbyss
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(t Theme) Theme {
	for i, th := range themes {
		if th.Name == t.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

type styles struct {
	header, label, value, graph, help, running, paused, recording, err lipgloss.Style
}

func stylesFor(t Theme) styles {
	return styles{
		header:    lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		label:     lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:     lipgloss.NewStyle().Foreground(t.Text),
		graph:     lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:      lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running:   lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		paused:    lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		recording: lipgloss.NewStyle().Foreground(t.Error).Bold(true).Blink(true),
		err:       lipgloss.NewStyle().Foreground(t.Error),
	}
}
