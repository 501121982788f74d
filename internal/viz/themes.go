package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI. Bottom and Top color the two
// galaxies; Overlap colors cells where both are present.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Bottom  lipgloss.Color
	Top     lipgloss.Color
	Overlap lipgloss.Color
}

var (
	ThemeNebula = Theme{
		Name:    "nebula",
		Primary: lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Muted:   lipgloss.Color("#666688"),
		Bottom:  lipgloss.Color("#66ccff"),
		Top:     lipgloss.Color("#ffaa33"),
		Overlap: lipgloss.Color("#ffffff"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Muted:   lipgloss.Color("#005500"),
		Bottom:  lipgloss.Color("#00cc00"),
		Top:     lipgloss.Color("#ccff66"),
		Overlap: lipgloss.Color("#ffffff"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#ff6b6b"),
		Accent:  lipgloss.Color("#feca57"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Bottom:  lipgloss.Color("#ff9ff3"),
		Top:     lipgloss.Color("#feca57"),
		Overlap: lipgloss.Color("#fff5f5"),
	}

	CurrentTheme = ThemeNebula

	Themes = []Theme{
		ThemeNebula,
		ThemeRetroGreen,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNebula
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) galaxyStyles() ([]lipgloss.Style, lipgloss.Style) {
	return []lipgloss.Style{
		lipgloss.NewStyle().Foreground(t.Bottom),
		lipgloss.NewStyle().Foreground(t.Top),
	}, lipgloss.NewStyle().Foreground(t.Overlap).Bold(true)
}
