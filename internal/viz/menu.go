package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ChoiceKind int

const (
	ChoiceNew ChoiceKind = iota
	ChoiceReplay
)

// MenuItem is one entry of the start menu: a preset to run or a saved run
// to replay.
type MenuItem struct {
	Kind ChoiceKind
	Name string
	Desc string
}

// Menu is the start screen chooser.
type Menu struct {
	items  []MenuItem
	cursor int
	chosen bool
}

func NewMenu(items []MenuItem) Menu {
	return Menu{items: items}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.items) > 0 {
			m.chosen = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// Choice returns the selected item, if the user picked one.
func (m Menu) Choice() (MenuItem, bool) {
	if !m.chosen {
		return MenuItem{}, false
	}
	return m.items[m.cursor], true
}

func (m Menu) View() string {
	var (
		h      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
		sub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
		arrow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
		active = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
		desc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
		idle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
		key    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	)

	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("GALAXYSIM", CurrentTheme.Primary, CurrentTheme.Accent) + "\n    " + sub.Render("colliding disc galaxies") + "\n    " + sub.Render("─────────────────────────") + "\n")

	section := ChoiceKind(-1)
	for i, item := range m.items {
		if item.Kind != section {
			section = item.Kind
			title := "NEW RUN"
			if section == ChoiceReplay {
				title = "REPLAY"
			}
			b.WriteString("\n    " + h.Render(title) + "\n")
		}
		d := item.Desc
		if len(d) > 40 {
			d = d[:37] + "..."
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", arrow.Render("▸"), active.Render(fmt.Sprintf("%-20s", item.Name)), desc.Render(d)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idle.Render(fmt.Sprintf("  %-20s", item.Name)), idle.Render(d)))
		}
	}
	if len(m.items) == 0 {
		b.WriteString("\n    " + sub.Render("nothing to show") + "\n")
	}

	b.WriteString("\n    " + key.Render("j/k") + idle.Render(" navigate  ") + key.Render("enter") + idle.Render(" select  ") + key.Render("q") + idle.Render(" quit") + "\n")
	return b.String()
}

// RunMenu shows the start menu and returns the user's choice.
func RunMenu(items []MenuItem) (MenuItem, bool, error) {
	final, err := tea.NewProgram(NewMenu(items), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuItem{}, false, err
	}
	item, ok := final.(Menu).Choice()
	return item, ok, nil
}
