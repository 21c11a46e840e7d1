package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"runbox/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color("205")) // Pinkish

	unselectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(4).
				Foreground(lipgloss.Color("240")) // Grey

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	frameStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

// defaultLabel is shown when there is no completion message.
const defaultLabel = "Run:"

func (m AppModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("runbox"))
	b.WriteString("  ")
	switch {
	case m.Status != "":
		b.WriteString(statusStyle.Render(m.Status))
	case !m.Ready:
		b.WriteString(dimStyle.Render(defaultLabel + " " + model.IconLoading))
	default:
		b.WriteString(defaultLabel)
	}
	b.WriteString("\n")

	b.WriteString(m.Input.View())
	if m.sel.active() {
		runes := []rune(m.Input.Value())
		if m.sel.end <= len(runes) {
			b.WriteString(dimStyle.Render("  [" + strings.TrimSpace(string(runes[m.sel.start:m.sel.end])) + "]"))
		}
	}
	b.WriteString("\n")

	for i, s := range m.Suggestions {
		if i == 0 {
			b.WriteString(selectedItemStyle.Render("› " + s))
		} else {
			b.WriteString(unselectedItemStyle.Render(s))
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("tab complete • enter run • esc quit"))

	return frameStyle.Render(b.String()) + "\n"
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, WaitCatalogCmd(m.catalog))
}
