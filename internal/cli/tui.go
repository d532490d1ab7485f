package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// VariationListModel - Interactive variation selection
// =============================================================================

// VariationListModel is the bubbletea model for interactive variation selection.
type VariationListModel struct {
	Variations []collage.Variation
	Cursor     int
	Selected   *collage.Variation
}

// NewVariationListModel creates a new variation list model.
func NewVariationListModel(variations []collage.Variation) VariationListModel {
	return VariationListModel{Variations: variations}
}

func (m VariationListModel) Init() tea.Cmd {
	return nil
}

func (m VariationListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Variations)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Variations) == 0 {
				return m, tea.Quit
			}
			v := m.Variations[m.Cursor]
			m.Selected = &v
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m VariationListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Variation"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, v := range m.Variations {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%-10s", cursor, v)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("  ")
		b.WriteString(listDimStyle.Render(v.Description()))
		b.WriteString("\n")
	}

	return b.String()
}
