package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dmm/internal/domain"
)

// ToggleModMsg asks the app to enable or disable a mod.
type ToggleModMsg struct {
	Mod domain.Mod
}

// DeleteModMsg asks the app to delete a mod from disk.
type DeleteModMsg struct {
	Mod domain.Mod
}

// AdjustPriorityMsg asks the app to move a mod by Delta pak slots.
type AdjustPriorityMsg struct {
	Mod   domain.Mod
	Delta int
}

// Installed lists the mods found in the addons tree, ordered by pak
// priority, with conflict badges from the detector.
type Installed struct {
	mods      []domain.Mod
	conflicts map[string][]domain.Conflict // keyed by mod id
	selected  int
	width     int
	height    int
}

// NewInstalled creates the installed-mods view.
func NewInstalled(mods []domain.Mod, conflicts []domain.Conflict) Installed {
	byMod := make(map[string][]domain.Conflict)
	for _, c := range conflicts {
		byMod[c.ModA] = append(byMod[c.ModA], c)
		byMod[c.ModB] = append(byMod[c.ModB], c)
	}
	return Installed{
		mods:      mods,
		conflicts: byMod,
		width:     80,
		height:    24,
	}
}

// Selected returns the currently selected index.
func (m Installed) Selected() int {
	return m.selected
}

// ModCount returns the number of listed mods.
func (m Installed) ModCount() int {
	return len(m.mods)
}

// SelectedMod returns the currently selected mod, or nil.
func (m Installed) SelectedMod() *domain.Mod {
	if len(m.mods) == 0 || m.selected >= len(m.mods) {
		return nil
	}
	return &m.mods[m.selected]
}

// Init implements tea.Model.
func (m Installed) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Installed) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Installed) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.mods) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		m.selected--
		if m.selected < 0 {
			m.selected = len(m.mods) - 1
		}
		return m, nil

	case "down", "j":
		m.selected++
		if m.selected >= len(m.mods) {
			m.selected = 0
		}
		return m, nil

	case " ":
		if mod := m.SelectedMod(); mod != nil {
			sel := *mod
			return m, func() tea.Msg { return ToggleModMsg{Mod: sel} }
		}
		return m, nil

	case "d", "delete":
		if mod := m.SelectedMod(); mod != nil {
			sel := *mod
			return m, func() tea.Msg { return DeleteModMsg{Mod: sel} }
		}
		return m, nil

	case "K":
		if mod := m.SelectedMod(); mod != nil {
			sel := *mod
			return m, func() tea.Msg { return AdjustPriorityMsg{Mod: sel, Delta: -1} }
		}
		return m, nil

	case "J":
		if mod := m.SelectedMod(); mod != nil {
			sel := *mod
			return m, func() tea.Msg { return AdjustPriorityMsg{Mod: sel, Delta: 1} }
		}
		return m, nil

	case "home", "g":
		m.selected = 0
		return m, nil

	case "end", "G":
		m.selected = len(m.mods) - 1
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Installed) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("69")).
		MarginBottom(1)

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	itemStyle := lipgloss.NewStyle().
		PaddingLeft(2)

	selectedStyle := lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(lipgloss.Color("205")).
		Bold(true)

	disabledStyle := lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(lipgloss.Color("241"))

	conflictStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	detailStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		PaddingLeft(4)

	output := titleStyle.Render("Installed Mods") + "\n"

	if len(m.mods) == 0 {
		output += itemStyle.Render("No mods installed.") + "\n\n"
		output += infoStyle.Render("Browse GameBanana with [2] or install with 'dmm download'") + "\n"
		return output
	}

	output += infoStyle.Render(fmt.Sprintf("Load Order (%d mods):", len(m.mods))) + "\n\n"

	for i, mod := range m.mods {
		cursor := "  "
		style := itemStyle

		if i == m.selected {
			cursor = "▸ "
			style = selectedStyle
		} else if !mod.Enabled {
			style = disabledStyle
		}

		status := "[✓]"
		if !mod.Enabled {
			status = "[ ]"
		}

		line := fmt.Sprintf("%s%s pak%02d %s", cursor, status, mod.Priority, mod.Name)
		output += style.Render(line)
		if n := len(m.conflicts[mod.ID]); n > 0 {
			output += " " + conflictStyle.Render(fmt.Sprintf("⚠ %d", n))
		}
		output += "\n"

		if i == m.selected {
			output += detailStyle.Render(fmt.Sprintf("File: %s", mod.FileName)) + "\n"
			output += detailStyle.Render(fmt.Sprintf("Installed: %s  Size: %d bytes",
				mod.InstalledAt.Format("2006-01-02"), mod.Size)) + "\n"
			for _, c := range m.conflicts[mod.ID] {
				output += detailStyle.Render(conflictStyle.Render(c.Detail)) + "\n"
			}
			output += "\n"
		}
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	output += helpStyle.Render("↑/↓: navigate  space: toggle  d: delete  K/J: load order")

	return output
}
