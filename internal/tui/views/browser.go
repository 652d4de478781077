package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dmm/internal/source/gamebanana"
)

// SearchMsg asks the app to run a catalog search.
type SearchMsg struct {
	Query string
	Page  int
}

// BrowseResultsMsg delivers one page of catalog results.
type BrowseResultsMsg struct {
	Page  *gamebanana.ModsPage
	Query string
}

// BrowseErrorMsg indicates a catalog request failed.
type BrowseErrorMsg struct {
	Err error
}

// DownloadRequestMsg asks the app to download the selected mod.
type DownloadRequestMsg struct {
	Mod gamebanana.Mod
}

// Browser is the GameBanana catalog view.
type Browser struct {
	searchInput   textinput.Model
	searchFocused bool
	results       []gamebanana.Mod
	query         string
	page          int
	totalCount    int64
	selected      int
	loading       bool
	showNSFW      bool
	err           error
	width         int
	height        int
}

// NewBrowser creates the catalog view. When showNSFW is false,
// adult-flagged listings are hidden.
func NewBrowser(showNSFW bool) Browser {
	input := textinput.New()
	input.Placeholder = "Search GameBanana..."
	input.CharLimit = 100
	input.Width = 40

	return Browser{
		searchInput: input,
		page:        1,
		showNSFW:    showNSFW,
		width:       80,
		height:      24,
	}
}

// Searching reports whether the search box currently has focus.
func (m Browser) Searching() bool {
	return m.searchFocused
}

// Selected returns the currently selected result index.
func (m Browser) Selected() int {
	return m.selected
}

// ResultCount returns the number of visible results.
func (m Browser) ResultCount() int {
	return len(m.results)
}

// SelectedMod returns the currently selected result, or nil.
func (m Browser) SelectedMod() *gamebanana.Mod {
	if len(m.results) == 0 || m.selected >= len(m.results) {
		return nil
	}
	return &m.results[m.selected]
}

// Init implements tea.Model.
func (m Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case BrowseResultsMsg:
		m.loading = false
		m.err = nil
		m.query = msg.Query
		m.totalCount = msg.Page.TotalCount
		m.results = m.results[:0]
		for _, mod := range msg.Page.Records {
			if mod.NSFW && !m.showNSFW {
				continue
			}
			m.results = append(m.results, mod)
		}
		m.selected = 0
		return m, nil

	case BrowseErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m Browser) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchFocused {
		switch msg.Type {
		case tea.KeyEnter:
			m.searchFocused = false
			m.searchInput.Blur()
			m.loading = true
			m.page = 1
			query := m.searchInput.Value()
			return m, func() tea.Msg { return SearchMsg{Query: query, Page: 1} }
		case tea.KeyEsc:
			m.searchFocused = false
			m.searchInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "/":
		m.searchFocused = true
		return m, m.searchInput.Focus()

	case "up", "k":
		if len(m.results) > 0 {
			m.selected--
			if m.selected < 0 {
				m.selected = len(m.results) - 1
			}
		}
		return m, nil

	case "down", "j":
		if len(m.results) > 0 {
			m.selected++
			if m.selected >= len(m.results) {
				m.selected = 0
			}
		}
		return m, nil

	case "n": // next page
		m.loading = true
		m.page++
		page, query := m.page, m.query
		return m, func() tea.Msg { return SearchMsg{Query: query, Page: page} }

	case "p": // previous page
		if m.page > 1 {
			m.loading = true
			m.page--
			page, query := m.page, m.query
			return m, func() tea.Msg { return SearchMsg{Query: query, Page: page} }
		}
		return m, nil

	case "enter":
		if mod := m.SelectedMod(); mod != nil {
			sel := *mod
			return m, func() tea.Msg { return DownloadRequestMsg{Mod: sel} }
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Browser) View() string {
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

	errStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	output := titleStyle.Render("Browse GameBanana") + "\n"
	output += m.searchInput.View() + "\n\n"

	switch {
	case m.err != nil:
		output += errStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	case m.loading:
		output += infoStyle.Render("Loading...") + "\n"
	case len(m.results) == 0:
		output += itemStyle.Render("No results. Press / to search.") + "\n"
	default:
		output += infoStyle.Render(fmt.Sprintf("Page %d (%d total):", m.page, m.totalCount)) + "\n\n"
		for i, mod := range m.results {
			cursor := "  "
			style := itemStyle
			if i == m.selected {
				cursor = "▸ "
				style = selectedStyle
			}
			line := fmt.Sprintf("%s%s", cursor, mod.Name)
			if mod.Category != "" {
				line += infoStyle.Render(" · " + mod.Category)
			}
			if mod.Submitter != "" {
				line += infoStyle.Render(" by " + mod.Submitter)
			}
			output += style.Render(line) + "\n"
		}
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	output += helpStyle.Render("/: search  enter: download  n/p: page")

	return output
}
