// Package tui is the interactive terminal front end: an installed-mods
// load-order view and a GameBanana browser, wired to the download queue.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dmm/internal/conflicts"
	"dmm/internal/domain"
	"dmm/internal/download"
	"dmm/internal/mods"
	"dmm/internal/source/gamebanana"
	"dmm/internal/storage/metadata"
	"dmm/internal/tui/views"
)

// ViewType identifies the app's screens.
type ViewType int

const (
	ViewInstalled ViewType = iota
	ViewBrowser
)

// ErrorMsg is sent when an operation fails.
type ErrorMsg struct {
	Err error
}

type modsLoadedMsg struct {
	mods      []domain.Mod
	conflicts []domain.Conflict
}

type downloadEventMsg struct {
	event download.Event
	ok    bool
}

// Deps carries the collaborators the app operates on.
type Deps struct {
	Root     string
	Store    *metadata.Store
	Catalog  *gamebanana.Client
	Queue    *download.Queue
	ShowNSFW bool
}

// App is the root TUI model.
type App struct {
	deps        Deps
	keys        *KeyMap
	currentView ViewType
	installed   tea.Model
	browser     tea.Model
	status      string
	err         error
	width       int
	height      int
}

// NewApp creates the TUI application model.
func NewApp(deps Deps) App {
	return App{
		deps:        deps,
		keys:        NewKeyMap(""),
		currentView: ViewInstalled,
		installed:   views.NewInstalled(nil, nil),
		browser:     views.NewBrowser(deps.ShowNSFW),
		width:       80,
		height:      24,
	}
}

// CurrentView returns the active screen.
func (a App) CurrentView() ViewType {
	return a.currentView
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.loadMods(), a.listenDownloads())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.updateCurrentView(msg)

	case modsLoadedMsg:
		a.err = nil
		a.installed = views.NewInstalled(msg.mods, msg.conflicts)
		return a, nil

	case ErrorMsg:
		a.err = msg.Err
		return a, nil

	case views.ToggleModMsg:
		return a, a.toggleMod(msg.Mod)

	case views.DeleteModMsg:
		return a, a.deleteMod(msg.Mod)

	case views.AdjustPriorityMsg:
		return a, a.adjustPriority(msg.Mod, msg.Delta)

	case views.SearchMsg:
		return a, a.search(msg.Query, msg.Page)

	case views.DownloadRequestMsg:
		return a, a.enqueueDownload(msg.Mod)

	case downloadEventMsg:
		return a.handleDownloadEvent(msg)
	}

	return a.updateCurrentView(msg)
}

func (a App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The browser's search box swallows every key while focused.
	if a.currentView == ViewBrowser {
		if b, ok := a.browser.(views.Browser); ok && b.Searching() {
			return a.updateCurrentView(msg)
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "1":
		a.currentView = ViewInstalled
		return a, a.loadMods()

	case "2":
		a.currentView = ViewBrowser
		return a, nil
	}

	return a.updateCurrentView(msg)
}

func (a App) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.currentView {
	case ViewInstalled:
		a.installed, cmd = a.installed.Update(msg)
	case ViewBrowser:
		a.browser, cmd = a.browser.Update(msg)
	}
	return a, cmd
}

func (a App) handleDownloadEvent(msg downloadEventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		return a, nil
	}
	ev := msg.event
	switch ev.Kind {
	case download.EventProgress:
		a.status = fmt.Sprintf("Downloading %s: %.0f%%", ev.FileName, ev.Progress.Percentage)
	case download.EventExtracting:
		a.status = fmt.Sprintf("Extracting %s...", ev.FileName)
	case download.EventCompleted:
		a.status = fmt.Sprintf("Installed %s", ev.FileName)
		return a, tea.Batch(a.loadMods(), a.listenDownloads())
	case download.EventFailed:
		a.status = ""
		a.err = ev.Err
	}
	return a, a.listenDownloads()
}

// loadMods rescans the addons tree, joins stored metadata, and
// recomputes conflicts.
func (a App) loadMods() tea.Cmd {
	root, store := a.deps.Root, a.deps.Store
	return func() tea.Msg {
		scanned, err := mods.Scan(root)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		if store != nil {
			if all, err := store.GetAll(); err == nil {
				for i := range scanned {
					scanned[i].ApplyMetadata(all[scanned[i].FileName])
				}
			}
		}
		found, err := conflicts.Detect(root)
		if err != nil {
			found = nil
		}
		return modsLoadedMsg{mods: scanned, conflicts: found}
	}
}

func (a App) toggleMod(mod domain.Mod) tea.Cmd {
	root := a.deps.Root
	return func() tea.Msg {
		var err error
		if mod.Enabled {
			_, err = mods.Disable(root, mod.ID)
		} else {
			_, err = mods.Enable(root, mod.ID)
		}
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return a.loadMods()()
	}
}

func (a App) deleteMod(mod domain.Mod) tea.Cmd {
	root, store := a.deps.Root, a.deps.Store
	return func() tea.Msg {
		deleted, err := mods.Delete(root, mod.ID)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		if store != nil {
			_ = store.Delete(deleted.FileName)
		}
		return a.loadMods()()
	}
}

func (a App) adjustPriority(mod domain.Mod, delta int) tea.Cmd {
	root, store := a.deps.Root, a.deps.Store
	return func() tea.Msg {
		target := mod.Priority + delta
		updated, err := mods.SetPriority(root, mod.ID, target)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		if store != nil {
			_ = store.Rename(mod.FileName, updated.FileName)
		}
		return a.loadMods()()
	}
}

func (a App) search(query string, page int) tea.Cmd {
	catalog := a.deps.Catalog
	return func() tea.Msg {
		if catalog == nil {
			return views.BrowseErrorMsg{Err: fmt.Errorf("catalog client not configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := catalog.Browse(ctx, gamebanana.BrowseQuery{
			Page:    page,
			PerPage: 15,
			Search:  query,
		})
		if err != nil {
			return views.BrowseErrorMsg{Err: err}
		}
		return views.BrowseResultsMsg{Page: result, Query: query}
	}
}

// enqueueDownload resolves the catalog entry to its first downloadable
// file and hands it to the queue.
func (a App) enqueueDownload(mod gamebanana.Mod) tea.Cmd {
	catalog, queue := a.deps.Catalog, a.deps.Queue
	return func() tea.Msg {
		if catalog == nil || queue == nil {
			return ErrorMsg{Err: fmt.Errorf("downloads not available")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		details, err := catalog.GetModDetails(ctx, "Mod", mod.ID)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		if len(details.Files) == 0 {
			return ErrorMsg{Err: fmt.Errorf("%s has no downloadable files", details.Name)}
		}
		file := details.Files[0]
		_, err = queue.Enqueue(&download.Task{
			ModName:      details.Name,
			DownloadURL:  file.DownloadURL,
			FileName:     file.FileName,
			Section:      "Mod",
			GameBananaID: details.ID,
			FileID:       file.ID,
			CategoryID:   details.CategoryID,
			Description:  details.Description,
			ThumbnailURL: details.ThumbnailURL,
			NSFW:         mod.NSFW,
		})
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}

// listenDownloads re-arms after every received event.
func (a App) listenDownloads() tea.Cmd {
	queue := a.deps.Queue
	if queue == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-queue.Events()
		return downloadEventMsg{event: ev, ok: ok}
	}
}

// View implements tea.Model.
func (a App) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	activeTabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	header := titleStyle.Render("dmm - Deadlock Mod Manager")

	tabs := []string{"[1]Installed", "[2]Browse"}
	tabBar := ""
	for i, tab := range tabs {
		if ViewType(i) == a.currentView {
			tabBar += activeTabStyle.Render(tab) + "  "
		} else {
			tabBar += tabStyle.Render(tab) + "  "
		}
	}

	var content string
	switch a.currentView {
	case ViewInstalled:
		content = a.installed.View()
	case ViewBrowser:
		content = a.browser.View()
	}

	if a.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		content += "\n" + errStyle.Render(fmt.Sprintf("Error: %v", a.err))
	}

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	footer := a.status
	if footer != "" {
		footer += "  ·  "
	}
	footer = footerStyle.Render(footer + "q: quit  " + a.keys.NavigationHelp())

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", header, tabBar, content, footer)
}

// Run starts the TUI.
func Run(deps Deps) error {
	app := NewApp(deps)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
