package views_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmm/internal/source/gamebanana"
	"dmm/internal/tui/views"
)

func resultsPage(mods ...gamebanana.Mod) *gamebanana.ModsPage {
	return &gamebanana.ModsPage{Records: mods, TotalCount: int64(len(mods))}
}

func TestBrowserInitialState(t *testing.T) {
	model := views.NewBrowser(false)
	assert.Equal(t, 0, model.ResultCount())
	assert.False(t, model.Searching())
	assert.Contains(t, model.View(), "No results")
}

func TestBrowserSearchFlow(t *testing.T) {
	model := views.NewBrowser(false)

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	b := next.(views.Browser)
	assert.True(t, b.Searching())

	for _, r := range "abrams" {
		next, _ = b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		b = next.(views.Browser)
	}

	next, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	b = next.(views.Browser)
	assert.False(t, b.Searching())
	require.NotNil(t, cmd)

	msg, ok := cmd().(views.SearchMsg)
	require.True(t, ok)
	assert.Equal(t, "abrams", msg.Query)
	assert.Equal(t, 1, msg.Page)
}

func TestBrowserResultsHideNSFWByDefault(t *testing.T) {
	model := views.NewBrowser(false)

	next, _ := model.Update(views.BrowseResultsMsg{
		Page: resultsPage(
			gamebanana.Mod{ID: 1, Name: "Safe Skin"},
			gamebanana.Mod{ID: 2, Name: "Hidden Skin", NSFW: true},
		),
	})
	b := next.(views.Browser)

	assert.Equal(t, 1, b.ResultCount())
	assert.Contains(t, b.View(), "Safe Skin")
	assert.NotContains(t, b.View(), "Hidden Skin")
}

func TestBrowserResultsShowNSFWWhenEnabled(t *testing.T) {
	model := views.NewBrowser(true)

	next, _ := model.Update(views.BrowseResultsMsg{
		Page: resultsPage(gamebanana.Mod{ID: 2, Name: "Hidden Skin", NSFW: true}),
	})
	b := next.(views.Browser)
	assert.Equal(t, 1, b.ResultCount())
}

func TestBrowserEnterRequestsDownload(t *testing.T) {
	model := views.NewBrowser(false)
	next, _ := model.Update(views.BrowseResultsMsg{
		Page: resultsPage(gamebanana.Mod{ID: 612345, Name: "Crimson Abrams"}),
	})
	b := next.(views.Browser)

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(views.DownloadRequestMsg)
	require.True(t, ok)
	assert.Equal(t, int64(612345), msg.Mod.ID)
}

func TestBrowserErrorShown(t *testing.T) {
	model := views.NewBrowser(false)
	next, _ := model.Update(views.BrowseErrorMsg{Err: assert.AnError})
	assert.Contains(t, next.(views.Browser).View(), "Error:")
}
