package views_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmm/internal/domain"
	"dmm/internal/tui/views"
)

func sampleMods() []domain.Mod {
	return []domain.Mod{
		{ID: "aaa", Name: "Crimson Abrams", FileName: "pak01_crimson_abrams_dir.vpk", Priority: 1, Enabled: true, InstalledAt: time.Now()},
		{ID: "bbb", Name: "Neon Haze", FileName: "pak02_neon_haze_dir.vpk", Priority: 2, Enabled: false, InstalledAt: time.Now()},
	}
}

func TestInstalledInitialState(t *testing.T) {
	model := views.NewInstalled(nil, nil)
	assert.Equal(t, 0, model.Selected())
	assert.Contains(t, model.View(), "No mods installed")
}

func TestInstalledRendersModsAndConflicts(t *testing.T) {
	conflicts := []domain.Conflict{
		{ModA: "aaa", ModB: "bbb", Kind: domain.ConflictSlot, Detail: "both occupy pak slot 1"},
	}
	model := views.NewInstalled(sampleMods(), conflicts)

	assert.Equal(t, 2, model.ModCount())
	view := model.View()
	assert.Contains(t, view, "Crimson Abrams")
	assert.Contains(t, view, "Neon Haze")
	assert.Contains(t, view, "⚠ 1")
	assert.Contains(t, view, "both occupy pak slot 1")
}

func TestInstalledNavigateWraps(t *testing.T) {
	model := views.NewInstalled(sampleMods(), nil)

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, next.(views.Installed).Selected())

	wrapped, _ := next.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, wrapped.(views.Installed).Selected())
}

func TestInstalledToggleEmitsMsg(t *testing.T) {
	model := views.NewInstalled(sampleMods(), nil)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, cmd)

	msg, ok := cmd().(views.ToggleModMsg)
	require.True(t, ok)
	assert.Equal(t, "aaa", msg.Mod.ID)
}

func TestInstalledDeleteEmitsMsg(t *testing.T) {
	model := views.NewInstalled(sampleMods(), nil)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.NotNil(t, cmd)

	msg, ok := cmd().(views.DeleteModMsg)
	require.True(t, ok)
	assert.Equal(t, "aaa", msg.Mod.ID)
}

func TestInstalledAdjustPriorityEmitsMsg(t *testing.T) {
	model := views.NewInstalled(sampleMods(), nil)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'J'}})
	require.NotNil(t, cmd)

	msg, ok := cmd().(views.AdjustPriorityMsg)
	require.True(t, ok)
	assert.Equal(t, "aaa", msg.Mod.ID)
	assert.Equal(t, 1, msg.Delta)

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'K'}})
	require.NotNil(t, cmd)
	raise := cmd().(views.AdjustPriorityMsg)
	assert.Equal(t, -1, raise.Delta)
}

func TestInstalledEmptyListIgnoresKeys(t *testing.T) {
	model := views.NewInstalled(nil, nil)
	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, next.(views.Installed).Selected())
}
