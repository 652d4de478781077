package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmm/internal/game"
)

func TestLoadModsCommand(t *testing.T) {
	root := t.TempDir()
	addons, err := game.AddonsPath(root)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(addons, "pak05_cool_skin_dir.vpk"), []byte("x"), 0o644))

	app := NewApp(Deps{Root: root})
	msg := app.loadMods()()

	loaded, ok := msg.(modsLoadedMsg)
	require.True(t, ok)
	require.Len(t, loaded.mods, 1)
	assert.Equal(t, 5, loaded.mods[0].Priority)
	assert.True(t, loaded.mods[0].Enabled)

	next, _ := app.Update(loaded)
	view := next.(App).View()
	assert.Contains(t, view, "pak05")
	assert.Contains(t, view, "Cool Skin")
}

func TestLoadModsEmptyTree(t *testing.T) {
	root := t.TempDir()
	_, err := game.AddonsPath(root)
	require.NoError(t, err)

	app := NewApp(Deps{Root: root})
	msg := app.loadMods()()

	loaded, ok := msg.(modsLoadedMsg)
	require.True(t, ok)
	assert.Empty(t, loaded.mods)
	assert.Empty(t, loaded.conflicts)
}
