package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmm/internal/domain"
)

func makeInstall(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "game", "citadel"), 0o755))
	return root
}

func TestResolveRootUsesFlag(t *testing.T) {
	root := makeInstall(t)
	gamePath = root
	t.Cleanup(func() { gamePath = "" })

	got, err := resolveRoot()
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestResolveRootRejectsInvalidFlag(t *testing.T) {
	gamePath = t.TempDir() // no game/citadel inside
	t.Cleanup(func() { gamePath = "" })

	_, err := resolveRoot()
	assert.Error(t, err)
}

func TestResolveRootFailsWithoutInstall(t *testing.T) {
	gamePath = ""
	configDir = t.TempDir()
	t.Cleanup(func() { configDir = "" })
	t.Setenv("HOME", t.TempDir())

	_, err := resolveRoot()
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactlyten", truncate("exactlyten", 10))
	assert.Equal(t, "way too l…", truncate("way too long name", 10))
}

func TestColorRespectsNoColorEnv(t *testing.T) {
	noColor = false
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "hi", colorGreen("hi"))

	t.Setenv("NO_COLOR", "")
	assert.Contains(t, colorGreen("hi"), "hi")
	assert.Contains(t, colorGreen("hi"), ansiGreen)
}

func TestColorRespectsFlag(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	noColor = true
	t.Cleanup(func() { noColor = false })
	assert.Equal(t, "hi", colorRed("hi"))
}
