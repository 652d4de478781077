package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandStructure(t *testing.T) {
	assert.Equal(t, "list", listCmd.Use)
	assert.NotEmpty(t, listCmd.Short)
	assert.NotEmpty(t, listCmd.Long)

	assert.Equal(t, "enable <mod-id>", enableCmd.Use)
	assert.Equal(t, "disable <mod-id>", disableCmd.Use)
	assert.Equal(t, "delete <mod-id>", deleteCmd.Use)
	assert.NotNil(t, deleteCmd.Flags().Lookup("yes"))

	assert.Equal(t, "priority <mod-id> <slot>", priorityCmd.Use)
	assert.Equal(t, "conflicts", conflictsCmd.Use)
	assert.Equal(t, "cleanup", cleanupCmd.Use)
	assert.Equal(t, "tui", tuiCmd.Use)

	assert.Equal(t, "browse [query]", browseCmd.Use)
	assert.NotNil(t, browseCmd.Flags().Lookup("section"))
	assert.NotNil(t, browseCmd.Flags().Lookup("page"))

	assert.Equal(t, "download <gamebanana-id>", downloadCmd.Use)
	assert.NotNil(t, downloadCmd.Flags().Lookup("file-id"))

	assert.Equal(t, "detect", detectCmd.Use)
	assert.NotNil(t, detectCmd.Flags().Lookup("save"))

	assert.NotNil(t, gameinfoCmd.Commands())
	assert.Len(t, gameinfoCmd.Commands(), 2)

	assert.Equal(t, "variants", variantsCmd.Use)
	assert.Equal(t, "use <preset-file>", variantsUseCmd.Use)
	assert.Len(t, variantsCmd.Commands(), 1)
}

func TestGlobalFlagsRegistered(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("game-path"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("json"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("no-color"))
}
