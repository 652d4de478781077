package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyMetadata(t *testing.T) {
	m := Mod{Name: "Cool Skin", FileName: "pak05_cool_skin_dir.vpk"}
	m.ApplyMetadata(&Metadata{
		Name:          "Crimson Abrams",
		Description:   "Recolors Abrams.",
		GameBananaID:  612345,
		Section:       "Mod",
		NSFW:          true,
		VariantPreset: true,
	})

	assert.Equal(t, "Crimson Abrams", m.Name)
	assert.Equal(t, "Recolors Abrams.", m.Description)
	assert.Equal(t, int64(612345), m.GameBananaID)
	assert.True(t, m.NSFW)
	assert.True(t, m.VariantPreset)
}

func TestApplyMetadataKeepsScannedNameWhenEmpty(t *testing.T) {
	m := Mod{Name: "Cool Skin"}
	m.ApplyMetadata(&Metadata{Description: "no display name stored"})
	assert.Equal(t, "Cool Skin", m.Name)

	m.ApplyMetadata(nil)
	assert.Equal(t, "Cool Skin", m.Name)
}
