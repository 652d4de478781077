package paks_test

import (
	"testing"

	"dmm/internal/paks"

	"github.com/stretchr/testify/assert"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		filename string
		want     int
		ok       bool
	}{
		{"pak01_dir.vpk", 1, true},
		{"pak99_dir.vpk", 99, true},
		{"pak05_cool_skin_dir.vpk", 5, true},
		{"PAK07_loud_dir.vpk", 7, true},
		{"pak5_dir.vpk", 0, false},   // single digit is not a slot prefix
		{"pak123_dir.vpk", 0, false}, // three digits
		{"cool_skin.vpk", 0, false},
		{"repack01_dir.vpk", 0, false}, // prefix must be leading
	}

	for _, tt := range tests {
		got, ok := paks.ParsePriority(tt.filename)
		assert.Equal(t, tt.ok, ok, tt.filename)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.filename)
		}
	}
}

func TestPriority_Default(t *testing.T) {
	assert.Equal(t, paks.DefaultPriority, paks.Priority("cool_skin.vpk"))
	assert.Equal(t, 12, paks.Priority("pak12_cool_skin.vpk"))
}

func TestWithPriority(t *testing.T) {
	assert.Equal(t, "pak07_cool_skin_dir.vpk", paks.WithPriority("pak05_cool_skin_dir.vpk", 7))
	assert.Equal(t, "pak03_cool_skin.vpk", paks.WithPriority("cool_skin.vpk", 3))
	// Out-of-range values are clamped to the two-digit encoding.
	assert.Equal(t, "pak99_dir.vpk", paks.WithPriority("pak10_dir.vpk", 150))
}

func TestModID_StableAndFilenameOnly(t *testing.T) {
	a := paks.ModID("pak05_cool_skin_dir.vpk")
	b := paks.ModID("pak05_cool_skin_dir.vpk")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)

	// Same filename in a different directory keeps the same id.
	assert.Equal(t, a, paks.ModID("/some/where/else/pak05_cool_skin_dir.vpk"))

	// A rename changes the id.
	assert.NotEqual(t, a, paks.ModID("pak06_cool_skin_dir.vpk"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "pak05_cool", paks.BaseName("pak05_cool_dir.vpk"))
	assert.Equal(t, "pak05_cool", paks.BaseName("pak05_cool.vpk"))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"pak05_cool_skin_dir.vpk", "Cool Skin"},
		{"pak05_cool-skin.vpk", "Cool Skin"},
		{"neon_crosshair.vpk", "Neon Crosshair"},
		{"pak05_dir.vpk", "Pak05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, paks.DisplayName(tt.filename), tt.filename)
	}
}

func TestIsVPK(t *testing.T) {
	assert.True(t, paks.IsVPK("pak01_dir.vpk"))
	assert.True(t, paks.IsVPK("loose.VPK"))
	assert.False(t, paks.IsVPK("archive.zip"))

	assert.True(t, paks.IsDirVPK("pak01_dir.vpk"))
	assert.False(t, paks.IsDirVPK("pak01_000.vpk"))
}
