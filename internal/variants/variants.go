// Package variants handles multi-variant cosmetic packs. The known
// instance is the "Midnight Mina" pack: dozens of mutually exclusive
// clothing-preset VPKs next to a shared texture archive, of which
// exactly one preset should be active at a time. The matching rules are
// fuzzy by nature and centralized here so nothing else in the codebase
// re-derives them.
package variants

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dmm/internal/domain"
	"dmm/internal/game"
	"dmm/internal/storage/metadata"
)

// IsVariantPack reports whether a mod name identifies the multi-variant
// cosmetic pack.
func IsVariantPack(modName string) bool {
	lower := strings.ToLower(modName)
	return strings.Contains(lower, "midnight mina")
}

// IsTexture matches the pack's shared texture archive.
func IsTexture(fileName string) bool {
	lower := strings.ToLower(fileName)
	if !strings.HasSuffix(lower, ".vpk") || !strings.Contains(lower, "textures") {
		return false
	}
	return strings.Contains(lower, "mina") ||
		strings.Contains(lower, "midnight") ||
		lower == "textures-pak21_dir.vpk"
}

// IsPreset matches one of the pack's clothing-preset archives.
func IsPreset(fileName string) bool {
	lower := strings.ToLower(fileName)
	if !strings.HasSuffix(lower, ".vpk") || IsTexture(fileName) {
		return false
	}
	return strings.HasPrefix(lower, "clothing_preset_") ||
		strings.HasPrefix(lower, "sts_midnight_mina_")
}

// Select reduces a multi-variant pack's extracted file names to the
// shared texture archive plus the alphabetically first preset. The
// second return lists the discarded names.
func Select(fileNames []string) (keep, discard []string) {
	var textures, presets, rest []string
	for _, name := range fileNames {
		switch {
		case IsTexture(name):
			textures = append(textures, name)
		case IsPreset(name):
			presets = append(presets, name)
		default:
			rest = append(rest, name)
		}
	}
	sort.Strings(textures)
	sort.Strings(presets)

	if len(textures) > 0 {
		keep = append(keep, textures[0])
		discard = append(discard, textures[1:]...)
	}
	if len(presets) > 0 {
		keep = append(keep, presets[0])
		discard = append(discard, presets[1:]...)
	}
	discard = append(discard, rest...)
	return keep, discard
}

// Entry is one variant file found in the addons tree.
type Entry struct {
	FileName string
	Enabled  bool
}

// Inventory lists the variant files currently installed, sorted by
// filename within each group.
type Inventory struct {
	Presets  []Entry
	Textures []Entry
}

// ActivePreset returns the enabled preset's filename, or "" when none
// is active.
func (inv Inventory) ActivePreset() string {
	for _, p := range inv.Presets {
		if p.Enabled {
			return p.FileName
		}
	}
	return ""
}

// Installed scans both mod directories for the pack's preset and
// texture files. Files whose stored metadata carries the variant-preset
// marker count as presets even after a slot rename hides the name
// prefix.
func Installed(root string, store *metadata.Store) (Inventory, error) {
	addons, err := game.AddonsPath(root)
	if err != nil {
		return Inventory{}, err
	}
	disabled, err := game.DisabledPath(root)
	if err != nil {
		return Inventory{}, err
	}

	flagged := make(map[string]bool)
	if store != nil {
		names, err := store.VariantPresetFiles()
		if err != nil {
			return Inventory{}, err
		}
		for _, name := range names {
			flagged[name] = true
		}
	}

	var inv Inventory
	collect := func(dir string, enabled bool) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("reading %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			switch {
			case IsPreset(name) || (flagged[name] && strings.HasSuffix(strings.ToLower(name), ".vpk")):
				inv.Presets = append(inv.Presets, Entry{FileName: name, Enabled: enabled})
			case IsTexture(name):
				inv.Textures = append(inv.Textures, Entry{FileName: name, Enabled: enabled})
			}
		}
		return nil
	}
	if err := collect(addons, true); err != nil {
		return Inventory{}, err
	}
	if err := collect(disabled, false); err != nil {
		return Inventory{}, err
	}

	sort.Slice(inv.Presets, func(i, j int) bool { return inv.Presets[i].FileName < inv.Presets[j].FileName })
	sort.Slice(inv.Textures, func(i, j int) bool { return inv.Textures[i].FileName < inv.Textures[j].FileName })
	return inv, nil
}

// SetPreset makes one installed clothing preset the active variant: the
// chosen preset moves into addons, every other preset moves out, and
// the shared texture archives are enabled alongside it.
func SetPreset(root string, store *metadata.Store, presetFileName string) error {
	inv, err := Installed(root, store)
	if err != nil {
		return err
	}

	found := false
	for _, p := range inv.Presets {
		if p.FileName == presetFileName {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: preset %s", domain.ErrModNotFound, presetFileName)
	}

	addons, err := game.AddonsPath(root)
	if err != nil {
		return err
	}
	disabled, err := game.DisabledPath(root)
	if err != nil {
		return err
	}

	for _, p := range inv.Presets {
		switch {
		case p.FileName == presetFileName && !p.Enabled:
			if err := os.Rename(filepath.Join(disabled, p.FileName), filepath.Join(addons, p.FileName)); err != nil {
				return fmt.Errorf("enabling preset %s: %w", p.FileName, err)
			}
		case p.FileName != presetFileName && p.Enabled:
			if err := os.Rename(filepath.Join(addons, p.FileName), filepath.Join(disabled, p.FileName)); err != nil {
				return fmt.Errorf("parking preset %s: %w", p.FileName, err)
			}
		}
	}

	for _, t := range inv.Textures {
		if t.Enabled {
			continue
		}
		if err := os.Rename(filepath.Join(disabled, t.FileName), filepath.Join(addons, t.FileName)); err != nil {
			return fmt.Errorf("enabling texture %s: %w", t.FileName, err)
		}
	}
	return nil
}
