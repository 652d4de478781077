package mods

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dmm/internal/domain"
	"dmm/internal/game"
	"dmm/internal/paks"
)

// Enable moves a mod from .disabled into the addons directory. Enabling
// an already-enabled mod is a no-op success.
func Enable(root, modID string) (*domain.Mod, error) {
	return move(root, modID, true)
}

// Disable moves a mod from the addons directory into .disabled.
func Disable(root, modID string) (*domain.Mod, error) {
	return move(root, modID, false)
}

func move(root, modID string, enable bool) (*domain.Mod, error) {
	fsMu.Lock()
	defer fsMu.Unlock()

	m, err := FindByID(root, modID)
	if err != nil {
		return nil, err
	}
	if m.Enabled == enable {
		return m, nil
	}

	var destDir string
	if enable {
		destDir, err = game.AddonsPath(root)
	} else {
		destDir, err = game.DisabledPath(root)
	}
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(destDir, m.FileName)
	if err := os.Rename(m.Path, dest); err != nil {
		return nil, fmt.Errorf("moving %s: %w", m.FileName, err)
	}

	updated := *m
	updated.Enabled = enable
	updated.Path = dest
	return &updated, nil
}

// Delete removes a mod's file along with sibling archive parts sharing
// its base name (pakNN_000.vpk and friends next to pakNN_dir.vpk).
func Delete(root, modID string) (*domain.Mod, error) {
	fsMu.Lock()
	defer fsMu.Unlock()

	m, err := FindByID(root, modID)
	if err != nil {
		return nil, err
	}

	if err := os.Remove(m.Path); err != nil {
		return nil, fmt.Errorf("deleting %s: %w", m.FileName, err)
	}

	base := paks.BaseName(m.FileName)
	dir := filepath.Dir(m.Path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return m, nil // the dir disappeared; the primary file is gone
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || name == m.FileName {
			continue
		}
		if isSiblingPart(name, base) && paks.IsVPK(name) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
	return m, nil
}

// isSiblingPart matches names sharing the base followed by a separator,
// so deleting pak05_big leaves pak05_bigger alone.
func isSiblingPart(name, base string) bool {
	rest := strings.TrimPrefix(name, base)
	if rest == name {
		return false
	}
	return strings.HasPrefix(rest, "_") || strings.HasPrefix(rest, ".")
}

// RemoveLeftoverArchives deletes container archives (zip/7z/rar) left in
// either mod directory by interrupted downloads. Returns how many files
// were removed.
func RemoveLeftoverArchives(root string) (int, error) {
	addons, err := game.AddonsPath(root)
	if err != nil {
		return 0, err
	}
	disabled, err := game.DisabledPath(root)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, dir := range []string{addons, disabled} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".zip", ".7z", ".rar":
				if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
					removed++
				}
			}
		}
	}
	return removed, nil
}
