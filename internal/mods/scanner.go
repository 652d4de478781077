// Package mods reads and mutates the two on-disk mod collections: the
// addons directory (enabled) and its .disabled sibling. All state lives
// in filenames; scanning the filesystem is the only way mods come into
// existence here.
package mods

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"dmm/internal/domain"
	"dmm/internal/game"
	"dmm/internal/paks"
)

// Scan lists every installed VPK under root's addons and .disabled
// directories, sorted ascending by priority. Identical filename sets
// always produce identical ids and ordering.
func Scan(root string) ([]domain.Mod, error) {
	addons, err := game.AddonsPath(root)
	if err != nil {
		return nil, err
	}
	disabled, err := game.DisabledPath(root)
	if err != nil {
		return nil, err
	}

	enabled, err := scanDir(addons, true)
	if err != nil {
		return nil, err
	}
	rest, err := scanDir(disabled, false)
	if err != nil {
		return nil, err
	}

	all := append(enabled, rest...)
	// ReadDir returns entries in filename order, so a stable sort keeps
	// equal-priority mods deterministically ordered.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Priority < all[j].Priority
	})
	return all, nil
}

func scanDir(dir string, enabled bool) ([]domain.Mod, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var out []domain.Mod
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !paks.IsVPK(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue // raced with a delete
		}

		out = append(out, domain.Mod{
			ID:          paks.ModID(name),
			Name:        paks.DisplayName(name),
			FileName:    name,
			Path:        filepath.Join(dir, name),
			Enabled:     enabled,
			Priority:    paks.Priority(name),
			Size:        info.Size(),
			InstalledAt: info.ModTime(),
		})
	}
	return out, nil
}

// FindByID scans root and returns the mod with the given id.
func FindByID(root, modID string) (*domain.Mod, error) {
	all, err := Scan(root)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == modID {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrModNotFound, modID)
}
