package mods

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dmm/internal/domain"
	"dmm/internal/paks"
)

// fsMu serializes every read-modify-rename sequence in this package.
// The download queue already serializes its own slot assignments; this
// covers direct priority edits and enable/disable racing against it.
var fsMu sync.Mutex

// UsedPriorities returns the union of pak slots occupied in both the
// addons and .disabled directories. A disabled mod still reserves its
// slot, otherwise a fresh download could silently shadow it once it is
// re-enabled.
func UsedPriorities(root string) (map[int]bool, error) {
	all, err := Scan(root)
	if err != nil {
		return nil, err
	}
	used := make(map[int]bool)
	for _, m := range all {
		if _, ok := paks.ParsePriority(m.FileName); ok {
			used[m.Priority] = true
		}
	}
	return used, nil
}

// NextFree scans upward from startFrom for an unoccupied slot in the
// closed range [1,99]. It has no side effects: calling it twice without
// installing anything returns the same value. Exhausting the range is
// domain.ErrNoFreeSlot.
func NextFree(root string, startFrom int) (int, error) {
	used, err := UsedPriorities(root)
	if err != nil {
		return 0, err
	}
	return nextFree(used, startFrom)
}

func nextFree(used map[int]bool, startFrom int) (int, error) {
	if startFrom < paks.MinPriority {
		startFrom = paks.MinPriority
	}
	for n := startFrom; n <= paks.MaxPriority; n++ {
		if !used[n] {
			return n, nil
		}
	}
	return 0, domain.ErrNoFreeSlot
}

// SetPriority renames the mod's file so its pakNN_ prefix encodes the new
// priority, preserving the rest of the name. Renaming onto a slot whose
// destination filename already exists fails without touching the
// filesystem; renaming to the current slot is a no-op success. The
// returned mod carries the new filename, path and recomputed id.
func SetPriority(root, modID string, newPriority int) (*domain.Mod, error) {
	if newPriority < paks.MinPriority || newPriority > paks.MaxPriority {
		return nil, fmt.Errorf("priority %d outside %d-%d", newPriority, paks.MinPriority, paks.MaxPriority)
	}

	fsMu.Lock()
	defer fsMu.Unlock()

	m, err := FindByID(root, modID)
	if err != nil {
		return nil, err
	}

	newName := paks.WithPriority(m.FileName, newPriority)
	if newName == m.FileName {
		return m, nil
	}

	dest := filepath.Join(filepath.Dir(m.Path), newName)
	if _, err := os.Lstat(dest); err == nil {
		return nil, fmt.Errorf("%w: %s exists", domain.ErrSlotTaken, newName)
	}

	if err := os.Rename(m.Path, dest); err != nil {
		return nil, fmt.Errorf("renaming %s: %w", m.FileName, err)
	}

	updated := *m
	updated.ID = paks.ModID(newName)
	updated.FileName = newName
	updated.Path = dest
	updated.Priority = newPriority
	return &updated, nil
}
