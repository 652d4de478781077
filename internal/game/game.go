// Package game locates the Deadlock installation and owns the paths the
// mod engine operates on: the addons directory (enabled mods) and its
// .disabled sibling.
package game

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DisabledDirName holds mods that are installed but not mounted.
	DisabledDirName = ".disabled"

	citadelRelPath  = "game/citadel"
	addonsRelPath   = "game/citadel/addons"
	gameinfoRelPath = "game/citadel/gameinfo.gi"
)

// steamLibraryPaths returns the Steam library roots worth probing for a
// Deadlock install, in preference order.
func steamLibraryPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".steam/steam/steamapps/common"),
			filepath.Join(home, ".local/share/Steam/steamapps/common"),
			// Flatpak Steam
			filepath.Join(home, ".var/app/com.valvesoftware.Steam/.steam/steam/steamapps/common"),
		)
	}
	return paths
}

// DetectInstall searches the known Steam libraries for a valid Deadlock
// installation and returns its root path.
func DetectInstall() (string, bool) {
	for _, lib := range steamLibraryPaths() {
		root := filepath.Join(lib, "Deadlock")
		if IsValidInstall(root) {
			return root, true
		}
	}
	return "", false
}

// IsValidInstall reports whether root looks like a Deadlock install
// (the game/citadel tree must exist).
func IsValidInstall(root string) bool {
	if root == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(root, citadelRelPath))
	return err == nil && info.IsDir()
}

// AddonsPath returns the enabled-mods directory under root, creating it
// if necessary.
func AddonsPath(root string) (string, error) {
	p := filepath.Join(root, addonsRelPath)
	if err := os.MkdirAll(p, 0755); err != nil {
		return "", fmt.Errorf("creating addons dir: %w", err)
	}
	return p, nil
}

// DisabledPath returns the disabled-mods directory under root, creating
// it if necessary.
func DisabledPath(root string) (string, error) {
	p := filepath.Join(root, addonsRelPath, DisabledDirName)
	if err := os.MkdirAll(p, 0755); err != nil {
		return "", fmt.Errorf("creating disabled dir: %w", err)
	}
	return p, nil
}

// GameinfoPath returns the location of the game's gameinfo.gi file.
func GameinfoPath(root string) string {
	return filepath.Join(root, gameinfoRelPath)
}
