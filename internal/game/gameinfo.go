package game

import (
	"fmt"
	"os"
	"strings"
)

// addonsBlock is the FileSystem/AddonConfig configuration the game needs
// before it mounts anything from the addons directory. Written verbatim
// over the existing FileSystem block when patching.
const addonsBlock = "\tFileSystem\n" +
	"\t{\n" +
	"\t\tSearchPaths\n" +
	"\t\t{\n" +
	"\t\t\tGame_Language\t\tcitadel_*LANGUAGE*\n" +
	"\t\t\t\n" +
	"\t\t\tMod                 citadel\n" +
	"\t\t\tWrite               citadel\n" +
	"\t\t\tGame                citadel/addons\n" +
	"\t\t\tGame                citadel\n" +
	"\t\t\tMod                 core\n" +
	"\t\t\tWrite               core\n" +
	"\t\t\tGame                core\n" +
	"\t\t\tAddonRoot           citadel_addons\n" +
	"\t\t\tOfficialAddonRoot   citadel_community_addons\n" +
	"\t\t}\n" +
	"\t}\n" +
	"\tAddonConfig\n" +
	"\t{\n" +
	"\t\t\"UseOfficialAddons\" \"1\"\n" +
	"\t}"

// GameinfoConfigured reports whether the gameinfo.gi content already
// mounts the addons search paths.
func GameinfoConfigured(content string) bool {
	return strings.Contains(content, "Game                citadel/addons") &&
		strings.Contains(content, "AddonRoot           citadel_addons")
}

// NormalizeGameinfo rewrites content so the FileSystem block mounts the
// addons paths, replacing any existing AddonConfig block. Returns the
// content unchanged in meaning when already configured.
func NormalizeGameinfo(content string) (string, error) {
	withoutAddon := removeBlock(content, "AddonConfig")
	start, end, ok := findBlock(withoutAddon, "FileSystem")
	if !ok {
		return "", fmt.Errorf("FileSystem block not found in gameinfo.gi")
	}
	return withoutAddon[:start] + addonsBlock + withoutAddon[end:], nil
}

// CheckGameinfo reads root's gameinfo.gi and reports whether it is
// configured for addons.
func CheckGameinfo(root string) (bool, error) {
	content, err := os.ReadFile(GameinfoPath(root))
	if err != nil {
		return false, fmt.Errorf("reading gameinfo.gi: %w", err)
	}
	return GameinfoConfigured(string(content)), nil
}

// FixGameinfo patches root's gameinfo.gi in place when it is missing the
// addons search paths.
func FixGameinfo(root string) error {
	path := GameinfoPath(root)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading gameinfo.gi: %w", err)
	}
	updated, err := NormalizeGameinfo(string(content))
	if err != nil {
		return err
	}
	if updated == string(content) {
		return nil
	}
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("writing gameinfo.gi: %w", err)
	}
	return nil
}

// findBlock locates "key { ... }" in a KeyValues document, returning the
// byte range from the key through its matching closing brace.
func findBlock(content, key string) (start, end int, ok bool) {
	keyIdx := strings.Index(content, key)
	if keyIdx < 0 {
		return 0, 0, false
	}
	braceIdx := strings.IndexByte(content[keyIdx:], '{')
	if braceIdx < 0 {
		return 0, 0, false
	}
	braceIdx += keyIdx

	depth := 0
	for i := braceIdx; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return keyIdx, i + 1, true
			}
		}
	}
	return 0, 0, false
}

func removeBlock(content, key string) string {
	start, end, ok := findBlock(content, key)
	if !ok {
		return content
	}
	return content[:start] + content[end:]
}
