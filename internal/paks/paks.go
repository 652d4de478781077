// Package paks owns the pakNN_ filename convention used by the Source 2
// addons directory. Priority lives in the filename, so every parse and
// rename of that prefix goes through here; the rest of the system only
// sees priority as an integer field.
package paks

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	// DefaultPriority is assumed for VPK files without a pakNN_ prefix.
	DefaultPriority = 50

	// MinPriority and MaxPriority bound the two-digit slot range.
	MinPriority = 1
	MaxPriority = 99
)

// prefixPattern matches the leading pakNN_ load-order prefix,
// e.g. "pak05_cool_skin_dir.vpk" -> 05.
var prefixPattern = regexp.MustCompile(`(?i)^pak(\d{2})_`)

// IsVPK reports whether filename looks like a VPK archive file.
func IsVPK(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".vpk")
}

// IsDirVPK reports whether filename is a directory-format VPK
// (the _dir file that carries the archive's file tree).
func IsDirVPK(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), "_dir.vpk")
}

// ParsePriority extracts the two-digit priority from a pakNN_ filename
// prefix. The second return is false when no prefix is present.
func ParsePriority(filename string) (int, bool) {
	m := prefixPattern.FindStringSubmatch(filepath.Base(filename))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Priority returns the filename's encoded priority, or DefaultPriority
// when the filename carries no pakNN_ prefix.
func Priority(filename string) int {
	if n, ok := ParsePriority(filename); ok {
		return n
	}
	return DefaultPriority
}

// WithPriority returns filename with its numeric prefix replaced by the
// given priority. Filenames without a prefix gain one; the rest of the
// name is preserved either way.
func WithPriority(filename string, priority int) string {
	if priority > MaxPriority {
		priority = MaxPriority
	}
	if priority < 0 {
		priority = 0
	}
	prefix := fmt.Sprintf("pak%02d_", priority)
	if prefixPattern.MatchString(filename) {
		return prefixPattern.ReplaceAllString(filename, prefix)
	}
	return prefix + filename
}

// ModID derives the stable mod identifier from a filename. It hashes the
// bare filename, not the full path, so moving a file between the addons
// and .disabled directories keeps its id; renaming it does not.
func ModID(filename string) string {
	h := fnv.New64a()
	h.Write([]byte(filepath.Base(filename)))
	return fmt.Sprintf("%016x", h.Sum64())
}

// BaseName strips the _dir.vpk (or .vpk) suffix, yielding the stem shared
// by an archive's numbered sibling parts (pakNN_000.vpk etc).
func BaseName(filename string) string {
	name := strings.TrimSuffix(filename, "_dir.vpk")
	return strings.TrimSuffix(name, ".vpk")
}

// DisplayName derives a human-readable name from a VPK filename:
// known suffixes and the pakNN_ prefix are stripped, separators become
// spaces, and each word is capitalized.
func DisplayName(filename string) string {
	name := BaseName(filepath.Base(filename))
	name = prefixPattern.ReplaceAllString(name+"_", "") // tolerate bare "pakNN" stems
	name = strings.TrimSuffix(name, "_")
	if name == "" {
		name = BaseName(filepath.Base(filename))
	}

	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(name))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
