// Package conflicts cross-references the enabled mod set for load-order
// collisions: two mods on the same pak slot, or two mods shipping the
// same internal file path.
package conflicts

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"dmm/internal/domain"
	"dmm/internal/logging"
	"dmm/internal/mods"
	"dmm/internal/vpk"
)

// informational file names that never constitute a real content
// collision; matched case-insensitively on the final path segment.
var informational = map[string]bool{
	"readme":        true,
	"readme.txt":    true,
	"readme.md":     true,
	"license":       true,
	"license.txt":   true,
	"license.md":    true,
	"licence.txt":   true,
	"changelog":     true,
	"changelog.txt": true,
	"changelog.md":  true,
	"credits.txt":   true,
	"notes.txt":     true,
	"version.txt":   true,
}

const sampleLimit = 3

// Detect recomputes both collision relations over the currently enabled
// mods. It is a pure function of the filesystem: nothing is cached
// between calls. Mods whose archives fail to parse are excluded from
// content checks rather than failing the whole scan.
func Detect(root string) ([]domain.Conflict, error) {
	all, err := mods.Scan(root)
	if err != nil {
		return nil, err
	}

	var enabled []domain.Mod
	for _, m := range all {
		if m.Enabled {
			enabled = append(enabled, m)
		}
	}
	if len(enabled) < 2 {
		return nil, nil
	}

	conflicts, seen := slotCollisions(enabled)
	conflicts = append(conflicts, contentCollisions(enabled, seen)...)
	return conflicts, nil
}

// slotCollisions reports every pair of enabled mods sharing a priority.
// The returned set records reported pairs so content checks can skip them.
func slotCollisions(enabled []domain.Mod) ([]domain.Conflict, map[string]bool) {
	byPriority := make(map[int][]domain.Mod)
	for _, m := range enabled {
		byPriority[m.Priority] = append(byPriority[m.Priority], m)
	}

	var out []domain.Conflict
	seen := make(map[string]bool)
	for prio, group := range byPriority {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				out = append(out, domain.Conflict{
					ModA:   group[i].ID,
					ModB:   group[j].ID,
					Kind:   domain.ConflictSlot,
					Detail: fmt.Sprintf("both occupy pak slot %02d", prio),
				})
				seen[pairKey(group[i].ID, group[j].ID)] = true
			}
		}
	}
	return out, seen
}

// contentCollisions parses each enabled mod's archive directory and
// reports pairs whose virtual file sets intersect.
func contentCollisions(enabled []domain.Mod, alreadyReported map[string]bool) []domain.Conflict {
	logger := logging.GetLogger("conflicts")

	type manifest struct {
		mod   domain.Mod
		files map[string]bool
	}

	var manifests []manifest
	for _, m := range enabled {
		paths, err := vpk.Parse(m.Path)
		if err != nil {
			if !errors.Is(err, domain.ErrNotVPK) {
				logger.Debug().Err(err).Str("mod", m.FileName).Msg("skipping unreadable archive")
			}
			continue
		}
		files := make(map[string]bool, len(paths))
		for _, p := range paths {
			if informational[strings.ToLower(path.Base(p))] {
				continue
			}
			files[p] = true
		}
		manifests = append(manifests, manifest{mod: m, files: files})
	}

	var out []domain.Conflict
	for i := 0; i < len(manifests); i++ {
		for j := i + 1; j < len(manifests); j++ {
			a, b := manifests[i], manifests[j]
			if alreadyReported[pairKey(a.mod.ID, b.mod.ID)] {
				continue
			}

			var shared []string
			for p := range a.files {
				if b.files[p] {
					shared = append(shared, p)
				}
			}
			if len(shared) == 0 {
				continue
			}
			sort.Strings(shared)

			sample := shared
			if len(sample) > sampleLimit {
				sample = sample[:sampleLimit]
			}
			out = append(out, domain.Conflict{
				ModA: a.mod.ID,
				ModB: b.mod.ID,
				Kind: domain.ConflictContent,
				Detail: fmt.Sprintf("%d shared file(s), e.g. %s",
					len(shared), strings.Join(sample, ", ")),
			})
		}
	}
	return out
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
