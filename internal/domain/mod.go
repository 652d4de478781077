package domain

import "time"

// Mod represents one installed VPK archive in the addons tree.
// The filesystem is the source of truth: a Mod exists because its file does,
// it is enabled because the file sits in the addons directory rather than
// .disabled, and its priority is encoded in the pakNN_ filename prefix.
type Mod struct {
	ID          string // derived from FileName; stable across enable/disable
	Name        string
	FileName    string
	Path        string
	Enabled     bool
	Priority    int // two-digit load-order slot
	Size        int64
	InstalledAt time.Time

	// Descriptive fields supplied by the metadata store, keyed by FileName.
	Description   string
	ThumbnailURL  string
	GameBananaID  int64
	CategoryID    int64
	Section       string
	NSFW          bool
	VariantPreset bool
}

// ConflictKind distinguishes the two collision relations between mods.
type ConflictKind string

const (
	// ConflictSlot means two enabled mods share a load-order priority.
	ConflictSlot ConflictKind = "slot"
	// ConflictContent means two enabled mods declare the same internal
	// virtual file path, so one silently overrides the other at runtime.
	ConflictContent ConflictKind = "content"
)

// Conflict is a symmetric pair relation between two mod IDs.
type Conflict struct {
	ModA   string
	ModB   string
	Kind   ConflictKind
	Detail string
}

// Metadata holds the descriptive fields persisted per installed filename.
type Metadata struct {
	Name          string
	Description   string
	ThumbnailURL  string
	GameBananaID  int64
	FileID        int64
	CategoryID    int64
	Section       string
	NSFW          bool
	VariantPreset bool
}

// ApplyMetadata copies the stored descriptive fields onto a scanned mod.
func (m *Mod) ApplyMetadata(meta *Metadata) {
	if meta == nil {
		return
	}
	if meta.Name != "" {
		m.Name = meta.Name
	}
	m.Description = meta.Description
	m.ThumbnailURL = meta.ThumbnailURL
	m.GameBananaID = meta.GameBananaID
	m.CategoryID = meta.CategoryID
	m.Section = meta.Section
	m.NSFW = meta.NSFW
	m.VariantPreset = meta.VariantPreset
}
