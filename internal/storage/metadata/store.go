package metadata

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dmm/internal/domain"
)

// Get returns the metadata stored for a filename, or nil when none is
// recorded.
func (s *Store) Get(fileName string) (*domain.Metadata, error) {
	row := s.QueryRow(`
		SELECT name, description, thumbnail_url, gamebanana_id, file_id,
		       category_id, section, nsfw, variant_preset
		FROM mod_metadata WHERE file_name = ?
	`, fileName)

	var m domain.Metadata
	var desc, thumb, section sql.NullString
	err := row.Scan(&m.Name, &desc, &thumb, &m.GameBananaID, &m.FileID,
		&m.CategoryID, &section, &m.NSFW, &m.VariantPreset)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying metadata for %s: %w", fileName, err)
	}
	m.Description = desc.String
	m.ThumbnailURL = thumb.String
	m.Section = section.String
	return &m, nil
}

// GetAll returns all stored metadata keyed by filename.
func (s *Store) GetAll() (map[string]*domain.Metadata, error) {
	rows, err := s.Query(`
		SELECT file_name, name, description, thumbnail_url, gamebanana_id,
		       file_id, category_id, section, nsfw, variant_preset
		FROM mod_metadata
	`)
	if err != nil {
		return nil, fmt.Errorf("querying metadata: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*domain.Metadata)
	for rows.Next() {
		var fileName string
		var m domain.Metadata
		var desc, thumb, section sql.NullString
		if err := rows.Scan(&fileName, &m.Name, &desc, &thumb, &m.GameBananaID,
			&m.FileID, &m.CategoryID, &section, &m.NSFW, &m.VariantPreset); err != nil {
			return nil, fmt.Errorf("scanning metadata row: %w", err)
		}
		m.Description = desc.String
		m.ThumbnailURL = thumb.String
		m.Section = section.String
		out[fileName] = &m
	}
	return out, rows.Err()
}

// Upsert stores metadata for a filename, replacing any previous record.
func (s *Store) Upsert(fileName string, m *domain.Metadata) error {
	_, err := s.Exec(`
		INSERT INTO mod_metadata (file_name, name, description, thumbnail_url,
			gamebanana_id, file_id, category_id, section, nsfw, variant_preset, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_name) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			thumbnail_url = excluded.thumbnail_url,
			gamebanana_id = excluded.gamebanana_id,
			file_id = excluded.file_id,
			category_id = excluded.category_id,
			section = excluded.section,
			nsfw = excluded.nsfw,
			variant_preset = excluded.variant_preset,
			updated_at = excluded.updated_at
	`, fileName, m.Name, m.Description, m.ThumbnailURL, m.GameBananaID,
		m.FileID, m.CategoryID, m.Section, m.NSFW, m.VariantPreset, time.Now())
	if err != nil {
		return fmt.Errorf("upserting metadata for %s: %w", fileName, err)
	}
	return nil
}

// Rename moves a metadata record to a new filename key, following a
// priority rename on disk. Missing source keys are ignored.
func (s *Store) Rename(from, to string) error {
	if from == to {
		return nil
	}
	_, err := s.Exec(`
		UPDATE OR REPLACE mod_metadata SET file_name = ? WHERE file_name = ?
	`, to, from)
	if err != nil {
		return fmt.Errorf("renaming metadata %s -> %s: %w", from, to, err)
	}
	return nil
}

// Delete removes the metadata record for a filename, if any.
func (s *Store) Delete(fileName string) error {
	if _, err := s.Exec(`DELETE FROM mod_metadata WHERE file_name = ?`, fileName); err != nil {
		return fmt.Errorf("deleting metadata for %s: %w", fileName, err)
	}
	return nil
}

// VariantPresetFiles returns the filenames whose records carry the
// variant-preset marker; the download orchestrator clears these before
// installing a replacement preset.
func (s *Store) VariantPresetFiles() ([]string, error) {
	rows, err := s.Query(`SELECT file_name FROM mod_metadata WHERE variant_preset = 1`)
	if err != nil {
		return nil, fmt.Errorf("querying variant presets: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning variant preset row: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
