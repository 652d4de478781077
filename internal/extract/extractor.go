// Package extract unpacks container archives (zip natively, 7z and rar
// via the system 7z command) and keeps only the VPK files they carry,
// flattened into the destination directory.
package extract

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dmm/internal/domain"
	"dmm/internal/paks"
)

// commandTimeout bounds external 7z invocations; corrupted archives can
// otherwise hang the worker.
const commandTimeout = 5 * time.Minute

// Extractor handles container archive extraction for downloaded mods.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// IsArchive returns true for filenames in one of the three supported
// container formats.
func (e *Extractor) IsArchive(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip", ".7z", ".rar":
		return true
	default:
		return false
	}
}

// Extract unpacks the archive and places every VPK it contains directly
// in destDir, discarding internal directory structure. Returned paths are
// sorted by filename. Non-VPK payload is never written to disk (zip) or
// is discarded with the temp dir (7z/rar).
func (e *Extractor) Extract(ctx context.Context, archivePath, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("creating destination: %w", err)
	}

	var out []string
	var err error
	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".zip":
		out, err = e.extractZip(archivePath, destDir)
	case ".7z", ".rar":
		out, err = e.extract7z(ctx, archivePath, destDir)
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", domain.ErrExtractFailed, filepath.Ext(archivePath))
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(out)
	return out, nil
}

func (e *Extractor) extractZip(archivePath, destDir string) (paths []string, err error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening zip: %v", domain.ErrExtractFailed, err)
	}
	defer func() {
		if cerr := r.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing zip: %w", cerr)
		}
	}()

	// Stage inside destDir so the final renames stay on one filesystem
	// and a failure on a later entry leaves no partial output behind.
	stageDir, err := os.MkdirTemp(destDir, ".extract-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging dir: %w", err)
	}
	defer os.RemoveAll(stageDir)

	var staged []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !paks.IsVPK(f.Name) {
			continue
		}
		dest, err := extractZipFile(f, stageDir)
		if err != nil {
			return nil, err
		}
		staged = append(staged, dest)
	}

	for _, src := range staged {
		dest := filepath.Join(destDir, filepath.Base(src))
		if err := os.Rename(src, dest); err != nil {
			return nil, fmt.Errorf("placing %s: %w", filepath.Base(src), err)
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

func extractZipFile(f *zip.File, destDir string) (dest string, err error) {
	// Flatten: only the base name matters, which also defuses zip-slip
	// entries like ../../x.vpk.
	name := filepath.Base(filepath.Clean(f.Name))
	if name == "." || name == string(os.PathSeparator) {
		return "", fmt.Errorf("%w: bad entry name %q", domain.ErrExtractFailed, f.Name)
	}
	dest = filepath.Join(destDir, name)

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("opening archive entry %s: %w", f.Name, err)
	}
	defer func() {
		if cerr := rc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing archive entry %s: %w", f.Name, cerr)
		}
	}()

	outFile, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dest, err)
	}
	defer func() {
		if cerr := outFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", dest, cerr)
		}
	}()

	if _, err = io.Copy(outFile, rc); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	return dest, nil
}

// extract7z shells out to the system 7z for .7z and .rar archives,
// unpacking into a temp dir and copying over only the VPKs.
func (e *Extractor) extract7z(ctx context.Context, archivePath, destDir string) ([]string, error) {
	if _, err := exec.LookPath("7z"); err != nil {
		return nil, fmt.Errorf("%w: 7z command not found (install p7zip-full)", domain.ErrExtractFailed)
	}

	tempDir, err := os.MkdirTemp("", "dmm-extract-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	// -y: assume yes; -o: output dir (no space between -o and path)
	cmd := exec.CommandContext(ctx, "7z", "x", "-y", "-o"+tempDir, archivePath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: 7z timed out after %v", domain.ErrExtractFailed, commandTimeout)
		}
		return nil, fmt.Errorf("%w: 7z: %v: %s", domain.ErrExtractFailed, err, string(output))
	}

	var found []string
	err = filepath.WalkDir(tempDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && paks.IsVPK(d.Name()) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning extracted files: %w", err)
	}

	var out []string
	for _, src := range found {
		dest := filepath.Join(destDir, filepath.Base(src))
		if err := copyFile(src, dest); err != nil {
			return nil, err
		}
		out = append(out, dest)
	}
	return out, nil
}

func copyFile(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing %s: %w", dest, cerr)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("copying to %s: %w", dest, err)
	}
	return nil
}
