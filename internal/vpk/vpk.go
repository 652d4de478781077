// Package vpk reads the directory tree of Valve Pak (VPK) archives without
// touching the compressed payload. Only the header and the string-table
// tree region are parsed; the result is the flat list of virtual file
// paths the archive would mount.
package vpk

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"dmm/internal/domain"
)

const (
	// signature is the little-endian magic at the start of every VPK.
	signature uint32 = 0x55aa1234

	// headerSizeV1 covers signature, version and tree length.
	headerSizeV1 = 12
	// headerSizeV2 adds the four v2 section-size fields.
	headerSizeV2 = 28

	// entryRecordSize is the fixed per-file record after each stem:
	// crc u32, preload bytes u16, archive index u16, offset u32,
	// length u32, terminator u16.
	entryRecordSize = 18
)

// Parse reads the directory tree of the VPK at path and returns the
// virtual file paths it declares, as "dir/stem.ext" with root-level
// entries as "stem.ext".
//
// Files that do not carry the VPK signature, and files whose tree region
// is malformed or truncated, both yield domain.ErrNotVPK rather than a
// partial listing; many files with a .vpk extension are not archives and
// that is a normal negative result, not a failure.
func Parse(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var head [headerSizeV1]byte
	if _, err := io.ReadFull(f, head[:]); err != nil {
		return nil, fmt.Errorf("%w: short header", domain.ErrNotVPK)
	}

	if binary.LittleEndian.Uint32(head[0:4]) != signature {
		return nil, domain.ErrNotVPK
	}

	version := binary.LittleEndian.Uint32(head[4:8])
	treeLen := int64(binary.LittleEndian.Uint32(head[8:12]))

	treeOffset := int64(headerSizeV1)
	switch version {
	case 1:
	case 2:
		// v2 appends four u32 section sizes to the header; the tree
		// starts after them.
		var ext [headerSizeV2 - headerSizeV1]byte
		if _, err := io.ReadFull(f, ext[:]); err != nil {
			return nil, fmt.Errorf("%w: short v2 header", domain.ErrNotVPK)
		}
		treeOffset = headerSizeV2
	default:
		return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrNotVPK, version)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	if treeLen <= 0 || treeOffset+treeLen > info.Size() {
		return nil, fmt.Errorf("%w: tree region out of bounds", domain.ErrNotVPK)
	}

	tree := make([]byte, treeLen)
	if _, err := io.ReadFull(f, tree); err != nil {
		return nil, fmt.Errorf("%w: truncated tree", domain.ErrNotVPK)
	}

	paths, ok := walkTree(tree)
	if !ok {
		return nil, fmt.Errorf("%w: malformed tree", domain.ErrNotVPK)
	}
	return paths, nil
}

// walkTree decodes the three-level string table: extension, directory,
// file stem, each level terminated by an empty string. It is a plain
// cursor over the byte slice; every read is bounds-checked so malformed
// input falls out as !ok instead of panicking.
func walkTree(tree []byte) ([]string, bool) {
	var paths []string
	pos := 0

	readString := func() (string, bool) {
		start := pos
		for pos < len(tree) {
			if tree[pos] == 0 {
				s := string(tree[start:pos])
				pos++
				return s, true
			}
			pos++
		}
		return "", false // unterminated string
	}

	for {
		ext, ok := readString()
		if !ok {
			return nil, false
		}
		if ext == "" {
			break
		}

		for {
			dir, ok := readString()
			if !ok {
				return nil, false
			}
			if dir == "" {
				break
			}

			for {
				stem, ok := readString()
				if !ok {
					return nil, false
				}
				if stem == "" {
					break
				}

				if pos+entryRecordSize > len(tree) {
					return nil, false
				}
				preload := int(binary.LittleEndian.Uint16(tree[pos+4 : pos+6]))
				pos += entryRecordSize

				// Inline preload payload follows the fixed record.
				if pos+preload > len(tree) {
					return nil, false
				}
				pos += preload

				// A directory of a single space marks the archive root.
				if dir == " " || dir == "" {
					paths = append(paths, stem+"."+ext)
				} else {
					paths = append(paths, dir+"/"+stem+"."+ext)
				}
			}
		}
	}

	return paths, true
}
