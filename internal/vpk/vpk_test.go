package vpk_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"dmm/internal/domain"
	"dmm/internal/vpk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// treeEntry is one file declaration inside a synthetic archive tree.
type treeEntry struct {
	ext     string
	dir     string
	stem    string
	preload []byte
}

// buildTree encodes entries into the three-level null-terminated string
// table the parser consumes. Entries must already be grouped by extension
// and then directory, which is how real archives are laid out.
func buildTree(entries []treeEntry) []byte {
	var buf bytes.Buffer
	writeStr := func(s string) {
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	writeEntry := func(e treeEntry) {
		var rec [18]byte
		binary.LittleEndian.PutUint32(rec[0:4], 0xdeadbeef) // crc
		binary.LittleEndian.PutUint16(rec[4:6], uint16(len(e.preload)))
		binary.LittleEndian.PutUint16(rec[6:8], 0x7fff) // archive index: inline
		binary.LittleEndian.PutUint32(rec[8:12], 0)     // offset
		binary.LittleEndian.PutUint32(rec[12:16], 0)    // length
		binary.LittleEndian.PutUint16(rec[16:18], 0xffff)
		buf.Write(rec[:])
		buf.Write(e.preload)
	}

	for i := 0; i < len(entries); {
		ext := entries[i].ext
		writeStr(ext)
		for i < len(entries) && entries[i].ext == ext {
			dir := entries[i].dir
			writeStr(dir)
			for i < len(entries) && entries[i].ext == ext && entries[i].dir == dir {
				writeStr(entries[i].stem)
				writeEntry(entries[i])
				i++
			}
			writeStr("") // end of stems
		}
		writeStr("") // end of dirs
	}
	var buf2 bytes.Buffer
	buf2.Write(buf.Bytes())
	buf2.WriteByte(0) // end of extensions
	return buf2.Bytes()
}

func writeArchive(t *testing.T, version uint32, tree []byte) string {
	t.Helper()

	var buf bytes.Buffer
	var head [12]byte
	binary.LittleEndian.PutUint32(head[0:4], 0x55aa1234)
	binary.LittleEndian.PutUint32(head[4:8], version)
	binary.LittleEndian.PutUint32(head[8:12], uint32(len(tree)))
	buf.Write(head[:])
	if version == 2 {
		buf.Write(make([]byte, 16)) // v2 section sizes, all zero
	}
	buf.Write(tree)

	path := filepath.Join(t.TempDir(), "pak01_dir.vpk")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestParse_V1(t *testing.T) {
	tree := buildTree([]treeEntry{
		{ext: "vtex_c", dir: "materials/models/hero", stem: "skin_a"},
		{ext: "vtex_c", dir: "materials/models/hero", stem: "skin_b"},
		{ext: "vtex_c", dir: " ", stem: "rootfile"},
		{ext: "txt", dir: "docs", stem: "notes"},
	})
	path := writeArchive(t, 1, tree)

	paths, err := vpk.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"materials/models/hero/skin_a.vtex_c",
		"materials/models/hero/skin_b.vtex_c",
		"rootfile.vtex_c",
		"docs/notes.txt",
	}, paths)
}

func TestParse_V2Header(t *testing.T) {
	tree := buildTree([]treeEntry{
		{ext: "vsnd_c", dir: "sounds", stem: "hit"},
	})
	path := writeArchive(t, 2, tree)

	paths, err := vpk.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sounds/hit.vsnd_c"}, paths)
}

func TestParse_PreloadSkipped(t *testing.T) {
	tree := buildTree([]treeEntry{
		{ext: "cfg", dir: "scripts", stem: "small", preload: []byte("inline payload bytes")},
		{ext: "cfg", dir: "scripts", stem: "after"},
	})
	path := writeArchive(t, 1, tree)

	paths, err := vpk.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"scripts/small.cfg", "scripts/after.cfg"}, paths)
}

func TestParse_WrongMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.vpk")
	require.NoError(t, os.WriteFile(path, []byte("this is not an archive at all"), 0644))

	_, err := vpk.Parse(path)
	assert.ErrorIs(t, err, domain.ErrNotVPK)
}

func TestParse_TruncatedTree(t *testing.T) {
	tree := buildTree([]treeEntry{
		{ext: "vtex_c", dir: "materials", stem: "skin"},
	})
	// Chop the tree but keep the header's declared length: every read must
	// stay in bounds and the caller gets the negative result.
	var buf bytes.Buffer
	var head [12]byte
	binary.LittleEndian.PutUint32(head[0:4], 0x55aa1234)
	binary.LittleEndian.PutUint32(head[4:8], 1)
	binary.LittleEndian.PutUint32(head[8:12], uint32(len(tree)))
	buf.Write(head[:])
	buf.Write(tree[:len(tree)/2])

	path := filepath.Join(t.TempDir(), "pak01_dir.vpk")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	_, err := vpk.Parse(path)
	assert.ErrorIs(t, err, domain.ErrNotVPK)
}

func TestParse_MalformedTree(t *testing.T) {
	// A tree that never terminates its string levels.
	tree := []byte("vtex_c\x00materials\x00stem_without_record")
	path := writeArchive(t, 1, tree)

	_, err := vpk.Parse(path)
	assert.ErrorIs(t, err, domain.ErrNotVPK)
}

func TestParse_UnsupportedVersion(t *testing.T) {
	tree := buildTree([]treeEntry{{ext: "txt", dir: " ", stem: "x"}})
	path := writeArchive(t, 9, tree)

	_, err := vpk.Parse(path)
	assert.ErrorIs(t, err, domain.ErrNotVPK)
}
