package unibitmap

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

type glyphEntry struct {
	codepoint rune
	bits      []byte
}

type sliceGlyphSource struct {
	entries []glyphEntry
	index   int
}

func (s *sliceGlyphSource) Next() (rune, []byte, error) {
	if s.index >= len(s.entries) {
		return 0, nil, io.EOF
	}
	entry := s.entries[s.index]
	s.index++
	return entry.codepoint, entry.bits, nil
}

func TestEncodeRequiresReplacementGlyph(t *testing.T) {
	set := make(GlyphSet)
	mustAdd(t, set, 0x0041, narrowGlyph(0x10))
	var buf bytes.Buffer
	if err := set.Encode(&buf); err == nil {
		t.Fatal("Encode accepted a glyph set without U+FFFD")
	}
	if buf.Len() != 0 {
		t.Error("Encode wrote output before failing")
	}
}

func TestPageBudget(t *testing.T) {
	cases := []struct {
		uncompressed, compressed int
		ok                       bool
	}{
		{8704, 900, true},      // a full page of wide glyphs
		{32768, 65535, true},   // exactly at both limits
		{32769, 100, false},    // offsets would no longer fit 15 bits
		{40000, 100, false},    // hypothetical larger page size
		{100, 65536, false},    // compressed size overflows the u16 field
	}
	for _, c := range cases {
		err := checkPageBudget(0, c.uncompressed, c.compressed)
		if (err == nil) != c.ok {
			t.Errorf("checkPageBudget(%d, %d) = %v, want ok=%v",
				c.uncompressed, c.compressed, err, c.ok)
		}
	}
}

func TestReadGlyphsLastDefinitionWins(t *testing.T) {
	first := narrowGlyph(0x10)
	second := wideGlyph(0x20)
	set, err := ReadGlyphs(&sliceGlyphSource{entries: []glyphEntry{
		{0x0041, first},
		{0x0041, second},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 1 {
		t.Fatalf("got %d glyphs, want 1", len(set))
	}
	if !bytes.Equal(set[0x0041], second) {
		t.Error("earlier definition won")
	}
}

func TestReadGlyphsSkipsBadRecords(t *testing.T) {
	set, err := ReadGlyphs(&sliceGlyphSource{entries: []glyphEntry{
		{0x0041, narrowGlyph(0x10)},
		{0x0042, make([]byte, 5)},          // bitmap is neither 16 nor 32 bytes
		{MaxCodepoint + 1, narrowGlyph(0)}, // codepoint out of range
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 1 {
		t.Fatalf("got %d glyphs, want 1", len(set))
	}
	if _, ok := set[0x0041]; !ok {
		t.Error("valid record was dropped")
	}
}

func TestAddCopiesBitmap(t *testing.T) {
	set := make(GlyphSet)
	bits := narrowGlyph(0x10)
	mustAdd(t, set, 0x0041, bits)
	bits[0] = 0xFF
	if set[0x0041][0] == 0xFF {
		t.Error("Add aliased the caller's slice")
	}
}

// TestArtifactLayout pins the wire format: length prefix, dense compressed
// directory, page streams in ascending order.
func TestArtifactLayout(t *testing.T) {
	set := make(GlyphSet)
	mustAdd(t, set, 0x0041, narrowGlyph(0x10))
	mustAdd(t, set, 0x4E95, wideGlyph(0x30))
	mustAdd(t, set, ReplacementCodepoint, narrowGlyph(0x50))
	var buf bytes.Buffer
	if err := set.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	artifact := buf.Bytes()
	dirLen := int(binary.BigEndian.Uint32(artifact))
	if 4+dirLen > len(artifact) {
		t.Fatalf("length prefix %d exceeds artifact size %d", dirLen, len(artifact))
	}
	dir, err := inflate(artifact[4:4+dirLen], NumPages*4)
	if err != nil {
		t.Fatal(err)
	}
	wantSizes := map[int]int{
		0x00: pageHeaderSize + narrowBytes, // U+0041
		0x4E: pageHeaderSize + wideBytes,   // U+4E95
		0xFF: pageHeaderSize + narrowBytes, // U+FFFD
	}
	pageBytes := 0
	for page := 0; page < NumPages; page++ {
		usize := int(binary.BigEndian.Uint16(dir[page*4:]))
		csize := int(binary.BigEndian.Uint16(dir[page*4+2:]))
		if want, ok := wantSizes[page]; ok {
			if usize != want {
				t.Errorf("page %#x: uncompressed size %d, want %d", page, usize, want)
			}
			if csize == 0 {
				t.Errorf("page %#x: zero compressed size", page)
			}
		} else if usize != 0 || csize != 0 {
			t.Errorf("page %#x should be empty, has sizes %d/%d", page, usize, csize)
		}
		pageBytes += csize
	}
	if got := len(artifact) - 4 - dirLen; got != pageBytes {
		t.Errorf("page data region is %d bytes, directory says %d", got, pageBytes)
	}
}
