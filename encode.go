package unibitmap

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// GlyphSource yields glyph definitions one-by-one.
// It should return io.EOF when the stream is exhausted.
type GlyphSource interface {
	Next() (codepoint rune, bits []byte, err error)
}

// GlyphSet accumulates the glyphs of a font before encoding. Values are the
// raw bitmap bytes: 16 for a narrow glyph, 32 for a wide one.
type GlyphSet map[rune][]byte

// ReadGlyphs drains a streaming source into a glyph set. The last definition
// seen for a codepoint wins. Records with an out-of-range codepoint or a
// malformed bitmap are skipped with a diagnostic; ingestion is best-effort.
func ReadGlyphs(src GlyphSource) (GlyphSet, error) {
	set := make(GlyphSet, 4096)
	for {
		codepoint, bits, err := src.Next()
		if err == io.EOF {
			return set, nil
		}
		if err != nil {
			return nil, err
		}
		if err := set.Add(codepoint, bits); err != nil {
			tracer().Errorf("skipping glyph: %v", err)
		}
	}
}

// Add inserts one glyph, replacing any earlier definition for the codepoint.
// The bitmap bytes are copied.
func (s GlyphSet) Add(codepoint rune, bits []byte) error {
	if codepoint < 0 || codepoint > MaxCodepoint {
		return fmt.Errorf("codepoint %#x out of Unicode range", codepoint)
	}
	if len(bits) != narrowBytes && len(bits) != wideBytes {
		return fmt.Errorf("glyph for U+%04X is %d bytes, want 16 or 32", codepoint, len(bits))
	}
	b := make([]byte, len(bits))
	copy(b, bits)
	s[codepoint] = b
	return nil
}

// Encode compresses the glyph set into a font artifact and writes it to w in
// full. The set must contain a glyph for U+FFFD, the fallback for every
// codepoint without one of its own. Encoding fails hard if any page exceeds
// the format's size budgets; a partially written artifact is never valid.
func (s GlyphSet) Encode(w io.Writer) error {
	if _, ok := s[ReplacementCodepoint]; !ok {
		return fmt.Errorf("glyph set has no glyph for U+FFFD, the replacement character")
	}
	active := make([]bool, NumPages)
	for codepoint := range s {
		active[codepoint>>8] = true
	}
	dir := make([]byte, NumPages*4)
	var pageData bytes.Buffer
	pageCount := 0
	uncompressedTotal, compressedTotal := 0, 0
	for page := 0; page < NumPages; page++ {
		if !active[page] {
			continue
		}
		payload := s.pagePayload(page)
		compressed, err := deflate(payload)
		if err != nil {
			return fmt.Errorf("compressing page %#x: %v", page, err)
		}
		if err := checkPageBudget(page, len(payload), len(compressed)); err != nil {
			return err
		}
		binary.BigEndian.PutUint16(dir[page*4:], uint16(len(payload)))
		binary.BigEndian.PutUint16(dir[page*4+2:], uint16(len(compressed)))
		pageData.Write(compressed)
		uncompressedTotal += len(payload)
		compressedTotal += len(compressed)
		pageCount++
	}
	compressedDir, err := deflate(dir)
	if err != nil {
		return fmt.Errorf("compressing page directory: %v", err)
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(compressedDir)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	if _, err := w.Write(compressedDir); err != nil {
		return err
	}
	if _, err := pageData.WriteTo(w); err != nil {
		return err
	}
	ratio := 0
	if compressedTotal > 0 {
		ratio = uncompressedTotal * 100 / compressedTotal
	}
	tracer().Infof("encoded %d glyphs in %d pages: %d payload bytes, %d compressed (+%d directory), ratio 1:%d.%02d",
		len(s), pageCount, uncompressedTotal, compressedTotal, 4+len(compressedDir), ratio/100, ratio%100)
	return nil
}

// pagePayload builds the uncompressed payload for one page: the 512-byte tag
// header followed by the present glyphs' bytes in codepoint order. Tags are
// stored instead of offsets to keep the header repetitive and compressible;
// Font.LoadPage rebuilds the offsets after decompression.
func (s GlyphSet) pagePayload(page int) []byte {
	payload := make([]byte, pageHeaderSize, pageHeaderSize+256*narrowBytes)
	for slot := 0; slot < 256; slot++ {
		bits, ok := s[rune(page<<8|slot)]
		tag := uint16(tagAbsent)
		if ok {
			tag = tagNarrow
			if len(bits) == wideBytes {
				tag = tagWide
			}
			payload = append(payload, bits...)
		}
		binary.BigEndian.PutUint16(payload[slot*2:], tag)
	}
	return payload
}

// checkPageBudget enforces the format's 16-bit size fields: uncompressed
// payloads must leave bit 0 of every offset free, compressed sizes must fit
// the directory entry. With 256 codepoints per page the uncompressed bound
// is unreachable (512 + 256*32 = 8704), but the check guards the format, not
// the current page size.
func checkPageBudget(page, uncompressed, compressed int) error {
	if uncompressed > maxPageUncompressed {
		return fmt.Errorf("page %#x: uncompressed payload is %d bytes, format limit is %d",
			page, uncompressed, maxPageUncompressed)
	}
	if compressed > maxPageCompressed {
		return fmt.Errorf("page %#x: compressed payload is %d bytes, format limit is %d",
			page, compressed, maxPageCompressed)
	}
	return nil
}

// deflate compresses a payload as one zlib stream at maximum compression.
func deflate(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
