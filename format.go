package unibitmap

// Binary artifact layout (all integers big-endian):
//
//	offset 0..4    u32 = length L of the compressed page-directory stream
//	offset 4..4+L  zlib stream -> NumPages * 4 bytes of directory
//	offset 4+L..   zlib streams of the non-empty pages, ascending page order
//
// Directory entry for page p (4 bytes): u16 uncompressed size, u16 compressed
// size. Both zero for pages without glyphs, which occupy no space in the page
// data region.
//
// Decompressed page payload: a 512-byte header of 256 u16 tags, one per
// codepoint in the page, followed by the present glyphs' raw bytes in
// codepoint order. Tags are deliberately sizes-not-offsets so the header
// stays highly repetitive and compresses well; real offsets are rebuilt
// in place after decompression (see Font.LoadPage).

// The largest codepoint value that is, or ever will be, legal in Unicode.
const MaxCodepoint = 0x10FFFF

// The number of legal codepoint values that exist in Unicode.
const NumCodepoints = MaxCodepoint + 1

// The number of 256-codepoint "pages" that exist in Unicode.
const NumPages = NumCodepoints >> 8

// The largest number of a 256-codepoint "page" that exists in Unicode.
const MaxPage = NumPages - 1

// ReplacementCodepoint is U+FFFD REPLACEMENT CHARACTER, the glyph substituted
// for any codepoint the font has no glyph of its own for. Every artifact must
// contain it.
const ReplacementCodepoint rune = 0xFFFD

// Page header tags, written by the encoder and consumed once by LoadPage.
const (
	tagNarrow = 0x0000 // 16-byte glyph follows in the data region
	tagWide   = 0x0001 // 32-byte glyph follows in the data region
	tagAbsent = 0x0101 // no glyph for this codepoint
)

// pageHeaderSize is the byte length of the tag header: 256 u16 slots.
// The glyph data region starts at this offset in a decompressed page.
const pageHeaderSize = 512

// Format budgets. Uncompressed page payloads must leave bit 0 of every
// 16-bit offset free for the wide flag; compressed sizes must fit the u16
// directory field.
const (
	maxPageUncompressed = 32768
	maxPageCompressed   = 65535
)

const (
	narrowBytes = 16
	wideBytes   = 32
)
