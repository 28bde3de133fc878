// Package hexfont parses the GNU Unifont .hex source format.
//
// The format is line-oriented: each glyph record is the codepoint as 4 to 6
// uppercase hex digits, a colon, and the bitmap as 32 hex digits (narrow,
// 8x16) or 64 hex digits (wide, 16x16), e.g.
//
//	0041:0000000018242442427E424242420000
//
// Any other line is treated as a comment and skipped. Parsing is intentionally
// outside the base package; this package adapts the concrete file format to
// unibitmap's streaming GlyphSource API.
package hexfont

import (
	"bufio"
	"encoding/hex"
	"io"
	"regexp"
	"strconv"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/unibitmap"
)

// tracer writes to trace with key 'unibitmap'
func tracer() tracing.Trace {
	return tracing.Select("unibitmap")
}

// hexRecord matches one glyph record: 4-6 hex digits of codepoint, a colon,
// 32 or 64 hex digits of bitmap, and an optional trailing carriage return
// (upstream .hex releases have been distributed with CRLF line endings).
var hexRecord = regexp.MustCompile(`^([0-9A-F]{4,6}):((?:[0-9A-F]{32}){1,2})\r?$`)

// Reader streams glyph records from .hex source data.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	bits    []byte
}

func NewReader(r io.Reader) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
		bits:    make([]byte, 0, 32),
	}
}

// Next returns the next glyph record as (codepoint, bitmap bytes).
// It returns io.EOF when exhausted. Non-record lines are skipped with a
// diagnostic. The returned byte slice is reused by subsequent calls.
func (r *Reader) Next() (rune, []byte, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Text()
		m := hexRecord.FindStringSubmatch(line)
		if m == nil {
			tracer().Infof("hexfont: unmatched line %d: %q", r.line, line)
			continue
		}
		codepoint, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			return 0, nil, err // unreachable: six hex digits always parse
		}
		r.bits = r.bits[:len(m[2])/2]
		if _, err := hex.Decode(r.bits, []byte(m[2])); err != nil {
			return 0, nil, err
		}
		return rune(codepoint), r.bits, nil
	}
	if err := r.scanner.Err(); err != nil {
		return 0, nil, err
	}
	return 0, nil, io.EOF
}

// LoadGlyphs parses .hex source data and accumulates it into a glyph set,
// ready for unibitmap.GlyphSet.Encode. Later records win over earlier ones
// for the same codepoint.
func LoadGlyphs(r io.Reader) (unibitmap.GlyphSet, error) {
	return unibitmap.ReadGlyphs(NewReader(r))
}
