/*
Package unibitmap stores the glyph bitmaps of a Unicode bitmap font (such as
GNU Unifont) in a compact compressed blob and looks them up by codepoint at
run time.

Narrow glyphs are 8x16 pixels (16 bytes), wide glyphs 16x16 pixels (32 bytes),
one bit per pixel, MSB first, rows top to bottom. The codepoint space is
partitioned into pages of 256 consecutive codepoints; each page is compressed
independently, so a program rendering, say, Latin and CJK text only ever pays
the decompression cost for the handful of pages it touches.

The package concerns itself with glyph lookup and caching only. It does no
rendering, pixel addressing, text shaping, line breaking or bidi handling;
callers feed it single, already-decomposed codepoints.

A typical consumer embeds a compiled font artifact and opens it once:

	//go:embed unifont.dat
	var fontData []byte

	font, err := unibitmap.New(fontData)
	if err != nil { ... }
	bm, err := font.LoadBitmap('井')
	if err != nil { ... }
	wide := bm.IsWide() // 16 pixels wide

Artifacts are produced offline by cmd/compilefont from the upstream .hex
source files (see package hexfont). The font data itself is not part of this
module; GNU Unifont is distributed under its own licenses.

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package unibitmap

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'unibitmap'
func tracer() tracing.Trace {
	return tracing.Select("unibitmap")
}
