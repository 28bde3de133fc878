// compilefont builds a unibitmap font artifact from GNU Unifont .hex data on
// standard input:
//
//	cat unifont-*.hex unifont_upper-*.hex | compilefont unifont.dat
//
// The resulting file is meant to be embedded (go:embed) by programs that use
// unibitmap.New. Both the base plane and upper plane .hex files should be fed
// in; the set must contain U+FFFD or the build is refused.
package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/npillmayer/unibitmap/hexfont"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: cat unifont{,_upper}-*.hex | %s output.dat\n", os.Args[0])
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "Reading bitmaps...")
	set, err := hexfont.LoadGlyphs(os.Stdin)
	if err != nil {
		fail("reading glyphs: %v", err)
	}
	glyphBytes := 0
	pages := make(map[rune]bool)
	for codepoint, bits := range set {
		glyphBytes += len(bits)
		pages[codepoint>>8] = true
	}
	fmt.Fprintf(os.Stderr, "%d bitmaps, taking up %d bytes (uncompressed) in %d pages.\n",
		len(set), glyphBytes, len(pages))
	fmt.Fprintln(os.Stderr, "Compressing...")
	var buf bytes.Buffer
	if err := set.Encode(&buf); err != nil {
		fail("%v", err)
	}
	artifact := buf.Bytes()
	// page payloads carry a 512-byte header each; the compressed page region
	// starts after the directory stream and its 4-byte length prefix
	uncompressed := glyphBytes + len(pages)*512
	compressed := len(artifact) - 4 - int(binary.BigEndian.Uint32(artifact))
	fmt.Fprintf(os.Stderr, "Uncompressed size: %d\n", uncompressed)
	fmt.Fprintf(os.Stderr, "  Compressed size: %d\n", compressed)
	if compressed > 0 {
		ratio := uncompressed * 100 / compressed
		fmt.Fprintf(os.Stderr, "Compression ratio: 1 to %d.%02d\n", ratio/100, ratio%100)
	}
	if err := os.WriteFile(os.Args[1], artifact, 0644); err != nil {
		fail("%v", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d bytes to %s.\n", len(artifact), os.Args[1])
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "compilefont: "+format+"\n", args...)
	os.Exit(1)
}
