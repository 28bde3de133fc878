// banner prints its arguments (or, without arguments, lines from standard
// input) as large sideways text rendered from a unibitmap font artifact:
//
//	banner -font unifont.dat "hello 世界"
//
// Each glyph pixel becomes a 2x2 block of ink characters; -blocks switches
// the ink from '#' to U+2588 FULL BLOCK, which looks better on terminals
// that render it full-cell.
//
// This is a demo consumer; it makes no attempt to handle combining
// characters or invisibles.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/unibitmap"
)

var (
	fontPath = flag.String("font", "unifont.dat", "compiled font artifact")
	blocks   = flag.Bool("blocks", false, "use U+2588 FULL BLOCK as ink instead of '#'")
)

func main() {
	flag.Parse()
	data, err := os.ReadFile(*fontPath)
	if err != nil {
		fail("%v", err)
	}
	font, err := unibitmap.New(data)
	if err != nil {
		fail("%v", err)
	}
	ink := "#"
	if *blocks {
		ink = "█"
	}
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	if flag.NArg() > 0 {
		for i, arg := range flag.Args() {
			if i > 0 {
				printBanner(out, font, ink, " ")
			}
			printBanner(out, font, ink, arg)
		}
		return
	}
	in := bufio.NewScanner(os.Stdin)
	first := true
	for in.Scan() {
		if !first {
			printBanner(out, font, ink, " ")
		}
		first = false
		printBanner(out, font, ink, in.Text())
	}
	if err := in.Err(); err != nil {
		fail("%v", err)
	}
}

// printBanner renders text rotated a quarter turn: glyph columns become
// output rows, so arbitrarily long text scrolls down the terminal.
func printBanner(out *bufio.Writer, font *unibitmap.Font, ink, text string) {
	for _, c := range text {
		bm, err := font.LoadBitmap(c)
		if err != nil {
			fail("%v", err)
		}
		width, _ := bm.Dimensions()
		pitch := 1
		if bm.IsWide() {
			pitch = 2
		}
		bits := bm.Bytes()
		for x := 0; x < width; x++ {
			for i := 0; i < 2; i++ {
				for y := 15; y >= 0; y-- {
					b := bits[x/8+y*pitch]
					cell := "  "
					if b&(0x80>>(x%8)) != 0 {
						cell = ink + ink
					}
					out.WriteString(cell)
				}
				out.WriteString("\n")
			}
		}
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "banner: "+format+"\n", args...)
	os.Exit(1)
}
