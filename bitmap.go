package unibitmap

// Bitmap is a single 8x16 or 16x16 glyph bitmap. Each byte holds 8 pixels,
// highest-order bit leftmost; wide glyphs have two bytes per row, narrow
// glyphs one. A Bitmap is a view into its page's buffer, not a copy; loaded
// pages are never freed or moved, so the view stays valid for the lifetime
// of the Font it came from.
type Bitmap struct {
	bytes []byte
}

// Bytes returns the raw pixel bytes, 16 for a narrow glyph and 32 for a wide
// one. Callers must not modify them.
func (b Bitmap) Bytes() []byte { return b.bytes }

// IsWide reports whether the bitmap is wide (16x16) rather than narrow (8x16).
func (b Bitmap) IsWide() bool { return len(b.bytes) == wideBytes }

// Dimensions returns the pixel dimensions, width then height.
// Always (8, 16) or (16, 16).
func (b Bitmap) Dimensions() (width, height int) {
	if b.IsWide() {
		return 16, 16
	}
	return 8, 16
}
