package unibitmap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrCorrupt is wrapped by every error that indicates damaged font data.
// The artifact is built offline and embedded read-only, so none of these
// conditions can be recovered from at run time; they mean the artifact was
// built or transported incorrectly.
var ErrCorrupt = errors.New("corrupt font data")

type pageInfo struct {
	uncompressedSize uint16
	compressedSize   uint16
	compressedOffset uint32 // into the artifact; meaningless if uncompressedSize == 0
	data             []byte // nil until loaded
}

// Font is a lookup cache over a compiled font artifact. Pages of 256
// codepoints are decompressed on first touch and kept for the lifetime of
// the instance; there is no eviction.
//
// A Font holds no locks. Loaded pages are never mutated or freed again, so
// GetBitmap may be called concurrently once the pages it touches are loaded;
// the mutating calls (LoadPage, LoadBitmap) require external serialization.
type Font struct {
	data  []byte
	pages []pageInfo // one entry per Unicode page, allocated once
}

// New opens a compiled font artifact. Only the page directory is
// decompressed; no page data is touched yet.
//
// The artifact must stay unmodified for the lifetime of the Font (consumers
// typically pass go:embed data, which is immutable anyway).
func New(data []byte) (*Font, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: artifact shorter than its length prefix", ErrCorrupt)
	}
	dirLen := int(binary.BigEndian.Uint32(data))
	if 4+dirLen > len(data) {
		return nil, fmt.Errorf("%w: page directory (%d bytes) extends past the artifact", ErrCorrupt, dirLen)
	}
	dir, err := inflate(data[4:4+dirLen], NumPages*4)
	if err != nil {
		return nil, fmt.Errorf("%w: page directory: %v", ErrCorrupt, err)
	}
	f := &Font{
		data:  data,
		pages: make([]pageInfo, NumPages),
	}
	offset := uint32(4 + dirLen)
	populated := 0
	for page := range f.pages {
		usize := binary.BigEndian.Uint16(dir[page*4:])
		csize := binary.BigEndian.Uint16(dir[page*4+2:])
		if usize == 0 {
			continue
		}
		f.pages[page] = pageInfo{
			uncompressedSize: usize,
			compressedSize:   csize,
			compressedOffset: offset,
		}
		offset += uint32(csize)
		populated++
	}
	if int64(offset) > int64(len(data)) {
		return nil, fmt.Errorf("%w: page data extends past the artifact", ErrCorrupt)
	}
	tracer().Debugf("opened font artifact: %d bytes, %d pages with glyphs", len(data), populated)
	return f, nil
}

// LoadPage decompresses one page into the cache. It is idempotent and is
// called implicitly by LoadBitmap; explicit calls are only useful as a
// prefetch before read-only GetBitmap lookups.
func (f *Font) LoadPage(page int) error {
	if page < 0 || page > MaxPage {
		return fmt.Errorf("page %d out of Unicode range", page)
	}
	info := &f.pages[page]
	if info.data != nil {
		return nil
	}
	if info.uncompressedSize == 0 {
		// a page without glyphs: every offset slot stays zero
		info.data = make([]byte, pageHeaderSize)
		return nil
	}
	if int(info.uncompressedSize) < pageHeaderSize {
		return fmt.Errorf("%w: page %#x advertises %d bytes, less than its header",
			ErrCorrupt, page, info.uncompressedSize)
	}
	end := int64(info.compressedOffset) + int64(info.compressedSize)
	if end > int64(len(f.data)) {
		return fmt.Errorf("%w: page %#x extends past the artifact", ErrCorrupt, page)
	}
	buf, err := inflate(f.data[info.compressedOffset:end], int(info.uncompressedSize))
	if err != nil {
		return fmt.Errorf("%w: page %#x: %v", ErrCorrupt, page, err)
	}
	// Rewrite the tag header into real data offsets, bit 0 carrying the
	// wide flag. The data region starts right after the header.
	offset := uint16(pageHeaderSize)
	for slot := 0; slot < 256; slot++ {
		i := slot * 2
		var out uint16
		switch tag := binary.BigEndian.Uint16(buf[i:]); tag {
		case tagAbsent:
			out = 0
		case tagNarrow:
			out = offset
			offset += narrowBytes
		case tagWide:
			out = offset | 1
			offset += wideBytes
		default:
			return fmt.Errorf("%w: page %#x: unknown tag %#04x in slot %d", ErrCorrupt, page, tag, slot)
		}
		binary.BigEndian.PutUint16(buf[i:], out)
	}
	if int(offset) != int(info.uncompressedSize) {
		return fmt.Errorf("%w: page %#x: glyph data is %d bytes, directory says %d",
			ErrCorrupt, page, offset, info.uncompressedSize)
	}
	info.data = buf
	return nil
}

// GetBitmap returns the bitmap for a codepoint, iff its page is already
// loaded. When the font has no glyph for the codepoint, the replacement
// character's bitmap is substituted, which additionally requires U+FFFD's
// page to be loaded; callers that rely on read-only lookups for arbitrary
// codepoints should prefetch that page (or use LoadBitmap once).
//
// GetBitmap never loads anything and is safe for concurrent use as long as
// no LoadPage/LoadBitmap call runs at the same time.
func (f *Font) GetBitmap(codepoint rune) (Bitmap, bool) {
	if codepoint < 0 || codepoint > MaxCodepoint {
		return Bitmap{}, false
	}
	buf := f.pages[codepoint>>8].data
	if buf == nil {
		return Bitmap{}, false
	}
	offset := binary.BigEndian.Uint16(buf[(codepoint&0xFF)*2:])
	if offset == 0 {
		if codepoint == ReplacementCodepoint {
			// the encoder refuses to build artifacts without U+FFFD
			panic("unibitmap: corrupt font data: no glyph for U+FFFD")
		}
		return f.GetBitmap(ReplacementCodepoint)
	}
	return pageBitmap(buf, offset), true
}

// LoadBitmap returns the bitmap for a codepoint, decompressing its page (and
// the replacement character's page, if the codepoint has no glyph of its own)
// as needed. It fails only on out-of-range codepoints and corrupt font data.
func (f *Font) LoadBitmap(codepoint rune) (Bitmap, error) {
	if codepoint < 0 || codepoint > MaxCodepoint {
		return Bitmap{}, fmt.Errorf("codepoint %#x out of Unicode range", codepoint)
	}
	page := int(codepoint >> 8)
	if err := f.LoadPage(page); err != nil {
		return Bitmap{}, err
	}
	buf := f.pages[page].data
	offset := binary.BigEndian.Uint16(buf[(codepoint&0xFF)*2:])
	if offset == 0 {
		if codepoint == ReplacementCodepoint {
			return Bitmap{}, fmt.Errorf("%w: no glyph for U+FFFD", ErrCorrupt)
		}
		return f.LoadBitmap(ReplacementCodepoint)
	}
	return pageBitmap(buf, offset), nil
}

// pageBitmap slices one glyph out of a loaded page buffer. offset is the
// rewritten header entry: bit 0 is the wide flag, the rest the byte offset.
func pageBitmap(buf []byte, offset uint16) Bitmap {
	n := narrowBytes
	if offset&1 != 0 {
		n = wideBytes
	}
	start := int(offset &^ 1)
	return Bitmap{bytes: buf[start : start+n : start+n]}
}

// inflate decompresses a zlib stream that must hold exactly size bytes.
func inflate(compressed []byte, size int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("decompressed to fewer than %d bytes: %v", size, err)
	}
	var excess [1]byte
	if n, err := r.Read(excess[:]); n != 0 || err != io.EOF {
		return nil, fmt.Errorf("decompressed to more than %d bytes", size)
	}
	return buf, nil
}
