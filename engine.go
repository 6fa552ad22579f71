package textlayout

import "golang.org/x/image/math/fixed"

// ShapeRequest selects one directionally uniform run of a character
// buffer for shaping. Text is the whole request buffer so the engine can
// use surrounding characters as shaping context; Start and Length select
// the run itself.
type ShapeRequest struct {
	Text   []rune
	Start  int
	Length int
	RTL    bool
}

// ShapeBuffer holds the preallocated output arrays for one engine call.
// len(Glyphs) is the buffer capacity; the three slices are always the
// same length.
//
// On success the engine fills the arrays in LOGICAL order (first glyph
// covers the run's first cluster, Clusters non-decreasing) and sets N to
// the glyph count. Reordering glyphs into visual order for RTL runs is
// the Shaper's job, not the engine's.
//
// On overflow the engine sets N to the required capacity and returns
// ErrBufferTooSmall.
type ShapeBuffer struct {
	// Glyphs receives the output glyph ids.
	Glyphs []GlyphID

	// Advances receives one advance per output glyph, in 26.6 fixed
	// point.
	Advances []fixed.Int26_6

	// Clusters receives one cluster index per output glyph: the offset,
	// relative to the run start, of the first character the glyph
	// covers.
	Clusters []int

	// N is the number of valid glyphs, or the required capacity when
	// Shape returned ErrBufferTooSmall.
	N int
}

// newShapeBuffer allocates a buffer with the given glyph capacity.
func newShapeBuffer(capacity int) *ShapeBuffer {
	return &ShapeBuffer{
		Glyphs:   make([]GlyphID, capacity),
		Advances: make([]fixed.Int26_6, capacity),
		Clusters: make([]int, capacity),
	}
}

// Cap returns the glyph capacity of the buffer.
func (b *ShapeBuffer) Cap() int {
	return len(b.Glyphs)
}

// ShapingEngine turns one run of characters into glyphs, advances and a
// cluster map. Implementations report two recoverable conditions instead
// of failing:
//
//   - the output exceeds the buffer capacity: return ErrBufferTooSmall
//     with the required capacity in buf.N (the Shaper grows and retries)
//   - degenerate state (unusable font, nothing to shape): return nil
//     with buf.N == 0 (the Shaper falls back to zero advances)
//
// The default implementation is GoTextEngine.
type ShapingEngine interface {
	Shape(style *Style, req ShapeRequest, buf *ShapeBuffer) error
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// floatToFixed converts a float64 value to fixed.Int26_6.
// The fixed-point representation uses 6 fractional bits, so we multiply by 64.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
