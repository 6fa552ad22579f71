package textlayout

import "errors"

// Sentinel errors for the textlayout package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("textlayout: empty font data")

	// ErrBufferTooSmall is returned by a ShapingEngine when the provided
	// glyph buffer cannot hold the shaped output. The engine records the
	// required capacity in ShapeBuffer.N; the Shaper grows the buffer and
	// retries. The error never escapes the shaping pipeline.
	ErrBufferTooSmall = errors.New("textlayout: glyph buffer too small")
)
