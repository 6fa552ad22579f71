// Package textlayout shapes runs of text into per-character advances,
// glyph ids and cluster mappings, and memoizes the results in a
// byte-budgeted cache.
//
// The shaping pipeline follows a separation of concerns:
//
//   - FontSource: Heavyweight, shared font resource (raw font data + identity)
//   - Style: Scalar shaping attributes (size, skew, scale, flags, hinting)
//   - RunSegmenter: Splits text into directionally uniform runs (bidi)
//   - Shaper: Drives a ShapingEngine per run and stitches the outputs
//   - ShapeCache: Byte-budgeted, generation-ordered store of shaped results
//
// # Example usage
//
//	// Load font (do once, share across application)
//	source, err := textlayout.NewFontSourceFromFile("Roboto-Regular.ttf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer source.Close()
//
//	style := &textlayout.Style{Font: source, Size: 16}
//
//	// One long-lived cache, passed to whatever needs shaping.
//	cache := textlayout.New(textlayout.DefaultConfig())
//	result := cache.Shape(style, []rune("Hello"), textlayout.BidiDefaultLTR)
//	width := result.TotalAdvance()
//
// # Pluggable engines
//
// The shaping engine and the bidi engine are abstracted through the
// ShapingEngine and BidiEngine interfaces. By default, shaping is backed
// by github.com/go-text/typesetting (HarfBuzz port) and bidi analysis by
// golang.org/x/text/unicode/bidi. Custom engines can be injected through
// Config for alternative implementations or testing.
//
// All failure modes of the pipeline degrade locally: an entry too large
// for the cache budget is recomputed on every call, a shaping engine
// buffer overflow is retried with a larger buffer, degenerate shaping
// output falls back to zero advances, and bidi analysis failures fall
// back to a single forced-direction run. Callers never observe an error
// from Shape.
package textlayout
