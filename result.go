package textlayout

import "time"

// float64ByteSize and intByteSize are element widths used for cache
// budget accounting.
const (
	float64ByteSize = 8
	intByteSize     = 8
	glyphIDByteSize = 2
)

// shapedResultBaseSize approximates the fixed per-result overhead counted
// against the cache budget, on top of the slice payloads.
const shapedResultBaseSize = 96

// ShapedResult holds the computed output for one shaping request:
// per-character advances, output glyphs in visual order, and the logical
// cluster index of each glyph.
//
// Results returned by the cache are shared and read-only. The cache owns
// the underlying buffers; callers must not mutate them.
type ShapedResult struct {
	// advances holds one advance per source character. Characters that
	// join a preceding character's cluster (ligatures) have advance 0;
	// the cluster's full advance is attributed to its first character.
	advances []float64

	// totalAdvance is the sum of all distinct cluster advances.
	totalAdvance float64

	// glyphs holds the output glyph ids in visual order.
	glyphs []GlyphID

	// clusters holds one logical cluster index per output glyph, shifted
	// across run boundaries so the indices stay valid offsets into the
	// combined glyph sequence.
	clusters []int

	// elapsed is how long the shaping computation took.
	elapsed time.Duration
}

// Advances returns the per-character advances. len(Advances()) equals the
// character count of the request. The slice is read-only.
func (r *ShapedResult) Advances() []float64 {
	return r.advances
}

// TotalAdvance returns the total advance of the shaped text.
func (r *ShapedResult) TotalAdvance() float64 {
	return r.totalAdvance
}

// Glyphs returns the output glyph ids in visual order. The slice is
// read-only.
func (r *ShapedResult) Glyphs() []GlyphID {
	return r.glyphs
}

// Clusters returns the logical cluster index of each output glyph. The
// slice is read-only.
func (r *ShapedResult) Clusters() []int {
	return r.clusters
}

// ComputeTime returns how long the shaping computation took.
func (r *ShapedResult) ComputeTime() time.Duration {
	return r.elapsed
}

// AdvancesRange copies count advances starting at the given character
// offset into dst and returns the number copied.
func (r *ShapedResult) AdvancesRange(start, count int, dst []float64) int {
	if start < 0 || start >= len(r.advances) {
		return 0
	}
	end := start + count
	if end > len(r.advances) {
		end = len(r.advances)
	}
	return copy(dst, r.advances[start:end])
}

// TotalAdvanceRange returns the summed advance of the characters in
// [start, start+count).
func (r *ShapedResult) TotalAdvanceRange(start, count int) float64 {
	total := 0.0
	for i := start; i < start+count && i < len(r.advances); i++ {
		if i < 0 {
			continue
		}
		total += r.advances[i]
	}
	return total
}

// GlyphRange returns the index of the first output glyph covering the
// character range [start, start+count) and the number of glyphs covered.
func (r *ShapedResult) GlyphRange(start, count int) (glyphStart, glyphCount int) {
	if count == 0 || len(r.glyphs) == 0 {
		return 0, 0
	}
	end := 0
	for i := 0; i < len(r.glyphs); i++ {
		if r.clusters[i] <= start {
			glyphStart = i
			end = i
			continue
		}
		if r.clusters[i] <= start+count {
			end = i
		}
	}
	return glyphStart, end - glyphStart + 1
}

// Size returns the number of bytes this result counts against the cache
// budget: fixed overhead plus the advance, glyph and cluster payloads.
func (r *ShapedResult) Size() int {
	return shapedResultBaseSize +
		len(r.advances)*float64ByteSize +
		len(r.glyphs)*glyphIDByteSize +
		len(r.clusters)*intByteSize
}
