package textlayout

import "errors"

// initialBufferSlack mirrors the classic shaping heuristic: script runs
// rarely produce more than twice as many glyphs as there are code points,
// plus a bit of padding.
const initialBufferSlack = 2

// maxGlyphExpansion bounds the buffer-growth retry loop: no plausible
// font expands one character into more than this many glyphs, so an
// engine that keeps demanding more capacity is faulty and the run
// degrades to zero advances instead of looping forever.
const maxGlyphExpansion = 64

// Shaper computes shaped values for a whole request: it segments the text
// into directionally uniform runs, drives the shaping engine per run with
// buffer-growth retry, and stitches the per-run outputs into a single
// ShapedResult.
//
// Shaper is safe for concurrent use if its engine and segmenter are.
type Shaper struct {
	engine    ShapingEngine
	segmenter *RunSegmenter
}

// NewShaper creates a shaper over the given engine and segmenter.
func NewShaper(engine ShapingEngine, segmenter *RunSegmenter) *Shaper {
	return &Shaper{engine: engine, segmenter: segmenter}
}

// ComputeValues shapes text under the given style and direction flags.
// The result always satisfies len(result.Advances()) == len(text); every
// engine failure mode degrades to zero advances for the affected run.
func (sh *Shaper) ComputeValues(style *Style, text []rune, flags DirFlags) *ShapedResult {
	res := &ShapedResult{
		advances: make([]float64, 0, len(text)),
		glyphs:   make([]GlyphID, 0, len(text)),
		clusters: make([]int, 0, len(text)),
	}

	for _, seg := range sh.segmenter.Segments(text, flags) {
		sh.appendRun(res, style, text, seg)
	}
	return res
}

// appendRun shapes one segment and appends its advances, glyphs and
// shifted cluster indices to the combined result.
func (sh *Shaper) appendRun(res *ShapedResult, style *Style, text []rune, seg Segment) {
	buf := sh.shapeWithRetry(style, text, seg)

	if buf == nil || buf.N == 0 || len(buf.Advances) == 0 {
		// Degenerate engine output: keep the advance array aligned with
		// the character count and contribute nothing to the total.
		Logger().Debug("degenerate shaping output",
			"start", seg.Start, "len", seg.Length, "rtl", seg.RTL)
		for i := 0; i < seg.Length; i++ {
			res.advances = append(res.advances, 0)
		}
		return
	}

	n := buf.N

	// Advance of each cluster is the summed advance of its glyphs.
	clusterAdv := make([]float64, seg.Length)
	for g := 0; g < n; g++ {
		if c := buf.Clusters[g]; c >= 0 && c < seg.Length {
			clusterAdv[c] += fixedToFloat(buf.Advances[g])
		}
	}

	// Resolve each character to its cluster. Clusters are non-decreasing
	// in logical order, so a single forward walk suffices.
	gi := 0
	prevCluster := -1
	for i := 0; i < seg.Length; i++ {
		for gi+1 < n && buf.Clusters[gi+1] <= i {
			gi++
		}
		cluster := buf.Clusters[gi]
		if cluster < 0 || cluster >= seg.Length {
			// Engine violated the cluster-range contract; degrade the
			// affected character instead of faulting.
			res.advances = append(res.advances, 0)
			continue
		}

		// A character joining the previous character's cluster
		// contributes 0; the full advance was already attributed to the
		// cluster's first character.
		if cluster == prevCluster {
			res.advances = append(res.advances, 0)
			continue
		}
		adv := clusterAdv[cluster]
		res.advances = append(res.advances, adv)
		res.totalAdvance += adv
		prevCluster = cluster
	}

	// Glyphs go out in visual order; cluster indices stay in logical
	// order, shifted by the clusters emitted by prior runs so they
	// remain valid offsets into the combined sequence.
	shift := len(res.clusters)
	for g := 0; g < n; g++ {
		src := g
		if seg.RTL {
			src = n - 1 - g
		}
		res.glyphs = append(res.glyphs, buf.Glyphs[src])
		res.clusters = append(res.clusters, buf.Clusters[g]+shift)
	}
}

// shapeWithRetry invokes the engine over one segment, doubling the glyph
// buffer on overflow. Capacity strictly increases and is capped at
// maxGlyphExpansion glyphs per character, so the loop always terminates;
// hitting the cap degrades to the zero-advance path.
func (sh *Shaper) shapeWithRetry(style *Style, text []rune, seg Segment) *ShapeBuffer {
	req := ShapeRequest{
		Text:   text,
		Start:  seg.Start,
		Length: seg.Length,
		RTL:    seg.RTL,
	}

	capacity := (seg.Length + initialBufferSlack) * 2
	maxCapacity := seg.Length * maxGlyphExpansion
	if maxCapacity < capacity {
		maxCapacity = capacity
	}

	for {
		buf := newShapeBuffer(capacity)
		err := sh.engine.Shape(style, req, buf)
		if err == nil {
			return buf
		}
		if !errors.Is(err, ErrBufferTooSmall) {
			Logger().Debug("shaping engine failed",
				"start", seg.Start, "len", seg.Length, "err", err)
			return nil
		}
		if capacity >= maxCapacity {
			Logger().Debug("glyph buffer growth exceeded cap",
				"capacity", capacity, "len", seg.Length)
			return nil
		}

		// The engine reports the needed size in buf.N; grow past it.
		next := buf.N * 2
		if next <= capacity {
			next = capacity * 2
		}
		if next > maxCapacity {
			next = maxCapacity
		}
		Logger().Debug("growing glyph buffer", "from", capacity, "to", next)
		capacity = next
	}
}
