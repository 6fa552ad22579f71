package textlayout

// Segment is one directionally uniform run of a shaping request, in rune
// offsets relative to the request's text.
type Segment struct {
	Start  int
	Length int
	RTL    bool
}

// RunSegmenter splits a character buffer into directionally uniform
// segments, driving a BidiEngine for the flag variants that request bidi
// analysis.
//
// Segmentation is deterministic: a fixed (text, flags) pair always yields
// the same ordered segment list. Every failure of the underlying engine
// degrades to a single best-effort segment, never an error.
type RunSegmenter struct {
	engine BidiEngine
}

// NewRunSegmenter creates a segmenter backed by the given bidi engine.
// A nil engine is allowed: segmentation then degrades to a single run
// with a direction inferred from the request flags.
func NewRunSegmenter(engine BidiEngine) *RunSegmenter {
	return &RunSegmenter{engine: engine}
}

// Segments returns the ordered segment list for text under the given
// direction flags. Empty text yields no segments.
func (s *RunSegmenter) Segments(text []rune, flags DirFlags) []Segment {
	if len(text) == 0 {
		return nil
	}

	// Force variants span the whole buffer; the bidi engine is not
	// consulted.
	if rtl, ok := flags.forced(); ok {
		return []Segment{{Start: 0, Length: len(text), RTL: rtl}}
	}

	if s.engine == nil {
		// Cannot run bidi, just consider one run.
		Logger().Debug("bidi engine unavailable, using single run",
			"flags", flags.String(), "len", len(text))
		return []Segment{{Start: 0, Length: len(text), RTL: flags.rtlHint()}}
	}

	defaultDir := flags == BidiDefaultLTR || flags == BidiDefaultRTL
	an, err := s.engine.Analyze(text, flags.rtlHint(), defaultDir)
	if err != nil {
		Logger().Debug("bidi analysis failed, using single run",
			"flags", flags.String(), "len", len(text), "err", err)
		return []Segment{{Start: 0, Length: len(text), RTL: flags.rtlHint()}}
	}

	// A single visual run collapses to one segment at the paragraph's
	// resolved base direction.
	if len(an.Runs) <= 1 {
		return []Segment{{Start: 0, Length: len(text), RTL: an.ParagraphRTL}}
	}

	segments := make([]Segment, 0, len(an.Runs))
	for _, run := range an.Runs {
		segments = append(segments, Segment{
			Start:  run.Start,
			Length: run.Length,
			RTL:    run.RTL,
		})
	}
	return segments
}
