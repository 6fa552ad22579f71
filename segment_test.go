package textlayout

import (
	"errors"
	"reflect"
	"testing"
)

// =============================================================================
// RunSegmenter Tests
// =============================================================================

func TestRunSegmenter_EmptyText(t *testing.T) {
	s := NewRunSegmenter(NewBidiEngine())
	if segs := s.Segments(nil, BidiDefaultLTR); len(segs) != 0 {
		t.Errorf("empty text: got %d segments, want 0", len(segs))
	}
}

// TestRunSegmenter_Forced covers the force-all variants: one segment
// spanning the buffer, bidi engine never consulted.
func TestRunSegmenter_Forced(t *testing.T) {
	tests := []struct {
		name    string
		flags   DirFlags
		wantRTL bool
	}{
		{"ForceLTR", BidiForceLTR, false},
		{"ForceRTL", BidiForceRTL, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A failing fake proves the engine is not consulted.
			bidi := &fakeBidi{err: errors.New("must not be called")}
			s := NewRunSegmenter(bidi)

			text := []rune("abcde")
			segs := s.Segments(text, tt.flags)
			if len(segs) != 1 {
				t.Fatalf("got %d segments, want 1", len(segs))
			}
			want := Segment{Start: 0, Length: 5, RTL: tt.wantRTL}
			if segs[0] != want {
				t.Errorf("segment = %+v, want %+v", segs[0], want)
			}
		})
	}
}

// TestRunSegmenter_NilEngine verifies the engine-unavailable fallback:
// a single segment with the direction inferred from the flags.
func TestRunSegmenter_NilEngine(t *testing.T) {
	s := NewRunSegmenter(nil)
	text := []rune("abc")

	tests := []struct {
		flags   DirFlags
		wantRTL bool
	}{
		{BidiLTR, false},
		{BidiRTL, true},
		{BidiDefaultLTR, false},
		{BidiDefaultRTL, true},
	}
	for _, tt := range tests {
		segs := s.Segments(text, tt.flags)
		if len(segs) != 1 {
			t.Fatalf("%v: got %d segments, want 1", tt.flags, len(segs))
		}
		if segs[0].RTL != tt.wantRTL {
			t.Errorf("%v: RTL = %v, want %v", tt.flags, segs[0].RTL, tt.wantRTL)
		}
	}
}

// TestRunSegmenter_AnalysisError verifies the analysis-failure fallback.
func TestRunSegmenter_AnalysisError(t *testing.T) {
	bidi := &fakeBidi{err: errors.New("bad input")}
	s := NewRunSegmenter(bidi)

	segs := s.Segments([]rune("abc"), BidiDefaultRTL)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if !segs[0].RTL {
		t.Errorf("RTL = false, want true (inferred from BidiDefaultRTL)")
	}
}

// TestRunSegmenter_SingleRunCollapse verifies that a one-run analysis
// yields one segment at the paragraph's resolved base direction.
func TestRunSegmenter_SingleRunCollapse(t *testing.T) {
	bidi := &fakeBidi{
		analysis: BidiAnalysis{
			ParagraphRTL: true,
			Runs:         []BidiRun{{Start: 0, Length: 3, RTL: true}},
		},
	}
	s := NewRunSegmenter(bidi)

	segs := s.Segments([]rune("abc"), BidiDefaultLTR)
	want := []Segment{{Start: 0, Length: 3, RTL: true}}
	if !reflect.DeepEqual(segs, want) {
		t.Errorf("segments = %+v, want %+v", segs, want)
	}
}

// TestRunSegmenter_LatinOnly runs the real bidi engine over pure Latin
// text: one segment, LTR.
func TestRunSegmenter_LatinOnly(t *testing.T) {
	s := NewRunSegmenter(NewBidiEngine())

	segs := s.Segments([]rune("Hello world"), BidiDefaultLTR)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].RTL {
		t.Error("Latin text resolved RTL")
	}
	if segs[0].Start != 0 || segs[0].Length != 11 {
		t.Errorf("segment = %+v, want whole buffer", segs[0])
	}
}

// TestRunSegmenter_HebrewOnly runs the real bidi engine over pure Hebrew
// text with a default-LTR request: the paragraph resolves RTL.
func TestRunSegmenter_HebrewOnly(t *testing.T) {
	s := NewRunSegmenter(NewBidiEngine())

	text := []rune("שלום")
	segs := s.Segments(text, BidiDefaultLTR)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if !segs[0].RTL {
		t.Error("Hebrew text resolved LTR, want RTL")
	}
	if segs[0].Length != len(text) {
		t.Errorf("segment length = %d, want %d", segs[0].Length, len(text))
	}
}

// TestRunSegmenter_Mixed runs the real bidi engine over mixed Latin and
// Hebrew text: at least two runs, directions alternating, full coverage.
func TestRunSegmenter_Mixed(t *testing.T) {
	s := NewRunSegmenter(NewBidiEngine())

	text := []rune("abc שלום")
	segs := s.Segments(text, BidiDefaultLTR)
	if len(segs) < 2 {
		t.Fatalf("got %d segments, want >= 2", len(segs))
	}
	if segs[0].RTL {
		t.Error("first segment RTL, want LTR (Latin prefix)")
	}
	if !segs[len(segs)-1].RTL {
		t.Error("last segment LTR, want RTL (Hebrew suffix)")
	}

	total := 0
	for _, seg := range segs {
		if seg.Length <= 0 {
			t.Errorf("segment %+v has non-positive length", seg)
		}
		total += seg.Length
	}
	if total != len(text) {
		t.Errorf("segments cover %d runes, want %d", total, len(text))
	}
}

// TestRunSegmenter_MixedRTLBase runs the real bidi engine over a Hebrew
// paragraph with an embedded Latin run: the Latin run is rendered
// leftmost, so it must come first in the segment list even though the
// Hebrew run comes first logically.
func TestRunSegmenter_MixedRTLBase(t *testing.T) {
	s := NewRunSegmenter(NewBidiEngine())

	text := []rune("שלום abc")
	segs := s.Segments(text, BidiDefaultRTL)
	if len(segs) < 2 {
		t.Fatalf("got %d segments, want >= 2", len(segs))
	}
	if segs[0].RTL {
		t.Error("first segment RTL, want LTR (embedded Latin renders leftmost)")
	}
	if segs[0].Start != 5 || segs[0].Length != 3 {
		t.Errorf("first segment = %+v, want start=5 len=3 (the Latin run)", segs[0])
	}
	last := segs[len(segs)-1]
	if !last.RTL || last.Start != 0 {
		t.Errorf("last segment = %+v, want the leading Hebrew run", last)
	}

	total := 0
	for _, seg := range segs {
		total += seg.Length
	}
	if total != len(text) {
		t.Errorf("segments cover %d runes, want %d", total, len(text))
	}
}

// TestRunSegmenter_Deterministic verifies that a fixed (text, flags)
// pair always yields the same ordered segment list.
func TestRunSegmenter_Deterministic(t *testing.T) {
	s := NewRunSegmenter(NewBidiEngine())
	text := []rune("one שתיים three ארבע")

	first := s.Segments(text, BidiDefaultLTR)
	for i := 0; i < 10; i++ {
		if got := s.Segments(text, BidiDefaultLTR); !reflect.DeepEqual(got, first) {
			t.Fatalf("iteration %d: segments differ:\n got %+v\nwant %+v", i, got, first)
		}
	}
}

// =============================================================================
// XTextBidiEngine Tests
// =============================================================================

func TestBidiEngine_RuneIndexedRuns(t *testing.T) {
	e := NewBidiEngine()

	// Multi-byte runes: run offsets must be rune indices, not bytes.
	text := []rune("aב")
	an, err := e.Analyze(text, false, true)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(an.Runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(an.Runs))
	}
	if an.Runs[0].Start != 0 || an.Runs[0].Length != 1 {
		t.Errorf("run[0] = %+v, want start=0 len=1", an.Runs[0])
	}
	if an.Runs[1].Start != 1 || an.Runs[1].Length != 1 {
		t.Errorf("run[1] = %+v, want start=1 len=1", an.Runs[1])
	}
}

// TestBidiEngine_VisualRunOrder verifies that Analyze reports runs in
// visual order, not logical order: in an RTL paragraph the run list is
// read right to left, in an LTR paragraph embedded RTL runs keep their
// position.
func TestBidiEngine_VisualRunOrder(t *testing.T) {
	e := NewBidiEngine()

	// RTL base: the logically-first Hebrew run renders rightmost, so the
	// Latin run leads the visual run list.
	an, err := e.Analyze([]rune("שלום abc"), true, true)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(an.Runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(an.Runs))
	}
	if an.Runs[0].RTL || an.Runs[0].Start != 5 {
		t.Errorf("run[0] = %+v, want the Latin run (start=5, LTR)", an.Runs[0])
	}
	if !an.Runs[1].RTL || an.Runs[1].Start != 0 {
		t.Errorf("run[1] = %+v, want the Hebrew run (start=0, RTL)", an.Runs[1])
	}

	// LTR base: logical and visual order coincide.
	an, err = e.Analyze([]rune("abc שלום"), false, true)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(an.Runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(an.Runs))
	}
	if an.Runs[0].RTL {
		t.Errorf("run[0] = %+v, want the Latin run first", an.Runs[0])
	}
}

func TestBidiEngine_ReorderContiguousRTL(t *testing.T) {
	// LTR paragraph with two adjacent RTL runs: the sequence renders
	// right to left as a block, so the pair swaps while the surrounding
	// LTR runs stay put.
	runs := []BidiRun{
		{Start: 0, Length: 2, RTL: false},
		{Start: 2, Length: 2, RTL: true},
		{Start: 4, Length: 2, RTL: true},
		{Start: 6, Length: 2, RTL: false},
	}
	reorderVisual(runs, false)

	want := []BidiRun{
		{Start: 0, Length: 2, RTL: false},
		{Start: 4, Length: 2, RTL: true},
		{Start: 2, Length: 2, RTL: true},
		{Start: 6, Length: 2, RTL: false},
	}
	if !reflect.DeepEqual(runs, want) {
		t.Errorf("visual order = %+v, want %+v", runs, want)
	}
}

func TestBidiEngine_ParagraphDirection(t *testing.T) {
	e := NewBidiEngine()

	an, err := e.Analyze([]rune("שלום"), false, true)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !an.ParagraphRTL {
		t.Error("Hebrew paragraph resolved LTR, want RTL")
	}

	an, err = e.Analyze([]rune("hello"), true, true)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if an.ParagraphRTL {
		t.Error("Latin paragraph resolved RTL, want LTR")
	}
}
