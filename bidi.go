package textlayout

import (
	"errors"

	"golang.org/x/text/unicode/bidi"
)

// BidiRun is one directionally uniform run reported by a BidiEngine,
// in rune offsets relative to the analyzed text.
type BidiRun struct {
	Start  int
	Length int
	RTL    bool
}

// BidiAnalysis is the outcome of bidi analysis over one paragraph of text.
type BidiAnalysis struct {
	// ParagraphRTL is the resolved base direction of the paragraph.
	ParagraphRTL bool

	// Runs lists the visual runs in visual order.
	Runs []BidiRun
}

// BidiEngine analyzes a character buffer into directionally uniform runs.
// An analysis error makes the segmenter fall back to a single run; a nil
// engine (engine unavailable) falls back to a direction inferred from the
// request flags.
type BidiEngine interface {
	// Analyze resolves the visual runs of text using the requested base
	// direction. defaultDir reports whether the base direction is only a
	// default, to be overridden by the first strong character.
	Analyze(text []rune, rtl, defaultDir bool) (BidiAnalysis, error)
}

// errBidiOrder is returned when the bidi algorithm cannot order the text.
var errBidiOrder = errors.New("textlayout: bidi ordering failed")

// XTextBidiEngine is the default BidiEngine, backed by
// golang.org/x/text/unicode/bidi.
type XTextBidiEngine struct{}

// NewBidiEngine returns the default bidi engine.
func NewBidiEngine() *XTextBidiEngine {
	return &XTextBidiEngine{}
}

// Analyze implements BidiEngine using the x/text implementation of UAX#9.
//
// x/text exposes the base direction as a default only, so an explicit
// base request maps to the matching default; for text with a strong
// leading character the two behave identically.
func (e *XTextBidiEngine) Analyze(text []rune, rtl, defaultDir bool) (BidiAnalysis, error) {
	dir := bidi.LeftToRight
	if rtl {
		dir = bidi.RightToLeft
	}

	var p bidi.Paragraph
	if _, err := p.SetString(string(text), bidi.DefaultDirection(dir)); err != nil {
		return BidiAnalysis{}, err
	}

	ordering, err := p.Order()
	if err != nil {
		return BidiAnalysis{}, errBidiOrder
	}

	an := BidiAnalysis{
		ParagraphRTL: !p.IsLeftToRight(),
		Runs:         make([]BidiRun, 0, ordering.NumRuns()),
	}

	// run.Pos() returns RUNE indices (start, end inclusive)
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		start, end := run.Pos()
		an.Runs = append(an.Runs, BidiRun{
			Start:  start,
			Length: end - start + 1,
			RTL:    run.Direction() == bidi.RightToLeft,
		})
	}
	reorderVisual(an.Runs, an.ParagraphRTL)
	return an, nil
}

// reorderVisual rearranges logical-order runs into visual order (UBA rule
// L2 for the two embedding levels x/text resolves): in an LTR paragraph
// each maximal sequence of RTL runs is reversed in place, in an RTL
// paragraph the higher-level LTR runs keep their order while the whole
// run list is read right to left, which amounts to reversing it.
func reorderVisual(runs []BidiRun, paragraphRTL bool) {
	if paragraphRTL {
		reverseRuns(runs)
		return
	}
	for i := 0; i < len(runs); {
		if !runs[i].RTL {
			i++
			continue
		}
		j := i
		for j < len(runs) && runs[j].RTL {
			j++
		}
		reverseRuns(runs[i:j])
		i = j
	}
}

func reverseRuns(runs []BidiRun) {
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
}
