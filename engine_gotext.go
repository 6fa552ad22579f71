package textlayout

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
)

// GoTextEngine is the default ShapingEngine, backed by
// go-text/typesetting's HarfBuzz implementation. It supports ligature
// substitution, kerning, contextual alternates and complex scripts.
//
// GoTextEngine is safe for concurrent use. It caches parsed font.Font
// objects (which are thread-safe) and creates lightweight font.Face
// instances per Shape() call (font.Face is NOT safe for concurrent use).
// The HarfbuzzShaper instances are pooled via sync.Pool since they also
// are not concurrent-safe.
type GoTextEngine struct {
	// shaperPool pools HarfbuzzShaper instances. HarfbuzzShaper has
	// internal mutable state (buffer) and is NOT safe for concurrent
	// use, but reusing across sequential calls is efficient.
	shaperPool sync.Pool

	// mu protects the font cache.
	mu sync.RWMutex

	// fontCache maps FontSource pointers to parsed go-text Font objects.
	// font.Font is read-only and safe for concurrent use, unlike
	// font.Face. This avoids re-parsing the font data on every Shape()
	// call.
	fontCache map[*FontSource]*font.Font
}

// NewGoTextEngine creates a shaping engine backed by go-text/typesetting.
func NewGoTextEngine() *GoTextEngine {
	return &GoTextEngine{
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		fontCache: make(map[*FontSource]*font.Font),
	}
}

// Shape implements the ShapingEngine interface.
//
// An unusable font (nil style, closed source, parse failure) is reported
// as degenerate output (buf.N == 0, nil error), never as an error: the
// pipeline's contract is local degradation.
func (e *GoTextEngine) Shape(style *Style, req ShapeRequest, buf *ShapeBuffer) error {
	buf.N = 0
	if style == nil || style.Font == nil || req.Length <= 0 {
		return nil
	}

	goTextFont, err := e.getOrCreateFont(style.Font)
	if err != nil {
		Logger().Debug("font unusable for shaping", "font", style.fontID(), "err", err)
		return nil
	}

	// font.Face is NOT safe for concurrent use, so each Shape() call
	// gets its own instance. font.NewFace is cheap, it wraps the
	// thread-safe *Font and initializes glyph caches.
	goTextFace := font.NewFace(goTextFont)

	dir := di.DirectionLTR
	if req.RTL {
		dir = di.DirectionRTL
	}

	input := shaping.Input{
		Text:      req.Text,
		RunStart:  req.Start,
		RunEnd:    req.Start + req.Length,
		Direction: dir,
		Face:      goTextFace,
		Size:      floatToFixed(style.Size),
		Script:    detectScript(req.Text[req.Start : req.Start+req.Length]),
		Language:  language.NewLanguage("en"),
	}

	// Get a HarfbuzzShaper from the pool (not concurrent-safe, so each
	// goroutine needs its own instance).
	hbShaper := e.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hbShaper.Shape(input)
	e.shaperPool.Put(hbShaper)

	n := len(output.Glyphs)
	if n > buf.Cap() {
		buf.N = n
		return ErrBufferTooSmall
	}

	// HarfBuzz emits RTL runs in visual order. The buffer contract is
	// logical order (clusters non-decreasing), so walk backwards for RTL.
	for i, g := range output.Glyphs {
		dst := i
		if req.RTL {
			dst = n - 1 - i
		}
		buf.Glyphs[dst] = GlyphID(uint16(g.GlyphID)) //nolint:gosec // GlyphID is uint16 by design
		buf.Advances[dst] = g.Advance
		buf.Clusters[dst] = g.TextIndex() - req.Start
	}
	buf.N = n
	return nil
}

// getOrCreateFont returns a cached go-text font.Font for the given
// source, or parses the font data and caches the Font (not Face).
// font.Font is read-only and safe for concurrent use.
func (e *GoTextEngine) getOrCreateFont(source *FontSource) (*font.Font, error) {
	// Fast path: check cache with read lock.
	e.mu.RLock()
	if f, ok := e.fontCache[source]; ok {
		e.mu.RUnlock()
		return f, nil
	}
	e.mu.RUnlock()

	// Slow path: parse font and update cache with write lock.
	e.mu.Lock()
	defer e.mu.Unlock()

	// Double-check after acquiring write lock.
	if f, ok := e.fontCache[source]; ok {
		return f, nil
	}

	reader := bytes.NewReader(source.data)
	goTextFace, err := font.ParseTTF(reader)
	if err != nil {
		return nil, err
	}

	// Cache the Font (thread-safe), not the Face.
	e.fontCache[source] = goTextFace.Font
	return goTextFace.Font, nil
}

// RemoveSource removes the cached parsed font for a specific FontSource.
// This is useful when a FontSource is closed.
func (e *GoTextEngine) RemoveSource(source *FontSource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.fontCache, source)
}

// ClearFonts removes all cached parsed fonts.
func (e *GoTextEngine) ClearFonts() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fontCache = make(map[*FontSource]*font.Font)
}

// detectScript inspects the runes and returns the script of the first
// non-space character. Runs handed to the engine are directionally
// uniform, which in practice keeps them script-uniform as well.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
