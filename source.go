package textlayout

import (
	"fmt"
	"os"
	"sync/atomic"
)

// nextFontID hands out process-unique font identities.
var nextFontID atomic.Uint64

// FontSource represents a loaded font file.
// FontSource is heavyweight and should be shared across the application;
// the shaping pipeline treats it as a stable identity plus raw data.
//
// FontSource is safe for concurrent use after creation.
type FontSource struct {
	// data is the raw font file contents (TTF or OTF).
	data []byte

	// id is a process-unique identity used in cache keys. Two sources
	// created from identical bytes still have distinct identities, the
	// same way two typeface objects would.
	id uint64
}

// NewFontSource creates a FontSource from font data (TTF or OTF).
// The data slice is copied internally and can be reused after this call.
func NewFontSource(data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	return &FontSource{
		data: dataCopy,
		id:   nextFontID.Add(1),
	}, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string) (*FontSource, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("textlayout: failed to read font file: %w", err)
	}

	return NewFontSource(data)
}

// ID returns the process-unique identity of this source.
// Cache keys use it to tell fonts apart without touching the font data.
func (s *FontSource) ID() uint64 {
	return s.id
}

// Close releases the font data. Shaping with a style that references a
// closed source degrades to zero-advance output.
func (s *FontSource) Close() error {
	s.data = nil
	return nil
}
