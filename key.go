package textlayout

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// runeByteSize is the in-memory width of one text element, used for
// cache budget accounting.
const runeByteSize = 4

// shapeKeyBaseSize approximates the fixed per-key overhead counted
// against the cache budget, on top of the text payload.
const shapeKeyBaseSize = 64

// ShapeKey identifies one cacheable unit of shaping work: a run of text
// plus every style attribute that affects the shaped output.
//
// A key built by NewShapeKey references the caller's text without copying
// it and must not outlive the call it was built for. The cache promotes a
// key to owned storage (private text copy) at the moment it is inserted.
type ShapeKey struct {
	// text is the shaped characters. Non-owning until promoteToOwned.
	text []rune

	// count is the number of characters covered by the key.
	count int

	dirFlags DirFlags
	fontID   uint64
	size     float64
	skewX    float64
	scaleX   float64
	flags    StyleFlags
	hinting  Hinting
}

// NewShapeKey builds a lookup key from shaping parameters.
// The text slice is referenced, not copied.
func NewShapeKey(style *Style, text []rune, dirFlags DirFlags) ShapeKey {
	k := ShapeKey{
		text:     text,
		count:    len(text),
		dirFlags: dirFlags,
	}
	if style != nil {
		k.fontID = style.fontID()
		k.size = style.Size
		k.skewX = style.SkewX
		k.scaleX = style.ScaleX
		k.flags = style.Flags
		k.hinting = style.Hinting
	}
	return k
}

// Equal reports whether two keys identify the same unit of work: all
// scalar attributes equal and the text buffers equal over count elements.
func (k *ShapeKey) Equal(other *ShapeKey) bool {
	if k.count != other.count ||
		k.dirFlags != other.dirFlags ||
		k.fontID != other.fontID ||
		k.size != other.size ||
		k.skewX != other.skewX ||
		k.scaleX != other.scaleX ||
		k.flags != other.flags ||
		k.hinting != other.hinting {
		return false
	}
	for i := 0; i < k.count; i++ {
		if k.text[i] != other.text[i] {
			return false
		}
	}
	return true
}

// Compare defines a total order over keys, consistent with Equal, for
// callers that want to place keys in ordered containers. The order is
// lexicographic over (count, font, size, skew, scale, flags, hinting,
// direction flags) with a final text comparison as tie-breaker; it
// carries no semantic meaning.
func (k *ShapeKey) Compare(other *ShapeKey) int {
	if c := cmpInt(k.count, other.count); c != 0 {
		return c
	}
	if c := cmpUint64(k.fontID, other.fontID); c != 0 {
		return c
	}
	if c := cmpFloat(k.size, other.size); c != 0 {
		return c
	}
	if c := cmpFloat(k.skewX, other.skewX); c != 0 {
		return c
	}
	if c := cmpFloat(k.scaleX, other.scaleX); c != 0 {
		return c
	}
	if c := cmpUint64(uint64(k.flags), uint64(other.flags)); c != 0 {
		return c
	}
	if c := cmpInt(int(k.hinting), int(other.hinting)); c != 0 {
		return c
	}
	if c := cmpInt(int(k.dirFlags), int(other.dirFlags)); c != 0 {
		return c
	}
	for i := 0; i < k.count; i++ {
		if k.text[i] != other.text[i] {
			return cmpInt(int(k.text[i]), int(other.text[i]))
		}
	}
	return 0
}

// Size returns the number of bytes this key counts against the cache
// budget: fixed overhead plus the text payload.
func (k *ShapeKey) Size() int {
	return shapeKeyBaseSize + k.count*runeByteSize
}

// Text returns the characters the key covers. The returned slice must be
// treated as read-only.
func (k *ShapeKey) Text() []rune {
	return k.text
}

// promoteToOwned copies the referenced text into a private buffer so the
// key no longer aliases caller-owned memory. Called exactly once, when a
// miss result is inserted into the cache.
func (k *ShapeKey) promoteToOwned() {
	owned := make([]rune, k.count)
	copy(owned, k.text)
	k.text = owned
}

// hash computes an FNV-1a hash over all key fields for bucket placement.
func (k *ShapeKey) hash() uint64 {
	h := fnv.New64a()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(k.count))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], k.fontID)
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(k.size))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(k.skewX))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(k.scaleX))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(k.flags))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(k.hinting))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(k.dirFlags))
	_, _ = h.Write(buf[:])

	var rb [4]byte
	for _, r := range k.text {
		binary.LittleEndian.PutUint32(rb[:], uint32(r))
		_, _ = h.Write(rb[:])
	}
	return h.Sum64()
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
