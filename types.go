package textlayout

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// GlyphID is a glyph index within a font.
type GlyphID uint16

// DirFlags selects how the direction of a shaping request is resolved.
//
// The explicit and default variants run the bidi algorithm over the text;
// the force variants skip it entirely and treat every character as having
// the forced direction.
type DirFlags int

const (
	// BidiLTR requests bidi analysis with a left-to-right base direction.
	BidiLTR DirFlags = iota
	// BidiRTL requests bidi analysis with a right-to-left base direction.
	BidiRTL
	// BidiDefaultLTR lets the first strong character pick the base
	// direction, defaulting to left-to-right.
	BidiDefaultLTR
	// BidiDefaultRTL lets the first strong character pick the base
	// direction, defaulting to right-to-left.
	BidiDefaultRTL
	// BidiForceLTR treats every character as left-to-right.
	BidiForceLTR
	// BidiForceRTL treats every character as right-to-left.
	BidiForceRTL
)

// String returns the string representation of the direction flags.
func (d DirFlags) String() string {
	switch d {
	case BidiLTR:
		return "LTR"
	case BidiRTL:
		return "RTL"
	case BidiDefaultLTR:
		return "DefaultLTR"
	case BidiDefaultRTL:
		return "DefaultRTL"
	case BidiForceLTR:
		return "ForceLTR"
	case BidiForceRTL:
		return "ForceRTL"
	default:
		return unknownStr
	}
}

// forced reports whether the flags bypass bidi analysis, and if so with
// which direction.
func (d DirFlags) forced() (rtl, ok bool) {
	switch d {
	case BidiForceLTR:
		return false, true
	case BidiForceRTL:
		return true, true
	default:
		return false, false
	}
}

// rtlHint returns the best-effort direction for the flags when no bidi
// analysis is available.
func (d DirFlags) rtlHint() bool {
	return d == BidiRTL || d == BidiDefaultRTL || d == BidiForceRTL
}

// Hinting specifies font hinting mode.
// The core treats it as an opaque key attribute.
type Hinting int

const (
	// HintingNone disables hinting.
	HintingNone Hinting = iota
	// HintingVertical applies vertical hinting only.
	HintingVertical
	// HintingFull applies full hinting.
	HintingFull
)

// String returns the string representation of the hinting.
func (h Hinting) String() string {
	switch h {
	case HintingNone:
		return "None"
	case HintingVertical:
		return "Vertical"
	case HintingFull:
		return "Full"
	default:
		return unknownStr
	}
}

// StyleFlags is a bitmask of style attributes that affect shaping output.
// The core does not interpret the bits; they participate in cache keys only.
type StyleFlags uint32

const (
	// FlagAntiAlias requests anti-aliased rendering.
	FlagAntiAlias StyleFlags = 1 << iota
	// FlagFakeBold requests synthetic emboldening.
	FlagFakeBold
	// FlagUnderline requests underlined text.
	FlagUnderline
	// FlagStrikeThrough requests struck-through text.
	FlagStrikeThrough
	// FlagDevKern requests device kerning.
	FlagDevKern
)

// Style holds the font identity and scalar attributes of a shaping
// request. The scalar fields are used as opaque comparison keys; only the
// default go-text engine interprets Font and Size.
type Style struct {
	// Font is the font source used for shaping.
	Font *FontSource

	// Size is the text size in pixels.
	Size float64

	// SkewX is the horizontal skew (oblique) factor.
	SkewX float64

	// ScaleX is the horizontal scale factor.
	ScaleX float64

	// Flags is the style-flag bitmask.
	Flags StyleFlags

	// Hinting is the hinting mode.
	Hinting Hinting
}

// fontID returns the stable identity of the style's font, or 0 when no
// font is set.
func (s *Style) fontID() uint64 {
	if s == nil || s.Font == nil {
		return 0
	}
	return s.Font.ID()
}
