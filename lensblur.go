package lensblur

// Vec2 is a 2D vector used for positions, offsets, and sizes throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward. Also used for normalized atlas UV
// rectangles, where all fields lie in [0, 1].
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a min/max range for a tunable parameter.
type Range struct {
	Min, Max float64
}

// Clamp returns v limited to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// MaxGlyphs is the compiled glyph capacity of the compositor. Layout emits at
// most this many quads; anything past it is dropped and signalled via
// TextLayout.Truncated. The Kage shader's uniform arrays are sized to match.
const MaxGlyphs = 32

// GlowStyle selects how the fully-dissolved "glow" field is shaped.
type GlowStyle uint8

const (
	// GlowSmoothUnion merges the per-glyph distance fields with a polynomial
	// smooth maximum, producing an organic silhouette that hugs the
	// letterforms. This is the default.
	GlowSmoothUnion GlowStyle = iota
	// GlowEnvelope uses a rounded-rectangle field over the text's padded
	// bounding box, producing a pill-shaped halo around the whole line.
	GlowEnvelope
)

// String returns the style name for debugging and UI display.
func (s GlowStyle) String() string {
	switch s {
	case GlowSmoothUnion:
		return "smooth-union"
	case GlowEnvelope:
		return "envelope"
	default:
		return "unknown"
	}
}
