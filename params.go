package lensblur

// RenderParameters are the externally tunable scalars of the effect. The
// compositor reads them once per frame and never mutates or validates them;
// control surfaces are expected to keep values inside the declared ranges
// (see Clamped).
type RenderParameters struct {
	// TextScaleFactor is the fraction of the viewport width the text block
	// occupies.
	TextScaleFactor float64
	// BlurMultiplier scales the dissolve blur radius, in multiples of the
	// screen-space distance range.
	BlurMultiplier float64
	// BrightnessBoost multiplies coverage at full dissolve, compensating for
	// the dimming a wide blur causes.
	BrightnessBoost float64
	// MouseRadius is the normalized pointer distance inside which the
	// dissolve plateaus at full strength.
	MouseRadius float64
	// MouseFalloff is the normalized pointer distance beyond which the
	// pointer has no influence.
	MouseFalloff float64
	// SmoothK controls the glow field: the smooth-union merge radius, and
	// the envelope's bounding-box padding.
	SmoothK float64
	// MouseDampingRate is the exponential smoothing rate for pointer
	// movement, in 1/seconds.
	MouseDampingRate float64
}

// DefaultParameters returns the stock tuning.
func DefaultParameters() RenderParameters {
	return RenderParameters{
		TextScaleFactor:  0.65,
		BlurMultiplier:   10,
		BrightnessBoost:  2,
		MouseRadius:      0.15,
		MouseFalloff:     0.7,
		SmoothK:          0.8,
		MouseDampingRate: 8,
	}
}

// Declared parameter ranges. UI sliders should enforce these; the compositor
// itself does not.
var (
	RangeTextScaleFactor  = Range{0.05, 1.0}
	RangeBlurMultiplier   = Range{0, 20}
	RangeBrightnessBoost  = Range{1, 5}
	RangeMouseRadius      = Range{0, 1}
	RangeMouseFalloff     = Range{0.1, 2.0}
	RangeSmoothK          = Range{0.1, 5.0}
	RangeMouseDampingRate = Range{1, 20}
)

// Clamped returns a copy with every field limited to its declared range.
func (p RenderParameters) Clamped() RenderParameters {
	p.TextScaleFactor = RangeTextScaleFactor.Clamp(p.TextScaleFactor)
	p.BlurMultiplier = RangeBlurMultiplier.Clamp(p.BlurMultiplier)
	p.BrightnessBoost = RangeBrightnessBoost.Clamp(p.BrightnessBoost)
	p.MouseRadius = RangeMouseRadius.Clamp(p.MouseRadius)
	p.MouseFalloff = RangeMouseFalloff.Clamp(p.MouseFalloff)
	p.SmoothK = RangeSmoothK.Clamp(p.SmoothK)
	p.MouseDampingRate = RangeMouseDampingRate.Clamp(p.MouseDampingRate)
	return p
}
