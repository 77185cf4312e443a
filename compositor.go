package lensblur

import (
	"image"
	"math"
	"runtime"
	"sync"
)

// farOutside stands in for the distance of an empty field: far enough outside
// that it never wins a (smooth) max against a real glyph distance, small
// enough to stay well-behaved in float math.
const farOutside = -1e6

// FrameInputs are the per-frame read-only inputs to fragment evaluation.
// One value is built per frame and shared by every fragment.
type FrameInputs struct {
	// Resolution is the output surface size in device pixels.
	Resolution Vec2
	// PixelDensity converts UI coordinates to device pixels.
	PixelDensity float64
	// Pointer is the damped pointer position in UI coordinates (Y down).
	Pointer Vec2
	// Params is the current tuning, read once per frame.
	Params RenderParameters
}

// Compositor evaluates the dissolve field. It holds the glyph table uploaded
// by SetLayout plus the font scalars; everything mutable lives in FrameInputs,
// so Shade is a pure function of its arguments and fragments never observe
// each other. Safe for concurrent Shade calls; SetLayout must not race with a
// frame in flight.
type Compositor struct {
	atlas *AtlasImage

	// Fixed-capacity glyph table. Entries past the layout's count are
	// zero-area and therefore inert during evaluation.
	glyphs [MaxGlyphs]PlacedGlyph

	textWidth  float64
	bounds     Rect
	lineHeight float64
	distRange  float64

	// Glow selects the fully-dissolved field shape. Defaults to
	// GlowSmoothUnion.
	Glow GlowStyle
}

// NewCompositor builds a compositor for the given font and resident atlas.
// Returns an error if the atlas is missing or its dimensions disagree with
// the metrics. Call SetLayout before rendering.
func NewCompositor(font *FontMetrics, atlas *AtlasImage) (*Compositor, error) {
	if err := validateAtlas(atlas, font); err != nil {
		return nil, err
	}
	return &Compositor{
		atlas:      atlas,
		lineHeight: font.LineHeight,
		distRange:  font.DistanceRange,
	}, nil
}

// SetLayout uploads a text layout into the fixed glyph table. Call it when
// the text changes, not per frame.
func (c *Compositor) SetLayout(l *TextLayout) {
	c.glyphs = [MaxGlyphs]PlacedGlyph{}
	copy(c.glyphs[:], l.Glyphs)
	c.textWidth = l.Width
	c.bounds = l.Bounds
}

// mouseInfluence maps a normalized pointer distance to dissolve strength:
// 1 on the plateau within radius, 0 beyond falloff, a smooth Hermite feather
// in between.
func mouseInfluence(normDist, radius, falloff float64) float64 {
	return 1 - smoothstep(radius, falloff, normDist)
}

// coverage converts a signed fragment-space distance to pixel coverage using
// a smooth step centered on the shape edge with half-width blur.
func coverage(dist, blur float64) float64 {
	return smoothstep(-blur, blur, dist)
}

// Shade evaluates one fragment. frag is the fragment's position in device
// pixels with the origin at the bottom-left, Y up (callers converting from
// image rows flip once at the boundary; see Render). Returns coverage in
// [0, 1].
func (c *Compositor) Shade(frag Vec2, in FrameInputs) float64 {
	if c.textWidth <= 0 || in.Resolution.X <= 0 || in.Resolution.Y <= 0 {
		return 0
	}
	p := in.Params
	res := in.Resolution

	// Pointer from UI space (Y down) into fragment space (Y up).
	mouseX := in.Pointer.X * in.PixelDensity
	mouseY := res.Y - in.Pointer.Y*in.PixelDensity
	normDist := math.Hypot(frag.X-mouseX, frag.Y-mouseY) / (res.Y * 0.5)
	influence := mouseInfluence(normDist, p.MouseRadius, p.MouseFalloff)

	// Font units -> device pixels, text block centered in the viewport.
	scale := res.X * p.TextScaleFactor / c.textWidth
	blockW := c.textWidth * scale
	blockH := c.lineHeight * scale

	// Fragment into font-unit text-local space (Y down, origin at the top of
	// the line cell).
	fragYDown := res.Y - frag.Y
	local := Vec2{
		X: (frag.X - (res.X-blockW)*0.5) / scale,
		Y: (fragYDown - (res.Y-blockH)*0.5) / scale,
	}

	screenPxRange := c.distRange * scale
	k := screenPxRange * p.SmoothK

	crisp := farOutside
	union := farOutside
	for i := range c.glyphs {
		g := &c.glyphs[i]
		if g.Size.X <= 0 || g.Size.Y <= 0 {
			continue // inert entry past the layout's count
		}

		// Nearest point on the glyph's box; zero distance inside it.
		nx := clamp(local.X, g.Pos.X, g.Pos.X+g.Size.X)
		ny := clamp(local.Y, g.Pos.Y, g.Pos.Y+g.Size.Y)
		boxDist := math.Hypot(local.X-nx, local.Y-ny)

		u := g.UV.X + (nx-g.Pos.X)/g.Size.X*g.UV.Width
		v := g.UV.Y + (ny-g.Pos.Y)/g.Size.Y*g.UV.Height
		m := c.atlas.SampleMedian(u, v)

		// Signed fragment-space distance, positive inside the glyph and
		// continuous across the box boundary.
		d := screenPxRange*(m-0.5) - boxDist*scale

		if d > crisp {
			crisp = d
		}
		union = smoothMax(union, d, k)
	}

	var glow float64
	switch c.Glow {
	case GlowEnvelope:
		pad := 4 * p.SmoothK
		half := Vec2{
			X: c.bounds.Width*0.5 + pad,
			Y: c.bounds.Height*0.5 + pad,
		}
		center := Vec2{
			X: c.bounds.X + c.bounds.Width*0.5,
			Y: c.bounds.Y + c.bounds.Height*0.5,
		}
		radius := math.Min(half.X, half.Y) // half the shorter side
		glow = roundedBoxField(local, center, half, radius) * scale
	default:
		glow = union
	}

	dist := mix(crisp, glow, influence)
	blur := mix(0.5, screenPxRange*p.BlurMultiplier, influence)
	cov := coverage(dist, blur)
	cov *= mix(1, p.BrightnessBoost, influence)
	return clamp(cov, 0, 1)
}

// Render evaluates Shade for every pixel of dst, striping rows across
// GOMAXPROCS workers. Fragments share only read-only state, so the split is
// free of synchronization beyond the final join; output is identical to a
// serial loop.
func (c *Compositor) Render(dst *image.Gray, in FrameInputs) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > h {
		workers = h
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for start := 0; start < workers; start++ {
		go func(start int) {
			defer wg.Done()
			for y := start; y < h; y += workers {
				// Fragment space is Y up; image rows count down from the top.
				fragY := in.Resolution.Y - (float64(y) + 0.5)
				row := dst.Pix[y*dst.Stride : y*dst.Stride+w]
				for x := 0; x < w; x++ {
					cov := c.Shade(Vec2{X: float64(x) + 0.5, Y: fragY}, in)
					row[x] = uint8(cov*255 + 0.5)
				}
			}
		}(start)
	}
	wg.Wait()
}
