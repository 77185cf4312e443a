package lensblur

import (
	"image"
	"math"
	"testing"
)

// --- compositor fixture ---

// compFntData pairs with makeTestAtlas: a 64x64 atlas holding two 16x16
// glyphs, A at (8,8) and B at (40,8).
const compFntData = `info face="CompFont" size=16
common lineHeight=20 base=16 scaleW=64 scaleH=64 pages=1 packed=0
distanceField fieldType=msdf distanceRange=4
chars count=3
char id=32 x=0  y=0 width=0  height=0  xoffset=0 yoffset=0 xadvance=8  page=0
char id=65 x=8  y=8 width=16 height=16 xoffset=0 yoffset=0 xadvance=16 page=0
char id=66 x=40 y=8 width=16 height=16 xoffset=0 yoffset=0 xadvance=16 page=0
`

// makeTestAtlas builds a synthetic MSDF atlas: all three channels saturated
// inside each glyph's rect (decoded distance 1.0 = deep inside), zero
// elsewhere. Bilinear filtering puts the 0.5 edge crossing exactly on the
// rect boundary.
func makeTestAtlas() *AtlasImage {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	fill := func(x0, y0, x1, y1 int) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				i := img.PixOffset(x, y)
				img.Pix[i+0] = 255
				img.Pix[i+1] = 255
				img.Pix[i+2] = 255
				img.Pix[i+3] = 255
			}
		}
	}
	fill(8, 8, 24, 24)
	fill(40, 8, 56, 24)
	return NewAtlasImage(img)
}

func makeTestCompositor(t *testing.T, text string) (*Compositor, *FontMetrics) {
	t.Helper()
	m, err := LoadFontMetrics([]byte(compFntData))
	if err != nil {
		t.Fatalf("LoadFontMetrics: %v", err)
	}
	c, err := NewCompositor(m, makeTestAtlas())
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	c.SetLayout(Layout(text, m))
	return c, m
}

// farInputs returns FrameInputs with the pointer far enough away that
// mouseInfluence is exactly zero.
func farInputs() FrameInputs {
	return FrameInputs{
		Resolution:   Vec2{X: 320, Y: 240},
		PixelDensity: 1,
		Pointer:      Vec2{X: 1e6, Y: 1e6},
		Params:       DefaultParameters(),
	}
}

// fragAt maps font-unit text-local coordinates to fragment space for the
// given inputs and layout width, inverting the compositor's step 3.
func fragAt(local Vec2, in FrameInputs, textWidth, lineHeight float64) Vec2 {
	scale := in.Resolution.X * in.Params.TextScaleFactor / textWidth
	blockW := textWidth * scale
	blockH := lineHeight * scale
	fragX := local.X*scale + (in.Resolution.X-blockW)*0.5
	fragYDown := local.Y*scale + (in.Resolution.Y-blockH)*0.5
	return Vec2{X: fragX, Y: in.Resolution.Y - fragYDown}
}

// --- construction ---

func TestNewCompositor_MissingAtlas(t *testing.T) {
	m, err := LoadFontMetrics([]byte(compFntData))
	if err != nil {
		t.Fatalf("LoadFontMetrics: %v", err)
	}
	if _, err := NewCompositor(m, nil); err == nil {
		t.Error("expected error for nil atlas, got nil")
	}
}

func TestNewCompositor_AtlasDimensionMismatch(t *testing.T) {
	m, err := LoadFontMetrics([]byte(compFntData))
	if err != nil {
		t.Fatalf("LoadFontMetrics: %v", err)
	}
	small := NewAtlasImage(image.NewRGBA(image.Rect(0, 0, 32, 32)))
	if _, err := NewCompositor(m, small); err == nil {
		t.Error("expected error for 32x32 atlas with 64x64 metrics, got nil")
	}
}

// --- mouse influence ---

func TestMouseInfluence_PlateauAndFeather(t *testing.T) {
	const radius, falloff = 0.15, 0.7

	if got := mouseInfluence(0, radius, falloff); got != 1 {
		t.Errorf("influence at distance 0 = %f, want 1", got)
	}
	if got := mouseInfluence(radius, radius, falloff); got != 1 {
		t.Errorf("influence at radius = %f, want 1 (plateau)", got)
	}
	if got := mouseInfluence(falloff, radius, falloff); got != 0 {
		t.Errorf("influence at falloff = %f, want 0", got)
	}
	if got := mouseInfluence(falloff*2, radius, falloff); got != 0 {
		t.Errorf("influence beyond falloff = %f, want 0", got)
	}

	prev := math.Inf(1)
	for d := 0.0; d <= 1.0; d += 0.005 {
		v := mouseInfluence(d, radius, falloff)
		if v > prev {
			t.Fatalf("influence not non-increasing at distance %f: %f > %f", d, v, prev)
		}
		prev = v
	}
}

func TestCoverage_MonotoneInDist(t *testing.T) {
	prev := math.Inf(-1)
	for d := -10.0; d <= 10.0; d += 0.1 {
		v := coverage(d, 3)
		if v < prev {
			t.Fatalf("coverage not non-decreasing at dist %f: %f < %f", d, v, prev)
		}
		prev = v
	}
}

// --- Shade ---

func TestShade_CrispInsideAndOutside(t *testing.T) {
	c, m := makeTestCompositor(t, "A")
	in := farInputs()

	// Deep inside the glyph box, the decoded distance saturates at 1.0.
	inside := c.Shade(fragAt(Vec2{X: 8, Y: 8}, in, 16, m.LineHeight), in)
	if inside < 0.99 {
		t.Errorf("coverage inside glyph = %f, want ~1", inside)
	}

	// Far left of the glyph box the field is deeply negative.
	outside := c.Shade(fragAt(Vec2{X: -20, Y: 8}, in, 16, m.LineHeight), in)
	if outside > 0.01 {
		t.Errorf("coverage outside glyph = %f, want ~0", outside)
	}
}

func TestShade_EmptyLayoutIsBlack(t *testing.T) {
	m, err := LoadFontMetrics([]byte(compFntData))
	if err != nil {
		t.Fatalf("LoadFontMetrics: %v", err)
	}
	c, err := NewCompositor(m, makeTestAtlas())
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	c.SetLayout(Layout("", m))
	if got := c.Shade(Vec2{X: 160, Y: 120}, farInputs()); got != 0 {
		t.Errorf("coverage with empty layout = %f, want 0", got)
	}
}

func TestShade_SetLayoutClearsStaleGlyphs(t *testing.T) {
	c, m := makeTestCompositor(t, "AB")
	in := farInputs()

	// B's quad sits at cursor 16 in "AB".
	bCenter := Vec2{X: 24, Y: 8}
	if got := c.Shade(fragAt(bCenter, in, 32, m.LineHeight), in); got < 0.99 {
		t.Fatalf("coverage at B = %f, want ~1 before relayout", got)
	}

	c.SetLayout(Layout("A", m))
	// Same local point, now past the single glyph: the old entry must be inert.
	if got := c.Shade(fragAt(bCenter, in, 16, m.LineHeight), in); got > 0.01 {
		t.Errorf("coverage at stale B position = %f, want ~0 after relayout", got)
	}
}

func TestShade_InfluenceSweepIsContinuous(t *testing.T) {
	c, m := makeTestCompositor(t, "AB")
	in := farInputs()

	// Just right of B's box: crisp coverage is 0, fully dissolved coverage is
	// well above it, so the sweep crosses the whole blend.
	frag := fragAt(Vec2{X: 33, Y: 8}, in, 32, m.LineHeight)
	halfRes := in.Resolution.Y * 0.5

	// Walk the pointer in from far beyond falloff to directly on the
	// fragment; mouseInfluence sweeps 0 -> 1 and coverage must not jump.
	var prev float64
	first := true
	for nd := 1.5; nd >= 0; nd -= 0.002 {
		in.Pointer = Vec2{X: frag.X + nd*halfRes, Y: in.Resolution.Y - frag.Y}
		cov := c.Shade(frag, in)
		if !first && math.Abs(cov-prev) > 0.02 {
			t.Fatalf("coverage jumped from %f to %f at normalized distance %f", prev, cov, nd)
		}
		prev, first = cov, false
	}
}

func TestShade_GlowStyles(t *testing.T) {
	c, m := makeTestCompositor(t, "A B")
	in := farInputs()
	// Pointer on top of the text block center: full influence.
	center := fragAt(Vec2{X: 20, Y: 8}, in, 40, m.LineHeight)
	in.Pointer = Vec2{X: center.X, Y: in.Resolution.Y - center.Y}

	for _, style := range []GlowStyle{GlowSmoothUnion, GlowEnvelope} {
		c.Glow = style
		cov := c.Shade(center, in)
		if cov < 0 || cov > 1 {
			t.Errorf("%v: coverage = %f, want within [0,1]", style, cov)
		}
	}

	// The envelope covers the inter-word gap; the smooth union of two glyph
	// fields 16 units apart (k well below the gap) does not fill it as far.
	gap := fragAt(Vec2{X: 20, Y: 8}, in, 40, m.LineHeight)
	in.Pointer = Vec2{X: gap.X, Y: in.Resolution.Y - gap.Y}
	c.Glow = GlowEnvelope
	envelope := c.Shade(gap, in)
	c.Glow = GlowSmoothUnion
	union := c.Shade(gap, in)
	if envelope < union {
		t.Errorf("envelope coverage %f < smooth-union coverage %f in the word gap", envelope, union)
	}
}

// --- Render ---

func TestRender_MatchesSerialShade(t *testing.T) {
	c, _ := makeTestCompositor(t, "AB")
	in := FrameInputs{
		Resolution:   Vec2{X: 64, Y: 48},
		PixelDensity: 1,
		Pointer:      Vec2{X: 32, Y: 24},
		Params:       DefaultParameters(),
	}

	dst := image.NewGray(image.Rect(0, 0, 64, 48))
	c.Render(dst, in)

	for y := 0; y < 48; y++ {
		fragY := in.Resolution.Y - (float64(y) + 0.5)
		for x := 0; x < 64; x++ {
			cov := c.Shade(Vec2{X: float64(x) + 0.5, Y: fragY}, in)
			want := uint8(cov*255 + 0.5)
			if got := dst.GrayAt(x, y).Y; got != want {
				t.Fatalf("pixel (%d, %d) = %d, serial Shade gives %d", x, y, got, want)
			}
		}
	}
}

func TestRender_EmptyDst(t *testing.T) {
	c, _ := makeTestCompositor(t, "A")
	// Must not panic or spin up workers for a zero-sized frame.
	c.Render(image.NewGray(image.Rect(0, 0, 0, 0)), farInputs())
}
