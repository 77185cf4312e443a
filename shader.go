package lensblur

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// dissolveShaderSrc is the GPU twin of Compositor.Shade, expressed as a Kage
// fragment program. The glyph table arrives as two vec4 uniform arrays sized
// to the compiled capacity; entries past the layout's count are zero-area and
// inert. Ebitengine samples with nearest filtering, so the MSDF fetch does its
// own bilinear blend before the median decode. Keep the math in lockstep with
// compositor.go and field.go.
var dissolveShaderSrc = fmt.Sprintf(`//kage:unit pixels
package main

var Resolution vec2
var PixelDensity float
var Mouse vec2
var TextWidth float
var LineHeight float
var DistanceRange float
var Bounds vec4
var TextScale float
var BlurMult float
var Brightness float
var MouseRadius float
var MouseFalloff float
var SmoothK float
var UseEnvelope float
var GlyphRects [%d]vec4
var GlyphUVs [%d]vec4

const glyphCap = %d

func smax(a, b, k float) float {
	if k <= 0.0 {
		return max(a, b)
	}
	h := clamp(0.5+0.5*(a-b)/k, 0.0, 1.0)
	return mix(b, a, h) + k*h*(1.0-h)
}

func roundedBox(p, c, h vec2, r float) float {
	q := abs(p-c) - h + vec2(r, r)
	return -(length(max(q, vec2(0.0, 0.0))) + min(max(q.x, q.y), 0.0) - r)
}

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	if TextWidth <= 0.0 {
		return vec4(0.0, 0.0, 0.0, 1.0)
	}

	// Fragment space is Y-up; dst addresses pixels from the top-left.
	frag := vec2(dst.x, Resolution.y-dst.y)

	mouse := vec2(Mouse.x*PixelDensity, Resolution.y-Mouse.y*PixelDensity)
	normDist := length(frag-mouse) / (Resolution.y * 0.5)
	influence := 1.0 - smoothstep(MouseRadius, MouseFalloff, normDist)

	scale := Resolution.x * TextScale / TextWidth
	blockW := TextWidth * scale
	blockH := LineHeight * scale

	// Into font-unit text-local space (Y down, origin top of the line cell).
	fragYDown := Resolution.y - frag.y
	lp := vec2(
		(frag.x-(Resolution.x-blockW)*0.5)/scale,
		(fragYDown-(Resolution.y-blockH)*0.5)/scale)

	screenPxRange := DistanceRange * scale
	k := screenPxRange * SmoothK

	crisp := -1000000.0
	union := -1000000.0
	srcSize := imageSrc0Size()
	srcOrigin := imageSrc0Origin()

	for i := 0; i < glyphCap; i++ {
		rect := GlyphRects[i]
		if rect.z > 0.0 && rect.w > 0.0 {
			nx := clamp(lp.x, rect.x, rect.x+rect.z)
			ny := clamp(lp.y, rect.y, rect.y+rect.w)
			boxDist := length(lp - vec2(nx, ny))

			uvr := GlyphUVs[i]
			uv := vec2(
				uvr.x+(nx-rect.x)/rect.z*uvr.z,
				uvr.y+(ny-rect.y)/rect.w*uvr.w)

			// Bilinear MSDF fetch at texel centers.
			tp := uv*srcSize - vec2(0.5, 0.5)
			base := floor(tp)
			fr := tp - base
			c00 := imageSrc0At(srcOrigin + base + vec2(0.5, 0.5))
			c10 := imageSrc0At(srcOrigin + base + vec2(1.5, 0.5))
			c01 := imageSrc0At(srcOrigin + base + vec2(0.5, 1.5))
			c11 := imageSrc0At(srcOrigin + base + vec2(1.5, 1.5))
			c := mix(mix(c00, c10, fr.x), mix(c01, c11, fr.x), fr.y)
			m := max(min(c.r, c.g), min(max(c.r, c.g), c.b))

			d := screenPxRange*(m-0.5) - boxDist*scale
			crisp = max(crisp, d)
			union = smax(union, d, k)
		}
	}

	glow := union
	if UseEnvelope > 0.5 {
		pad := 4.0 * SmoothK
		half := vec2(Bounds.z*0.5+pad, Bounds.w*0.5+pad)
		center := vec2(Bounds.x+Bounds.z*0.5, Bounds.y+Bounds.w*0.5)
		glow = roundedBox(lp, center, half, min(half.x, half.y)) * scale
	}

	dist := mix(crisp, glow, influence)
	blur := mix(0.5, screenPxRange*BlurMult, influence)
	cov := smoothstep(-blur, blur, dist)
	cov *= mix(1.0, Brightness, influence)
	cov = clamp(cov, 0.0, 1.0)

	return vec4(cov, cov, cov, 1.0)
}
`, MaxGlyphs, MaxGlyphs, MaxGlyphs)

var dissolveShader *ebiten.Shader

func ensureDissolveShader() *ebiten.Shader {
	if dissolveShader == nil {
		s, err := ebiten.NewShader([]byte(dissolveShaderSrc))
		if err != nil {
			panic("lensblur: failed to compile dissolve shader: " + err.Error())
		}
		dissolveShader = s
	}
	return dissolveShader
}

// DissolveEffect draws the dissolve field on the GPU. It mirrors Compositor:
// SetLayout uploads the glyph table into persistent uniform buffers, Draw
// evaluates every fragment of the destination in one shader pass with the
// MSDF atlas as the sole source image.
type DissolveEffect struct {
	// Glow selects the fully-dissolved field shape. Defaults to
	// GlowSmoothUnion.
	Glow GlowStyle

	textWidth  float64
	lineHeight float64
	distRange  float64
	bounds     Rect

	// Persistent uniform buffers; the map values alias these, so packing a
	// frame allocates nothing.
	rects   [MaxGlyphs * 4]float32
	uvs     [MaxGlyphs * 4]float32
	scalars map[string]any

	vertices [4]ebiten.Vertex
	indices  [6]uint16
}

// NewDissolveEffect creates an effect for the given font metrics. Call
// SetLayout before the first Draw.
func NewDissolveEffect(font *FontMetrics) *DissolveEffect {
	e := &DissolveEffect{
		lineHeight: font.LineHeight,
		distRange:  font.DistanceRange,
		scalars:    make(map[string]any, 16),
	}
	e.scalars["GlyphRects"] = e.rects[:]
	e.scalars["GlyphUVs"] = e.uvs[:]
	e.indices = [6]uint16{0, 1, 2, 1, 2, 3}
	for i := range e.vertices {
		e.vertices[i].ColorR = 1
		e.vertices[i].ColorG = 1
		e.vertices[i].ColorB = 1
		e.vertices[i].ColorA = 1
	}
	return e
}

// SetLayout uploads a text layout into the uniform glyph table. Call it when
// the text changes, not per frame.
func (e *DissolveEffect) SetLayout(l *TextLayout) {
	for i := range e.rects {
		e.rects[i] = 0
		e.uvs[i] = 0
	}
	n := len(l.Glyphs)
	if n > MaxGlyphs {
		n = MaxGlyphs
	}
	for i := 0; i < n; i++ {
		g := &l.Glyphs[i]
		e.rects[i*4+0] = float32(g.Pos.X)
		e.rects[i*4+1] = float32(g.Pos.Y)
		e.rects[i*4+2] = float32(g.Size.X)
		e.rects[i*4+3] = float32(g.Size.Y)
		e.uvs[i*4+0] = float32(g.UV.X)
		e.uvs[i*4+1] = float32(g.UV.Y)
		e.uvs[i*4+2] = float32(g.UV.Width)
		e.uvs[i*4+3] = float32(g.UV.Height)
	}
	e.textWidth = l.Width
	e.bounds = l.Bounds
}

// Draw renders the effect over all of dst. atlas is the MSDF atlas texture;
// it must match the font metrics the effect was created with. The destination
// size should agree with in.Resolution.
//
// DrawRectShader requires source images to match the rect size, which the
// atlas never does for a full-screen pass, so this goes through
// DrawTrianglesShader with two triangles covering dst.
func (e *DissolveEffect) Draw(dst, atlas *ebiten.Image, in FrameInputs) {
	shader := ensureDissolveShader()
	b := dst.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())

	e.vertices[0].DstX, e.vertices[0].DstY = 0, 0
	e.vertices[1].DstX, e.vertices[1].DstY = w, 0
	e.vertices[2].DstX, e.vertices[2].DstY = 0, h
	e.vertices[3].DstX, e.vertices[3].DstY = w, h

	p := in.Params
	e.scalars["Resolution"] = []float32{float32(in.Resolution.X), float32(in.Resolution.Y)}
	e.scalars["PixelDensity"] = float32(in.PixelDensity)
	e.scalars["Mouse"] = []float32{float32(in.Pointer.X), float32(in.Pointer.Y)}
	e.scalars["TextWidth"] = float32(e.textWidth)
	e.scalars["LineHeight"] = float32(e.lineHeight)
	e.scalars["DistanceRange"] = float32(e.distRange)
	e.scalars["Bounds"] = []float32{
		float32(e.bounds.X), float32(e.bounds.Y),
		float32(e.bounds.Width), float32(e.bounds.Height),
	}
	e.scalars["TextScale"] = float32(p.TextScaleFactor)
	e.scalars["BlurMult"] = float32(p.BlurMultiplier)
	e.scalars["Brightness"] = float32(p.BrightnessBoost)
	e.scalars["MouseRadius"] = float32(p.MouseRadius)
	e.scalars["MouseFalloff"] = float32(p.MouseFalloff)
	e.scalars["SmoothK"] = float32(p.SmoothK)
	if e.Glow == GlowEnvelope {
		e.scalars["UseEnvelope"] = float32(1)
	} else {
		e.scalars["UseEnvelope"] = float32(0)
	}

	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Images[0] = atlas
	op.Uniforms = e.scalars
	dst.DrawTrianglesShader(e.vertices[:], e.indices[:], shader, op)
}
