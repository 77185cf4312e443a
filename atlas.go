package lensblur

import (
	"fmt"
	"image"
	"image/draw"
	"math"
)

// AtlasImage is a CPU-resident copy of the MSDF atlas texture. The compositor
// samples it bilinearly per channel and decodes the signed distance with a
// median-of-three; see SampleMedian. Construct it once at load time — it is
// immutable and safe for concurrent reads.
type AtlasImage struct {
	w, h int
	pix  []uint8 // RGBA, 4 bytes per texel, row-major
}

// NewAtlasImage copies img into a sampling-friendly RGBA buffer. The atlas
// must be fully decoded before the first frame is composited.
func NewAtlasImage(img image.Image) *AtlasImage {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &AtlasImage{w: b.Dx(), h: b.Dy(), pix: rgba.Pix}
}

// Width returns the atlas width in texels.
func (a *AtlasImage) Width() int { return a.w }

// Height returns the atlas height in texels.
func (a *AtlasImage) Height() int { return a.h }

// texel returns the RGB channels at (x, y), clamped to the atlas edges,
// normalized to [0, 1].
func (a *AtlasImage) texel(x, y int) (r, g, b float64) {
	if x < 0 {
		x = 0
	} else if x >= a.w {
		x = a.w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= a.h {
		y = a.h - 1
	}
	i := (y*a.w + x) * 4
	return float64(a.pix[i]) / 255, float64(a.pix[i+1]) / 255, float64(a.pix[i+2]) / 255
}

// SampleMedian bilinearly samples the three color channels at the normalized
// coordinate (u, v) and returns their median — the decoded distance value in
// [0, 1], where 0.5 is the glyph edge. Matches GPU behavior: filter first,
// then take the median.
func (a *AtlasImage) SampleMedian(u, v float64) float64 {
	// Texel-center addressing.
	x := u*float64(a.w) - 0.5
	y := v*float64(a.h) - 0.5
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	r00, g00, b00 := a.texel(x0, y0)
	r10, g10, b10 := a.texel(x0+1, y0)
	r01, g01, b01 := a.texel(x0, y0+1)
	r11, g11, b11 := a.texel(x0+1, y0+1)

	r := mix(mix(r00, r10, fx), mix(r01, r11, fx), fy)
	g := mix(mix(g00, g10, fx), mix(g01, g11, fx), fy)
	b := mix(mix(b00, b10, fx), mix(b01, b11, fx), fy)

	return median3(r, g, b)
}

// validateAtlas checks the residency precondition: sampling an absent or
// mis-sized atlas is undefined, so the compositor refuses to start with one.
func validateAtlas(atlas *AtlasImage, font *FontMetrics) error {
	if atlas == nil || len(atlas.pix) == 0 {
		return fmt.Errorf("lensblur: atlas image not resident")
	}
	if float64(atlas.w) != font.AtlasWidth || float64(atlas.h) != font.AtlasHeight {
		return fmt.Errorf("lensblur: atlas is %dx%d but font metrics declare %.0fx%.0f",
			atlas.w, atlas.h, font.AtlasWidth, font.AtlasHeight)
	}
	return nil
}
