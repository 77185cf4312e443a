// Package lensblur renders a line of text as a mouse-reactive dissolve
// effect: far from the pointer the glyphs are crisp, near it they melt into a
// soft glow. The field is evaluated per fragment from a multichannel signed
// distance field (MSDF) glyph atlas.
//
// The pieces compose left to right:
//
//	metrics, _ := lensblur.LoadFontMetrics(fntData)
//	layout := lensblur.Layout("HELLO", metrics)
//	atlas := lensblur.NewAtlasImage(atlasPNG)
//	comp, _ := lensblur.NewCompositor(metrics, atlas)
//	comp.SetLayout(layout)
//
// Each frame, advance the pointer and evaluate:
//
//	pointer := tracker.Step(dt, params.MouseDampingRate)
//	comp.Render(frame, lensblur.FrameInputs{
//		Resolution:   lensblur.Vec2{X: 1280, Y: 720},
//		PixelDensity: 1,
//		Pointer:      pointer,
//		Params:       params,
//	})
//
// [Compositor] is the CPU path: a pure per-fragment function mapped
// data-parallel over the frame, useful headless and under test.
// [DissolveEffect] is the same math as an Ebitengine Kage shader for
// windowed use; see examples/interactive.
package lensblur
