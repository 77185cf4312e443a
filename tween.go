package lensblur

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ParamTween animates up to 2 RenderParameters fields simultaneously. Create
// one via the convenience constructors (TweenTextScale, TweenBlur,
// TweenBrightness, TweenProximity) and call Update(dt) each frame; values are
// written directly into the target struct.
//
// There is no global animation manager — callers drive Update themselves.
type ParamTween struct {
	tweens [2]*gween.Tween
	fields [2]*float64
	count  int
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields.
func (pt *ParamTween) Update(dt float32) {
	if pt.Done {
		return
	}
	allDone := true
	for i := 0; i < pt.count; i++ {
		val, finished := pt.tweens[i].Update(dt)
		*pt.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	pt.Done = allDone
}

// TweenTextScale animates p.TextScaleFactor to the target value.
func TweenTextScale(p *RenderParameters, to float64, duration float32, fn ease.TweenFunc) *ParamTween {
	pt := &ParamTween{count: 1}
	pt.tweens[0] = gween.New(float32(p.TextScaleFactor), float32(to), duration, fn)
	pt.fields[0] = &p.TextScaleFactor
	return pt
}

// TweenBlur animates p.BlurMultiplier to the target value.
func TweenBlur(p *RenderParameters, to float64, duration float32, fn ease.TweenFunc) *ParamTween {
	pt := &ParamTween{count: 1}
	pt.tweens[0] = gween.New(float32(p.BlurMultiplier), float32(to), duration, fn)
	pt.fields[0] = &p.BlurMultiplier
	return pt
}

// TweenBrightness animates p.BrightnessBoost to the target value.
func TweenBrightness(p *RenderParameters, to float64, duration float32, fn ease.TweenFunc) *ParamTween {
	pt := &ParamTween{count: 1}
	pt.tweens[0] = gween.New(float32(p.BrightnessBoost), float32(to), duration, fn)
	pt.fields[0] = &p.BrightnessBoost
	return pt
}

// TweenProximity animates p.MouseRadius and p.MouseFalloff together.
func TweenProximity(p *RenderParameters, toRadius, toFalloff float64, duration float32, fn ease.TweenFunc) *ParamTween {
	pt := &ParamTween{count: 2}
	pt.tweens[0] = gween.New(float32(p.MouseRadius), float32(toRadius), duration, fn)
	pt.tweens[1] = gween.New(float32(p.MouseFalloff), float32(toFalloff), duration, fn)
	pt.fields[0] = &p.MouseRadius
	pt.fields[1] = &p.MouseFalloff
	return pt
}
