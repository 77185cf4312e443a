package lensblur

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenBlur_ReachesTarget(t *testing.T) {
	p := DefaultParameters()
	p.BlurMultiplier = 10

	tw := TweenBlur(&p, 0, 1, ease.Linear)
	tw.Update(0.5)
	if math.Abs(p.BlurMultiplier-5) > 1e-3 {
		t.Errorf("halfway BlurMultiplier = %f, want ~5", p.BlurMultiplier)
	}
	if tw.Done {
		t.Error("Done = true before the duration elapsed")
	}

	tw.Update(0.6)
	if !tw.Done {
		t.Error("Done = false after the duration elapsed")
	}
	if p.BlurMultiplier != 0 {
		t.Errorf("final BlurMultiplier = %f, want 0", p.BlurMultiplier)
	}
}

func TestTweenProximity_AnimatesBothFields(t *testing.T) {
	p := DefaultParameters()
	p.MouseRadius = 0
	p.MouseFalloff = 0.1

	tw := TweenProximity(&p, 0.5, 1.5, 2, ease.Linear)
	tw.Update(2.5)
	if !tw.Done {
		t.Fatal("Done = false after the duration elapsed")
	}
	if math.Abs(p.MouseRadius-0.5) > 1e-6 || math.Abs(p.MouseFalloff-1.5) > 1e-6 {
		t.Errorf("final proximity = (%f, %f), want (0.5, 1.5)", p.MouseRadius, p.MouseFalloff)
	}
}

func TestParamTween_UpdateAfterDoneIsNoop(t *testing.T) {
	p := DefaultParameters()
	tw := TweenTextScale(&p, 1, 0.1, ease.Linear)
	tw.Update(1)
	if !tw.Done {
		t.Fatal("Done = false after the duration elapsed")
	}
	p.TextScaleFactor = 0.3
	tw.Update(1)
	if p.TextScaleFactor != 0.3 {
		t.Errorf("finished tween overwrote the field: %f", p.TextScaleFactor)
	}
}
