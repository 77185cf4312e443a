package lensblur

import "math"

// PointerTracker smooths raw pointer positions for the compositor.
//
// Input handlers publish raw positions through a single-slot channel with
// publish-latest semantics: a burst of moves between two frames collapses to
// the newest position, and publishing never blocks the event source. The
// frame loop calls Step once per frame, which drains the latest event and
// advances the damped position toward it with frame-rate-independent
// exponential smoothing.
//
// Positions are in UI coordinates (origin top-left, Y down).
type PointerTracker struct {
	events chan Vec2
	raw    Vec2
	damped Vec2
}

// NewPointerTracker creates a tracker whose raw and damped positions both
// start at initial. Until the first Publish, Step converges on initial.
func NewPointerTracker(initial Vec2) *PointerTracker {
	return &PointerTracker{
		events: make(chan Vec2, 1),
		raw:    initial,
		damped: initial,
	}
}

// Publish records a new raw pointer position. Safe to call from an input
// handler at any rate; only the most recent value before the next Step is
// observed, and the call never blocks.
func (t *PointerTracker) Publish(p Vec2) {
	select {
	case t.events <- p:
	default:
		// Slot occupied by a stale position: drop it, then retry once. If a
		// concurrent publisher wins the retry, its value is at least as new.
		select {
		case <-t.events:
		default:
		}
		select {
		case t.events <- p:
		default:
		}
	}
}

// Step consumes the latest published position (if any) and advances the
// damped position toward it:
//
//	damped += (raw - damped) * (1 - exp(-rate*dt))
//
// dt is the elapsed time since the previous frame in seconds, rate the
// damping rate (RenderParameters.MouseDampingRate). The result is independent
// of how the elapsed time is split across frames. Returns the new damped
// position.
func (t *PointerTracker) Step(dt, rate float64) Vec2 {
	select {
	case p := <-t.events:
		t.raw = p
	default:
	}

	if dt > 0 && rate > 0 {
		k := 1 - math.Exp(-rate*dt)
		t.damped.X += (t.raw.X - t.damped.X) * k
		t.damped.Y += (t.raw.Y - t.damped.Y) * k
	}
	return t.damped
}

// Raw returns the raw position as of the last Step.
func (t *PointerTracker) Raw() Vec2 { return t.raw }

// Damped returns the smoothed position as of the last Step.
func (t *PointerTracker) Damped() Vec2 { return t.damped }
