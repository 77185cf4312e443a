package lensblur

import "math"

// Scalar distance-field math shared by the CPU compositor. The Kage shader in
// shader.go carries the same functions; keep the two in sync.

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// mix linearly interpolates from a to b by t.
func mix(a, b, t float64) float64 {
	return a + (b-a)*t
}

// smoothstep is the Hermite step: 0 for x <= e0, 1 for x >= e1, with a
// smooth cubic ramp in between. Requires e0 < e1.
func smoothstep(e0, e1, x float64) float64 {
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

// median3 returns the value that is neither the minimum nor the maximum.
// Decodes the true signed distance from an MSDF's three channels; robust
// against single-channel divergence at sharp corners.
func median3(r, g, b float64) float64 {
	return math.Max(math.Min(r, g), math.Min(math.Max(r, g), b))
}

// smoothMax is the polynomial smooth maximum with merge radius k. Values
// within k of each other blend into a bulge; values further apart behave as a
// hard max. k <= 0 degenerates to math.Max.
func smoothMax(a, b, k float64) float64 {
	if k <= 0 {
		return math.Max(a, b)
	}
	h := clamp(0.5+0.5*(a-b)/k, 0, 1)
	return mix(b, a, h) + k*h*(1-h)
}

// roundedBoxField is the signed distance from p to a rounded rectangle
// centered at c with half-extents h and corner radius r. Positive inside,
// negative outside, matching the compositor's glyph-field sign convention.
func roundedBoxField(p, c, h Vec2, r float64) float64 {
	qx := math.Abs(p.X-c.X) - h.X + r
	qy := math.Abs(p.Y-c.Y) - h.Y + r
	outside := math.Hypot(math.Max(qx, 0), math.Max(qy, 0))
	inside := math.Min(math.Max(qx, qy), 0)
	return -(outside + inside - r)
}
