// Package mixer implements the settings cache & mixer compiler, the
// input normalizer, and the mixer & post-processor components. It
// depends only on mixer/iface, never on a transport, so it is
// exercised purely with table-driven tests.
package mixer

// Interpolate performs a piecewise-linear lookup: num_points knots are
// assumed uniformly spaced over [lo, hi]; x is clamped to the domain,
// the enclosing segment located, and the result linearly interpolated
// between the two adjacent knots.
func Interpolate(x float64, points []float64, lo, hi float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if len(points) == 1 {
		return points[0]
	}
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}

	segments := len(points) - 1
	frac := (x - lo) / (hi - lo) * float64(segments)
	idx := int(frac)
	if idx >= segments {
		idx = segments - 1
	}
	if idx < 0 {
		idx = 0
	}
	t := frac - float64(idx)
	return points[idx] + t*(points[idx+1]-points[idx])
}
