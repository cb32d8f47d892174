package mask

import "math"

// RadiusPolicy scales a corner radius requested at a reference size to
// each target size, so perceived curvature stays constant across the
// variant family.
type RadiusPolicy struct {
	// BaseRadius is the radius requested at ReferenceSize, in pixels.
	BaseRadius int
	// ReferenceSize is the edge length BaseRadius is expressed against.
	ReferenceSize int
}

// EffectiveRadius returns the radius for a target of the given
// dimensions: round(BaseRadius * min(w,h) / ReferenceSize), clamped to
// floor(min(w,h)/2) so opposing corner squares can never overlap.
func (p RadiusPolicy) EffectiveRadius(width, height int) int {
	m := width
	if height < m {
		m = height
	}
	if p.BaseRadius <= 0 || p.ReferenceSize <= 0 || m <= 0 {
		return 0
	}

	r := int(math.Round(float64(p.BaseRadius) * float64(m) / float64(p.ReferenceSize)))
	if max := m / 2; r > max {
		r = max
	}
	return r
}
