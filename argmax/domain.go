package argmax

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
)

// DefaultDomainScale is the half side of the box returned by [DomainEmpirical]
// in multiples of the result distance.
//
// Let D be the distance of a global maximum at point p, so every cell holds a value
// of at most D. A shape contained in the disc of radius D around p evaluates to at
// least |q-p|-D at any point q, which can only lower cells with |q-p| < 2D.
// A half side of 2D therefore covers every cell the shape can modify.
const DefaultDomainScale = 2

// DomainEstimator computes the world space region expected to change when a shape
// sized from an [ArgmaxResult] is inserted near its point. The result is a square box
// centered at the point with half side Scale*Distance+Margin.
//
// The estimate is only guaranteed for shapes contained in the disc of radius Distance
// around Point when Point is the current global maximum. Larger shapes or other
// placement strategies may need a larger Scale or a whole field insertion.
type DomainEstimator struct {
	// Scale multiplies the distance. Zero selects DefaultDomainScale.
	Scale float32
	// Margin is added to the half side in world units.
	Margin float32
}

// Domain returns the estimated region for r. A non-positive or NaN distance yields a box
// of half side Margin, which is empty for zero Margin. An infinite distance yields an
// infinite box which insertion clips to the whole field.
func (de DomainEstimator) Domain(r ArgmaxResult) ms2.Box {
	scale := de.Scale
	if scale == 0 {
		scale = DefaultDomainScale
	}
	half := de.Margin
	if r.Distance > 0 {
		half += scale * r.Distance
	}
	if !(half > 0) {
		return ms2.Box{Min: r.Point, Max: r.Point}
	}
	if math32.IsInf(half, 1) {
		inf := math32.Inf(1)
		return ms2.Box{
			Min: ms2.Vec{X: -inf, Y: -inf},
			Max: ms2.Vec{X: inf, Y: inf},
		}
	}
	return ms2.Box{
		Min: ms2.AddScalar(-half, r.Point),
		Max: ms2.AddScalar(half, r.Point),
	}
}

// DomainEmpirical returns the region affected by inserting a shape at point sized
// from distance using the default [DomainEstimator].
func DomainEmpirical(point ms2.Vec, distance float32) ms2.Box {
	return DomainEstimator{}.Domain(ArgmaxResult{Point: point, Distance: distance})
}
