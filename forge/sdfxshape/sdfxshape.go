// Package sdfxshape presents 2D shapes built with github.com/deadsy/sdfx
// as [gleval.SDF2] so they can be inserted into a distance field or drawn.
package sdfxshape

import (
	"errors"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill/gleval"
)

// Shape wraps a sdfx SDF2. sdfx evaluates in float64; distances are converted to float32.
type Shape struct {
	s  sdf.SDF2
	bb ms2.Box
}

var _ gleval.SDF2 = (*Shape)(nil)

// New wraps s. The bounding box is read once at construction.
func New(s sdf.SDF2) (*Shape, error) {
	if s == nil {
		return nil, errors.New("nil sdfx shape")
	}
	bb := s.BoundingBox()
	return &Shape{
		s: s,
		bb: ms2.Box{
			Min: ms2.Vec{X: float32(bb.Min.X), Y: float32(bb.Min.Y)},
			Max: ms2.Vec{X: float32(bb.Max.X), Y: float32(bb.Max.Y)},
		},
	}, nil
}

// Unwrap returns the wrapped sdfx shape.
func (sh *Shape) Unwrap() sdf.SDF2 { return sh.s }

// Evaluate implements [gleval.SDF2].
func (sh *Shape) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	if err := gleval.ValidateBuffers(pos, dist); err != nil {
		return err
	}
	for i, p := range pos {
		dist[i] = float32(sh.s.Evaluate(v2.Vec{X: float64(p.X), Y: float64(p.Y)}))
	}
	return nil
}

// Bounds implements [gleval.SDF2].
func (sh *Shape) Bounds() ms2.Box { return sh.bb }

// Circle returns a sdfx circle of radius r centered at (x,y).
func Circle(x, y, r float64) (*Shape, error) {
	c, err := sdf.Circle2D(r)
	if err != nil {
		return nil, err
	}
	return New(sdf.Transform2D(c, sdf.Translate2d(v2.Vec{X: x, Y: y})))
}

// Polygon returns a sdfx polygon through the vertices.
func Polygon(vertices []v2.Vec) (*Shape, error) {
	if len(vertices) < 3 {
		return nil, errors.New("polygon needs at least 3 vertices")
	}
	p, err := sdf.Polygon2D(vertices)
	if err != nil {
		return nil, err
	}
	return New(p)
}

// RegularPolygon returns a sdfx polygon with the given amount of sides whose vertices
// lie on the circle of radius r centered at the origin. The first vertex is on the +X axis.
func RegularPolygon(sides int, r float64) (*Shape, error) {
	if sides < 3 {
		return nil, errors.New("regular polygon needs at least 3 sides")
	} else if !(r > 0) {
		return nil, errors.New("regular polygon radius must be positive")
	}
	vertices := make([]v2.Vec, sides)
	for i := range vertices {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(sides))
		vertices[i] = v2.Vec{X: r * c, Y: r * s}
	}
	return Polygon(vertices)
}
