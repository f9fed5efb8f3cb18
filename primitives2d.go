package gfill

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill/gleval"
)

type circle2D struct {
	r float32
}

// NewCircle creates a circle of a radius centered at the origin (x,y)=(0,0).
func (bld *Builder) NewCircle(radius float32) gleval.SDF2 {
	if badDim(radius) {
		bld.shapeErrorf("bad circle radius: %g", radius)
	}
	return &circle2D{r: radius}
}

func (c *circle2D) Bounds() ms2.Box {
	r := c.r
	return ms2.NewBox(-r, -r, r, r)
}

type rect2D struct {
	d ms2.Vec
}

// NewRectangle creates a rectangle centered at (x,y)=(0,0) with given x and y dimensions.
func (bld *Builder) NewRectangle(x, y float32) gleval.SDF2 {
	if badDim(x) || badDim(y) {
		bld.shapeErrorf("bad rectangle dimension")
	}
	return &rect2D{d: ms2.Vec{X: x, Y: y}}
}

// NewSquare creates a square centered at the origin with the given side length.
func (bld *Builder) NewSquare(side float32) gleval.SDF2 {
	return bld.NewRectangle(side, side)
}

func (c *rect2D) Bounds() ms2.Box {
	xd2 := c.d.X / 2
	yd2 := c.d.Y / 2
	return ms2.Box{
		Min: ms2.Vec{X: -xd2, Y: -yd2},
		Max: ms2.Vec{X: xd2, Y: yd2},
	}
}

type hex2D struct {
	side float32
}

// NewHexagon creates a regular hexagon centered at (x,y)=(0,0) with sides of length `side`.
func (bld *Builder) NewHexagon(side float32) gleval.SDF2 {
	if badDim(side) {
		bld.shapeErrorf("bad hexagon dimension")
	}
	return &hex2D{side: side}
}

func (c *hex2D) Bounds() ms2.Box {
	s := c.side
	return ms2.NewBox(-s, -s, s, s)
}

type equilateralTri2d struct {
	hTri float32
}

// NewEquilateralTriangle creates an equilateral triangle with a given height with its centroid located at the origin.
func (bld *Builder) NewEquilateralTriangle(triangleHeight float32) gleval.SDF2 {
	if badDim(triangleHeight) {
		bld.shapeErrorf("bad equilateral triangle height")
	}
	return &equilateralTri2d{hTri: triangleHeight}
}

func (t *equilateralTri2d) Bounds() ms2.Box {
	height := t.hTri
	side := height / tribisect
	longBisect := side / sqrt3
	shortBisect := longBisect / 2
	return ms2.Box{
		Min: ms2.Vec{X: -side / 2, Y: -shortBisect},
		Max: ms2.Vec{X: side / 2, Y: longBisect},
	}
}

type line2D struct {
	width float32
	a, b  ms2.Vec
}

// NewLine2D creates a straight line between (x0,y0) and (x1,y1) with a given thickness.
// Degenerate lines shorter than their width become circles.
func (bld *Builder) NewLine2D(x0, y0, x1, y1, width float32) gleval.SDF2 {
	hasNaN := math32.IsNaN(x0) || math32.IsNaN(y0) || math32.IsNaN(x1) || math32.IsNaN(y1) || math32.IsNaN(width)
	if hasNaN {
		bld.shapeErrorf("NaN argument to NewLine2D")
	} else if width < 0 {
		bld.shapeErrorf("negative thickness to NewLine2D")
	}
	a, b := ms2.Vec{X: x0, Y: y0}, ms2.Vec{X: x1, Y: y1}
	lineLen := ms2.Norm(ms2.Sub(a, b))
	if lineLen < width*1e-6 || lineLen < epstol {
		if width == 0 {
			bld.shapeErrorf("infimal line")
		}
		return bld.Translate2D(bld.NewCircle(width/2), x0, y0)
	}
	return &line2D{a: a, b: b, width: width}
}

func (l *line2D) Bounds() ms2.Box {
	w := l.width / 2
	b := ms2.Box{Min: l.a, Max: l.b}.Canon()
	b.Max = ms2.AddScalar(w, b.Max)
	b.Min = ms2.AddScalar(-w, b.Min)
	return b
}

type poly2D struct {
	vert []ms2.Vec
}

// NewPolygon creates a polygon from a set of vertices. The polygon can be self-intersecting.
func (bld *Builder) NewPolygon(vertices []ms2.Vec) gleval.SDF2 {
	vertices, err := validatePolygon(vertices)
	if err != nil {
		bld.shapeErrorf("%w", err)
	}
	return &poly2D{vert: vertices}
}

func validatePolygon(vertices []ms2.Vec) ([]ms2.Vec, error) {
	if len(vertices) == 0 {
		return vertices, errors.New("empty polygon")
	}
	prevIdx := len(vertices) - 1
	if len(vertices) > 1 && vertices[0] == vertices[prevIdx] {
		vertices = vertices[:prevIdx] // Polygon closes automatically.
		prevIdx--
	}
	if len(vertices) < 3 {
		return vertices, errors.New("polygon needs at least 3 distinct vertices")
	}
	for i := range vertices {
		if math32.IsNaN(vertices[i].X) || math32.IsNaN(vertices[i].Y) {
			return vertices, errors.New("NaN value in vertices")
		}
		if vertices[i] == vertices[prevIdx] {
			return vertices, errors.New("found two consecutive equal vertices in polygon")
		}
		prevIdx = i
	}
	return vertices, nil
}

func (c *poly2D) Bounds() ms2.Box {
	min := ms2.Vec{X: largenum, Y: largenum}
	max := ms2.Vec{X: -largenum, Y: -largenum}
	for _, v := range c.vert {
		min = ms2.MinElem(min, v)
		max = ms2.MaxElem(max, v)
	}
	return ms2.Box{Min: min, Max: max}
}

type boundary2D struct {
	center ms2.Vec
	half   ms2.Vec
}

// NewBoundary creates the SDF of the walls of an axis aligned box. Distance is positive
// inside the box and measures how far a point is from the nearest wall; it is negative outside.
// Use it as the first insertion to keep placements away from the edges of the domain.
func (bld *Builder) NewBoundary(box ms2.Box) gleval.SDF2 {
	sz := box.Size()
	if badDim(sz.X) || badDim(sz.Y) {
		bld.shapeErrorf("bad boundary box dimensions")
	}
	return &boundary2D{center: box.Center(), half: ms2.Scale(0.5, sz)}
}

// NewUnitBoundary is shorthand for the boundary of the unit square [0,1]x[0,1].
func (bld *Builder) NewUnitBoundary() gleval.SDF2 {
	return bld.NewBoundary(ms2.Box{Max: ms2.Vec{X: 1, Y: 1}})
}

// Bounds is infinite: the walls extend to everything outside the box.
func (b *boundary2D) Bounds() ms2.Box {
	return infiniteBox
}
