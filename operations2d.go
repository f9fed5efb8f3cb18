package gfill

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill/gleval"
)

// OpUnion2D is the result of [Builder.Union2D]. It is exported so that callers
// may append shapes to an existing union without nesting.
type OpUnion2D struct {
	joined []gleval.SDF2
}

// Union2D joins the shapes of several 2D SDFs into one. Is exact.
// Union aggregates nested Union results into its own.
func (bld *Builder) Union2D(shapes ...gleval.SDF2) gleval.SDF2 {
	if len(shapes) < 2 {
		bld.shapeErrorf("need at least 2 arguments to Union2D")
		if len(shapes) == 1 {
			return shapes[0]
		}
	}
	var U OpUnion2D
	for i, s := range shapes {
		if s == nil {
			bld.nilsdf(fmt.Sprintf("%d argument to Union2D", i))
		}
		if subU, ok := s.(*OpUnion2D); ok {
			U.joined = append(U.joined, subU.joined...)
		} else {
			U.joined = append(U.joined, s)
		}
	}
	return &U
}

// Append adds shapes to the union.
func (u *OpUnion2D) Append(shapes ...gleval.SDF2) {
	for _, s := range shapes {
		if s == nil {
			panic("nil SDF argument to OpUnion2D.Append")
		}
		u.joined = append(u.joined, s)
	}
}

// Len returns the amount of shapes joined.
func (u *OpUnion2D) Len() int { return len(u.joined) }

// Bounds returns the union of all joined SDFs. Implements [gleval.SDF2].
func (u *OpUnion2D) Bounds() ms2.Box {
	u.mustValidate()
	bb := u.joined[0].Bounds()
	for _, s := range u.joined[1:] {
		bb = bb.Union(s.Bounds())
	}
	return bb
}

func (u *OpUnion2D) mustValidate() {
	if len(u.joined) == 0 {
		panic("empty OpUnion2D")
	}
}

// Difference2D is the SDF difference of a-b. Does not produce a true SDF.
func (bld *Builder) Difference2D(a, b gleval.SDF2) gleval.SDF2 {
	if a == nil || b == nil {
		bld.nilsdf("Difference2D")
	}
	return &diff2D{s1: a, s2: b}
}

type diff2D struct {
	s1, s2 gleval.SDF2 // Performs s1-s2.
}

func (u *diff2D) Bounds() ms2.Box {
	return u.s1.Bounds()
}

// Intersection2D is the SDF intersection of a ^ b. Does not produce an exact SDF.
func (bld *Builder) Intersection2D(a, b gleval.SDF2) gleval.SDF2 {
	if a == nil || b == nil {
		bld.nilsdf("Intersection2D")
	}
	return &intersect2D{s1: a, s2: b}
}

type intersect2D struct {
	s1, s2 gleval.SDF2
}

func (u *intersect2D) Bounds() ms2.Box {
	return u.s1.Bounds().Intersect(u.s2.Bounds())
}

// Offset2D adds sdfAdd to the entire argument SDF. A negative sdfAdd grows the shape
// and rounds its corners by the absolute magnitude.
func (bld *Builder) Offset2D(s gleval.SDF2, sdfAdd float32) gleval.SDF2 {
	if s == nil {
		bld.nilsdf("Offset2D")
	}
	return &offset2D{s: s, f: sdfAdd}
}

type offset2D struct {
	s gleval.SDF2
	f float32
}

func (u *offset2D) Bounds() ms2.Box {
	bb := u.s.Bounds()
	if u.f > 0 {
		return bb
	}
	bb.Max = ms2.AddScalar(-u.f, bb.Max)
	bb.Min = ms2.AddScalar(u.f, bb.Min)
	return bb
}

// Translate2D moves the SDF s in the given direction.
func (bld *Builder) Translate2D(s gleval.SDF2, dirX, dirY float32) gleval.SDF2 {
	if s == nil {
		bld.nilsdf("Translate2D")
	}
	if t, ok := s.(*translate2D); ok {
		// Collapse consecutive translations.
		return &translate2D{s: t.s, p: ms2.Add(t.p, ms2.Vec{X: dirX, Y: dirY})}
	}
	return &translate2D{s: s, p: ms2.Vec{X: dirX, Y: dirY}}
}

type translate2D struct {
	s gleval.SDF2
	p ms2.Vec
}

func (u *translate2D) Bounds() ms2.Box {
	return u.s.Bounds().Add(u.p)
}

// Rotate2D returns the argument shape rotated around the origin by theta (radians).
func (bld *Builder) Rotate2D(s gleval.SDF2, theta float32) gleval.SDF2 {
	if s == nil {
		bld.nilsdf("Rotate2D")
	}
	if math32.IsNaN(theta) || math32.IsInf(theta, 0) {
		bld.shapeErrorf("bad rotation angle")
	}
	m := ms2.RotationMat2(theta)
	det := m.Determinant()
	if math32.Abs(det) < epstol {
		bld.shapeErrorf("badly conditioned rotation")
	}
	return &rotation2D{
		s:    s,
		t:    m,
		tInv: m.Inverse(),
	}
}

type rotation2D struct {
	s    gleval.SDF2
	t    ms2.Mat2
	tInv ms2.Mat2
}

// Bounds returns the box containing the rotated corners of the child's bounds.
func (u *rotation2D) Bounds() ms2.Box {
	bb := u.s.Bounds()
	verts := bb.Vertices()
	v1 := ms2.MulMatVec(u.t, verts[0])
	bb.Max = v1
	bb.Min = v1
	for _, v := range verts[1:] {
		v = ms2.MulMatVec(u.t, v)
		bb.Max = ms2.MaxElem(bb.Max, v)
		bb.Min = ms2.MinElem(bb.Min, v)
	}
	return bb
}

// Scale2D scales s by scaleFactor around the origin.
func (bld *Builder) Scale2D(s gleval.SDF2, scale float32) gleval.SDF2 {
	if s == nil {
		bld.nilsdf("Scale2D")
	}
	if badDim(scale) {
		bld.shapeErrorf("bad scale factor")
	}
	return &scale2D{s: s, scale: scale}
}

type scale2D struct {
	s     gleval.SDF2
	scale float32
}

func (u *scale2D) Bounds() ms2.Box {
	b := u.s.Bounds()
	return ms2.Box{Min: ms2.Scale(u.scale, b.Min), Max: ms2.Scale(u.scale, b.Max)}
}

// Place is shorthand for scaling s by scale, rotating it by angle and then
// moving it to center. The result is what a packing loop inserts for a unit-sized shape.
func (bld *Builder) Place(s gleval.SDF2, center ms2.Vec, scale, angle float32) gleval.SDF2 {
	if scale != 1 {
		s = bld.Scale2D(s, scale)
	}
	if angle != 0 {
		s = bld.Rotate2D(s, angle)
	}
	return bld.Translate2D(s, center.X, center.Y)
}
