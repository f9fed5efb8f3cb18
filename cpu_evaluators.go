package gfill

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill/gleval"
)

// boxDist returns the signed distance from p to the origin centered box with half extents h.
func boxDist(p, h ms2.Vec) float32 {
	d := ms2.Sub(ms2.AbsElem(p), h)
	outside := ms2.Norm(ms2.MaxElem(d, ms2.Vec{}))
	inside := math32.Min(0, math32.Max(d.X, d.Y))
	return outside + inside
}

// segmentDist2 returns the squared distance from p to the segment ab. a and b must differ.
func segmentDist2(p, a, b ms2.Vec) float32 {
	ab := ms2.Sub(b, a)
	ap := ms2.Sub(p, a)
	t := ms1.Clamp(ms2.Dot(ap, ab)/ms2.Norm2(ab), 0, 1)
	return ms2.Norm2(ms2.Sub(ap, ms2.Scale(t, ab)))
}

func (c *circle2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	for i, p := range pos {
		dist[i] = ms2.Norm(p) - c.r
	}
	return nil
}

func (c *rect2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	half := ms2.Scale(0.5, c.d)
	for i, p := range pos {
		dist[i] = boxDist(p, half)
	}
	return nil
}

func (b *boundary2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	for i, p := range pos {
		dist[i] = -boxDist(ms2.Sub(p, b.center), b.half)
	}
	return nil
}

func (c *hex2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	// Fold p into the first sextant then measure against the flat top edge,
	// which sits at the apothem and spans half a side each way.
	apothem := c.side * tribisect
	halfEdge := c.side / 2
	n := ms2.Vec{X: -tribisect, Y: 0.5}
	for i, p := range pos {
		p = ms2.AbsElem(p)
		if k := ms2.Dot(n, p); k < 0 {
			p = ms2.Sub(p, ms2.Scale(2*k, n))
		}
		p.X -= clampf(p.X, -halfEdge, halfEdge)
		p.Y -= apothem
		dist[i] = signf(p.Y) * ms2.Norm(p)
	}
	return nil
}

func (t *equilateralTri2d) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	halfSide := t.hTri / sqrt3
	for i, p := range pos {
		// Mirror about the vertical axis and shift so the base right corner is the origin.
		p.X = math32.Abs(p.X) - halfSide
		p.Y += halfSide / sqrt3
		if p.X+sqrt3*p.Y > 0 {
			// Reflect across the slanted edge normal.
			p = ms2.Vec{X: (p.X - sqrt3*p.Y) / 2, Y: (-sqrt3*p.X - p.Y) / 2}
		}
		p.X -= clampf(p.X, -2*halfSide, 0)
		dist[i] = -signf(p.Y) * ms2.Norm(p)
	}
	return nil
}

func (l *line2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	halfWidth := l.width / 2
	for i, p := range pos {
		dist[i] = math32.Sqrt(segmentDist2(p, l.a, l.b)) - halfWidth
	}
	return nil
}

func (poly *poly2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	verts := poly.vert
	for i, p := range pos {
		d2 := math32.Inf(1)
		inside := false
		prev := verts[len(verts)-1]
		for _, v := range verts {
			d2 = math32.Min(d2, segmentDist2(p, prev, v))
			// Even-odd rule: count edges crossed by a ray towards +X.
			if (v.Y > p.Y) != (prev.Y > p.Y) {
				xCross := v.X + (prev.X-v.X)*(p.Y-v.Y)/(prev.Y-v.Y)
				if p.X < xCross {
					inside = !inside
				}
			}
			prev = v
		}
		d := math32.Sqrt(d2)
		if inside {
			d = -d
		}
		dist[i] = d
	}
	return nil
}

// foldShapes evaluates shapes[0] into dist and merges every following shape
// into it with merge, using a pooled buffer for the intermediate distances.
func foldShapes(shapes []gleval.SDF2, pos []ms2.Vec, dist []float32, userData any, merge func(acc, d float32) float32) error {
	err := shapes[0].Evaluate(pos, dist, userData)
	if err != nil || len(shapes) == 1 {
		return err
	}
	vp, err := gleval.GetVecPool(userData)
	if err != nil {
		return err
	}
	aux := vp.Float.Acquire(len(dist))
	defer vp.Float.Release(aux)
	for _, s := range shapes[1:] {
		if err = s.Evaluate(pos, aux, userData); err != nil {
			return err
		}
		for i, d := range aux {
			dist[i] = merge(dist[i], d)
		}
	}
	return nil
}

// Evaluate implements [gleval.SDF2].
func (u *OpUnion2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	u.mustValidate()
	return foldShapes(u.joined, pos, dist, userData, minf)
}

func (u *intersect2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	pair := [2]gleval.SDF2{u.s1, u.s2}
	return foldShapes(pair[:], pos, dist, userData, maxf)
}

func (u *diff2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	pair := [2]gleval.SDF2{u.s1, u.s2}
	return foldShapes(pair[:], pos, dist, userData, func(a, b float32) float32 {
		return maxf(a, -b)
	})
}

func (r *offset2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	err := r.s.Evaluate(pos, dist, userData)
	if err != nil {
		return err
	}
	for i := range dist {
		dist[i] += r.f
	}
	return nil
}

// evalMapped evaluates s at the positions mapped by toLocal, which takes
// a world position into the local frame of s.
func evalMapped(s gleval.SDF2, pos []ms2.Vec, dist []float32, userData any, toLocal func(ms2.Vec) ms2.Vec) error {
	vp, err := gleval.GetVecPool(userData)
	if err != nil {
		return err
	}
	local := vp.V2.Acquire(len(pos))
	defer vp.V2.Release(local)
	for i, p := range pos {
		local[i] = toLocal(p)
	}
	return s.Evaluate(local, dist, userData)
}

func (t *translate2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	return evalMapped(t.s, pos, dist, userData, func(p ms2.Vec) ms2.Vec {
		return ms2.Sub(p, t.p)
	})
}

func (c *rotation2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	return evalMapped(c.s, pos, dist, userData, func(p ms2.Vec) ms2.Vec {
		return ms2.MulMatVec(c.tInv, p)
	})
}

func (c *scale2D) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	inv := 1 / c.scale
	err := evalMapped(c.s, pos, dist, userData, func(p ms2.Vec) ms2.Vec {
		return ms2.Scale(inv, p)
	})
	if err != nil {
		return err
	}
	for i := range dist {
		dist[i] *= c.scale
	}
	return nil
}
