package gfill_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill"
	"github.com/soypat/gfill/gleval"
)

const tol = 1e-5

func evalPoints(t *testing.T, s gleval.SDF2, pos []ms2.Vec) []float32 {
	t.Helper()
	var vp gleval.VecPool
	dist := make([]float32, len(pos))
	err := s.Evaluate(pos, dist, &vp)
	if err != nil {
		t.Fatal(err)
	}
	if err = vp.AssertAllReleased(); err != nil {
		t.Fatal(err)
	}
	return dist
}

func TestPrimitiveDistances(t *testing.T) {
	var bld gfill.Builder
	for _, test := range []struct {
		name string
		s    gleval.SDF2
		p    ms2.Vec
		want float32
	}{
		{"circle center", bld.NewCircle(1), ms2.Vec{}, -1},
		{"circle outside", bld.NewCircle(1), ms2.Vec{X: 3}, 2},
		{"rect edge", bld.NewRectangle(2, 4), ms2.Vec{X: 1}, 0},
		{"rect corner", bld.NewRectangle(2, 2), ms2.Vec{X: 4, Y: 5}, 5},
		{"square inside", bld.NewSquare(2), ms2.Vec{X: 0.5}, -0.5},
		{"hexagon vertex", bld.NewHexagon(1), ms2.Vec{X: 1}, 0},
		{"hexagon apothem", bld.NewHexagon(1), ms2.Vec{Y: 2}, 2 - math32.Sqrt(3)/2},
		{"line middle", bld.NewLine2D(0, 0, 2, 0, 1), ms2.Vec{X: 1, Y: 1}, 0.5},
		{"polygon inside", bld.NewPolygon([]ms2.Vec{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}), ms2.Vec{}, -1},
		{"unit boundary center", bld.NewUnitBoundary(), ms2.Vec{X: 0.5, Y: 0.5}, 0.5},
		{"unit boundary near wall", bld.NewUnitBoundary(), ms2.Vec{X: 0.1, Y: 0.5}, 0.1},
		{"unit boundary outside", bld.NewUnitBoundary(), ms2.Vec{X: 1.5, Y: 0.5}, -0.5},
	} {
		got := evalPoints(t, test.s, []ms2.Vec{test.p})[0]
		if math32.Abs(got-test.want) > tol {
			t.Errorf("%s: want %g, got %g", test.name, test.want, got)
		}
	}
	if err := bld.Err(); err != nil {
		t.Fatal(err)
	}
}

func TestTransformsMatchHandComputed(t *testing.T) {
	var bld gfill.Builder
	circle := bld.NewCircle(0.25)
	placed := bld.Place(circle, ms2.Vec{X: 0.5, Y: 0.5}, 2, math.Pi/3)
	rng := rand.New(rand.NewSource(1))
	pos := make([]ms2.Vec, 64)
	for i := range pos {
		pos[i] = ms2.Vec{X: rng.Float32(), Y: rng.Float32()}
	}
	dist := evalPoints(t, placed, pos)
	for i, p := range pos {
		want := ms2.Norm(ms2.Sub(p, ms2.Vec{X: 0.5, Y: 0.5})) - 0.5
		if math32.Abs(dist[i]-want) > tol {
			t.Fatalf("pos %v: want %g, got %g", p, want, dist[i])
		}
	}
	bb := placed.Bounds()
	if math32.Abs(bb.Center().X-0.5) > tol || math32.Abs(bb.Center().Y-0.5) > tol {
		t.Errorf("placed bounds not centered: %+v", bb)
	}
	if bb.Size().X < 1-tol {
		t.Errorf("placed bounds smaller than shape: %+v", bb)
	}
}

func TestRotatedSquareBounds(t *testing.T) {
	var bld gfill.Builder
	sq := bld.Rotate2D(bld.NewSquare(2), math.Pi/4)
	bb := sq.Bounds()
	want := math32.Sqrt2
	if math32.Abs(bb.Max.X-want) > tol || math32.Abs(bb.Min.Y+want) > tol {
		t.Errorf("want rotated bounds of half size %g, got %+v", want, bb)
	}
}

func TestBooleanOperations(t *testing.T) {
	var bld gfill.Builder
	a := bld.NewCircle(1)
	b := bld.Translate2D(bld.NewCircle(1), 1.5, 0)
	pos := []ms2.Vec{{X: -0.5}, {X: 0.75}, {X: 2}}
	u := evalPoints(t, bld.Union2D(a, b), pos)
	inter := evalPoints(t, bld.Intersection2D(a, b), pos)
	diff := evalPoints(t, bld.Difference2D(a, b), pos)
	if !(u[0] < 0 && u[1] < 0 && u[2] < 0) {
		t.Errorf("union should contain all points: %v", u)
	}
	if !(inter[0] > 0 && inter[1] < 0 && inter[2] > 0) {
		t.Errorf("intersection should contain only the lens: %v", inter)
	}
	if !(diff[0] < 0 && diff[1] > 0 && diff[2] > 0) {
		t.Errorf("difference should contain only left lobe: %v", diff)
	}
	off := evalPoints(t, bld.Offset2D(a, -0.5), []ms2.Vec{{X: 1.5}})
	if math32.Abs(off[0]) > tol {
		t.Errorf("offset circle should have grown to radius 1.5, got %g", off[0])
	}
}

func TestUnionFlattens(t *testing.T) {
	var bld gfill.Builder
	c := bld.NewCircle(1)
	u := bld.Union2D(bld.Union2D(c, c), c).(*gfill.OpUnion2D)
	if u.Len() != 3 {
		t.Errorf("want 3 joined shapes, got %d", u.Len())
	}
	u.Append(c)
	if u.Len() != 4 {
		t.Errorf("want 4 after append, got %d", u.Len())
	}
}

func TestBuilderErrors(t *testing.T) {
	var bld gfill.Builder
	bld.SetFlags(gfill.FlagNoDimensionPanic)
	s := bld.NewCircle(-1)
	if s == nil {
		t.Error("expecting non-nil shape")
	}
	if bld.Err() == nil {
		t.Error("expecting error in builder")
	}
	bld.ClearErrors()
	if bld.Err() != nil {
		t.Error("expected builder error to be cleared")
	}
	bld.NewPolygon([]ms2.Vec{{X: 0}, {X: 1}})
	bld.Scale2D(bld.NewCircle(1), 0)
	if bld.Err() == nil {
		t.Error("expected degenerate polygon and scale errors")
	}
}

func TestBuilderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic without FlagNoDimensionPanic")
		}
	}()
	var bld gfill.Builder
	bld.NewRectangle(0, 1)
}

func TestMissingVecPool(t *testing.T) {
	var bld gfill.Builder
	s := bld.Translate2D(bld.NewCircle(1), 1, 1)
	err := s.Evaluate([]ms2.Vec{{}}, []float32{0}, nil)
	if err == nil {
		t.Error("expected error when evaluating transform without VecPool")
	}
}

func TestBuilderErrorMessages(t *testing.T) {
	var bld gfill.Builder
	bld.SetFlags(gfill.FlagNoDimensionPanic)
	bld.NewCircle(-1.5)
	if got, want := bld.Err().Error(), "bad circle radius: -1.5"; got != want {
		t.Errorf("want error %q, got %q", want, got)
	}
	bld.ClearErrors()
	bld.NewPolygon(nil)
	if got, want := bld.Err().Error(), "empty polygon"; got != want {
		t.Errorf("want error %q, got %q", want, got)
	}
}

func TestBuilderPanicMessage(t *testing.T) {
	defer func() {
		msg, _ := recover().(string)
		if msg != "empty polygon" {
			t.Errorf("want panic message %q, got %q", "empty polygon", msg)
		}
	}()
	var bld gfill.Builder
	bld.NewPolygon(nil)
}

func TestShapesEvaluateIntoField(t *testing.T) {
	// Shapes and evaluation buffers share one vector type across packages.
	var bld gfill.Builder
	shapes := []gleval.SDF2{
		bld.NewCircle(1),
		bld.Union2D(bld.NewCircle(1), bld.NewSquare(1)),
		bld.Place(bld.NewHexagon(1), ms2.Vec{X: 0.5, Y: 0.5}, 0.1, 1),
		bld.NewUnitBoundary(),
	}
	pos := []ms2.Vec{{X: 0.5, Y: 0.5}}
	for i, s := range shapes {
		var bb ms2.Box = s.Bounds()
		if !(bb.Max.X >= bb.Min.X) {
			t.Errorf("shape %d: bad bounds %v", i, bb)
		}
		d, err := gleval.EvaluateAt(s, pos[0], &gleval.VecPool{})
		if err != nil {
			t.Fatalf("shape %d: %v", i, err)
		}
		got := evalPoints(t, s, pos)
		if got[0] != d {
			t.Errorf("shape %d: EvaluateAt %v differs from batch %v", i, d, got[0])
		}
	}
}

func TestPolygonsMatchPrimitives(t *testing.T) {
	var bld gfill.Builder
	const h = 0.75 // Triangle height.
	side := h / (math32.Sqrt(3) / 2)
	for _, test := range []struct {
		name string
		poly []ms2.Vec
		want gleval.SDF2
	}{
		{
			name: "rectangle",
			poly: []ms2.Vec{{X: -1, Y: -0.5}, {X: 1, Y: -0.5}, {X: 1, Y: 0.5}, {X: -1, Y: 0.5}},
			want: bld.NewRectangle(2, 1),
		},
		{
			name: "hexagon",
			poly: regularPolygon(6, 1),
			want: bld.NewHexagon(1),
		},
		{
			name: "triangle",
			poly: []ms2.Vec{{X: -side / 2, Y: -h / 3}, {X: side / 2, Y: -h / 3}, {X: 0, Y: 2 * h / 3}},
			want: bld.NewEquilateralTriangle(h),
		},
	} {
		poly := bld.NewPolygon(test.poly)
		rng := rand.New(rand.NewSource(1))
		pos := make([]ms2.Vec, 256)
		for i := range pos {
			pos[i] = ms2.Vec{X: 4*rng.Float32() - 2, Y: 4*rng.Float32() - 2}
		}
		got := evalPoints(t, poly, pos)
		want := evalPoints(t, test.want, pos)
		for i := range pos {
			if math32.Abs(got[i]-want[i]) > 1e-4 {
				t.Errorf("%s at %v: polygon %v, primitive %v", test.name, pos[i], got[i], want[i])
				break
			}
		}
	}
}

func regularPolygon(sides int, r float32) []ms2.Vec {
	verts := make([]ms2.Vec, sides)
	for i := range verts {
		s, c := math32.Sincos(2 * math.Pi * float32(i) / float32(sides))
		verts[i] = ms2.Vec{X: r * c, Y: r * s}
	}
	return verts
}
