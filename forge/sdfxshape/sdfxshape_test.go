package sdfxshape

import (
	"testing"

	"github.com/chewxy/math32"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill"
	"github.com/soypat/gfill/argmax"
	"github.com/soypat/gfill/gleval"
)

func TestCircleMatchesBuilder(t *testing.T) {
	circle, err := Circle(0.5, 0.4, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	bb := circle.Bounds()
	if math32.Abs(bb.Min.X-0.3) > 1e-5 || math32.Abs(bb.Max.Y-0.6) > 1e-5 {
		t.Errorf("unexpected bounds %v", bb)
	}
	var bld gfill.Builder
	want := bld.Translate2D(bld.NewCircle(0.2), 0.5, 0.4)
	fx, err := argmax.New(32, 8)
	if err != nil {
		t.Fatal(err)
	}
	fw, _ := argmax.New(32, 8)
	if err = fx.InsertSDF(circle); err != nil {
		t.Fatal(err)
	}
	if err = fw.InsertSDF(want); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if d := math32.Abs(fx.ValueAt(x, y) - fw.ValueAt(x, y)); d > 1e-5 {
				t.Fatalf("cell (%d,%d) differs by %v", x, y, d)
			}
		}
	}
}

func TestPolygon(t *testing.T) {
	tri, err := Polygon([]v2.Vec{{X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.1}, {X: 0.5, Y: 0.8}})
	if err != nil {
		t.Fatal(err)
	}
	f, _ := argmax.New(16, 4)
	if err = f.InsertSDF(tri); err != nil {
		t.Fatal(err)
	}
	if d := f.ValueAt(8, 6); d >= 0 {
		t.Errorf("cell inside triangle has distance %v", d)
	}
	if d := f.ValueAt(0, 15); d <= 0 {
		t.Errorf("cell outside triangle has distance %v", d)
	}
	if _, err = Polygon([]v2.Vec{{X: 0, Y: 0}}); err == nil {
		t.Error("expected error for degenerate polygon")
	}
	if _, err = New(nil); err == nil {
		t.Error("expected error for nil shape")
	}
}

func TestRegularPolygon(t *testing.T) {
	hex, err := RegularPolygon(6, 1)
	if err != nil {
		t.Fatal(err)
	}
	bb := hex.Bounds()
	if math32.Abs(bb.Max.X-1) > 1e-5 || math32.Abs(bb.Min.X+1) > 1e-5 {
		t.Errorf("unexpected hexagon bounds %v", bb)
	}
	var bld gfill.Builder
	want := bld.NewHexagon(1)
	var vp gleval.VecPool
	for _, p := range []ms2.Vec{{}, {X: 0.5, Y: 0.2}, {X: 2, Y: 0}, {X: 0, Y: -1.5}} {
		got, err := gleval.EvaluateAt(hex, p, &vp)
		if err != nil {
			t.Fatal(err)
		}
		w, err := gleval.EvaluateAt(want, p, &vp)
		if err != nil {
			t.Fatal(err)
		}
		if math32.Abs(got-w) > 1e-4 {
			t.Errorf("at %v: sdfx hexagon %v, builder hexagon %v", p, got, w)
		}
	}
	if _, err = RegularPolygon(2, 1); err == nil {
		t.Error("expected error for two sided polygon")
	}
	if _, err = RegularPolygon(5, 0); err == nil {
		t.Error("expected error for zero radius")
	}
}
