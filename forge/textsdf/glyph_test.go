package textsdf

import (
	"testing"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill/gleval"
)

func TestGlyphInsideOutside(t *testing.T) {
	f, err := DefaultFont()
	if err != nil {
		t.Fatal(err)
	}
	var vp gleval.VecPool
	for _, test := range []struct {
		c          rune
		centerFill bool
	}{
		{c: 'I', centerFill: true},
		{c: 'o', centerFill: false},
		{c: 'O', centerFill: false},
	} {
		shape, err := f.Glyph(test.c)
		if err != nil {
			t.Fatalf("%q: %s", test.c, err)
		}
		bb := shape.Bounds()
		if sz := bb.Size(); sz.X <= 0 || sz.Y <= 0 {
			t.Fatalf("%q: empty bounds", test.c)
		}
		if bb.Min.Y >= 0 {
			t.Errorf("%q: glyph should extend above baseline in image orientation, got %v", test.c, bb)
		}
		d, err := gleval.EvaluateAt(shape, bb.Center(), &vp)
		if err != nil {
			t.Fatal(err)
		}
		if inside := d < 0; inside != test.centerFill {
			t.Errorf("%q: center distance %v, want inside=%v", test.c, d, test.centerFill)
		}
		far := ms2.Add(bb.Max, ms2.Vec{X: 1, Y: 1})
		d, err = gleval.EvaluateAt(shape, far, &vp)
		if err != nil {
			t.Fatal(err)
		}
		if d <= 0 {
			t.Errorf("%q: point outside bounds has distance %v", test.c, d)
		}
		again, _ := f.Glyph(test.c)
		if again != shape {
			t.Errorf("%q: glyph not cached", test.c)
		}
	}
	if err = vp.AssertAllReleased(); err != nil {
		t.Error(err)
	}
}

func TestTextLine(t *testing.T) {
	f, err := DefaultFont()
	if err != nil {
		t.Fatal(err)
	}
	h, err := f.Glyph('H')
	if err != nil {
		t.Fatal(err)
	}
	line, err := f.TextLine("Hi there")
	if err != nil {
		t.Fatal(err)
	}
	if line.Bounds().Size().X <= h.Bounds().Size().X {
		t.Errorf("text line %v should be wider than single glyph %v", line.Bounds(), h.Bounds())
	}
	if _, err = f.TextLine("   "); err == nil {
		t.Error("expected error for whitespace only text")
	}
	if _, err = f.TextLine("a\x00"); err == nil {
		t.Error("expected error for non graphic character")
	}
	if f.AdvanceWidth('m') <= f.AdvanceWidth('i') {
		t.Error("expected m to be wider than i")
	}
}

func TestUnloadedFont(t *testing.T) {
	var f Font
	if _, err := f.Glyph('a'); err == nil {
		t.Error("expected error on unloaded font")
	}
	if err := f.Configure(FontConfig{RelativeGlyphTolerance: 2}); err == nil {
		t.Error("expected tolerance error")
	}
}
