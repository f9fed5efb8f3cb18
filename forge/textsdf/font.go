// Package textsdf builds 2D signed distance fields of TrueType glyphs.
// Glyphs are returned in image orientation: the y axis points down and
// one font size unit spans the smallest side of the font bounding box.
package textsdf

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/golang/freetype/truetype"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill"
	"github.com/soypat/gfill/gleval"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const firstBasic = '!'
const lastBasic = '~'

type FontConfig struct {
	// RelativeGlyphTolerance sets the permissible curve tolerance for glyphs. Must be between 0..1. If zero a reasonable value is chosen.
	RelativeGlyphTolerance float32
}

// Font implements font parsing and glyph (character) generation.
// The zero value must be loaded with [Font.LoadTTFBytes] before use.
type Font struct {
	ttf    truetype.Font
	loaded bool
	gb     truetype.GlyphBuf
	// basicGlyphs optimized array access for common ASCII glyphs.
	basicGlyphs [lastBasic - firstBasic + 1]gleval.SDF2
	otherGlyphs map[rune]gleval.SDF2
	bld         gfill.Builder
	reltol      float32 // Set by config or reset call if zeroed.
	poly        []ms2.Vec
	sampled     []ms2.Vec
}

// DefaultFont returns a Font loaded with the Go Regular font.
func DefaultFont() (*Font, error) {
	var f Font
	err := f.LoadTTFBytes(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Font) Configure(cfg FontConfig) error {
	if cfg.RelativeGlyphTolerance < 0 || cfg.RelativeGlyphTolerance >= 1 {
		return errors.New("invalid RelativeGlyphTolerance")
	}
	f.reset()
	f.reltol = cfg.RelativeGlyphTolerance
	return nil
}

// LoadTTFBytes loads a TTF file blob into f. After calling Load the Font is ready to generate glyph SDFs.
func (f *Font) LoadTTFBytes(ttf []byte) error {
	font, err := truetype.Parse(ttf)
	if err != nil {
		return err
	}
	f.reset()
	f.ttf = *font
	f.loaded = true
	return nil
}

// reset clears cached glyphs without removing the loaded font.
func (f *Font) reset() {
	clear(f.basicGlyphs[:])
	if f.otherGlyphs == nil {
		f.otherGlyphs = make(map[rune]gleval.SDF2)
	} else {
		clear(f.otherGlyphs)
	}
	if f.reltol == 0 {
		f.reltol = 0.15
	}
	f.bld.SetFlags(gfill.FlagNoDimensionPanic)
}

// TextLine returns a single line of text with the set font.
// TextLine takes kerning and advance width into account for letter spacing.
// Glyph locations are set starting at x=0 and appended in positive x direction.
func (f *Font) TextLine(s string) (gleval.SDF2, error) {
	if !f.loaded {
		return nil, errors.New("font not loaded")
	}
	var shapes []gleval.SDF2
	scale := f.scale()
	var idxPrev truetype.Index
	var xOfs int64
	scalout := f.scaleout()
	for ic, c := range s {
		if !unicode.IsGraphic(c) {
			return nil, fmt.Errorf("char %q not graphic", c)
		}
		idx := f.ttf.Index(c)
		hm := f.ttf.HMetric(scale, idx)
		if unicode.IsSpace(c) {
			if c == '\t' {
				hm.AdvanceWidth *= 4
			}
			xOfs += int64(hm.AdvanceWidth)
			continue
		}
		charshape, err := f.Glyph(c)
		if err != nil {
			return nil, fmt.Errorf("char %q: %w", c, err)
		}
		xOfs += int64(f.ttf.Kern(scale, idxPrev, idx))
		idxPrev = idx
		if ic == 0 {
			xOfs += int64(hm.LeftSideBearing)
		}
		shapes = append(shapes, f.bld.Translate2D(charshape, float32(xOfs)*scalout, 0))
		xOfs += int64(hm.AdvanceWidth)
	}
	switch len(shapes) {
	case 0:
		return nil, errors.New("no text provided")
	case 1:
		return shapes[0], nil
	}
	return f.bld.Union2D(shapes...), f.takeErr()
}

// Kern returns the horizontal adjustment for the given glyph pair. A positive kern means to move the glyphs further apart.
func (f *Font) Kern(c0, c1 rune) float32 {
	return float32(f.ttf.Kern(f.scale(), f.ttf.Index(c0), f.ttf.Index(c1))) * f.scaleout()
}

// AdvanceWidth returns the horizontal distance from the start of the glyph to the start of the next one.
func (f *Font) AdvanceWidth(c rune) float32 {
	return float32(f.ttf.HMetric(f.scale(), f.ttf.Index(c)).AdvanceWidth) * f.scaleout()
}

// Glyph returns a SDF for a character defined by the argument rune.
// Glyphs are cached and the same SDF is returned on subsequent calls.
func (f *Font) Glyph(c rune) (sdf gleval.SDF2, err error) {
	if !f.loaded {
		return nil, errors.New("font not loaded")
	}
	if c >= firstBasic && c <= lastBasic {
		// Basic ASCII glyph case.
		sdf = f.basicGlyphs[c-firstBasic]
		if sdf == nil {
			sdf, err = f.makeGlyph(c)
			if err != nil {
				return nil, err
			}
			f.basicGlyphs[c-firstBasic] = sdf
		}
		return sdf, nil
	}
	sdf, ok := f.otherGlyphs[c]
	if !ok {
		sdf, err = f.makeGlyph(c)
		if err != nil {
			return nil, err
		}
		f.otherGlyphs[c] = sdf
	}
	return sdf, nil
}

func (f *Font) scale() fixed.Int26_6 {
	return fixed.Int26_6(f.ttf.FUnitsPerEm())
}

// scaleout defines the scaling from font units to glyph space.
func (f *Font) scaleout() float32 {
	bb := f.ttf.Bounds(f.scale())
	sz := min(bb.Max.X-bb.Min.X, bb.Max.Y-bb.Min.Y)
	return 1 / float32(sz)
}

func (f *Font) takeErr() error {
	err := f.bld.Err()
	f.bld.ClearErrors()
	return err
}

func (f *Font) makeGlyph(char rune) (gleval.SDF2, error) {
	g := &f.gb
	idx := f.ttf.Index(char)
	err := g.Load(&f.ttf, f.scale(), idx, font.HintingNone)
	if err != nil {
		return nil, err
	} else if len(g.Ends) == 0 {
		return nil, fmt.Errorf("glyph %q has no contours", char)
	}
	scaleout := f.scaleout()
	var shape gleval.SDF2
	start := 0
	for _, end := range g.Ends {
		contour, fill := f.glyphCurve(g.Points[start:end], scaleout)
		start = end
		if err = f.takeErr(); err != nil {
			return nil, fmt.Errorf("glyph %q: %w", char, err)
		}
		switch {
		case shape == nil:
			// First contour is expected to be filled.
			shape = contour
		case fill:
			shape = f.bld.Union2D(shape, contour)
		default:
			shape = f.bld.Difference2D(shape, contour)
		}
	}
	return shape, f.takeErr()
}

// glyphCurve samples a closed contour of on and off curve points into a polygon
// and reports whether the contour is filled.
func (f *Font) glyphCurve(points []truetype.Point, scale float32) (gleval.SDF2, bool) {
	var (
		sampler = ms2.Spline3Sampler{Spline: quadBezier, Tolerance: f.reltol}
		sum     float32
	)
	n := len(points)
	poly := f.poly[:0]
	vPrev := p2v(points[n-1], scale)
	for i := 0; i < n; {
		p0, p1, p2 := points[i], points[(i+1)%n], points[(i+2)%n]
		onBits := p0.Flags&1 | (p1.Flags&1)<<1 | (p2.Flags&1)<<2
		v0, v1, v2 := p2v(p0, scale), p2v(p1, scale), p2v(p2, scale)
		implicit0 := ms2.Scale(0.5, ms2.Add(v0, v1))
		implicit1 := ms2.Scale(0.5, ms2.Add(v1, v2))
		switch onBits {
		case 0b010, 0b110, 0b011, 0b111:
			// Straight line to next on point.
			poly = appendDistinct(poly, v0)
			i++
			sum += (v0.X - vPrev.X) * (v0.Y + vPrev.Y)
			vPrev = v0
			continue
		case 0b000:
			// implicit-off-implicit.
			sampler.SetSplinePoints(implicit0, v1, implicit1, ms2.Vec{})
			v0 = implicit0
			i++
		case 0b001:
			// on-off-implicit.
			sampler.SetSplinePoints(v0, v1, implicit1, ms2.Vec{})
			i++
		case 0b100:
			// implicit-off-on.
			sampler.SetSplinePoints(implicit0, v1, v2, ms2.Vec{})
			v0 = implicit0
			i += 2
		case 0b101:
			// on-off-on.
			sampler.SetSplinePoints(v0, v1, v2, ms2.Vec{})
			i += 2
		}
		poly = appendDistinct(poly, v0)
		f.sampled = sampler.SampleBisect(f.sampled[:0], 4)
		for _, v := range f.sampled {
			poly = appendDistinct(poly, v)
		}
		sum += (v0.X - vPrev.X) * (v0.Y + vPrev.Y)
		vPrev = v0
	}
	f.poly = poly
	// The y axis is flipped so filled contours have negative winding sum.
	vertices := append([]ms2.Vec(nil), poly...)
	return f.bld.NewPolygon(vertices), sum < 0
}

func appendDistinct(poly []ms2.Vec, v ms2.Vec) []ms2.Vec {
	if len(poly) > 0 && poly[len(poly)-1] == v {
		return poly
	}
	return append(poly, v)
}

// p2v converts a font point to glyph space flipping the y axis.
func p2v(p truetype.Point, scale float32) ms2.Vec {
	return ms2.Vec{
		X: float32(p.X) * scale,
		Y: -float32(p.Y) * scale,
	}
}

var quadBezier = ms2.NewSpline3([]float32{
	1, 0, 0, 0,
	-2, 2, 0, 0,
	1, -2, 1, 0,
	0, 0, 0, 0,
})
