package distrib

import (
	"errors"
	"math"
	"math/rand/v2"
	"unicode"

	"github.com/aquilax/go-perlin"
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill"
	"github.com/soypat/gfill/argmax"
	"github.com/soypat/gfill/forge/sdfxshape"
	"github.com/soypat/gfill/forge/textsdf"
	"github.com/soypat/gfill/gleval"
)

// Circles returns a generator of unit circles.
func Circles() Generator {
	var bld gfill.Builder
	unit := bld.NewCircle(1)
	return func(*rand.Rand, int) (gleval.SDF2, error) { return unit, nil }
}

// Primitives returns a generator choosing uniformly among circles, squares,
// hexagons and equilateral triangles inscribed in the unit disc.
func Primitives() Generator {
	var bld gfill.Builder
	shapes := []gleval.SDF2{
		bld.NewCircle(1),
		bld.NewSquare(math.Sqrt2),
		bld.NewHexagon(1),
		// Centered at the centroid with circumradius 2/3 of its height.
		bld.NewEquilateralTriangle(1.5),
	}
	return func(rng *rand.Rand, _ int) (gleval.SDF2, error) {
		return shapes[rng.IntN(len(shapes))], nil
	}
}

// Polygons returns a generator choosing uniformly among regular polygons with
// minSides to maxSides sides inscribed in the unit disc, built with sdfx.
func Polygons(minSides, maxSides int) (Generator, error) {
	if minSides < 3 || maxSides < minSides {
		return nil, errors.New("distrib: polygon sides must satisfy 3 <= min <= max")
	}
	shapes := make([]gleval.SDF2, 0, maxSides-minSides+1)
	for n := minSides; n <= maxSides; n++ {
		s, err := sdfxshape.RegularPolygon(n, 1)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, s)
	}
	return func(rng *rand.Rand, _ int) (gleval.SDF2, error) {
		return shapes[rng.IntN(len(shapes))], nil
	}, nil
}

// Glyphs returns a generator of the characters of text in order, cycling
// back to the start when exhausted. Spaces are skipped.
func Glyphs(font *textsdf.Font, text string) (Generator, error) {
	if font == nil {
		return nil, errors.New("distrib: nil font")
	}
	var bld gfill.Builder
	var glyphs []gleval.SDF2
	for _, c := range text {
		if unicode.IsSpace(c) {
			continue
		}
		g, err := font.Glyph(c)
		if err != nil {
			return nil, err
		}
		glyphs = append(glyphs, Normalize(&bld, g))
	}
	if len(glyphs) == 0 {
		return nil, errors.New("distrib: no glyphs in text")
	}
	if err := bld.Err(); err != nil {
		return nil, err
	}
	return func(_ *rand.Rand, n int) (gleval.SDF2, error) {
		return glyphs[n%len(glyphs)], nil
	}, nil
}

// Normalize centers s at the origin and scales it so its bounding box fits the unit disc.
func Normalize(bld *gfill.Builder, s gleval.SDF2) gleval.SDF2 {
	bb := s.Bounds()
	c := bb.Center()
	half := ms2.Norm(bb.Size()) / 2
	return bld.Scale2D(bld.Translate2D(s, -c.X, -c.Y), 1/half)
}

// NoiseConfig configures Perlin noise modulated sizing.
type NoiseConfig struct {
	// Alpha is the weight when the sum is formed.
	Alpha float64
	// Beta is the harmonic scaling/spacing.
	Beta float64
	// Octaves is the amount of iterations.
	Octaves int32
	// Frequency scales world coordinates before sampling noise.
	Frequency float64
	// MinFraction is the smallest fraction of the free distance used as radius.
	MinFraction float32
}

// DefaultNoiseConfig returns reasonable noise parameters.
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{Alpha: 2, Beta: 2, Octaves: 3, Frequency: 4, MinFraction: 0.1}
}

// NoiseSize returns a Sizer where the radius fraction follows Perlin noise sampled at the
// placement point, producing regions of large and small shapes.
func NoiseSize(cfg NoiseConfig, seed int64) (Sizer, error) {
	if cfg.Octaves <= 0 || cfg.Frequency <= 0 {
		return nil, errors.New("distrib: noise octaves and frequency must be positive")
	}
	if !(cfg.MinFraction > 0) || cfg.MinFraction > 1 {
		return nil, errors.New("distrib: noise minimum fraction must be in (0,1]")
	}
	p := perlin.NewPerlin(cfg.Alpha, cfg.Beta, cfg.Octaves, seed)
	return func(_ *rand.Rand, r argmax.ArgmaxResult) float32 {
		n := p.Noise2D(float64(r.Point.X)*cfg.Frequency, float64(r.Point.Y)*cfg.Frequency)
		t := math32.Max(0, math32.Min(1, 0.5+float32(n)))
		return cfg.MinFraction + (1-cfg.MinFraction)*t
	}, nil
}

// NoiseCircles places circles sized by Perlin noise. See [NoiseSize].
func NoiseCircles(f *argmax.Field, cfg Config, noise NoiseConfig) ([]Placement, error) {
	size, err := NoiseSize(noise, int64(cfg.Seed))
	if err != nil {
		return nil, err
	}
	return Run(f, cfg, Distribution{Generate: Circles(), Size: size})
}
