// Package distrib implements space filling distributions: placement loops that
// repeatedly query an [argmax.Field] for the point farthest from all placed shapes,
// place a randomized shape there and insert it back into the field.
//
// All distributions are deterministic for a given seed and field configuration.
package distrib

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill"
	"github.com/soypat/gfill/argmax"
	"github.com/soypat/gfill/gleval"
)

// DefaultMaxRadius caps the radius of placed shapes in world units.
const DefaultMaxRadius = 1. / 6

// Config controls a placement loop.
type Config struct {
	// Seed initializes the PCG random number generator.
	Seed uint64
	// Limit caps the amount of placements. Zero means no limit.
	Limit int
	// MinDistance stops the loop when the free distance drops below it.
	// Zero selects [DefaultMinDistance] for the field resolution.
	MinDistance float32
	// MaxRadius caps the radius of placed shapes. Zero selects [DefaultMaxRadius].
	MaxRadius float32
	// Domain estimates the region updated by each insertion.
	Domain argmax.DomainEstimator
	// Whole inserts every shape over the whole field. Slow, mostly useful for validation.
	Whole bool
	// NoBoundary skips insertion of the unit square walls before placement.
	NoBoundary bool
}

// Placement is a shape placed by a distribution.
type Placement struct {
	// Shape is the placed shape in world space.
	Shape gleval.SDF2
	// Center and Radius describe the disc containing Shape.
	Center ms2.Vec
	Radius float32
	// Angle is the rotation applied to the unit shape.
	Angle float32
	// Free is the field maximum that the placement was sized from.
	Free argmax.ArgmaxResult
}

// Generator returns the n'th shape to place. The shape must be contained in the
// unit disc centered at the origin; it is scaled to the placement radius.
type Generator func(rng *rand.Rand, n int) (gleval.SDF2, error)

// Sizer returns the fraction of the free distance at r used as placement radius.
// The result is clamped to (0, 1].
type Sizer func(rng *rand.Rand, r argmax.ArgmaxResult) float32

// Distribution combines shape generation and sizing of a placement loop.
type Distribution struct {
	Generate Generator
	Size     Sizer
	// Rotate applies a random rotation to each unit shape.
	Rotate bool
}

// DefaultMinDistance returns half a cell diagonal for a field of the given resolution.
func DefaultMinDistance(resolution int) float32 {
	return 0.5 * math.Sqrt2 / float32(resolution)
}

// NewRand returns the PCG generator used by distributions for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Run fills f with shapes from dist until the free distance drops below the minimum
// distance or the placement limit is reached. Shapes are placed inside the free disc
// of each result so that no two placements overlap.
func Run(f *argmax.Field, cfg Config, dist Distribution) ([]Placement, error) {
	if dist.Generate == nil || dist.Size == nil {
		return nil, errors.New("distrib: distribution requires generator and sizer")
	}
	if cfg.Limit < 0 || cfg.MinDistance < 0 || cfg.MaxRadius < 0 {
		return nil, errors.New("distrib: negative config value")
	}
	var bld gfill.Builder
	bld.SetFlags(gfill.FlagNoDimensionPanic)
	if !cfg.NoBoundary {
		err := f.InsertSDF(bld.NewUnitBoundary())
		if err != nil {
			return nil, err
		}
	}
	minDist := cfg.MinDistance
	if minDist == 0 {
		minDist = DefaultMinDistance(f.Resolution())
	}
	maxRadius := cfg.MaxRadius
	if maxRadius == 0 {
		maxRadius = DefaultMaxRadius
	}
	rng := NewRand(cfg.Seed)
	var placements []Placement
	_, err := f.Fill(argmax.FillConfig{
		IterConfig: argmax.IterConfig{MinDistance: minDist, Limit: cfg.Limit},
		Domain:     cfg.Domain,
		Whole:      cfg.Whole,
	}, func(r argmax.ArgmaxResult) (gleval.SDF2, error) {
		angle := uniform(rng, -math.Pi, math.Pi)
		frac := dist.Size(rng, r)
		if !(frac > 0) {
			return nil, fmt.Errorf("distrib: sizer returned non-positive fraction %v", frac)
		}
		radius := math32.Min(math32.Min(frac, 1)*r.Distance, maxRadius)
		// Offset the center so the shape stays inside the free disc.
		var offset ms2.Vec
		if delta := r.Distance - radius; !math32.IsInf(delta, 1) {
			s, c := math32.Sincos(angle)
			offset = ms2.Vec{X: c * delta, Y: s * delta}
		}
		unit, err := dist.Generate(rng, len(placements))
		if err != nil {
			return nil, err
		}
		var rot float32
		if dist.Rotate {
			rot = uniform(rng, -math.Pi, math.Pi)
		}
		p := Placement{
			Center: ms2.Sub(r.Point, offset),
			Radius: radius,
			Angle:  rot,
			Free:   r,
		}
		p.Shape = bld.Place(unit, p.Center, radius, rot)
		if err = bld.Err(); err != nil {
			return nil, fmt.Errorf("distrib: placement %d: %w", len(placements), err)
		}
		placements = append(placements, p)
		return p.Shape, nil
	})
	argmax.Logger().Debug("distrib: run finished", "placements", len(placements), "evaluations", f.Evaluations(), "err", err)
	return placements, err
}

// RandomCircles places circles with random radius between the minimum distance
// and the free distance at each point, capped by the maximum radius.
func RandomCircles(f *argmax.Field, cfg Config) ([]Placement, error) {
	minFrac := cfg.MinDistance
	if minFrac == 0 {
		minFrac = DefaultMinDistance(f.Resolution())
	}
	return Run(f, cfg, Distribution{
		Generate: Circles(),
		Size:     UniformSize(minFrac, 1),
	})
}

// UniformSize returns a Sizer drawing fractions uniformly in [lo, hi).
func UniformSize(lo, hi float32) Sizer {
	return func(rng *rand.Rand, _ argmax.ArgmaxResult) float32 {
		return uniform(rng, lo, hi)
	}
}

// FixedSize returns a Sizer that always returns frac.
func FixedSize(frac float32) Sizer {
	return func(*rand.Rand, argmax.ArgmaxResult) float32 { return frac }
}

func uniform(rng *rand.Rand, lo, hi float32) float32 {
	return lo + (hi-lo)*rng.Float32()
}
