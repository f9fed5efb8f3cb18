// Package gfill implements 2D signed distance field shapes and the operations
// to compose them. Shapes implement [gleval.SDF2] and are evaluated in batches on the CPU.
package gfill

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
)

const (
	// For an equilateral triangle of side length L the length of bisector is L multiplied this number which is sqrt(1-0.25).
	tribisect = 0.8660254037844386467637231707529361834714026269051903140279034897
	sqrt3     = 1.7320508075688772935274463415058723669428052538103806280558069794
	largenum  = 1e20
	// epstol is used to check for badly conditioned denominators
	// such as lengths used for normalization or transformation matrix determinants.
	epstol = 6e-7
)

// Flags configures Builder behaviour.
type Flags uint64

const (
	// FlagNoDimensionPanic makes the Builder accumulate shape errors instead of panicking.
	// Errors can then be checked with [Builder.Err].
	FlagNoDimensionPanic Flags = 1 << iota
)

// Builder wraps all SDF primitive and operation logic generation.
// Provides error handling strategies with panics or error accumulation during shape generation.
type Builder struct {
	flags     Flags
	accumErrs []error
}

// Flags returns the current Builder flags.
func (bld *Builder) Flags() Flags { return bld.flags }

// SetFlags overwrites the Builder flags.
func (bld *Builder) SetFlags(flags Flags) { bld.flags = flags }

// Err returns all accumulated shape errors joined, or nil if there are none.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

// ClearErrors discards accumulated errors.
func (bld *Builder) ClearErrors() {
	bld.accumErrs = bld.accumErrs[:0]
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	err := fmt.Errorf(msg, args...)
	if bld.flags&FlagNoDimensionPanic == 0 {
		panic(err.Error())
	}
	bld.accumErrs = append(bld.accumErrs, err)
}

func (*Builder) nilsdf(msg string) {
	panic("nil SDF argument: " + msg)
}

func badDim(v float32) bool {
	return !(v > 0) || math32.IsInf(v, 1)
}

func minf(a, b float32) float32 {
	return math32.Min(a, b)
}

func maxf(a, b float32) float32 {
	return math32.Max(a, b)
}

func signf(a float32) float32 {
	if a == 0 {
		return 0
	}
	return math32.Copysign(1, a)
}

func clampf(v, Min, Max float32) float32 {
	if v < Min {
		return Min
	} else if v > Max {
		return Max
	}
	return v
}

// infiniteBox contains every representable point in practice.
var infiniteBox = ms2.Box{
	Min: ms2.Vec{X: -largenum, Y: -largenum},
	Max: ms2.Vec{X: largenum, Y: largenum},
}
