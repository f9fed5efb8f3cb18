package gleval

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
)

// SDF2 implements a 2D signed distance field in vectorized form.
// Negative distances are inside the shape, positive distances are outside.
type SDF2 interface {
	// Evaluate evaluates the signed distance field over pos positions.
	// dist and pos must be of same length.  Resulting distances are stored
	// in dist.
	//
	// userData facilitates getting data to the evaluators for use in processing, such as [VecPool].
	Evaluate(pos []ms2.Vec, dist []float32, userData any) error
	// Bounds returns the SDF's bounding box such that all of the shape is contained within.
	Bounds() ms2.Box
}

var (
	errEmptyBuffers         = errors.New("empty buffers")
	errMismatchBufferLength = errors.New("position and distance buffer length mismatch")
)

// ValidateBuffers returns an error if pos and dist are not usable as evaluation buffers.
func ValidateBuffers(pos []ms2.Vec, dist []float32) error {
	if len(pos) != len(dist) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	return nil
}

// NewFuncSDF2 wraps a single point distance function as a [SDF2]. bb must contain
// the zero-level set of fn. Walls and other functions defined everywhere may use any box.
func NewFuncSDF2(bb ms2.Box, fn func(p ms2.Vec) float32) (*FuncSDF2, error) {
	if fn == nil {
		return nil, errors.New("nil distance function")
	}
	if math32.IsNaN(bb.Min.X) || math32.IsNaN(bb.Min.Y) || math32.IsNaN(bb.Max.X) || math32.IsNaN(bb.Max.Y) {
		return nil, errors.New("NaN bounding box")
	}
	return &FuncSDF2{fn: fn, bb: bb}, nil
}

// FuncSDF2 is a [SDF2] evaluated one point at a time. See [NewFuncSDF2].
type FuncSDF2 struct {
	fn func(ms2.Vec) float32
	bb ms2.Box
}

// Evaluate implements [SDF2].
func (f *FuncSDF2) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	if err := ValidateBuffers(pos, dist); err != nil {
		return err
	}
	for i, p := range pos {
		dist[i] = f.fn(p)
	}
	return nil
}

// Bounds implements [SDF2].
func (f *FuncSDF2) Bounds() ms2.Box { return f.bb }

// EvaluateAt evaluates s at a single position. Meant for use outside of hot loops.
func EvaluateAt(s SDF2, p ms2.Vec, userData any) (float32, error) {
	pos := [1]ms2.Vec{p}
	var dist [1]float32
	err := s.Evaluate(pos[:], dist[:], userData)
	return dist[0], err
}

// CountedSDF2 wraps a SDF2 and keeps track of the amount of positions evaluated.
type CountedSDF2 struct {
	SDF   SDF2
	evals uint64
	calls uint64
}

// Evaluate implements [SDF2] and counts evaluated positions on success.
func (c *CountedSDF2) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	err := c.SDF.Evaluate(pos, dist, userData)
	if err != nil {
		return err
	}
	c.evals += uint64(len(dist))
	c.calls++
	return nil
}

// Bounds returns the bounds of the underlying SDF.
func (c *CountedSDF2) Bounds() ms2.Box { return c.SDF.Bounds() }

// Evaluations returns total positions evaluated succesfully during the SDF's lifetime.
func (c *CountedSDF2) Evaluations() uint64 { return c.evals }

// Calls returns the amount of successful Evaluate calls.
func (c *CountedSDF2) Calls() uint64 { return c.calls }

// Reset zeroes the statistics.
func (c *CountedSDF2) Reset() { c.evals, c.calls = 0, 0 }
