package argmax

import (
	"fmt"
	"image"
	"slices"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill/gleval"
)

// VecPool returns the scratch pool passed as userData to inserted SDFs.
func (f *Field) VecPool() *gleval.VecPool { return &f.vp }

// InsertSDF evaluates sdf at every cell and lowers the cells to the evaluated
// distance where it is smaller. All chunk summaries are recomputed.
// Use it for global constraints such as the domain boundary.
//
// If sdf returns an error the field is left unmodified.
func (f *Field) InsertSDF(sdf gleval.SDF2) error {
	f.mustInit()
	if sdf == nil {
		return errNilSDF
	}
	err := f.insertRect(f.bounds(), sdf)
	if err == nil {
		logger().Debug("argmax: whole field insertion", "cells", f.res*f.res, "insertions", f.insertions)
	}
	return err
}

// InsertSDFDomain is like [Field.InsertSDF] but only cells overlapping the world space
// domain are evaluated, and only chunks overlapping it are recomputed. The domain is
// clipped to the unit square; a domain with zero area or entirely outside the unit square
// is a no-op. Cells outside the domain keep stale values even if sdf would lower them, see
// [DomainEstimator] for choosing a domain.
//
// If sdf returns an error the field is left unmodified.
func (f *Field) InsertSDFDomain(domain ms2.Box, sdf gleval.SDF2) error {
	f.mustInit()
	if sdf == nil {
		return errNilSDF
	}
	r := f.pixelRect(domain)
	if r.Empty() {
		return nil
	}
	return f.insertRect(r, sdf)
}

// insertRect evaluates sdf over the cells in r before writing any of them so that
// a failed evaluation never leaves the grid partially updated.
func (f *Field) insertRect(r image.Rectangle, sdf gleval.SDF2) error {
	n := r.Dx() * r.Dy()
	f.pos = slices.Grow(f.pos[:0], n)[:n]
	f.evbuf = slices.Grow(f.evbuf[:0], n)[:n]
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.pos[i] = f.ToWorld(x, y)
			i++
		}
	}
	err := sdf.Evaluate(f.pos, f.evbuf, &f.vp)
	if err != nil {
		return fmt.Errorf("argmax: evaluating SDF over cells %v: %w", r, err)
	}
	i = 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := y * f.res
		for x := r.Min.X; x < r.Max.X; x++ {
			f.setMin(off+x, f.evbuf[i])
			i++
		}
	}
	f.markDirty(r)
	f.recompute()
	f.insertions++
	f.evals += uint64(n)
	return nil
}

// pixelRect returns the cells whose area overlaps the world space box b, clipped to the grid.
func (f *Field) pixelRect(b ms2.Box) image.Rectangle {
	// Negated comparisons also reject NaN bounds.
	if !(b.Max.X > b.Min.X) || !(b.Max.Y > b.Min.Y) {
		return image.Rectangle{}
	}
	res := float32(f.res)
	x0 := int(math32.Floor(ms1.Clamp(b.Min.X*res, 0, res)))
	y0 := int(math32.Floor(ms1.Clamp(b.Min.Y*res, 0, res)))
	x1 := int(math32.Ceil(ms1.Clamp(b.Max.X*res, 0, res)))
	y1 := int(math32.Ceil(ms1.Clamp(b.Max.Y*res, 0, res)))
	return image.Rect(x0, y0, x1, y1)
}
