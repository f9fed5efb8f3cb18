// Package argmax implements a chunked distance field over a square pixel grid that
// answers "where is the point farthest from every inserted shape" without rescanning
// the whole grid after each insertion.
//
// The field is indexed by pixel but evaluated in world space: the grid covers the
// unit square [0,1]x[0,1] regardless of resolution. Shapes are inserted as [gleval.SDF2]
// and combine with the cells' current values by pointwise minimum, so cell values only
// ever decrease. Each fixed-size square chunk caches its maximum so the global maximum is
// found by scanning chunk summaries instead of cells.
//
// A Field is not safe for concurrent use.
package argmax

import (
	"errors"
	"fmt"
	"image"
	"math/bits"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill/gleval"
)

var (
	errNilSDF = errors.New("argmax: nil SDF")
	// ErrNoProgress is reported by [Iterator.Err] when a result is requested without
	// inserting into the field after the previous result.
	ErrNoProgress = errors.New("argmax: no insertion between consecutive results")
)

// ArgmaxResult is a snapshot of a location in the field and its distance
// to the nearest inserted shape at the time the result was produced.
type ArgmaxResult struct {
	// Point is the world space center of the cell.
	Point ms2.Vec
	// Distance is the signed distance stored at the cell.
	Distance float32
}

// Field is the distance field grid with its chunk index. Create with [New].
type Field struct {
	res        int
	chunkSize  int
	chunkShift uint
	// chunksX is the amount of chunks per side.
	chunksX int
	// dist holds res*res cell values in row-major order.
	dist   []float32
	chunks []chunk
	// dirty counts chunks pending rescan.
	dirty int

	// Evaluation scratch buffers.
	pos   []ms2.Vec
	evbuf []float32
	vp    gleval.VecPool

	insertions uint64
	evals      uint64
}

// New returns a Field of resolution x resolution cells partitioned in square chunks
// of chunkSize cells per side. chunkSize must be a power of two no larger than resolution.
// Resolutions not divisible by chunkSize are accepted; the chunks at the right and bottom
// edges are then partially filled.
func New(resolution, chunkSize int) (*Field, error) {
	switch {
	case resolution <= 0:
		return nil, fmt.Errorf("argmax: resolution must be positive, got %d", resolution)
	case chunkSize <= 0:
		return nil, fmt.Errorf("argmax: chunk size must be positive, got %d", chunkSize)
	case chunkSize&(chunkSize-1) != 0:
		return nil, fmt.Errorf("argmax: chunk size must be a power of two, got %d", chunkSize)
	case chunkSize > resolution:
		return nil, fmt.Errorf("argmax: chunk size %d exceeds resolution %d", chunkSize, resolution)
	case resolution > 1<<15:
		return nil, fmt.Errorf("argmax: resolution %d too large", resolution)
	}
	chunksX := (resolution + chunkSize - 1) / chunkSize
	f := &Field{
		res:        resolution,
		chunkSize:  chunkSize,
		chunkShift: uint(bits.TrailingZeros(uint(chunkSize))),
		chunksX:    chunksX,
		dist:       make([]float32, resolution*resolution),
		chunks:     make([]chunk, chunksX*chunksX),
	}
	inf := math32.Inf(1)
	for i := range f.dist {
		f.dist[i] = inf
	}
	for id := range f.chunks {
		x0, y0 := f.chunkOrigin(id)
		f.chunks[id] = chunk{max: inf, cell: int32(y0*resolution + x0)}
	}
	if resolution%chunkSize != 0 {
		logger().Debug("argmax: partial edge chunks", "resolution", resolution, "chunkSize", chunkSize)
	}
	logger().Debug("argmax: new field", "resolution", resolution, "chunkSize", chunkSize, "chunks", len(f.chunks))
	return f, nil
}

// Resolution returns the amount of cells per side of the grid.
func (f *Field) Resolution() int { return f.res }

// ChunkSize returns the amount of cells per side of a chunk.
func (f *Field) ChunkSize() int { return f.chunkSize }

// NumChunks returns the total amount of chunks.
func (f *Field) NumChunks() int { return len(f.chunks) }

// Insertions returns the amount of insertions that modified at least one cell region.
func (f *Field) Insertions() uint64 { return f.insertions }

// Evaluations returns the total amount of cells evaluated by insertions.
func (f *Field) Evaluations() uint64 { return f.evals }

// ValueAt returns the distance stored at cell (x,y). Coordinates must be in [0, Resolution()).
func (f *Field) ValueAt(x, y int) float32 {
	return f.dist[y*f.res+x]
}

// setMin lowers the cell at row-major index idx to d if d is smaller than its value.
// NaN never compares smaller so NaN distances leave the cell unchanged.
func (f *Field) setMin(idx int, d float32) {
	if d < f.dist[idx] {
		f.dist[idx] = d
	}
}

// ToWorld returns the world space center of cell (x,y).
func (f *Field) ToWorld(x, y int) ms2.Vec {
	inv := 1 / float32(f.res)
	return ms2.Vec{
		X: (float32(x) + 0.5) * inv,
		Y: (float32(y) + 0.5) * inv,
	}
}

// ToPixel returns the cell containing world point p, clamped to the grid.
func (f *Field) ToPixel(p ms2.Vec) image.Point {
	res := float32(f.res)
	return image.Point{
		X: clampCell(p.X*res, f.res),
		Y: clampCell(p.Y*res, f.res),
	}
}

func clampCell(v float32, res int) int {
	if !(v > 0) { // Also catches NaN.
		return 0
	} else if v >= float32(res) {
		return res - 1
	}
	return int(v)
}

// bounds returns the pixel space rectangle covered by the grid.
func (f *Field) bounds() image.Rectangle {
	return image.Rect(0, 0, f.res, f.res)
}

func (f *Field) result(idx int) ArgmaxResult {
	return ArgmaxResult{
		Point:    f.ToWorld(idx%f.res, idx/f.res),
		Distance: f.dist[idx],
	}
}

func (f *Field) mustInit() {
	if len(f.chunks) == 0 {
		panic("argmax: use of Field with no chunks, create it with New")
	}
}
