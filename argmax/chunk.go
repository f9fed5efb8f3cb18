package argmax

import (
	"image"

	"github.com/chewxy/math32"
)

// chunk caches the maximum over its member cells. Values are derived from the
// grid and are recomputed by a full rescan whenever a member cell is written.
type chunk struct {
	max float32
	// cell is the row-major index of the member cell holding max.
	// On ties it is the lowest index.
	cell  int32
	dirty bool
}

// chunkOrigin returns the pixel coordinates of the top-left cell of chunk id.
func (f *Field) chunkOrigin(id int) (x0, y0 int) {
	return (id % f.chunksX) << f.chunkShift, (id / f.chunksX) << f.chunkShift
}

// chunkRect returns the cells covered by chunk id, clipped to the grid.
func (f *Field) chunkRect(id int) image.Rectangle {
	x0, y0 := f.chunkOrigin(id)
	return image.Rect(x0, y0, x0+f.chunkSize, y0+f.chunkSize).Intersect(f.bounds())
}

// ChunkSummary returns the cached maximum of chunk id and the cell achieving it.
// Chunk ids are assigned in row-major order over the chunk grid.
func (f *Field) ChunkSummary(id int) (maxDist float32, cell image.Point) {
	f.recompute()
	c := f.chunks[id]
	return c.max, image.Point{X: int(c.cell) % f.res, Y: int(c.cell) / f.res}
}

// markDirty flags every chunk overlapping the pixel rectangle r for rescan.
// r must be within the grid bounds.
func (f *Field) markDirty(r image.Rectangle) {
	if r.Empty() {
		return
	}
	s := f.chunkShift
	cx0, cy0 := r.Min.X>>s, r.Min.Y>>s
	cx1, cy1 := (r.Max.X-1)>>s, (r.Max.Y-1)>>s
	for cy := cy0; cy <= cy1; cy++ {
		row := f.chunks[cy*f.chunksX : (cy+1)*f.chunksX]
		for cx := cx0; cx <= cx1; cx++ {
			if !row[cx].dirty {
				row[cx].dirty = true
				f.dirty++
			}
		}
	}
}

// recompute rescans every dirty chunk.
func (f *Field) recompute() {
	if f.dirty == 0 {
		return
	}
	for id := range f.chunks {
		if f.chunks[id].dirty {
			f.rescanChunk(id)
		}
	}
	f.dirty = 0
}

// rescanChunk sets the chunk summary from its member cells.
func (f *Field) rescanChunk(id int) {
	r := f.chunkRect(id)
	res := f.res
	best := math32.Inf(-1)
	bestIdx := r.Min.Y*res + r.Min.X
	first := true
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := y * res
		row := f.dist[off+r.Min.X : off+r.Max.X]
		for i, d := range row {
			// Strictly greater keeps the lowest row-major index on ties.
			if first || d > best {
				best = d
				bestIdx = off + r.Min.X + i
				first = false
			}
		}
	}
	f.chunks[id] = chunk{max: best, cell: int32(bestIdx)}
}

// GlobalArgmax returns the cell with the largest distance in the whole field.
// Ties are broken by lowest row-major cell index. The cost is proportional to
// the amount of chunks. GlobalArgmax panics on a Field not created with [New].
func (f *Field) GlobalArgmax() ArgmaxResult {
	f.mustInit()
	f.recompute()
	best := 0
	for id := 1; id < len(f.chunks); id++ {
		c, b := &f.chunks[id], &f.chunks[best]
		if c.max > b.max || (c.max == b.max && c.cell < b.cell) {
			best = id
		}
	}
	return f.result(int(f.chunks[best].cell))
}
