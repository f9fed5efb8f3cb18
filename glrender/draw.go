package glrender

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"runtime"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill/gleval"
	"golang.org/x/sync/errgroup"
)

// Texture colors the world space points covered by a shape.
type Texture interface {
	At(p ms2.Vec) color.Color
}

// Solid is a single color [Texture].
type Solid struct {
	C color.Color
}

// At implements [Texture].
func (s Solid) At(ms2.Vec) color.Color { return s.C }

// TextureFunc is a [Texture] computed from the world space point.
type TextureFunc func(p ms2.Vec) color.Color

// At implements [Texture].
func (f TextureFunc) At(p ms2.Vec) color.Color { return f(p) }

// ImageTexture maps an image onto the world box, stretching it.
type ImageTexture struct {
	Image image.Image
	World ms2.Box
}

// At implements [Texture].
func (it ImageTexture) At(p ms2.Vec) color.Color {
	b := it.Image.Bounds()
	sz := it.World.Size()
	u := (p.X - it.World.Min.X) / sz.X
	v := (p.Y - it.World.Min.Y) / sz.Y
	x := b.Min.X + clampInt(int(u*float32(b.Dx())), 0, b.Dx()-1)
	y := b.Min.Y + clampInt(int(v*float32(b.Dy())), 0, b.Dy()-1)
	return it.Image.At(x, y)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Textured is a shape with a texture attached, ready to be drawn.
type Textured struct {
	Shape   gleval.SDF2
	Texture Texture
}

// Drawer rasterizes textured shapes onto an image. Pixels whose centers lie inside or
// on the boundary of a shape are set to the texture color. A Drawer is not safe for concurrent use.
type Drawer struct {
	img  draw.Image
	vp   Viewport
	pos  []ms2.Vec
	dist []float32
	pool gleval.VecPool
}

// NewDrawer returns a Drawer that maps world onto img preserving aspect ratio.
func NewDrawer(img draw.Image, world ms2.Box) (*Drawer, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	vp, err := NewViewport(world, img.Bounds())
	if err != nil {
		return nil, err
	}
	return &Drawer{img: img, vp: vp}, nil
}

// Viewport returns the mapping between world and image.
func (d *Drawer) Viewport() Viewport { return d.vp }

// Draw rasterizes s within its bounding box.
func (d *Drawer) Draw(s Textured) error {
	if s.Shape == nil || s.Texture == nil {
		return errors.New("textured shape requires shape and texture")
	}
	r := d.vp.PixelRect(s.Shape.Bounds())
	n := r.Dx() * r.Dy()
	if n == 0 {
		return nil
	}
	if cap(d.pos) < n {
		d.pos = make([]ms2.Vec, n)
		d.dist = make([]float32, n)
	}
	pos, dist := d.pos[:n], d.dist[:n]
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			pos[i] = d.vp.ToWorld(x, y)
			i++
		}
	}
	err := s.Shape.Evaluate(pos, dist, &d.pool)
	if err != nil {
		return err
	}
	i = 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if dist[i] <= 0 {
				d.img.Set(x, y, s.Texture.At(pos[i]))
			}
			i++
		}
	}
	return nil
}

// DrawSequential draws shapes onto img in order. Later shapes overwrite earlier ones.
func DrawSequential(img draw.Image, world ms2.Box, shapes []Textured) error {
	d, err := NewDrawer(img, world)
	if err != nil {
		return err
	}
	for _, s := range shapes {
		if err = d.Draw(s); err != nil {
			return err
		}
	}
	return nil
}

// DrawParallel draws shapes onto img using up to workers goroutines, or one per CPU if workers is not positive.
// Shapes must not overlap and img must support concurrent Set calls on distinct pixels,
// which holds for the concrete image types of the standard library.
// Drawing overlapping shapes is a data race.
func DrawParallel(ctx context.Context, img draw.Image, world ms2.Box, shapes []Textured, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(shapes))
	if workers <= 1 {
		return DrawSequential(img, world, shapes)
	}
	g, ctx := errgroup.WithContext(ctx)
	per := (len(shapes) + workers - 1) / workers
	for start := 0; start < len(shapes); start += per {
		batch := shapes[start:min(start+per, len(shapes))]
		g.Go(func() error {
			d, err := NewDrawer(img, world)
			if err != nil {
				return err
			}
			for _, s := range batch {
				if err = ctx.Err(); err != nil {
					return err
				}
				if err = d.Draw(s); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
