// Package gfillaux provides helpers to get started rendering space filling
// results: PNG output of SDFs, field debug images and placement renders.
// Applications with specific needs should implement their own rendering.
package gfillaux

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/gogpu/gg"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill/argmax"
	"github.com/soypat/gfill/distrib"
	"github.com/soypat/gfill/gleval"
	"github.com/soypat/gfill/glrender"
	"golang.org/x/image/draw"
)

// UnitWorld is the world box covered by an [argmax.Field].
var UnitWorld = ms2.Box{Max: ms2.Vec{X: 1, Y: 1}}

// RenderPNGFile renders a 2D SDF over the world box and saves the result to a PNG file.
// The image width is sized from the image height argument to preserve the world aspect ratio.
// If a nil color conversion function is passed then one is automatically chosen.
func RenderPNGFile(filename string, s gleval.SDF2, world ms2.Box, picHeight int, colorConversion func(float32) color.Color) error {
	sz := world.Size()
	if !(sz.X > 0 && sz.Y > 0) || picHeight <= 0 {
		return errors.New("invalid world box or image height")
	}
	if colorConversion == nil {
		colorConversion = ColorConversionInigoQuilez(ms2.Norm(sz) / 3)
	}
	picWidth := int(float32(picHeight) * sz.X / sz.Y)
	img := image.NewRGBA(image.Rect(0, 0, picWidth, picHeight))
	renderer, err := glrender.NewImageRendererSDF2(max(4096, picWidth), colorConversion)
	if err != nil {
		return err
	}
	var vp gleval.VecPool
	err = renderer.Render(s, world, img, &vp)
	if err != nil {
		return err
	}
	return WritePNGFile(filename, img)
}

// DebugPNG writes the field's distance visualization scaled to size x size pixels.
func DebugPNG(filename string, f *argmax.Field, size int) error {
	if size <= 0 {
		return errors.New("non-positive debug image size")
	}
	src := f.DisplayDebug()
	dst := image.NewGray(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return WritePNGFile(filename, dst)
}

// RasterConfig configures [RenderPlacements].
type RasterConfig struct {
	Width, Height int
	Background    color.Color
	// Palette colors each placement. Nil selects a hue palette.
	Palette Palette
	// Workers is the amount of goroutines drawing. Placements of a single run never
	// overlap so they may be drawn in parallel. One or less draws sequentially.
	Workers int
}

// RenderPlacements rasterizes the exact placement shapes into a new image.
func RenderPlacements(ctx context.Context, placements []distrib.Placement, cfg RasterConfig) (*image.RGBA, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("invalid image dimensions")
	}
	pal := cfg.Palette
	if pal == nil {
		pal = HuePalette(0.6, 0.9)
	}
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	if cfg.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(cfg.Background), image.Point{}, draw.Src)
	}
	shapes := make([]glrender.Textured, len(placements))
	for i, p := range placements {
		shapes[i] = glrender.Textured{Shape: p.Shape, Texture: glrender.Solid{C: pal(i, p)}}
	}
	watch := stopwatch()
	var err error
	if cfg.Workers > 1 {
		err = glrender.DrawParallel(ctx, img, UnitWorld, shapes, cfg.Workers)
	} else {
		err = glrender.DrawSequential(img, UnitWorld, shapes)
	}
	if err != nil {
		return nil, err
	}
	argmax.Logger().Debug("gfillaux: rasterized placements", "shapes", len(shapes), "workers", cfg.Workers, "elapsed", watch())
	return img, nil
}

// RenderCircles draws the bounding disc of each placement as an antialiased vector circle
// onto a width x height canvas. For circle distributions this is the exact shape. The unit
// world is fitted to the smallest side of the canvas.
func RenderCircles(placements []distrib.Placement, width, height int, background color.Color, pal Palette) (*gg.Context, error) {
	vp, err := glrender.NewViewport(UnitWorld, image.Rect(0, 0, width, height))
	if err != nil {
		return nil, err
	}
	if pal == nil {
		pal = HuePalette(0.6, 0.9)
	}
	dc := gg.NewContext(width, height)
	if background != nil {
		dc.ClearWithColor(gg.FromColor(background))
	}
	scale := float64(vp.Scale())
	for i, p := range placements {
		c := vp.ToPixel(p.Center)
		dc.SetColor(pal(i, p))
		dc.DrawCircle(float64(c.X), float64(c.Y), float64(p.Radius)*scale)
		if err = dc.Fill(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("filling circle %d: %w", i, err)
		}
	}
	return dc, nil
}

// RenderCirclesPNG is like [RenderCircles] but saves the result to a PNG file.
func RenderCirclesPNG(filename string, placements []distrib.Placement, width, height int, background color.Color, pal Palette) error {
	dc, err := RenderCircles(placements, width, height, background, pal)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.SavePNG(filename)
}

// WritePNG encodes img as PNG to w.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WritePNGFile encodes img as PNG into a newly created file. Errors closing the
// file are reported since they may indicate unwritten data.
func WritePNGFile(filename string, img image.Image) (err error) {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, fp.Close())
	}()
	return WritePNG(fp, img)
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
