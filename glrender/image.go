package glrender

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/gfill/gleval"
)

type setImage = interface {
	image.Image
	Set(x, y int, c color.Color)
}

// ImageRendererSDF2 converts 2D SDFs to images.
type ImageRendererSDF2 struct {
	conv func(f float32) color.Color
	pos  []ms2.Vec
	dist []float32
}

// NewImageRendererSDF2 instances a new [ImageRendererSDF2] to render images from 2D SDFs. A nil float->color conversion
// function results in a simple black-white color scheme where black is the interior of the SDF (negative distance).
func NewImageRendererSDF2(evalBufferSize int, conversion func(float32) color.Color) (*ImageRendererSDF2, error) {
	if evalBufferSize <= 64 {
		return nil, errors.New("too small evaluation buffer size")
	}
	if conversion == nil {
		conversion = func(f float32) color.Color {
			switch {
			case math32.IsNaN(f):
				return color.RGBA{R: 255, A: 255}
			case f > 0:
				return color.White
			default:
				return color.Black
			}
		}
	}
	ir := &ImageRendererSDF2{
		conv: conversion,
		pos:  make([]ms2.Vec, evalBufferSize),
		dist: make([]float32, evalBufferSize),
	}
	return ir, nil
}

// Render maps the world box onto img preserving aspect ratio and renders sdf into it.
// Pixels outside the mapped world are left untouched. It uses userData as an argument to all [gleval.SDF2.Evaluate] calls.
func (ir *ImageRendererSDF2) Render(sdf gleval.SDF2, world ms2.Box, img setImage, userData any) error {
	vp, err := NewViewport(world, img.Bounds())
	if err != nil {
		return err
	}
	r := vp.PixelRect(world)
	if r.Dx() > len(ir.dist) {
		return fmt.Errorf("require evaluation buffer (%d) to be at least of length of image rows (%d)", len(ir.dist), r.Dx())
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		err := ir.renderRow(sdf, vp, y, r.Min.X, r.Max.X, img, userData)
		if err != nil {
			return err
		}
	}
	return nil
}

func (ir *ImageRendererSDF2) renderRow(sdf gleval.SDF2, vp Viewport, y, x0, x1 int, img setImage, userData any) error {
	n := x1 - x0
	for i := 0; i < n; i++ {
		ir.pos[i] = vp.ToWorld(x0+i, y)
	}
	err := sdf.Evaluate(ir.pos[:n], ir.dist[:n], userData)
	if err != nil {
		return err
	}
	conv := ir.conv
	for i, d := range ir.dist[:n] {
		img.Set(x0+i, y, conv(d))
	}
	return nil
}

// Viewport maps a world space box onto an image rectangle. The world is scaled
// uniformly to fit the smallest side of the image and centered along the other.
type Viewport struct {
	world ms2.Box
	rect  image.Rectangle
	// scale is pixels per world unit.
	scale  float32
	offset ms2.Vec
}

// NewViewport returns the Viewport fitting world into rect.
func NewViewport(world ms2.Box, rect image.Rectangle) (Viewport, error) {
	sz := world.Size()
	if !(sz.X > 0 && sz.Y > 0) || math32.IsInf(sz.X, 1) || math32.IsInf(sz.Y, 1) {
		return Viewport{}, errors.New("world box must be finite with positive area")
	} else if rect.Empty() {
		return Viewport{}, errors.New("empty image rectangle")
	}
	w, h := float32(rect.Dx()), float32(rect.Dy())
	scale := math32.Min(w/sz.X, h/sz.Y)
	return Viewport{
		world: world,
		rect:  rect,
		scale: scale,
		offset: ms2.Vec{
			X: float32(rect.Min.X) + (w-scale*sz.X)/2,
			Y: float32(rect.Min.Y) + (h-scale*sz.Y)/2,
		},
	}, nil
}

// Scale returns the amount of pixels per world unit.
func (v Viewport) Scale() float32 { return v.scale }

// ToWorld returns the world space position of the center of pixel (x,y).
func (v Viewport) ToWorld(x, y int) ms2.Vec {
	return ms2.Vec{
		X: v.world.Min.X + (float32(x)+0.5-v.offset.X)/v.scale,
		Y: v.world.Min.Y + (float32(y)+0.5-v.offset.Y)/v.scale,
	}
}

// ToPixel returns the pixel space position of world point p.
func (v Viewport) ToPixel(p ms2.Vec) ms2.Vec {
	return ms2.Vec{
		X: (p.X-v.world.Min.X)*v.scale + v.offset.X,
		Y: (p.Y-v.world.Min.Y)*v.scale + v.offset.Y,
	}
}

// PixelRect returns the pixels overlapping the world box b, clipped to both the image and the world.
func (v Viewport) PixelRect(b ms2.Box) image.Rectangle {
	b = b.Intersect(v.world)
	if !(b.Max.X > b.Min.X) || !(b.Max.Y > b.Min.Y) {
		return image.Rectangle{}
	}
	min := v.ToPixel(b.Min)
	max := v.ToPixel(b.Max)
	r := image.Rect(
		int(math32.Floor(min.X)), int(math32.Floor(min.Y)),
		int(math32.Ceil(max.X)), int(math32.Ceil(max.Y)),
	)
	return r.Intersect(v.rect)
}
