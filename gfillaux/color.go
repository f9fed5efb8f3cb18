package gfillaux

import (
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/gfill/distrib"
)

// HSV conversions follow Esme Lamb's (@dedelala) color manipulation work
// presented at Gophercon AU 2024. https://github.com/dedelala/disco/tree/main/color

var red = color.RGBA{R: 255, A: 255}

// ColorConversionInigoQuilez creates a new color conversion using [Inigo Quilez]'s style.
// A good value for characteristic distance is the world box diagonal divided by 3.
// Returns red for NaN values and white for infinite values.
//
// [Inigo Quilez]: https://iquilezles.org/articles/distfunctions2d/
func ColorConversionInigoQuilez(characteristicDistance float32) func(float32) color.Color {
	inv := 1. / characteristicDistance
	inside := ms3.Vec{X: 0.65, Y: 0.85, Z: 1.0}
	outside := ms3.Vec{X: 0.9, Y: 0.6, Z: 0.3}
	one := ms3.Vec{X: 1, Y: 1, Z: 1}
	return func(d float32) color.Color {
		switch {
		case math.IsNaN(d):
			return red
		case math.IsInf(d, 0):
			return color.White
		}
		d *= inv
		c := inside
		if d > 0 {
			c = outside
		}
		ad := math.Abs(d)
		c = ms3.Scale((1-math.Exp(-6*ad))*(0.8+0.2*math.Cos(150*d)), c)
		edge := 1 - ms1.SmoothStep(0, 0.01, ad)
		c = ms3.InterpElem(c, one, ms3.Vec{X: edge, Y: edge, Z: edge})
		return color.RGBA{R: uint8(c.X * 255), G: uint8(c.Y * 255), B: uint8(c.Z * 255), A: 255}
	}
}

// ColorConversionLinearGradient creates a color conversion that blends c0 into c1
// across gradientLength centered at d=0. Blending is done in HSV space.
func ColorConversionLinearGradient(gradientLength float32, c0, c1 color.Color) func(d float32) color.Color {
	h0, h1 := hsvOf(c0), hsvOf(c1)
	return func(d float32) color.Color {
		t := d/gradientLength + 0.5
		if !(t > 0) {
			return c0
		} else if t >= 1 {
			return c1
		}
		return h0.interp(h1, t).rgba()
	}
}

// Palette assigns a color to the i'th placement.
type Palette func(i int, p distrib.Placement) color.Color

// HuePalette colors placements by walking the hue circle with the golden ratio
// so consecutive placements contrast.
func HuePalette(saturation, value float32) Palette {
	const golden = 0.618033988749895
	return func(i int, _ distrib.Placement) color.Color {
		_, h := math.Modf(float32(i) * golden)
		return hsv{h: h, s: saturation, v: value}.rgba()
	}
}

// SizePalette colors placements by radius, from c0 for the smallest radius
// to c1 for maxRadius and larger.
func SizePalette(maxRadius float32, c0, c1 color.Color) Palette {
	h0, h1 := hsvOf(c0), hsvOf(c1)
	return func(_ int, p distrib.Placement) color.Color {
		return h0.interp(h1, ms1.Clamp(p.Radius/maxRadius, 0, 1)).rgba()
	}
}

// hsv holds hue, saturation and value in the range 0..1.
type hsv struct {
	h, s, v float32
}

func hsvOf(c color.Color) hsv {
	r, g, b, _ := c.RGBA()
	return rgbToHSV(float32(r>>8)/math.MaxUint8, float32(g>>8)/math.MaxUint8, float32(b>>8)/math.MaxUint8)
}

// interp interpolates towards other along the shortest hue arc.
func (c hsv) interp(other hsv, t float32) hsv {
	h0, h1 := c.h, other.h
	switch {
	case h1-h0 > 0.5:
		h0 += 1
	case h1-h0 < -0.5:
		h1 += 1
	}
	_, h := math.Modf(ms1.Interp(h0, h1, t))
	return hsv{
		h: h,
		s: ms1.Interp(c.s, other.s, t),
		v: ms1.Interp(c.v, other.v, t),
	}
}

func (c hsv) rgba() color.RGBA {
	r, g, b := c.rgb()
	return color.RGBA{
		R: uint8(ms1.Clamp(r, 0, 1) * math.MaxUint8),
		G: uint8(ms1.Clamp(g, 0, 1) * math.MaxUint8),
		B: uint8(ms1.Clamp(b, 0, 1) * math.MaxUint8),
		A: math.MaxUint8,
	}
}

// rgb converts to red, green and blue values in the range 0..1.
func (c hsv) rgb() (r, g, b float32) {
	chroma := c.s * c.v
	x := chroma * (1 - math.Abs(math.Mod(c.h*6, 2)-1))
	m := c.v - chroma
	switch int(c.h * 6) {
	case 0, 6:
		r, g, b = chroma, x, 0
	case 1:
		r, g, b = x, chroma, 0
	case 2:
		r, g, b = 0, chroma, x
	case 3:
		r, g, b = 0, x, chroma
	case 4:
		r, g, b = x, 0, chroma
	case 5:
		r, g, b = chroma, 0, x
	}
	return r + m, g + m, b + m
}

func rgbToHSV(r, g, b float32) (c hsv) {
	xmax := max(r, g, b)
	chroma := xmax - min(r, g, b)
	c.v = xmax
	switch {
	case chroma == 0:
	case xmax == r:
		c.h = (g - b) / (chroma * 6)
	case xmax == g:
		c.h = 1.0/3 + (b-r)/(chroma*6)
	default:
		c.h = 2.0/3 + (r-g)/(chroma*6)
	}
	if c.h < 0 {
		c.h += 1
	}
	if xmax > 0 {
		c.s = chroma / xmax
	}
	return c
}
