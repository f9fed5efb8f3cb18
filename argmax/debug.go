package argmax

import (
	"image"
	"image/color"
	"iter"
	"math"

	"github.com/chewxy/math32"
)

// Pixels iterates over every cell in row-major order yielding its pixel
// coordinates and world space result.
func (f *Field) Pixels() iter.Seq2[image.Point, ArgmaxResult] {
	return func(yield func(image.Point, ArgmaxResult) bool) {
		for idx := range f.dist {
			p := image.Point{X: idx % f.res, Y: idx / f.res}
			if !yield(p, f.result(idx)) {
				return
			}
		}
	}
}

// DisplayDebug returns a grayscale rendering of the field, one pixel per cell.
// Values are normalized to the largest finite positive value in the field:
// zero and negative distances are black and infinite distances are white.
func (f *Field) DisplayDebug() *image.Gray {
	img := image.NewGray(f.bounds())
	var maxFinite float32
	for _, d := range f.dist {
		if d > maxFinite && !math32.IsInf(d, 1) {
			maxFinite = d
		}
	}
	for idx, d := range f.dist {
		var v uint8
		switch {
		case math32.IsInf(d, 1):
			v = math.MaxUint8
		case d > 0 && maxFinite > 0:
			v = uint8(math.MaxUint8 * math32.Min(d/maxFinite, 1))
		}
		img.SetGray(idx%f.res, idx/f.res, color.Gray{Y: v})
	}
	return img
}
