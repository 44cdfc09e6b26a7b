package render

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Rotate returns src rotated clockwise by degrees, which must be one
// of 0, 90, 180 or 270. Any other value returns src unchanged.
func Rotate(src image.Image, degrees int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	var m f64.Aff3
	switch degrees {
	case 90:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		m = f64.Aff3{0, -1, float64(h), 1, 0, 0}
	case 180:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		m = f64.Aff3{-1, 0, float64(w), 0, -1, float64(h)}
	case 270:
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		m = f64.Aff3{0, 1, 0, -1, 0, float64(w)}
	default:
		return src
	}
	draw.NearestNeighbor.Transform(dst, m, src, b, draw.Src, nil)
	return dst
}
