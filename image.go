package mandelbrot

import (
	"image"
)

// View is a viewport on the complex plane.
type View struct {
	CenterX float32
	CenterY float32

	// Scale is the plane distance covered by one pixel.
	Scale float32

	MaxIterations uint32
}

// DefaultView looks at a spiral near the seahorse valley.
var DefaultView = View{
	CenterX:       -1.186592,
	CenterY:       -0.1901211,
	Scale:         1 / 6290.223,
	MaxIterations: 350,
}

// ToImage wraps a buffer returned by Generator.Image as an *image.RGBA
// without copying. It returns nil if pix is not width*height*4 bytes.
func ToImage(pix []byte, width, height int) *image.RGBA {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
}
