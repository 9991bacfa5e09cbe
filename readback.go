package mandelbrot

import (
	"fmt"

	"github.com/gogpu/mandelbrot/compute"
)

// readback copies the output image into a new tightly packed buffer.
func (g *Generator) readback() ([]byte, error) {
	src, err := g.image.Bytes()
	if err != nil {
		return nil, &DispatchError{Op: "readback", Err: err}
	}
	pix, err := packRows(src, g.width, g.height, g.image.BytesPerRow())
	if err != nil {
		return nil, &DispatchError{Op: "readback", Err: err}
	}
	return pix, nil
}

// packRows copies height rows of width RGBA8 texels, stored pitch bytes
// apart in src, into a buffer of exactly width*height*4 bytes.
func packRows(src []byte, width, height, pitch int) ([]byte, error) {
	row := width * 4
	if pitch < row {
		return nil, fmt.Errorf("%w: row pitch %d below row size %d", compute.ErrOutOfRange, pitch, row)
	}
	if height > 0 && len(src) < pitch*(height-1)+row {
		return nil, fmt.Errorf("%w: image holds %d bytes, need %d", compute.ErrOutOfRange, len(src), pitch*(height-1)+row)
	}

	dst := make([]byte, row*height)
	if pitch == row {
		copy(dst, src[:row*height])
		return dst, nil
	}
	for y := 0; y < height; y++ {
		copy(dst[y*row:(y+1)*row], src[y*pitch:y*pitch+row])
	}
	return dst, nil
}
