package mandelbrot

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/mandelbrot/compute"
)

func TestPackRowsStripsPadding(t *testing.T) {
	const width, height, pitch = 3, 2, 16
	src := make([]byte, pitch*height)
	for i := range src {
		src[i] = 0xee
	}
	for y := 0; y < height; y++ {
		for i := 0; i < width*4; i++ {
			src[y*pitch+i] = byte(y*100 + i)
		}
	}

	got, err := packRows(src, width, height, pitch)
	if err != nil {
		t.Fatalf("packRows() error = %v", err)
	}
	if len(got) != width*height*4 {
		t.Fatalf("len(packRows()) = %d, want %d", len(got), width*height*4)
	}
	for y := 0; y < height; y++ {
		row := got[y*width*4 : (y+1)*width*4]
		if !bytes.Equal(row, src[y*pitch:y*pitch+width*4]) {
			t.Errorf("row %d = %v, want %v", y, row, src[y*pitch:y*pitch+width*4])
		}
	}
	if bytes.IndexByte(got, 0xee) >= 0 {
		t.Error("packRows() kept padding bytes")
	}
}

func TestPackRowsTight(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	got, err := packRows(src, 1, 2, 4)
	if err != nil {
		t.Fatalf("packRows() error = %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Errorf("packRows() = %v, want %v", got, src)
	}
	got[0] = 99
	if src[0] == 99 {
		t.Error("packRows() returned the source slice")
	}
}

func TestPackRowsLastRowUnpadded(t *testing.T) {
	// Devices may omit the padding after the last row.
	src := make([]byte, 256+8)
	if _, err := packRows(src, 2, 2, 256); err != nil {
		t.Errorf("packRows() error = %v", err)
	}
}

func TestPackRowsErrors(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		width, height, pitch int
	}{
		{"pitch below row", 64, 4, 2, 8},
		{"short source", 100, 4, 2, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := packRows(make([]byte, tt.size), tt.width, tt.height, tt.pitch)
			if !errors.Is(err, compute.ErrOutOfRange) {
				t.Errorf("packRows() error = %v, want ErrOutOfRange", err)
			}
		})
	}
}

func TestReadbackFromPaddedImage(t *testing.T) {
	g, _ := newTestGenerator(t)
	g.SetView(wideView)
	// 10 texels per row leave 216 bytes of padding in a 256-byte pitch.
	if err := g.SetSize(10, 4); err != nil {
		t.Fatalf("SetSize() error = %v", err)
	}
	if g.image.BytesPerRow() == 10*4 {
		t.Fatal("image has no row padding")
	}
	pix, err := g.Image()
	if err != nil {
		t.Fatalf("Image() error = %v", err)
	}
	if len(pix) != 10*4*4 {
		t.Errorf("len(Image()) = %d, want %d", len(pix), 10*4*4)
	}
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 255 {
			t.Fatalf("alpha at byte %d = %d, want 255", i, pix[i])
		}
	}
}
