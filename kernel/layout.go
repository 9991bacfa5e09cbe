package kernel

import (
	"encoding/binary"
	"math"
)

// Uniform sizes in bytes. Buffers holding them are allocated with
// UniformBufferSize so every backend sees a 16-byte aligned binding.
const (
	PositionSize      = 12
	IterationsSize    = 4
	SurfaceSize       = 12
	UniformBufferSize = 16
)

// Position is the viewport record: the plane point at the image center and
// the plane distance covered by one pixel.
type Position struct {
	CenterX float32
	CenterY float32
	Scale   float32
}

// Put encodes p into the first PositionSize bytes of b.
func (p Position) Put(b []byte) {
	_ = b[PositionSize-1]
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(p.CenterX))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(p.CenterY))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(p.Scale))
}

// DecodePosition decodes a Position written by Put.
func DecodePosition(b []byte) Position {
	_ = b[PositionSize-1]
	return Position{
		CenterX: math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		CenterY: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Scale:   math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

// Iterations is the escape-time bound.
type Iterations uint32

// Put encodes n into the first IterationsSize bytes of b.
func (n Iterations) Put(b []byte) {
	binary.LittleEndian.PutUint32(b, uint32(n))
}

// DecodeIterations decodes an Iterations value written by Put.
func DecodeIterations(b []byte) Iterations {
	return Iterations(binary.LittleEndian.Uint32(b))
}

// Surface is the output image geometry seen by the kernel.
// RowPitch is measured in 32-bit texels, not bytes.
type Surface struct {
	Width    uint32
	Height   uint32
	RowPitch uint32
}

// Put encodes s into the first SurfaceSize bytes of b.
func (s Surface) Put(b []byte) {
	_ = b[SurfaceSize-1]
	binary.LittleEndian.PutUint32(b[0:], s.Width)
	binary.LittleEndian.PutUint32(b[4:], s.Height)
	binary.LittleEndian.PutUint32(b[8:], s.RowPitch)
}

// DecodeSurface decodes a Surface written by Put.
func DecodeSurface(b []byte) Surface {
	_ = b[SurfaceSize-1]
	return Surface{
		Width:    binary.LittleEndian.Uint32(b[0:]),
		Height:   binary.LittleEndian.Uint32(b[4:]),
		RowPitch: binary.LittleEndian.Uint32(b[8:]),
	}
}
