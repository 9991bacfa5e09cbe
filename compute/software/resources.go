package software

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/mandelbrot/compute"
)

type pipeline struct {
	device   *Device
	label    string
	width    uint32
	released atomic.Bool
}

func (p *pipeline) Label() string              { return p.label }
func (p *pipeline) MaxThreadsPerGroup() uint32 { return p.width }
func (p *pipeline) Release()                   { p.released.Store(true) }

// buffer keeps the host view apart from the copy the kernel reads.
type buffer struct {
	device   *Device
	label    string
	host     []byte
	resident []byte
	released atomic.Bool
}

func (b *buffer) Len() int         { return len(b.host) }
func (b *buffer) Contents() []byte { return b.host }

func (b *buffer) DidModifyRange(offset, length int) error {
	if b.released.Load() {
		return compute.ErrReleased
	}
	if offset < 0 || length < 0 || offset+length > len(b.host) {
		return fmt.Errorf("%w: buffer %q [%d, %d) of %d", compute.ErrOutOfRange, b.label, offset, offset+length, len(b.host))
	}
	copy(b.resident[offset:offset+length], b.host[offset:offset+length])
	return nil
}

func (b *buffer) Release() { b.released.Store(true) }

type image struct {
	device   *Device
	width    int
	height   int
	pitch    int
	pixels   []byte
	released atomic.Bool
}

func (i *image) Width() int       { return i.width }
func (i *image) Height() int      { return i.height }
func (i *image) BytesPerRow() int { return i.pitch }

func (i *image) Bytes() ([]byte, error) {
	if i.released.Load() {
		return nil, compute.ErrReleased
	}
	return i.pixels, nil
}

func (i *image) Release() { i.released.Store(true) }
