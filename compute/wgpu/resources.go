//go:build !nogpu

package wgpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandelbrot/compute"
	"github.com/gogpu/mandelbrot/kernel"
)

// uniformAlignment is the size granularity of uniform buffers.
const uniformAlignment = 16

// NewBuffer implements compute.Device. The buffer is a uniform with a host
// shadow; DidModifyRange uploads the shadow through the queue.
func (d *Device) NewBuffer(label string, size int) (compute.Buffer, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: buffer %q size %d", compute.ErrInvalidDimensions, label, size)
	}
	padded := (size + uniformAlignment - 1) &^ (uniformAlignment - 1)
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(padded),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create buffer %s: %w", label, err)
	}
	return &buffer{device: d, label: label, buf: buf, host: make([]byte, size)}, nil
}

type buffer struct {
	device   *Device
	label    string
	buf      hal.Buffer
	host     []byte
	released atomic.Bool
}

func (b *buffer) Len() int         { return len(b.host) }
func (b *buffer) Contents() []byte { return b.host }

func (b *buffer) DidModifyRange(offset, length int) error {
	if b.released.Load() {
		return compute.ErrReleased
	}
	if err := b.device.alive(); err != nil {
		return err
	}
	if offset < 0 || length < 0 || offset+length > len(b.host) {
		return fmt.Errorf("%w: buffer %q [%d, %d) of %d", compute.ErrOutOfRange, b.label, offset, offset+length, len(b.host))
	}
	if length == 0 {
		return nil
	}
	b.device.queue.WriteBuffer(b.buf, uint64(offset), b.host[offset:offset+length])
	return nil
}

func (b *buffer) Release() {
	if !b.released.CompareAndSwap(false, true) {
		return
	}
	if dev := b.device.device; dev != nil {
		dev.DestroyBuffer(b.buf)
	}
}

// NewImage implements compute.Device. The image is a storage buffer of
// packed RGBA8 texels with rows BytesPerRow apart, a staging buffer the
// dispatch copies into, and a uniform describing the surface to the kernel.
func (d *Device) NewImage(width, height int) (compute.Image, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", compute.ErrInvalidDimensions, width, height)
	}
	pitch := compute.RowPitch(width)
	size := uint64(pitch) * uint64(height)

	img := &image{device: d, width: width, height: height, pitch: pitch, size: size}
	if err := img.create(); err != nil {
		img.destroy()
		return nil, err
	}
	return img, nil
}

type image struct {
	device *Device
	width  int
	height int
	pitch  int
	size   uint64

	storage  hal.Buffer
	staging  hal.Buffer
	surface  hal.Buffer
	pixels   []byte
	released atomic.Bool
}

func (i *image) create() error {
	dev := i.device.device
	var err error

	i.storage, err = dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_image",
		Size:  i.size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create image buffer: %w", err)
	}

	i.staging, err = dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_staging",
		Size:  i.size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}

	i.surface, err = dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_surface",
		Size:  kernel.UniformBufferSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create surface buffer: %w", err)
	}

	surface := make([]byte, kernel.UniformBufferSize)
	kernel.Surface{
		Width:    uint32(i.width),
		Height:   uint32(i.height),
		RowPitch: uint32(i.pitch / 4),
	}.Put(surface)
	i.device.queue.WriteBuffer(i.surface, 0, surface)

	i.pixels = make([]byte, i.size)
	return nil
}

func (i *image) Width() int       { return i.width }
func (i *image) Height() int      { return i.height }
func (i *image) BytesPerRow() int { return i.pitch }

// Bytes reads the staging buffer filled by the last completed dispatch.
func (i *image) Bytes() ([]byte, error) {
	if i.released.Load() {
		return nil, compute.ErrReleased
	}
	if err := i.device.alive(); err != nil {
		return nil, err
	}
	if err := i.device.queue.ReadBuffer(i.staging, 0, i.pixels); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return i.pixels, nil
}

func (i *image) Release() {
	if i.released.CompareAndSwap(false, true) {
		i.destroy()
	}
}

func (i *image) destroy() {
	dev := i.device.device
	if dev == nil {
		return
	}
	for _, buf := range []*hal.Buffer{&i.storage, &i.staging, &i.surface} {
		if *buf != nil {
			dev.DestroyBuffer(*buf)
			*buf = nil
		}
	}
}
