package compute

import (
	"github.com/gogpu/mandelbrot/kernel"
)

// RowPitchAlignment is the byte alignment of image rows on every backend.
// WebGPU requires buffer copies of texture rows to be 256-byte aligned.
const RowPitchAlignment = 256

// RowPitch returns the aligned row pitch in bytes for an RGBA8 row of width
// texels.
func RowPitch(width int) int {
	return (width*4 + RowPitchAlignment - 1) &^ (RowPitchAlignment - 1)
}

// Device is an opened compute device.
type Device interface {
	// Name identifies the adapter, for logs.
	Name() string

	// NewPipeline builds executable state for fn in module m.
	NewPipeline(m *kernel.Module, fn kernel.Function) (Pipeline, error)

	// NewQueue creates a submission queue.
	NewQueue(label string) (Queue, error)

	// NewImage allocates a width x height RGBA8 output image.
	NewImage(width, height int) (Image, error)

	// NewBuffer allocates a host-writable buffer of at least size bytes.
	NewBuffer(label string, size int) (Buffer, error)

	// Release frees the device. Resources created from it must be released
	// first.
	Release()
}

// Pipeline is a compiled compute kernel.
type Pipeline interface {
	Label() string

	// MaxThreadsPerGroup is the widest one-dimensional thread group the
	// pipeline can be dispatched with.
	MaxThreadsPerGroup() uint32

	Release()
}

// Buffer is device memory with a host view.
type Buffer interface {
	Len() int

	// Contents is the host view of the buffer.
	Contents() []byte

	// DidModifyRange makes host writes to [offset, offset+length) visible
	// to the device.
	DidModifyRange(offset, length int) error

	Release()
}

// Image is a device-resident RGBA8 image.
type Image interface {
	Width() int
	Height() int

	// BytesPerRow is the device row pitch. It is at least Width()*4.
	BytesPerRow() int

	// Bytes returns the image as Height() rows of BytesPerRow() bytes.
	// The slice is owned by the image and valid until the next dispatch.
	Bytes() ([]byte, error)

	Release()
}

// Size is a three-dimensional extent.
type Size struct {
	Width, Height, Depth uint32
}

// Dispatch is one invocation of the kernel over a grid of thread groups.
type Dispatch struct {
	Pipeline   Pipeline
	Image      Image
	Position   Buffer
	Iterations Buffer

	// Groups is the number of thread groups in each dimension.
	Groups Size

	// GroupSize is the number of threads in each group.
	GroupSize Size
}

// Queue submits dispatches to its device in order.
type Queue interface {
	Label() string

	// Submit enqueues d. completed is called exactly once, from the device
	// runtime, when the work has finished or failed. If Submit returns an
	// error, completed is not called.
	Submit(d *Dispatch, completed func(error)) error

	Release()
}

// Validate checks that d is complete and covers its image.
func (d *Dispatch) Validate() error {
	if d == nil || d.Pipeline == nil || d.Image == nil || d.Position == nil || d.Iterations == nil {
		return ErrIncompleteDispatch
	}
	if d.GroupSize.Width == 0 || d.GroupSize.Height == 0 || d.GroupSize.Depth == 0 {
		return ErrIncompleteDispatch
	}
	if d.GroupSize.Width > d.Pipeline.MaxThreadsPerGroup() {
		return ErrGroupTooLarge
	}
	w := uint64(d.Groups.Width) * uint64(d.GroupSize.Width)
	h := uint64(d.Groups.Height) * uint64(d.GroupSize.Height)
	if w < uint64(d.Image.Width()) || h < uint64(d.Image.Height()) {
		return ErrGridTooSmall
	}
	return nil
}
