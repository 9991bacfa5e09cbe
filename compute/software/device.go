// Package software is a host-memory compute device.
//
// It executes the Go reference of the escape-time kernel on a worker pool.
// Buffers keep separate host and device copies, so writes become visible to
// the kernel only after DidModifyRange, just as on GPUs without coherent
// host memory. The device registers itself as the "software" backend.
package software

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gogpu/mandelbrot/compute"
	"github.com/gogpu/mandelbrot/internal/parallel"
	"github.com/gogpu/mandelbrot/kernel"
)

// BackendName is the name the device registers under.
const BackendName = "software"

// MaxThreadsPerGroup is the widest thread group the device accepts.
const MaxThreadsPerGroup = 1024

func init() {
	compute.Register(BackendName, func(opts compute.OpenOptions) (compute.Device, error) {
		return New(opts.Workers), nil
	})
}

// Device is a software compute device.
type Device struct {
	mu       sync.Mutex
	pool     *parallel.WorkerPool
	released bool
}

var _ compute.Device = (*Device)(nil)

// New creates a device backed by the given number of worker goroutines.
// Zero or negative means GOMAXPROCS.
func New(workers int) *Device {
	return &Device{pool: parallel.NewWorkerPool(workers)}
}

// Name implements compute.Device.
func (d *Device) Name() string {
	return fmt.Sprintf("software (%d workers, %s/%s)", d.pool.Workers(), runtime.GOOS, runtime.GOARCH)
}

func (d *Device) alive() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return compute.ErrReleased
	}
	return nil
}

// NewPipeline implements compute.Device. The module must export fn as a
// compute function no wider than MaxThreadsPerGroup; the device then runs
// the reference kernel for it.
func (d *Device) NewPipeline(m *kernel.Module, fn kernel.Function) (compute.Pipeline, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	resolved, err := m.Function(fn.Name)
	if err != nil {
		return nil, err
	}
	if resolved.Name != kernel.EntryPoint {
		return nil, fmt.Errorf("software: no reference implementation for %q", resolved.Name)
	}
	width := resolved.Width()
	if width > MaxThreadsPerGroup || resolved.WorkgroupSize[1] != 1 || resolved.WorkgroupSize[2] != 1 {
		return nil, fmt.Errorf("software: workgroup size %v not supported (max %dx1x1)", resolved.WorkgroupSize, MaxThreadsPerGroup)
	}
	compute.Logger().Debug("software: pipeline created", "module", m.Label, "function", resolved.Name, "width", width)
	return &pipeline{device: d, label: m.Label, width: width}, nil
}

// NewQueue implements compute.Device.
func (d *Device) NewQueue(label string) (compute.Queue, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	return &queue{device: d, label: label}, nil
}

// NewImage implements compute.Device.
func (d *Device) NewImage(width, height int) (compute.Image, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", compute.ErrInvalidDimensions, width, height)
	}
	pitch := compute.RowPitch(width)
	return &image{
		device: d,
		width:  width,
		height: height,
		pitch:  pitch,
		pixels: make([]byte, pitch*height),
	}, nil
}

// NewBuffer implements compute.Device.
func (d *Device) NewBuffer(label string, size int) (compute.Buffer, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: buffer %q size %d", compute.ErrInvalidDimensions, label, size)
	}
	return &buffer{
		device:   d,
		label:    label,
		host:     make([]byte, size),
		resident: make([]byte, size),
	}, nil
}

// Release implements compute.Device. It waits for running dispatches.
func (d *Device) Release() {
	d.mu.Lock()
	if d.released {
		d.mu.Unlock()
		return
	}
	d.released = true
	d.mu.Unlock()
	d.pool.Close()
}
