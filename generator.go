package mandelbrot

import (
	"sync/atomic"

	"github.com/gogpu/mandelbrot/compute"
	"github.com/gogpu/mandelbrot/kernel"
)

// State is the lifecycle state of a Generator.
type State int32

const (
	// StateUninitialized means no image or parameter buffers exist yet.
	StateUninitialized State = iota

	// StateReady means buffers are allocated and no dispatch is running.
	StateReady

	// StateDispatching means an Image call is running.
	StateDispatching

	// StateClosed means Close has released every device resource.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateReady:
		return "Ready"
	case StateDispatching:
		return "Dispatching"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Generator produces Mandelbrot images on a compute device.
//
// The device, pipeline and queue are created once by New. The output image
// and the two parameter buffers are created by SetSize, or lazily by the
// first Image call, and recreated on every size change.
type Generator struct {
	device     compute.Device
	module     *kernel.Module
	pipeline   compute.Pipeline
	queue      compute.Queue
	groupWidth uint32

	image      compute.Image
	position   compute.Buffer
	iterations compute.Buffer
	width      int
	height     int

	view View

	state atomic.Int32
	// busy serializes Image, SetSize and Close.
	busy atomic.Bool
}

// State reports the lifecycle state. It is safe to call from any goroutine.
func (g *Generator) State() State {
	return State(g.state.Load())
}

// Device returns the name of the compute device.
func (g *Generator) Device() string {
	if g.device == nil {
		return ""
	}
	return g.device.Name()
}

// Kernel returns the kernel module the pipeline was built from.
func (g *Generator) Kernel() *kernel.Module {
	return g.module
}

// ThreadsPerGroup is the thread-group width dispatches are partitioned by.
func (g *Generator) ThreadsPerGroup() uint32 {
	return g.groupWidth
}

// acquire marks the generator busy for one mutating call.
func (g *Generator) acquire() error {
	if g.State() == StateClosed {
		return ErrClosed
	}
	if !g.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	if g.State() == StateClosed {
		g.busy.Store(false)
		return ErrClosed
	}
	return nil
}

func (g *Generator) releaseBusy() {
	g.busy.Store(false)
}
