package mandelbrot

import (
	"errors"
	"fmt"
)

var (
	// ErrInitialization is returned by New when a device, kernel, pipeline
	// or queue cannot be created. Use errors.As with *InitializationError
	// to find the failed stage.
	ErrInitialization = errors.New("mandelbrot: initialization failed")

	// ErrNotReady is returned by Image when the generator has no positive
	// size or iteration bound.
	ErrNotReady = errors.New("mandelbrot: generator not ready")

	// ErrAllocation is returned when the output image or a parameter buffer
	// cannot be allocated.
	ErrAllocation = errors.New("mandelbrot: allocation failed")

	// ErrDispatch is returned when a dispatch cannot be submitted or the
	// device reports that it failed.
	ErrDispatch = errors.New("mandelbrot: dispatch failed")

	// ErrInvalidSize is returned by SetSize for negative dimensions.
	ErrInvalidSize = errors.New("mandelbrot: invalid size")

	// ErrBusy is returned when a call overlaps a running Image call.
	ErrBusy = errors.New("mandelbrot: dispatch in progress")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("mandelbrot: generator closed")

	// ErrInvalidConfig is returned for unknown backends or bad environment
	// values.
	ErrInvalidConfig = errors.New("mandelbrot: invalid config")
)

// Stage names a step of generator construction.
type Stage string

// Construction stages, in order.
const (
	StageDevice   Stage = "device"
	StageKernel   Stage = "kernel"
	StageFunction Stage = "function"
	StagePipeline Stage = "pipeline"
	StageQueue    Stage = "queue"
)

// InitializationError reports the construction stage that failed.
type InitializationError struct {
	Stage Stage
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("mandelbrot: initialization failed at %s: %v", e.Stage, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// Is reports ErrInitialization as a match.
func (e *InitializationError) Is(target error) bool { return target == ErrInitialization }

// AllocationError reports the resource that could not be allocated.
type AllocationError struct {
	// Resource is "image", "position" or "iterations".
	Resource string
	Width    int
	Height   int
	Err      error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("mandelbrot: allocate %s for %dx%d: %v", e.Resource, e.Width, e.Height, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// Is reports ErrAllocation as a match.
func (e *AllocationError) Is(target error) bool { return target == ErrAllocation }

// DispatchError reports the step of a dispatch that failed.
type DispatchError struct {
	// Op is "flush", "submit", "execute" or "readback".
	Op  string
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("mandelbrot: dispatch %s: %v", e.Op, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Is reports ErrDispatch as a match.
func (e *DispatchError) Is(target error) bool { return target == ErrDispatch }
