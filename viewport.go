package mandelbrot

import (
	"fmt"

	"github.com/gogpu/mandelbrot/compute"
	"github.com/gogpu/mandelbrot/kernel"
)

// SetSize allocates a width x height output image and fresh parameter
// buffers, then releases the previous ones. The new resources are created
// before the old ones are released, so a failed allocation returns an
// *AllocationError and leaves the generator as it was.
//
// A zero dimension is recorded and allocates no image; the generator stays
// invalid until a positive size is set.
func (g *Generator) SetSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if err := g.acquire(); err != nil {
		return err
	}
	defer g.releaseBusy()
	return g.allocate(width, height)
}

// allocate replaces the image and parameter buffers. The caller holds busy.
func (g *Generator) allocate(width, height int) error {
	var img compute.Image
	if width > 0 && height > 0 {
		var err error
		img, err = g.device.NewImage(width, height)
		if err != nil {
			return &AllocationError{Resource: "image", Width: width, Height: height, Err: err}
		}
	}

	position, err := g.device.NewBuffer("position", kernel.UniformBufferSize)
	if err != nil {
		if img != nil {
			img.Release()
		}
		return &AllocationError{Resource: "position", Width: width, Height: height, Err: err}
	}

	iterations, err := g.device.NewBuffer("iterations", kernel.UniformBufferSize)
	if err != nil {
		position.Release()
		if img != nil {
			img.Release()
		}
		return &AllocationError{Resource: "iterations", Width: width, Height: height, Err: err}
	}

	g.releaseBuffers()
	g.image = img
	g.position = position
	g.iterations = iterations
	g.width, g.height = width, height
	g.state.Store(int32(StateReady))

	if img != nil {
		Logger().Debug("mandelbrot: image allocated", "width", width, "height", height, "bytes_per_row", img.BytesPerRow())
	} else {
		Logger().Debug("mandelbrot: buffers allocated without image", "width", width, "height", height)
	}
	return nil
}

// Size returns the size recorded by the last successful SetSize.
func (g *Generator) Size() (width, height int) {
	return g.width, g.height
}

// Valid reports whether Image can produce a frame: resources are
// allocated, both dimensions are positive and the iteration bound is
// positive.
func (g *Generator) Valid() bool {
	s := g.State()
	if s == StateUninitialized || s == StateClosed {
		return false
	}
	return g.image != nil && g.width > 0 && g.height > 0 && g.view.MaxIterations > 0
}

// Scale returns the plane distance covered by one pixel.
func (g *Generator) Scale() float32 { return g.view.Scale }

// SetScale sets the plane distance covered by one pixel. It takes effect at
// the next Image call.
func (g *Generator) SetScale(scale float32) { g.view.Scale = scale }

// Center returns the plane point at the image center.
func (g *Generator) Center() (x, y float32) { return g.view.CenterX, g.view.CenterY }

// SetCenter sets the plane point at the image center. It takes effect at
// the next Image call.
func (g *Generator) SetCenter(x, y float32) {
	g.view.CenterX, g.view.CenterY = x, y
}

// MaxIterations returns the escape-time iteration bound.
func (g *Generator) MaxIterations() uint32 { return g.view.MaxIterations }

// SetMaxIterations sets the iteration bound. Zero makes the generator
// invalid.
func (g *Generator) SetMaxIterations(n uint32) { g.view.MaxIterations = n }

// View returns the current viewport parameters.
func (g *Generator) View() View { return g.view }

// SetView sets center, scale and iteration bound at once.
func (g *Generator) SetView(v View) { g.view = v }
