package mandelbrot

import (
	"fmt"
	"sync"

	"github.com/gogpu/mandelbrot/compute"
	"github.com/gogpu/mandelbrot/kernel"
)

// completion is a one-shot signal set by the device runtime when a dispatch
// finishes. Only the first signal counts.
type completion struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newCompletion() *completion {
	return &completion{done: make(chan struct{})}
}

// signal records err and wakes the waiter.
func (c *completion) signal(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// wait blocks until signal is called and returns its error.
func (c *completion) wait() error {
	<-c.done
	return c.err
}

// Image computes one frame and returns it as width*height*4 bytes of RGBA,
// row major, owned by the caller.
//
// If no buffers were allocated yet they are allocated at the current size.
// Image fails with ErrNotReady unless the size and the iteration bound are
// positive. It blocks until the device reports completion; there is no
// timeout.
func (g *Generator) Image() ([]byte, error) {
	if err := g.acquire(); err != nil {
		return nil, err
	}
	defer g.releaseBusy()

	if g.State() == StateUninitialized {
		if err := g.allocate(g.width, g.height); err != nil {
			return nil, err
		}
	}
	if !g.Valid() {
		return nil, fmt.Errorf("%w: size %dx%d, max iterations %d", ErrNotReady, g.width, g.height, g.view.MaxIterations)
	}

	g.state.Store(int32(StateDispatching))
	defer g.state.Store(int32(StateReady))

	if err := g.dispatch(); err != nil {
		return nil, err
	}
	return g.readback()
}

// dispatch writes the parameters, submits one grid over the image and waits
// for it to finish.
func (g *Generator) dispatch() error {
	if err := g.writeParameters(); err != nil {
		return &DispatchError{Op: "flush", Err: err}
	}

	d := &compute.Dispatch{
		Pipeline:   g.pipeline,
		Image:      g.image,
		Position:   g.position,
		Iterations: g.iterations,
		Groups:     gridSize(g.width, g.height, g.groupWidth),
		GroupSize:  compute.Size{Width: g.groupWidth, Height: 1, Depth: 1},
	}

	done := newCompletion()
	if err := g.queue.Submit(d, done.signal); err != nil {
		return &DispatchError{Op: "submit", Err: err}
	}
	Logger().Debug("mandelbrot: dispatch submitted",
		"groups_x", d.Groups.Width, "groups_y", d.Groups.Height, "threads_per_group", g.groupWidth)

	if err := done.wait(); err != nil {
		Logger().Warn("mandelbrot: dispatch failed", "err", err)
		return &DispatchError{Op: "execute", Err: err}
	}
	return nil
}

// writeParameters encodes the viewport into the host views of the
// parameter buffers and flushes exactly the written ranges to the device.
func (g *Generator) writeParameters() error {
	kernel.Position{
		CenterX: g.view.CenterX,
		CenterY: g.view.CenterY,
		Scale:   g.view.Scale,
	}.Put(g.position.Contents())
	if err := g.position.DidModifyRange(0, kernel.PositionSize); err != nil {
		return fmt.Errorf("position: %w", err)
	}

	kernel.Iterations(g.view.MaxIterations).Put(g.iterations.Contents())
	if err := g.iterations.DidModifyRange(0, kernel.IterationsSize); err != nil {
		return fmt.Errorf("iterations: %w", err)
	}
	return nil
}

// gridSize returns the number of groupWidth x 1 thread groups needed to
// cover a width x height image.
func gridSize(width, height int, groupWidth uint32) compute.Size {
	w := uint32(width)
	return compute.Size{
		Width:  (w + groupWidth - 1) / groupWidth,
		Height: uint32(height),
		Depth:  1,
	}
}
