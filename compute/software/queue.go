package software

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/mandelbrot/compute"
	"github.com/gogpu/mandelbrot/kernel"
)

type queue struct {
	device *Device
	label  string
}

func (q *queue) Label() string { return q.label }
func (q *queue) Release()      {}

// Submit implements compute.Queue. The kernel runs on the device pool from a
// goroutine standing in for the device's command processor.
func (q *queue) Submit(d *compute.Dispatch, completed func(error)) error {
	if err := q.device.alive(); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}
	p, okP := d.Pipeline.(*pipeline)
	img, okI := d.Image.(*image)
	pos, okB := d.Position.(*buffer)
	its, okC := d.Iterations.(*buffer)
	if !okP || !okI || !okB || !okC {
		return compute.ErrForeignResource
	}
	if p.device != q.device || img.device != q.device || pos.device != q.device || its.device != q.device {
		return compute.ErrForeignResource
	}
	if p.released.Load() || img.released.Load() || pos.released.Load() || its.released.Load() {
		return compute.ErrReleased
	}
	if pos.Len() < kernel.PositionSize || its.Len() < kernel.IterationsSize {
		return fmt.Errorf("%w: parameter buffers too small", compute.ErrOutOfRange)
	}

	// Uniform values are captured at submission, as a command buffer would.
	position := kernel.DecodePosition(pos.resident)
	limit := uint32(kernel.DecodeIterations(its.resident))
	groups, group := d.Groups, d.GroupSize

	go func() {
		q.device.pool.ForEach(int(groups.Height*group.Height), func(y int) {
			if y >= img.height {
				return
			}
			row := img.pixels[y*img.pitch:]
			for gx := uint32(0); gx < groups.Width; gx++ {
				for tx := uint32(0); tx < group.Width; tx++ {
					x := int(gx*group.Width + tx)
					if x >= img.width {
						break
					}
					c := kernel.Shade(x, y, img.width, img.height, position, limit)
					binary.LittleEndian.PutUint32(row[x*4:], kernel.Pack(c))
				}
			}
		})
		compute.Logger().Debug("software: dispatch completed", "queue", q.label, "width", img.width, "height", img.height)
		completed(nil)
	}()
	return nil
}
