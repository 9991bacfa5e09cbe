//go:build !nogpu

package wgpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandelbrot/compute"
	"github.com/gogpu/mandelbrot/kernel"
)

// fencePollInterval bounds each fence wait; the waiter keeps polling until
// the fence signals or the device reports an error.
const fencePollInterval = time.Second

// NewQueue implements compute.Device. All queues share the device's HAL queue.
func (d *Device) NewQueue(label string) (compute.Queue, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	return &queue{device: d, label: label}, nil
}

type queue struct {
	device *Device
	label  string
}

func (q *queue) Label() string { return q.label }
func (q *queue) Release()      {}

// Submit implements compute.Queue. It records one compute pass followed by a
// copy of the image into its staging buffer, submits it with a fence, and
// hands the fence to a waiter goroutine that reports completion.
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

	dev := q.device.device
	bindGroup, err := dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  q.label + "_bind_group",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			bufferEntry(0, img.storage),
			bufferEntry(1, pos.buf),
			bufferEntry(2, its.buf),
			bufferEntry(3, img.surface),
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}

	cmd, err := q.encode(p, img, bindGroup, d.Groups)
	if err != nil {
		dev.DestroyBindGroup(bindGroup)
		return err
	}

	fence, err := dev.CreateFence()
	if err != nil {
		dev.FreeCommandBuffer(cmd)
		dev.DestroyBindGroup(bindGroup)
		return fmt.Errorf("create fence: %w", err)
	}
	if err := q.device.queue.Submit([]hal.CommandBuffer{cmd}, fence, 1); err != nil {
		dev.DestroyFence(fence)
		dev.FreeCommandBuffer(cmd)
		dev.DestroyBindGroup(bindGroup)
		return fmt.Errorf("submit: %w", err)
	}

	go func() {
		err := waitFence(dev, fence)
		dev.DestroyFence(fence)
		dev.FreeCommandBuffer(cmd)
		dev.DestroyBindGroup(bindGroup)
		if err != nil {
			compute.Logger().Warn("wgpu: dispatch failed", "queue", q.label, "err", err)
		} else {
			compute.Logger().Debug("wgpu: dispatch completed", "queue", q.label, "width", img.width, "height", img.height)
		}
		completed(err)
	}()
	return nil
}

func (q *queue) encode(p *pipeline, img *image, bindGroup hal.BindGroup, groups compute.Size) (hal.CommandBuffer, error) {
	dev := q.device.device
	encoder, err := dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: q.label})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(q.label); err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: p.label})
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(groups.Width, groups.Height, groups.Depth)
	pass.End()

	encoder.CopyBufferToBuffer(img.storage, img.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: img.size},
	})

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmd, nil
}

func bufferEntry(binding uint32, buf hal.Buffer) gputypes.BindGroupEntry {
	return gputypes.BindGroupEntry{
		Binding: binding,
		Resource: gputypes.BufferBinding{
			Buffer: buf.NativeHandle(),
			Offset: 0,
			Size:   0, // 0 = entire buffer
		},
	}
}

func waitFence(dev hal.Device, fence hal.Fence) error {
	for {
		ok, err := dev.Wait(fence, 1, fencePollInterval)
		if err != nil {
			return fmt.Errorf("wait for GPU: %w", err)
		}
		if ok {
			return nil
		}
		compute.Logger().Debug("wgpu: still waiting for dispatch")
	}
}
