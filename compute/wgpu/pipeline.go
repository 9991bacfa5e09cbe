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

type pipeline struct {
	device *Device
	label  string
	width  uint32

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
	released   atomic.Bool
}

// NewPipeline implements compute.Device. The module is compiled to SPIR-V
// with naga; the bind group layout follows the kernel's four bindings.
func (d *Device) NewPipeline(m *kernel.Module, fn kernel.Function) (compute.Pipeline, error) {
	if err := d.alive(); err != nil {
		return nil, err
	}
	if fn.WorkgroupSize[1] != 1 || fn.WorkgroupSize[2] != 1 {
		return nil, fmt.Errorf("wgpu: workgroup size %v: only one-dimensional groups are dispatched", fn.WorkgroupSize)
	}
	if fn.Width() > MaxWorkgroupWidth {
		return nil, fmt.Errorf("wgpu: workgroup width %d exceeds device limit %d", fn.Width(), MaxWorkgroupWidth)
	}

	spirv, err := m.SPIRV()
	if err != nil {
		return nil, err
	}

	p := &pipeline{device: d, label: m.Label, width: fn.Width()}
	if err := p.build(spirv, fn.Name); err != nil {
		p.destroy()
		return nil, err
	}
	compute.Logger().Debug("wgpu: pipeline created", "module", m.Label, "function", fn.Name, "width", p.width)
	return p, nil
}

func (p *pipeline) build(spirv []uint32, entryPoint string) error {
	dev := p.device.device

	shader, err := dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	p.shader = shader

	bindLayout, err := dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: p.label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	computePipeline, err := dev.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   p.label + "_pipeline",
		Layout:  p.pipeLayout,
		Compute: hal.ComputeState{Module: p.shader, EntryPoint: entryPoint},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	p.pipeline = computePipeline
	return nil
}

func (p *pipeline) Label() string              { return p.label }
func (p *pipeline) MaxThreadsPerGroup() uint32 { return p.width }

func (p *pipeline) Release() {
	if p.released.CompareAndSwap(false, true) {
		p.destroy()
	}
}

func (p *pipeline) destroy() {
	dev := p.device.device
	if dev == nil {
		return
	}
	if p.pipeline != nil {
		dev.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		dev.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		dev.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		dev.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
