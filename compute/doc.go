// Package compute defines the device surface the Mandelbrot generator runs on.
//
// The interfaces mirror what a Metal or WebGPU style runtime exposes for a
// single compute kernel: a device that creates a pipeline, a submission
// queue, an output image and small host-written parameter buffers. They are
// deliberately narrow; a Dispatch binds exactly one image and two parameter
// buffers.
//
// Backends register themselves by name:
//
//	import _ "github.com/gogpu/mandelbrot/compute/software" // always available
//	import _ "github.com/gogpu/mandelbrot/compute/wgpu"     // GPU via gogpu/wgpu
//
//	dev, err := compute.Open("wgpu", compute.OpenOptions{})
//
// # Memory visibility
//
// Buffers expose a host view through Contents. Writes to that view are not
// visible to the device until DidModifyRange is called for the written
// range. Image contents are only meaningful after the completion callback of
// the dispatch that wrote them has run.
package compute
