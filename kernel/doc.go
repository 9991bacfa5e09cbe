// Package kernel holds the escape-time compute kernel run by the generator.
//
// The kernel ships as WGSL source. The default module is embedded in the
// binary; a module built or packaged elsewhere can be loaded from disk with
// [Load] and handed to the generator before construction.
//
// Every device backend invokes the same entry point, [EntryPoint], with four
// bindings in group 0:
//
//	@binding(0) var<storage, read_write> image: array<u32>;  // packed RGBA8
//	@binding(1) var<uniform> position: Position;             // center + scale
//	@binding(2) var<uniform> max_iterations: Iterations;     // escape bound
//	@binding(3) var<uniform> surface: Surface;               // image geometry
//
// The byte layouts of the uniforms are defined by [Position], [Iterations]
// and [Surface]. [Shade] is a Go reference implementation of the kernel used
// by the software device and by tests.
package kernel
