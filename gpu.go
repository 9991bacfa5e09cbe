//go:build !nogpu

package mandelbrot

import (
	// Register the GPU backend.
	_ "github.com/gogpu/mandelbrot/compute/wgpu"
)
