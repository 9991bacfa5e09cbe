// Package mandelbrot renders the Mandelbrot set with a compute kernel.
//
// # Overview
//
// A Generator owns a compute device, the pipeline built from the
// escape-time kernel and a submission queue. Callers set the viewport
// size, zoom scale, center and iteration bound, then ask for an image:
// the generator writes the parameters to device buffers, dispatches one
// grid covering every pixel, waits for the device to finish and copies the
// result back to host memory.
//
// # Quick Start
//
//	g, err := mandelbrot.New(mandelbrot.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer g.Close()
//
//	g.SetView(mandelbrot.DefaultView)
//	if err := g.SetSize(800, 600); err != nil {
//		log.Fatal(err)
//	}
//	pix, err := g.Image() // 800*600*4 bytes, RGBA
//
// # Devices
//
// The "wgpu" backend runs the kernel on a GPU through gogpu/wgpu. The
// "software" backend runs the same kernel in Go on a worker pool and is
// used when no GPU is available or when the module is built with the
// nogpu tag. A host application that already owns a GPU device can share
// it with WithDeviceProvider.
//
// # Concurrency
//
// A Generator is meant for one goroutine. Image blocks until the device
// reports completion; an Image or SetSize call made while another Image is
// running fails with ErrBusy. There is no timeout on the wait.
package mandelbrot
