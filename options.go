package mandelbrot

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/mandelbrot/compute"
	"github.com/gogpu/mandelbrot/kernel"
)

// Option configures a Generator during creation.
//
// Example:
//
//	// Share the host application's GPU device
//	g, err := mandelbrot.New(cfg, mandelbrot.WithDeviceProvider(provider))
type Option func(*options)

type options struct {
	device   compute.Device
	provider gpucontext.DeviceProvider
	module   *kernel.Module
}

// WithDevice makes the generator use d instead of opening a backend.
// The generator takes ownership of d and releases it on Close or when
// construction fails.
func WithDevice(d compute.Device) Option {
	return func(o *options) {
		o.device = d
	}
}

// WithDeviceProvider shares a GPU device owned by a host application, for
// example a gogpu window. The provider's device is never destroyed by the
// generator.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithKernel replaces the kernel module. It takes precedence over
// Config.KernelPath.
func WithKernel(m *kernel.Module) Option {
	return func(o *options) {
		o.module = m
	}
}
