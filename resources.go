package mandelbrot

import (
	"fmt"

	"github.com/gogpu/mandelbrot/compute"
	"github.com/gogpu/mandelbrot/compute/software"
	"github.com/gogpu/mandelbrot/kernel"
)

// gpuBackend is the compute backend registered by compute/wgpu.
const gpuBackend = "wgpu"

// queueLabel names the generator's submission queue.
const queueLabel = "mandelbrot"

// New creates a generator. It opens a device, loads the kernel module,
// resolves the mandelbrot function, builds the pipeline and creates the
// queue, in that order. The first failure releases whatever was already
// created and is returned as an *InitializationError naming the stage.
//
// The viewport starts at DefaultView with a zero size.
func New(cfg Config, opts ...Option) (*Generator, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	g := &Generator{view: DefaultView}

	device, err := openDevice(cfg, &o)
	if err != nil {
		return nil, &InitializationError{Stage: StageDevice, Err: err}
	}
	g.device = device
	Logger().Info("mandelbrot: using device", "device", device.Name())

	module, err := loadModule(cfg, &o)
	if err != nil {
		g.releaseDevice()
		return nil, &InitializationError{Stage: StageKernel, Err: err}
	}
	g.module = module

	fn, err := module.Function(kernel.EntryPoint)
	if err != nil {
		g.releaseDevice()
		return nil, &InitializationError{Stage: StageFunction, Err: err}
	}

	pipeline, err := device.NewPipeline(module, fn)
	if err != nil {
		g.releaseDevice()
		return nil, &InitializationError{Stage: StagePipeline, Err: err}
	}
	g.pipeline = pipeline
	g.groupWidth = pipeline.MaxThreadsPerGroup()
	if g.groupWidth == 0 {
		g.releaseDevice()
		return nil, &InitializationError{Stage: StagePipeline, Err: fmt.Errorf("pipeline %q reports no threads per group", pipeline.Label())}
	}
	Logger().Info("mandelbrot: pipeline created", "module", module.Label, "threads_per_group", g.groupWidth)

	queue, err := device.NewQueue(queueLabel)
	if err != nil {
		g.releaseDevice()
		return nil, &InitializationError{Stage: StageQueue, Err: err}
	}
	g.queue = queue

	return g, nil
}

// openDevice returns the injected device or opens one for cfg.Backend.
func openDevice(cfg Config, o *options) (compute.Device, error) {
	if o.device != nil {
		return o.device, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := compute.OpenOptions{Provider: o.provider, Workers: cfg.Workers}
	switch cfg.Backend {
	case BackendSoftware:
		return compute.Open(software.BackendName, opts)
	case BackendGPU:
		return compute.Open(gpuBackend, opts)
	default:
		device, err := compute.Open(gpuBackend, opts)
		if err == nil {
			return device, nil
		}
		Logger().Warn("mandelbrot: GPU unavailable, using software device", "err", err)
		return compute.Open(software.BackendName, opts)
	}
}

// loadModule returns the injected module, the module at cfg.KernelPath or
// the embedded kernel.
func loadModule(cfg Config, o *options) (*kernel.Module, error) {
	if o.module != nil {
		if o.module.Source == "" {
			return nil, kernel.ErrEmptyModule
		}
		return o.module, nil
	}
	if cfg.KernelPath != "" {
		return kernel.Load(cfg.KernelPath)
	}
	return kernel.Default(), nil
}

// releaseDevice releases construction-time resources in reverse order.
func (g *Generator) releaseDevice() {
	if g.queue != nil {
		g.queue.Release()
		g.queue = nil
	}
	if g.pipeline != nil {
		g.pipeline.Release()
		g.pipeline = nil
	}
	if g.device != nil {
		g.device.Release()
		g.device = nil
	}
}

// releaseBuffers releases the output image and parameter buffers.
func (g *Generator) releaseBuffers() {
	if g.image != nil {
		g.image.Release()
		g.image = nil
	}
	if g.position != nil {
		g.position.Release()
		g.position = nil
	}
	if g.iterations != nil {
		g.iterations.Release()
		g.iterations = nil
	}
}

// Close releases every device resource. Later calls to any operation,
// Close included, return ErrClosed.
func (g *Generator) Close() error {
	if err := g.acquire(); err != nil {
		return err
	}
	defer g.releaseBusy()

	g.releaseBuffers()
	g.releaseDevice()
	g.state.Store(int32(StateClosed))
	Logger().Debug("mandelbrot: generator closed")
	return nil
}
