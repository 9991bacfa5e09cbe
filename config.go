package mandelbrot

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Backend selects the compute device.
type Backend string

const (
	// BackendAuto uses the GPU when one can be opened and the software
	// device otherwise.
	BackendAuto Backend = "auto"

	// BackendGPU requires a GPU.
	BackendGPU Backend = "gpu"

	// BackendSoftware runs the kernel on the CPU.
	BackendSoftware Backend = "software"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvKernel  = "MANDELBROT_KERNEL"
	EnvBackend = "MANDELBROT_BACKEND"
	EnvWorkers = "MANDELBROT_WORKERS"
)

// Config holds generator settings that are usually set by the operator.
type Config struct {
	// KernelPath is a WGSL module to load instead of the embedded kernel.
	KernelPath string

	// Backend selects the compute device.
	Backend Backend

	// Workers bounds the software device's parallelism. Zero means
	// GOMAXPROCS.
	Workers int
}

// DefaultConfig returns the embedded kernel on the automatically selected
// backend.
func DefaultConfig() Config {
	return Config{Backend: BackendAuto}
}

// ConfigFromEnv returns DefaultConfig overridden by MANDELBROT_KERNEL,
// MANDELBROT_BACKEND and MANDELBROT_WORKERS.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v := strings.TrimSpace(os.Getenv(EnvKernel)); v != "" {
		cfg.KernelPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		cfg.Backend = Backend(strings.ToLower(v))
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvWorkers, v, err)
		}
		cfg.Workers = n
	}
	return cfg, cfg.Validate()
}

// Validate checks the backend name and worker count.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendGPU, BackendSoftware:
	case "":
		return fmt.Errorf("%w: backend not set", ErrInvalidConfig)
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}
