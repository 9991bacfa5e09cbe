package mandelbrot

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Backend != BackendAuto {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendAuto)
	}
	if cfg.KernelPath != "" || cfg.Workers != 0 {
		t.Errorf("DefaultConfig() = %+v, want embedded kernel and GOMAXPROCS workers", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvKernel, "/tmp/custom.wgsl")
	t.Setenv(EnvBackend, " Software ")
	t.Setenv(EnvWorkers, "3")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() error = %v", err)
	}
	want := Config{KernelPath: "/tmp/custom.wgsl", Backend: BackendSoftware, Workers: 3}
	if cfg != want {
		t.Errorf("ConfigFromEnv() = %+v, want %+v", cfg, want)
	}
}

func TestConfigFromEnvUnset(t *testing.T) {
	t.Setenv(EnvKernel, "")
	t.Setenv(EnvBackend, "")
	t.Setenv(EnvWorkers, "")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("ConfigFromEnv() = %+v, want %+v", cfg, DefaultConfig())
	}
}

func TestConfigFromEnvErrors(t *testing.T) {
	tests := []struct {
		name, backend, workers string
	}{
		{"bad workers", "", "many"},
		{"negative workers", "", "-2"},
		{"unknown backend", "tpu", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvKernel, "")
			t.Setenv(EnvBackend, tt.backend)
			t.Setenv(EnvWorkers, tt.workers)
			if _, err := ConfigFromEnv(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ConfigFromEnv() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{Config{Backend: BackendAuto}, false},
		{Config{Backend: BackendGPU}, false},
		{Config{Backend: BackendSoftware, Workers: 8}, false},
		{Config{}, true},
		{Config{Backend: "opencl"}, true},
		{Config{Backend: BackendAuto, Workers: -1}, true},
	}
	for _, tt := range tests {
		err := tt.cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%+v.Validate() error = %v, wantErr %v", tt.cfg, err, tt.wantErr)
		}
	}
}
