//go:build !nogpu

// Package wgpu runs the kernel on a GPU through gogpu/wgpu's HAL.
//
// The package registers the "wgpu" backend. A standalone Vulkan device is
// opened unless OpenOptions.Provider exposes a HAL device and queue, in
// which case the host application's device is shared and never destroyed
// here.
package wgpu

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/mandelbrot/compute"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// BackendName is the name the device registers under.
const BackendName = "wgpu"

// MaxWorkgroupWidth is the WebGPU default for maxComputeWorkgroupSizeX,
// the limit every device is opened with.
const MaxWorkgroupWidth = 256

func init() {
	compute.Register(BackendName, func(opts compute.OpenOptions) (compute.Device, error) {
		if opts.Provider != nil {
			return FromProvider(opts.Provider)
		}
		return Open()
	})
}

// Device is a compute.Device on a HAL device and queue.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string

	// external is true when the device belongs to a provider.
	external bool
	released atomic.Bool
}

var _ compute.Device = (*Device)(nil)

// Open creates a standalone device on the first discrete or integrated GPU,
// falling back to whatever adapter Vulkan reports first.
func Open() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", compute.ErrNoDevice)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no GPU adapters found", compute.ErrNoDevice)
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	d := Wrap(openDev.Device, openDev.Queue, selected.Info.Name)
	d.instance = instance
	d.external = false
	compute.Logger().Info("wgpu: device opened", "adapter", selected.Info.Name)
	return d, nil
}

// FromProvider shares the HAL device of a host application. The provider
// must implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue.
func FromProvider(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("wgpu: provider HalQueue is not hal.Queue")
	}
	compute.Logger().Info("wgpu: using shared device")
	return Wrap(device, queue, "shared"), nil
}

// Wrap adapts an existing HAL device and queue. The caller keeps ownership:
// Release on the returned Device does not destroy them.
func Wrap(device hal.Device, queue hal.Queue, name string) *Device {
	return &Device{
		device:   device,
		queue:    queue,
		name:     name,
		external: true,
	}
}

// Name implements compute.Device.
func (d *Device) Name() string {
	return d.name
}

func (d *Device) alive() error {
	if d.released.Load() || d.device == nil {
		return compute.ErrReleased
	}
	return nil
}

// Release implements compute.Device.
func (d *Device) Release() {
	if !d.released.CompareAndSwap(false, true) {
		return
	}
	if !d.external {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
}
