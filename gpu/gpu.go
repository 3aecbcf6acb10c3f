//go:build !nogpu

// Package gpu registers the GPU rendering backend.
//
// Import this package to make the "gpu" backend variant available to
// renderer construction. The backend runs color matrix point operations
// as wgpu/hal compute dispatches; geometry operations run on its CPU
// pixel mirror.
//
// If no usable GPU adapter is present the capability probe fails and
// backend selection falls through to the software variant. If adapters
// exist but device or pipeline setup fails, the backend still works
// with every operation routed through the CPU mirror.
//
// Usage:
//
//	import _ "github.com/refarde/imglykit/gpu" // enable the GPU variant
//
// Builds with the nogpu tag exclude this package entirely.
package gpu

import (
	"errors"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/refarde/imglykit"
)

func init() {
	imglykit.RegisterBackend(imglykit.BackendGPU, imglykit.Factory{
		New: func() (imglykit.Backend, error) {
			b, err := New()
			if err != nil {
				return nil, err
			}
			return b, nil
		},
		Supported: Supported,
	})
}

// DeviceProvider supplies GPU device access from a host application.
// It is an alias for gpucontext.DeviceProvider, so any gogpu-style host
// can hand its device to this package without an adapter shim.
type DeviceProvider = gpucontext.DeviceProvider

var (
	sharedMu     sync.Mutex
	sharedDevice hal.Device
	sharedQueue  hal.Queue
)

// SetDeviceProvider adopts an externally owned GPU device for backends
// created afterwards, instead of each backend opening its own. The
// provider must also implement HalDevice() any and HalQueue() any
// returning wgpu/hal types; gogpu providers do. Passing nil reverts to
// self-owned devices.
//
// Backends created from a shared device never destroy it on Close.
func SetDeviceProvider(provider DeviceProvider) error {
	if provider == nil {
		sharedMu.Lock()
		sharedDevice = nil
		sharedQueue = nil
		sharedMu.Unlock()
		return nil
	}

	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("gpu: provider HalQueue is not hal.Queue")
	}

	sharedMu.Lock()
	sharedDevice = device
	sharedQueue = queue
	sharedMu.Unlock()
	imglykit.Logger().Info("gpu: adopted shared device")
	return nil
}

// sharedHALDevice returns the adopted device and queue, if any.
func sharedHALDevice() (hal.Device, hal.Queue, bool) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedDevice == nil || sharedQueue == nil {
		return nil, nil, false
	}
	return sharedDevice, sharedQueue, true
}
