//go:build !nogpu

package gpu

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/refarde/imglykit"
	"github.com/refarde/imglykit/internal/parallel"
)

// fenceTimeout bounds the wait for a compute dispatch to finish.
const fenceTimeout = 5 * time.Second

// Backend renders through wgpu/hal compute dispatch, with a CPU pixel
// mirror as the working state. Point operations that compile to a color
// matrix run as a compute kernel: the mirror is uploaded to a storage
// buffer, transformed on the GPU, and read back in place. Geometry
// transforms and text run on the mirror directly.
//
// When no usable device is present, or a dispatch fails, the same color
// matrix is applied by the CPU row loop instead, so output is identical
// either way.
type Backend struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	working *imglykit.Pixmap
	output  *imglykit.Pixmap
	pool    *parallel.WorkerPool

	gpuReady       bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
	closed         bool
}

var (
	_ imglykit.Backend            = (*Backend)(nil)
	_ imglykit.PixmapTransformer  = (*Backend)(nil)
	_ imglykit.ColorMatrixApplier = (*Backend)(nil)
)

var (
	probeOnce sync.Once
	probeOK   bool
)

// Supported reports whether a usable GPU adapter is present. The probe
// enumerates Vulkan adapters once and caches the answer for the life of
// the process. A device adopted via SetDeviceProvider counts as support.
func Supported() bool {
	if _, _, ok := sharedHALDevice(); ok {
		return true
	}
	probeOnce.Do(func() { probeOK = probe() })
	return probeOK
}

func probe() bool {
	halBackend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return false
	}
	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return false
	}
	defer instance.Destroy()
	return len(instance.EnumerateAdapters(nil)) > 0
}

// New creates a GPU backend with a worker pool sized to GOMAXPROCS.
// Device and pipeline setup happen eagerly; when setup fails the backend
// still works, routing every operation through the CPU mirror and
// logging the reason.
func New() (*Backend, error) {
	b := &Backend{pool: parallel.NewWorkerPool(0)}
	if err := b.initGPU(); err != nil {
		imglykit.Logger().Warn("gpu: init failed, using CPU mirror", "err", err)
	}
	return b, nil
}

func (b *Backend) initGPU() error {
	if device, queue, ok := sharedHALDevice(); ok {
		b.device = device
		b.queue = queue
		b.externalDevice = true
		if err := b.createPipeline(); err != nil {
			b.device = nil
			b.queue = nil
			b.externalDevice = false
			return fmt.Errorf("create pipeline with shared device: %w", err)
		}
		b.gpuReady = true
		imglykit.Logger().Info("gpu: backend initialized on shared device")
		return nil
	}

	halBackend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	b.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
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
		return fmt.Errorf("open device: %w", err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue
	if err := b.createPipeline(); err != nil {
		b.device.Destroy()
		b.device = nil
		b.queue = nil
		return fmt.Errorf("create pipeline: %w", err)
	}
	b.gpuReady = true
	imglykit.Logger().Info("gpu: backend initialized", "adapter", selected.Info.Name)
	return nil
}

func (b *Backend) createPipeline() error {
	spirv, err := compileColorMatrixShader()
	if err != nil {
		return err
	}
	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "colormatrix",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	b.shader = shader

	bindLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "colormatrix_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	b.bindLayout = bindLayout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "colormatrix_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	b.pipeLayout = pipeLayout

	pipeline, err := b.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "colormatrix_pipeline", Layout: b.pipeLayout,
		Compute: hal.ComputeState{Module: b.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	b.pipeline = pipeline

	return nil
}

func (b *Backend) destroyPipeline() {
	if b.device == nil {
		return
	}
	if b.pipeline != nil {
		b.device.DestroyComputePipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.bindLayout != nil {
		b.device.DestroyBindGroupLayout(b.bindLayout)
		b.bindLayout = nil
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}

// Name implements imglykit.Backend.
func (b *Backend) Name() string {
	return imglykit.BackendGPU
}

// DrawImage seeds the working mirror with the source pixels.
func (b *Backend) DrawImage(_ context.Context, img image.Image) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return imglykit.ErrBackendClosed
	}
	if img == nil {
		return imglykit.ErrNoSourceImage
	}
	b.working = imglykit.FromImage(img)
	return nil
}

// ApplyColorMatrix applies m to the working buffer, dispatching the
// compute kernel when the device is ready and falling back to the CPU
// row loop otherwise.
func (b *Backend) ApplyColorMatrix(_ context.Context, m imglykit.ColorMatrix) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return imglykit.ErrBackendClosed
	}
	if b.working == nil {
		return imglykit.ErrNoSourceImage
	}

	if b.gpuReady {
		err := b.dispatchColorMatrix(m)
		if err == nil {
			return nil
		}
		imglykit.Logger().Warn("gpu: color matrix dispatch failed, using CPU mirror", "err", err)
	}

	pm := b.working
	b.pool.ForEachBand(pm.Height(), func(y0, y1 int) {
		m.ApplyToRows(pm, y0, y1)
	})
	return nil
}

// dispatchColorMatrix uploads the working pixels and matrix params, runs
// one compute pass over the whole buffer, and reads the result back into
// the mirror. Buffers and bindings are per-dispatch; the pipeline is
// reused.
func (b *Backend) dispatchColorMatrix(m imglykit.ColorMatrix) error {
	w, h := b.working.Width(), b.working.Height()
	pixelCount := w * h
	pixelBufSize := uint64(pixelCount * 4)
	packed := packPixels(b.working.Data(), pixelCount)
	params := paramsFromMatrix(w, h, m)
	paramsBytes := params.toBytes()

	storageBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "colormatrix_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create storage buffer: %w", err)
	}
	defer b.device.DestroyBuffer(storageBuf)

	stagingBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "colormatrix_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer b.device.DestroyBuffer(stagingBuf)

	uniformBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "colormatrix_params", Size: uint64(len(paramsBytes)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	defer b.device.DestroyBuffer(uniformBuf)

	b.queue.WriteBuffer(storageBuf, 0, packed)
	b.queue.WriteBuffer(uniformBuf, 0, paramsBytes)

	bindGroup, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "colormatrix_bind", Layout: b.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uint64(len(paramsBytes))}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer b.device.DestroyBindGroup(bindGroup)

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "colormatrix_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("colormatrix"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "colormatrix_pass"})
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch((uint32(w)+7)/8, (uint32(h)+7)/8, 1)
	pass.End()
	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)
	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := b.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, pixelBufSize)
	if err := b.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackPixels(readback, b.working.Data(), pixelCount)
	return nil
}

// TransformPixmap replaces the working mirror with the result of
// transform. A transform error propagates unchanged and leaves the
// previous buffer in place.
func (b *Backend) TransformPixmap(_ context.Context, transform func(*imglykit.Pixmap) (*imglykit.Pixmap, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return imglykit.ErrBackendClosed
	}
	if b.working == nil {
		return imglykit.ErrNoSourceImage
	}

	next, err := transform(b.working)
	if err != nil {
		return err
	}
	if next == nil {
		return errors.New("gpu: transform produced no pixmap")
	}
	b.working = next
	return nil
}

// RenderFinal commits the working mirror as the definitive output.
func (b *Backend) RenderFinal(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return imglykit.ErrBackendClosed
	}
	if b.working == nil {
		return imglykit.ErrNoSourceImage
	}
	b.output = b.working.Clone()
	return nil
}

// GetSize reports the committed output size, falling back to the working
// mirror before the first RenderFinal.
func (b *Backend) GetSize() imglykit.Vector2 {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.output != nil:
		return b.output.Size()
	case b.working != nil:
		return b.working.Size()
	default:
		return imglykit.Vector2{}
	}
}

// ResizeTo scales the working mirror to size using Lanczos resampling
// and refreshes the committed output to match.
func (b *Backend) ResizeTo(_ context.Context, size imglykit.Vector2) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return imglykit.ErrBackendClosed
	}
	if b.working == nil {
		return imglykit.ErrNoSourceImage
	}

	w, h := int(size.X), int(size.Y)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("gpu: resize to %gx%g: empty target", size.X, size.Y)
	}

	b.working = imglykit.FromImage(imaging.Resize(b.working.ToImage(), w, h, imaging.Lanczos))
	if b.output != nil {
		b.output = b.working.Clone()
	}
	return nil
}

// Output returns a snapshot of the committed output, or nil before the
// first RenderFinal.
func (b *Backend) Output() *imglykit.Pixmap {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.output == nil {
		return nil
	}
	return b.output.Clone()
}

// Close destroys the pipeline and, when this backend owns them, the
// device and instance. Idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.destroyPipeline()
	if !b.externalDevice {
		if b.device != nil {
			b.device.Destroy()
			b.device = nil
		}
		if b.instance != nil {
			b.instance.Destroy()
			b.instance = nil
		}
	} else {
		// Shared device belongs to the provider.
		b.device = nil
		b.instance = nil
	}
	b.queue = nil
	b.gpuReady = false
	b.pool.Close()
	b.working = nil
	b.output = nil
	return nil
}
