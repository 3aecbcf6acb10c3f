package imglykit

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
)

// solidNRGBA builds a w by h image filled with c.
func solidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSoftwareBackend_Name(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	if b.Name() != BackendSoftware {
		t.Errorf("Name() = %q, want %q", b.Name(), BackendSoftware)
	}
}

func TestSoftwareBackend_SelfRegisters(t *testing.T) {
	if !BackendSupported(BackendSoftware) {
		t.Error("BackendSupported(software) = false, want true")
	}

	found := false
	for _, name := range RegisteredBackends() {
		if name == BackendSoftware {
			found = true
		}
	}
	if !found {
		t.Errorf("RegisteredBackends() = %v, missing %q", RegisteredBackends(), BackendSoftware)
	}
}

func TestSoftwareBackend_DrawImage(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	err := b.DrawImage(context.Background(), solidNRGBA(3, 2, color.NRGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}

	if got := b.GetSize(); !got.Equals(Vec(3, 2)) {
		t.Errorf("GetSize() = %v, want (3, 2)", got)
	}
}

func TestSoftwareBackend_DrawImageNil(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	err := b.DrawImage(context.Background(), nil)
	if !errors.Is(err, ErrNoSourceImage) {
		t.Errorf("DrawImage(nil) error = %v, want ErrNoSourceImage", err)
	}
}

func TestSoftwareBackend_RenderFinalWithoutDraw(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	err := b.RenderFinal(context.Background())
	if !errors.Is(err, ErrNoSourceImage) {
		t.Errorf("RenderFinal() error = %v, want ErrNoSourceImage", err)
	}
}

func TestSoftwareBackend_OutputLifecycle(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	if b.Output() != nil {
		t.Error("Output() before RenderFinal should be nil")
	}

	src := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	if err := b.DrawImage(context.Background(), solidNRGBA(2, 2, src)); err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}

	if b.Output() != nil {
		t.Error("Output() should stay nil until RenderFinal commits")
	}

	if err := b.RenderFinal(context.Background()); err != nil {
		t.Fatalf("RenderFinal() error = %v", err)
	}

	out := b.Output()
	if out == nil {
		t.Fatal("Output() after RenderFinal is nil")
	}
	if got := out.At(1, 1).(color.NRGBA); got != src {
		t.Errorf("output pixel = %v, want %v", got, src)
	}
}

func TestSoftwareBackend_OutputIsSnapshot(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	ctx := context.Background()
	if err := b.DrawImage(ctx, solidNRGBA(2, 2, color.NRGBA{R: 50, A: 255})); err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}
	if err := b.RenderFinal(ctx); err != nil {
		t.Fatalf("RenderFinal() error = %v", err)
	}

	first := b.Output()
	first.SetPixel(0, 0, RGBA{R: 1, A: 1})

	second := b.Output()
	if got := second.At(0, 0).(color.NRGBA); got.R != 50 {
		t.Errorf("mutating a returned snapshot leaked into the backend: pixel = %v", got)
	}
}

func TestSoftwareBackend_ApplyColorMatrix(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	ctx := context.Background()
	if err := b.DrawImage(ctx, solidNRGBA(4, 4, color.NRGBA{R: 128, G: 128, B: 128, A: 255})); err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}

	// Identity plus a 0.25 offset on each color channel.
	m := IdentityMatrix()
	m[4], m[9], m[14] = 0.25, 0.25, 0.25

	if err := b.ApplyColorMatrix(ctx, m); err != nil {
		t.Fatalf("ApplyColorMatrix() error = %v", err)
	}
	if err := b.RenderFinal(ctx); err != nil {
		t.Fatalf("RenderFinal() error = %v", err)
	}

	got := b.Output().At(2, 2).(color.NRGBA)
	want := color.NRGBA{R: 192, G: 192, B: 192, A: 255}
	if got != want {
		t.Errorf("pixel after matrix = %v, want %v", got, want)
	}
}

func TestSoftwareBackend_ApplyColorMatrixWithoutDraw(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	err := b.ApplyColorMatrix(context.Background(), IdentityMatrix())
	if !errors.Is(err, ErrNoSourceImage) {
		t.Errorf("ApplyColorMatrix() error = %v, want ErrNoSourceImage", err)
	}
}

func TestSoftwareBackend_TransformPixmap(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	ctx := context.Background()
	if err := b.DrawImage(ctx, solidNRGBA(4, 4, color.NRGBA{A: 255})); err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}

	err := b.TransformPixmap(ctx, func(p *Pixmap) (*Pixmap, error) {
		return NewPixmap(3, 1), nil
	})
	if err != nil {
		t.Fatalf("TransformPixmap() error = %v", err)
	}

	if got := b.GetSize(); !got.Equals(Vec(3, 1)) {
		t.Errorf("GetSize() after transform = %v, want (3, 1)", got)
	}
}

func TestSoftwareBackend_TransformPixmapError(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	ctx := context.Background()
	if err := b.DrawImage(ctx, solidNRGBA(4, 4, color.NRGBA{A: 255})); err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}

	boom := errors.New("bad geometry")
	err := b.TransformPixmap(ctx, func(p *Pixmap) (*Pixmap, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("TransformPixmap() error = %v, want the transform's own error", err)
	}

	// The failed transform must not disturb the working buffer.
	if got := b.GetSize(); !got.Equals(Vec(4, 4)) {
		t.Errorf("GetSize() after failed transform = %v, want (4, 4)", got)
	}
}

func TestSoftwareBackend_TransformPixmapNilResult(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	ctx := context.Background()
	if err := b.DrawImage(ctx, solidNRGBA(2, 2, color.NRGBA{A: 255})); err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}

	err := b.TransformPixmap(ctx, func(p *Pixmap) (*Pixmap, error) {
		return nil, nil
	})
	if err == nil {
		t.Error("TransformPixmap() with nil result should fail")
	}
}

func TestSoftwareBackend_ResizeTo(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	ctx := context.Background()
	red := color.NRGBA{R: 200, G: 10, B: 10, A: 255}
	if err := b.DrawImage(ctx, solidNRGBA(8, 8, red)); err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}
	if err := b.RenderFinal(ctx); err != nil {
		t.Fatalf("RenderFinal() error = %v", err)
	}

	if err := b.ResizeTo(ctx, Vec(4, 4)); err != nil {
		t.Fatalf("ResizeTo() error = %v", err)
	}

	if got := b.GetSize(); !got.Equals(Vec(4, 4)) {
		t.Errorf("GetSize() after resize = %v, want (4, 4)", got)
	}

	out := b.Output()
	if out == nil {
		t.Fatal("Output() after resize is nil")
	}
	if out.Width() != 4 || out.Height() != 4 {
		t.Errorf("output size = %dx%d, want 4x4", out.Width(), out.Height())
	}

	// A uniform field stays uniform through resampling, within rounding.
	got := out.At(2, 2).(color.NRGBA)
	if absInt(int(got.R)-int(red.R)) > 1 || absInt(int(got.G)-int(red.G)) > 1 || absInt(int(got.B)-int(red.B)) > 1 {
		t.Errorf("resampled pixel = %v, want close to %v", got, red)
	}
}

func TestSoftwareBackend_ResizeToEmptyTarget(t *testing.T) {
	b := NewSoftwareBackend()
	defer b.Close()

	ctx := context.Background()
	if err := b.DrawImage(ctx, solidNRGBA(4, 4, color.NRGBA{A: 255})); err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}

	if err := b.ResizeTo(ctx, Vec(0, 4)); err == nil {
		t.Error("ResizeTo(0, 4) should fail")
	}
	if err := b.ResizeTo(ctx, Vec(4, 0)); err == nil {
		t.Error("ResizeTo(4, 0) should fail")
	}
}

func TestSoftwareBackend_Close(t *testing.T) {
	b := NewSoftwareBackend()

	ctx := context.Background()
	if err := b.DrawImage(ctx, solidNRGBA(2, 2, color.NRGBA{A: 255})); err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}

	if err := b.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := b.DrawImage(ctx, solidNRGBA(2, 2, color.NRGBA{A: 255})); !errors.Is(err, ErrBackendClosed) {
		t.Errorf("DrawImage() after close error = %v, want ErrBackendClosed", err)
	}
	if err := b.RenderFinal(ctx); !errors.Is(err, ErrBackendClosed) {
		t.Errorf("RenderFinal() after close error = %v, want ErrBackendClosed", err)
	}
	if err := b.ApplyColorMatrix(ctx, IdentityMatrix()); !errors.Is(err, ErrBackendClosed) {
		t.Errorf("ApplyColorMatrix() after close error = %v, want ErrBackendClosed", err)
	}
	if b.Output() != nil {
		t.Error("Output() after close should be nil")
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
