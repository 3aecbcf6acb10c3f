package imglykit

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/refarde/imglykit/internal/parallel"
)

func init() {
	RegisterBackend(BackendSoftware, Factory{
		New:       func() (Backend, error) { return NewSoftwareBackend(), nil },
		Supported: func() bool { return true },
	})
}

// SoftwareBackend renders entirely on the CPU. It is always supported and
// acts as the fallback variant when no GPU is usable.
//
// The backend keeps one working buffer that operations mutate and one
// committed output buffer that RenderFinal refreshes. All methods
// serialize on an internal mutex, so operations running concurrently in
// the render phase remain memory safe.
type SoftwareBackend struct {
	mu      sync.Mutex
	working *Pixmap
	output  *Pixmap
	pool    *parallel.WorkerPool
	closed  bool
}

var (
	_ Backend            = (*SoftwareBackend)(nil)
	_ PixmapTransformer  = (*SoftwareBackend)(nil)
	_ ColorMatrixApplier = (*SoftwareBackend)(nil)
)

// NewSoftwareBackend creates an unseeded software backend with a worker
// pool sized to GOMAXPROCS.
func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{
		pool: parallel.NewWorkerPool(0),
	}
}

// Name implements Backend.
func (s *SoftwareBackend) Name() string {
	return BackendSoftware
}

// DrawImage seeds the working buffer with the source pixels.
func (s *SoftwareBackend) DrawImage(_ context.Context, img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrBackendClosed
	}
	if img == nil {
		return ErrNoSourceImage
	}
	s.working = FromImage(img)
	return nil
}

// ApplyColorMatrix applies m to every pixel of the working buffer, split
// into row bands across the worker pool.
func (s *SoftwareBackend) ApplyColorMatrix(_ context.Context, m ColorMatrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrBackendClosed
	}
	if s.working == nil {
		return ErrNoSourceImage
	}

	pm := s.working
	s.pool.ForEachBand(pm.Height(), func(y0, y1 int) {
		m.ApplyToRows(pm, y0, y1)
	})
	return nil
}

// TransformPixmap replaces the working buffer with the result of
// transform. A transform error propagates unchanged and leaves the
// previous buffer in place.
func (s *SoftwareBackend) TransformPixmap(_ context.Context, transform func(*Pixmap) (*Pixmap, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrBackendClosed
	}
	if s.working == nil {
		return ErrNoSourceImage
	}

	next, err := transform(s.working)
	if err != nil {
		return err
	}
	if next == nil {
		return errors.New("imglykit: transform produced no pixmap")
	}
	s.working = next
	return nil
}

// RenderFinal commits the working buffer as the definitive output.
func (s *SoftwareBackend) RenderFinal(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrBackendClosed
	}
	if s.working == nil {
		return ErrNoSourceImage
	}
	s.output = s.working.Clone()
	return nil
}

// GetSize reports the committed output size, falling back to the working
// buffer before the first RenderFinal.
func (s *SoftwareBackend) GetSize() Vector2 {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.output != nil:
		return s.output.Size()
	case s.working != nil:
		return s.working.Size()
	default:
		return Vector2{}
	}
}

// ResizeTo scales the working buffer to size using Lanczos resampling and
// refreshes the committed output to match.
func (s *SoftwareBackend) ResizeTo(_ context.Context, size Vector2) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrBackendClosed
	}
	if s.working == nil {
		return ErrNoSourceImage
	}

	w, h := int(size.X), int(size.Y)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("imglykit: resize to %gx%g: empty target", size.X, size.Y)
	}

	s.working = FromImage(imaging.Resize(s.working.ToImage(), w, h, imaging.Lanczos))
	if s.output != nil {
		s.output = s.working.Clone()
	}
	return nil
}

// Output returns a snapshot of the committed output, or nil before the
// first RenderFinal.
func (s *SoftwareBackend) Output() *Pixmap {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.output == nil {
		return nil
	}
	return s.output.Clone()
}

// Close releases the worker pool and drops pixel buffers. Idempotent.
func (s *SoftwareBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.pool.Close()
	s.working = nil
	s.output = nil
	return nil
}
