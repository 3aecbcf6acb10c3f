package cli

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/refarde/imglykit/internal/imageio"
	"github.com/refarde/imglykit/internal/logging"
)

func TestExecute_RenderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")

	src := image.NewNRGBA(image.Rect(0, 0, 10, 8))
	for y := range 8 {
		for x := range 10 {
			src.SetNRGBA(x, y, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
		}
	}
	if err := imageio.Save(input, src, 0); err != nil {
		t.Fatal(err)
	}

	err := Execute([]string{
		"render",
		"--input", input,
		"--output", output,
		"--size", "5x",
		"--brightness", "0.25",
		"--backend", "software",
		"--log-level", "error",
	}, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got, err := imageio.Load(output)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if b := got.Bounds(); b.Dx() != 5 || b.Dy() != 4 {
		t.Errorf("output size = %dx%d, want 5x4", b.Dx(), b.Dy())
	}
	r, _, _, _ := got.At(2, 2).RGBA()
	if r>>8 <= 100 {
		t.Errorf("output R = %d, want brighter than the 100 source", r>>8)
	}
}

func TestExecute_RenderRequiresInput(t *testing.T) {
	cmd := newRootCommand(&Options{}, logging.NewLogger(io.Discard, logging.LevelError))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"render", "--output", "out.png", "--log-level", "error"})

	if err := cmd.Execute(); err == nil {
		t.Error("render without --input succeeded, want error")
	}
}

func TestExecute_RejectsUnknownBackend(t *testing.T) {
	cmd := newRootCommand(&Options{}, logging.NewLogger(io.Discard, logging.LevelError))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"backends", "--backend", "neural", "--log-level", "error"})

	if err := cmd.Execute(); err == nil {
		t.Error("unknown --backend value accepted, want error")
	}
}

func TestBackendsCommand_ListsSoftware(t *testing.T) {
	var buf bytes.Buffer
	cmd := newRootCommand(&Options{}, logging.NewLogger(io.Discard, logging.LevelError))
	cmd.SetOut(&buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"backends", "--log-level", "error"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "software") {
		t.Errorf("backend listing %q does not mention software", out)
	}
	if !strings.Contains(out, "available") {
		t.Errorf("backend listing %q does not report availability", out)
	}
}
