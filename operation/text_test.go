package operation

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/refarde/imglykit"
)

func TestText_Name(t *testing.T) {
	if got := NewText("Hi", goregular.TTF).Name(); got != "text" {
		t.Errorf("Name() = %q, want %q", got, "text")
	}
}

func TestText_ValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		op      *Text
		wantErr bool
	}{
		{"defaults", NewText("Hello", goregular.TTF), false},
		{"explicit options", NewText("Hello", goregular.TTF,
			WithFontSize(48),
			WithTextColor(imglykit.RGB(1, 0, 0)),
			WithTextPosition(imglykit.Vec(0.5, 0.5)),
			WithTextAlignment(AlignCenter)), false},
		{"empty text", NewText("", goregular.TTF), true},
		{"zero size", NewText("Hello", goregular.TTF, WithFontSize(0)), true},
		{"negative size", NewText("Hello", goregular.TTF, WithFontSize(-12)), true},
		{"no font data", NewText("Hello", nil), true},
		{"position outside range", NewText("Hello", goregular.TTF,
			WithTextPosition(imglykit.Vec(1.5, 0))), true},
		{"garbage font data", NewText("Hello", []byte("not a font")), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.ValidateSettings()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSettings() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

// blackCanvas builds an opaque black image.
func blackCanvas(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
	return img
}

// leftmostLitColumn returns the first column containing a bright pixel.
func leftmostLitColumn(t *testing.T, p *imglykit.Pixmap) int {
	t.Helper()
	for x := range p.Width() {
		for y := range p.Height() {
			if p.At(x, y).(color.NRGBA).R > 100 {
				return x
			}
		}
	}
	t.Fatal("no lit pixels found")
	return -1
}

func TestText_RenderDrawsPixels(t *testing.T) {
	op := NewText("Hello", goregular.TTF,
		WithFontSize(32),
		WithTextPosition(imglykit.Vec(0.1, 0.1)),
	)

	out := renderGeometry(t, blackCanvas(200, 100), op)

	lit := 0
	for y := range out.Height() {
		for x := range out.Width() {
			if out.At(x, y).(color.NRGBA).R > 200 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("no near-white pixels after drawing white text on black")
	}
}

func TestText_RenderKeepsCanvasSize(t *testing.T) {
	out := renderGeometry(t, blackCanvas(120, 60), NewText("Hi", goregular.TTF))

	if w, h := out.Width(), out.Height(); w != 120 || h != 60 {
		t.Errorf("size after text = %dx%d, want 120x60", w, h)
	}
}

func TestText_AlignmentShiftsLine(t *testing.T) {
	render := func(a Alignment) int {
		op := NewText("Hello", goregular.TTF,
			WithFontSize(32),
			WithTextPosition(imglykit.Vec(0.5, 0.2)),
			WithTextAlignment(a),
		)
		return leftmostLitColumn(t, renderGeometry(t, blackCanvas(400, 100), op))
	}

	left := render(AlignLeft)
	center := render(AlignCenter)
	right := render(AlignRight)

	if !(right < center && center < left) {
		t.Errorf("leftmost lit columns right=%d center=%d left=%d, want right < center < left",
			right, center, left)
	}
}

func TestText_ShapedAdvance(t *testing.T) {
	op := NewText("Hello", goregular.TTF, WithFontSize(32))
	if err := op.ValidateSettings(); err != nil {
		t.Fatalf("ValidateSettings() error = %v", err)
	}

	advance := op.shapedAdvance()
	if advance <= 0 {
		t.Fatalf("shapedAdvance() = %g, want positive", advance)
	}

	short := NewText("H", goregular.TTF, WithFontSize(32))
	if err := short.ValidateSettings(); err != nil {
		t.Fatalf("ValidateSettings() error = %v", err)
	}
	if got := short.shapedAdvance(); got >= advance {
		t.Errorf("shapedAdvance(H) = %g, want less than shapedAdvance(Hello) = %g", got, advance)
	}
}

func TestBaseDirection(t *testing.T) {
	tests := []struct {
		text string
		want di.Direction
	}{
		{"Hello", di.DirectionLTR},
		{"שלום", di.DirectionRTL},
		{"مرحبا", di.DirectionRTL},
		{"", di.DirectionLTR},
		{"123", di.DirectionLTR},
	}
	for _, tt := range tests {
		if got := baseDirection(tt.text); got != tt.want {
			t.Errorf("baseDirection(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestDetectScript(t *testing.T) {
	if got, want := detectScript([]rune("  Hello")), language.LookupScript('H'); got != want {
		t.Errorf("detectScript with leading spaces = %v, want %v", got, want)
	}
	if got, want := detectScript([]rune("שלום")), language.LookupScript('ש'); got != want {
		t.Errorf("detectScript(hebrew) = %v, want %v", got, want)
	}
	if got := detectScript(nil); got != language.Latin {
		t.Errorf("detectScript(nil) = %v, want Latin fallback", got)
	}
}

func TestFixedConversions(t *testing.T) {
	if got := floatToFixed(1.5); got != fixed.Int26_6(96) {
		t.Errorf("floatToFixed(1.5) = %d, want 96", got)
	}
	if got := fixedToFloat(fixed.Int26_6(96)); got != 1.5 {
		t.Errorf("fixedToFloat(96) = %g, want 1.5", got)
	}
	if got := fixedToFloat(floatToFixed(32)); got != 32 {
		t.Errorf("round trip of 32 = %g, want 32", got)
	}
}
