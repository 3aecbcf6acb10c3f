package operation

import (
	"context"
	"image"
	"image/color"
	"sort"
	"strings"
	"testing"

	"github.com/refarde/imglykit"
)

func TestFilter_Name(t *testing.T) {
	if got := NewFilter("sepia").Name(); got != "filter" {
		t.Errorf("Name() = %q, want %q", got, "filter")
	}
}

func TestFilter_ValidateSettings(t *testing.T) {
	for _, name := range FilterNames() {
		if err := NewFilter(name).ValidateSettings(); err != nil {
			t.Errorf("ValidateSettings() for preset %q error = %v", name, err)
		}
	}

	err := NewFilter("vivid").ValidateSettings()
	if err == nil {
		t.Fatal("ValidateSettings() for unknown preset should fail")
	}
	if !strings.Contains(err.Error(), "sepia") {
		t.Errorf("error %q should list the known presets", err)
	}
}

func TestFilterNames_Sorted(t *testing.T) {
	names := FilterNames()
	if !sort.StringsAreSorted(names) {
		t.Errorf("FilterNames() = %v, want sorted order", names)
	}
	if len(names) < 5 {
		t.Errorf("FilterNames() = %v, expected more presets", names)
	}
}

func TestFilter_NoneIsIdentity(t *testing.T) {
	if NewFilter("none").Matrix() != imglykit.IdentityMatrix() {
		t.Error(`preset "none" should compile to the identity matrix`)
	}
}

func TestFilter_Grayscale(t *testing.T) {
	m := NewFilter("grayscale").Matrix()
	got := m.Apply(imglykit.RGBA{R: 0.8, G: 0.2, B: 0.4, A: 1})

	if !near(got.R, got.G) || !near(got.G, got.B) {
		t.Errorf("grayscale output = %+v, want equal channels", got)
	}
	luma := lumaR*0.8 + lumaG*0.2 + lumaB*0.4
	if !near(got.R, luma) {
		t.Errorf("grayscale R = %g, want luminance %g", got.R, luma)
	}
}

func TestFilter_Invert(t *testing.T) {
	m := NewFilter("invert").Matrix()

	black := m.Apply(imglykit.RGBA{R: 0, G: 0, B: 0, A: 1})
	if !near(black.R, 1) || !near(black.G, 1) || !near(black.B, 1) {
		t.Errorf("invert(black) = %+v, want white", black)
	}

	white := m.Apply(imglykit.RGBA{R: 1, G: 1, B: 1, A: 1})
	if !near(white.R, 0) || !near(white.G, 0) || !near(white.B, 0) {
		t.Errorf("invert(white) = %+v, want black", white)
	}
}

func TestFilter_Sepia(t *testing.T) {
	m := NewFilter("sepia").Matrix()
	got := m.Apply(imglykit.RGBA{R: 1, G: 0, B: 0, A: 1})

	if !near(got.R, 0.393) || !near(got.G, 0.349) || !near(got.B, 0.272) {
		t.Errorf("sepia(red) = %+v, want (0.393, 0.349, 0.272)", got)
	}
}

func TestFilter_WarmAndCool(t *testing.T) {
	in := imglykit.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}

	warm := NewFilter("warm").Matrix().Apply(in)
	if warm.R <= in.R || warm.B >= in.B {
		t.Errorf("warm = %+v, want red boosted and blue reduced", warm)
	}

	cool := NewFilter("cool").Matrix().Apply(in)
	if cool.R >= in.R || cool.B <= in.B {
		t.Errorf("cool = %+v, want red reduced and blue boosted", cool)
	}
}

func TestFilter_RenderThroughSoftwareBackend(t *testing.T) {
	b := imglykit.NewSoftwareBackend()
	defer b.Close()

	ctx := context.Background()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			img.SetNRGBA(x, y, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	if err := b.DrawImage(ctx, img); err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}

	if err := NewFilter("invert").Render(ctx, b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := b.RenderFinal(ctx); err != nil {
		t.Fatalf("RenderFinal() error = %v", err)
	}

	got := b.Output().At(0, 0).(color.NRGBA)
	if got.R != 127 || got.G != 127 || got.B != 127 {
		t.Errorf("inverted pixel = %v, want (127, 127, 127)", got)
	}
	if got.A != 255 {
		t.Errorf("alpha = %d, want untouched 255", got.A)
	}
}
