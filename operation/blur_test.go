package operation

import (
	"image"
	"image/color"
	"testing"
)

func TestBlur_Name(t *testing.T) {
	if got := NewBlur(2).Name(); got != "blur" {
		t.Errorf("Name() = %q, want %q", got, "blur")
	}
}

func TestBlur_ValidateSettings(t *testing.T) {
	tests := []struct {
		name    string
		op      *Blur
		wantErr bool
	}{
		{"uniform radius", NewBlur(2), false},
		{"directional horizontal", NewDirectionalBlur(3, 0), false},
		{"directional vertical", NewDirectionalBlur(0, 3), false},
		{"zero radius", NewBlur(0), true},
		{"negative radius", NewBlur(-1), true},
		{"radius too large", NewBlur(maxBlurRadius + 1), true},
		{"negative axis", NewDirectionalBlur(2, -1), true},
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

func TestBlur_SpreadsImpulse(t *testing.T) {
	img := blackCanvas(9, 9)
	img.SetNRGBA(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out := renderGeometry(t, img, NewBlur(1))

	if center := out.At(4, 4).(color.NRGBA); center.R == 255 {
		t.Error("center pixel kept full intensity, want it spread to neighbors")
	}
	if neighbor := out.At(5, 4).(color.NRGBA); neighbor.R == 0 {
		t.Error("neighbor pixel stayed black, want intensity from the impulse")
	}
	if corner := out.At(0, 0).(color.NRGBA); corner.R != 0 {
		t.Errorf("corner pixel = %v, want untouched black", corner)
	}
}

func TestBlur_DirectionalSkipsOtherAxis(t *testing.T) {
	img := blackCanvas(9, 9)
	img.SetNRGBA(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out := renderGeometry(t, img, NewDirectionalBlur(1, 0))

	if got := out.At(5, 4).(color.NRGBA); got.R == 0 {
		t.Error("horizontal neighbor stayed black, want blur along x")
	}
	if got := out.At(4, 5).(color.NRGBA); got.R != 0 {
		t.Errorf("vertical neighbor = %v, want untouched black", got)
	}
}

func TestBlur_KeepsSolidColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.SetNRGBA(x, y, testRed)
		}
	}

	out := renderGeometry(t, img, NewBlur(2))

	if got := out.At(3, 3).(color.NRGBA); got != testRed {
		t.Errorf("At(3, 3) = %v, want %v", got, testRed)
	}
}
