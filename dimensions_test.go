package imglykit

import (
	"errors"
	"testing"
)

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"empty is identity", "", false},
		{"width and height", "100x50", false},
		{"width only", "100x", false},
		{"height only", "x50", false},
		{"fixed modifier", "100x50!", false},
		{"uppercase separator", "100X50", false},
		{"no separator", "100", true},
		{"no dimensions", "x", true},
		{"bare modifier", "x!", true},
		{"zero width", "0x50", true},
		{"zero height", "100x0", true},
		{"negative", "-5x10", true},
		{"garbage", "abc", true},
		{"double modifier", "100x50!!", true},
		{"leading space", " 100x50", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDimensions(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDimensions(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("ParseDimensions(%q) error = %v, want ErrInvalidDimensions", tt.spec, err)
			}
		})
	}
}

func TestDimensions_IsIdentity(t *testing.T) {
	id, err := ParseDimensions("")
	if err != nil {
		t.Fatalf("ParseDimensions(\"\") error = %v", err)
	}
	if !id.IsIdentity() {
		t.Error("empty spec should parse to the identity specification")
	}

	d, err := ParseDimensions("100x")
	if err != nil {
		t.Fatalf("ParseDimensions(\"100x\") error = %v", err)
	}
	if d.IsIdentity() {
		t.Error("100x should not be the identity specification")
	}
}

func TestDimensions_CalculateFinalSize(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		current Vector2
		expect  Vector2
	}{
		{"identity", "", Vec(100, 100), Vec(100, 100)},
		{"fit square", "50x50", Vec(100, 100), Vec(50, 50)},
		{"fit keeps ratio", "100x50", Vec(200, 200), Vec(50, 50)},
		{"fit wide box", "400x400", Vec(800, 600), Vec(400, 300)},
		{"width only", "400x", Vec(800, 600), Vec(400, 300)},
		{"height only", "x300", Vec(800, 600), Vec(400, 300)},
		{"upscale by width", "1600x", Vec(800, 600), Vec(1600, 1200)},
		{"fixed both", "50x25!", Vec(100, 100), Vec(50, 25)},
		{"fixed width keeps height", "50x!", Vec(100, 80), Vec(50, 80)},
		{"fixed height keeps width", "x25!", Vec(100, 80), Vec(100, 25)},
		{"rounding", "100x", Vec(300, 200), Vec(100, 67)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDimensions(tt.spec)
			if err != nil {
				t.Fatalf("ParseDimensions(%q) error = %v", tt.spec, err)
			}
			got := d.CalculateFinalSize(tt.current)
			if !got.Equals(tt.expect) {
				t.Errorf("CalculateFinalSize(%v) with %q = %v, want %v", tt.current, tt.spec, got, tt.expect)
			}
		})
	}
}

func TestDimensions_CalculateFinalSizeIsPure(t *testing.T) {
	d, err := ParseDimensions("50x50")
	if err != nil {
		t.Fatalf("ParseDimensions error = %v", err)
	}
	current := Vec(100, 100)
	first := d.CalculateFinalSize(current)
	second := d.CalculateFinalSize(current)
	if !first.Equals(second) {
		t.Errorf("repeated resolution differs: %v vs %v", first, second)
	}
	if !current.Equals(Vec(100, 100)) {
		t.Errorf("input mutated: %v", current)
	}
}

func TestResolveDimensions(t *testing.T) {
	got, err := ResolveDimensions("50x50", Vec(100, 100))
	if err != nil {
		t.Fatalf("ResolveDimensions error = %v", err)
	}
	if !got.Equals(Vec(50, 50)) {
		t.Errorf("ResolveDimensions = %v, want (50, 50)", got)
	}

	if _, err := ResolveDimensions("bogus", Vec(100, 100)); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("ResolveDimensions(bogus) error = %v, want ErrInvalidDimensions", err)
	}
}
