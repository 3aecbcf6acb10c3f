package operation

import (
	"context"
	"testing"
)

func TestBrightness_Name(t *testing.T) {
	if got := NewBrightness(0).Name(); got != "brightness" {
		t.Errorf("Name() = %q, want %q", got, "brightness")
	}
}

func TestBrightness_ValidateSettings(t *testing.T) {
	tests := []struct {
		amount  float64
		wantErr bool
	}{
		{-1.5, true},
		{-1, false},
		{0, false},
		{0.3, false},
		{1, false},
		{1.1, true},
	}

	for _, tt := range tests {
		err := NewBrightness(tt.amount).ValidateSettings()
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSettings() with amount %g error = %v, wantErr %v", tt.amount, err, tt.wantErr)
		}
	}
}

func TestBrightness_RenderSubmitsMatrix(t *testing.T) {
	b := &matrixBackend{}
	op := NewBrightness(0.3)

	if err := op.Render(context.Background(), b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if len(b.applied) != 1 {
		t.Fatalf("applied %d matrices, want 1", len(b.applied))
	}
	if b.applied[0] != op.Matrix() {
		t.Error("backend received a matrix different from Matrix()")
	}
}
