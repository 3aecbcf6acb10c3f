package operation

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestParseFont_CachesByContent(t *testing.T) {
	fontCache.Clear()

	first, err := parseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("parseFont() error = %v", err)
	}

	// A distinct slice with identical bytes must hit the same entry.
	second, err := parseFont(bytes.Clone(goregular.TTF))
	if err != nil {
		t.Fatalf("parseFont() error = %v", err)
	}
	if first != second {
		t.Error("parseFont() parsed identical bytes twice, want a cache hit")
	}
	if got := fontCache.Len(); got != 1 {
		t.Errorf("font cache holds %d entries, want 1", got)
	}
}

func TestParseFont_RejectsGarbage(t *testing.T) {
	fontCache.Clear()

	if _, err := parseFont([]byte("not a font")); err == nil {
		t.Fatal("parseFont() accepted garbage data")
	}
	if got := fontCache.Len(); got != 0 {
		t.Errorf("font cache holds %d entries after a failed parse, want 0", got)
	}
}

func TestLoadFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := LoadFont(path)
	if err != nil {
		t.Fatalf("LoadFont() error = %v", err)
	}
	if !bytes.Equal(data, goregular.TTF) {
		t.Error("LoadFont() returned different bytes than were written")
	}
}

func TestLoadFont_MissingFile(t *testing.T) {
	if _, err := LoadFont(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("LoadFont() with a missing file succeeded, want error")
	}
}
