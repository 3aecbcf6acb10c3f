// Package imageio loads and saves the image formats the render
// pipeline accepts.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Registers WebP decoding with image.Decode.
	_ "golang.org/x/image/webp"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the output format cannot be
	// derived from the file extension.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("imageio: empty data")
)

// DefaultJPEGQuality is used when a caller passes a quality of 0.
const DefaultJPEGQuality = 90

// Load reads an image from the given file path, auto-detecting the
// format from the content. Supported formats: PNG, JPEG, WebP.
func Load(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// LoadBytes decodes an image from a byte slice, auto-detecting the
// format.
func LoadBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from the given reader, auto-detecting the
// format.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return img, nil
}

// Save writes img to the given path. The format follows the file
// extension: .png, .jpg or .jpeg. quality applies to JPEG only.
func Save(path string, img image.Image, quality int) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}

	if err := Encode(f, img, filepath.Ext(path), quality); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes img to w in the format named by ext. JPEG quality is
// clamped to [1, 100]; zero selects DefaultJPEGQuality.
func Encode(w io.Writer, img image.Image, ext string, quality int) error {
	switch strings.ToLower(ext) {
	case ".png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("imageio: encode PNG: %w", err)
		}
		return nil
	case ".jpg", ".jpeg":
		if quality == 0 {
			quality = DefaultJPEGQuality
		}
		if quality < 1 {
			quality = 1
		}
		if quality > 100 {
			quality = 100
		}
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("imageio: encode JPEG: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
