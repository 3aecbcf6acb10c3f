package operation

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"os"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/opentype"

	"github.com/refarde/imglykit/internal/cache"
)

// parsedFont bundles the two parses every Text operation needs: the
// x/image outline font for rasterizing and the typesetting font for
// shaping.
type parsedFont struct {
	otf   *opentype.Font
	shape *gtfont.Font
}

// fontCache keeps recently parsed fonts keyed by a hash of their bytes,
// so Text operations sharing one font parse it once.
var fontCache = cache.New[uint64, *parsedFont](16)

// parseFont parses TTF or OTF font data, consulting the cache first.
// Parse failures are returned, not cached.
func parseFont(data []byte) (*parsedFont, error) {
	key := fontKey(data)
	if pf, ok := fontCache.Get(key); ok {
		return pf, nil
	}
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("operation: parse font: %w", err)
	}
	face, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("operation: parse font for shaping: %w", err)
	}
	pf := &parsedFont{otf: otf, shape: face.Font}
	fontCache.Set(key, pf)
	return pf, nil
}

func fontKey(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}

// LoadFont reads a TTF or OTF font file for use with NewText.
func LoadFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("operation: load font: %w", err)
	}
	return data, nil
}
