package operation

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/refarde/imglykit"
)

// Alignment controls how the anchor position maps onto the rendered
// line.
type Alignment int

const (
	// AlignLeft places the line's left edge at the anchor.
	AlignLeft Alignment = iota

	// AlignCenter centers the line on the anchor.
	AlignCenter

	// AlignRight places the line's right edge at the anchor.
	AlignRight
)

// Text draws a single line of text onto the image. The anchor position
// is relative to the current size, so the same overlay works at any
// resolution. The line is shaped with HarfBuzz to measure its advance
// (kerning and ligatures included) and rasterized through the font's
// outlines at the configured pixel size.
type Text struct {
	text      string
	fontData  []byte
	size      float64
	color     imglykit.RGBA
	position  imglykit.Vector2
	alignment Alignment

	parseOnce sync.Once
	parseErr  error
	otf       *opentype.Font
	shapeFont *gtfont.Font
}

// TextOption configures a Text operation.
type TextOption func(*Text)

// WithFontSize sets the text size in pixels. The default is 24.
func WithFontSize(px float64) TextOption {
	return func(t *Text) { t.size = px }
}

// WithTextColor sets the fill color. The default is white.
func WithTextColor(c imglykit.RGBA) TextOption {
	return func(t *Text) { t.color = c }
}

// WithTextPosition sets the relative anchor in [0, 1] per axis. The
// anchor marks the top edge of the line; the default is the top left
// corner.
func WithTextPosition(pos imglykit.Vector2) TextOption {
	return func(t *Text) { t.position = pos }
}

// WithTextAlignment sets how the line hangs off the anchor.
func WithTextAlignment(a Alignment) TextOption {
	return func(t *Text) { t.alignment = a }
}

// NewText creates a text overlay using the given TTF or OTF font data.
func NewText(text string, fontData []byte, opts ...TextOption) *Text {
	t := &Text{
		text:     text,
		fontData: fontData,
		size:     24,
		color:    imglykit.White,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements imglykit.Operation.
func (t *Text) Name() string { return "text" }

// ValidateSettings implements imglykit.Operation.
func (t *Text) ValidateSettings() error {
	if t.text == "" {
		return errors.New("operation: text is empty")
	}
	if t.size <= 0 {
		return fmt.Errorf("operation: text size %g must be positive", t.size)
	}
	if len(t.fontData) == 0 {
		return errors.New("operation: text has no font data")
	}
	if t.position.X < 0 || t.position.X > 1 || t.position.Y < 0 || t.position.Y > 1 {
		return fmt.Errorf("operation: text position %v outside [0, 1]", t.position)
	}
	return t.parse()
}

// parse resolves the font once for both the shaper and the rasterizer.
// Parsed fonts are shared through the font cache, so operations using
// the same font data only pay for one parse.
func (t *Text) parse() error {
	t.parseOnce.Do(func() {
		pf, err := parseFont(t.fontData)
		if err != nil {
			t.parseErr = err
			return
		}
		t.otf = pf.otf
		t.shapeFont = pf.shape
	})
	return t.parseErr
}

// Render implements imglykit.Operation.
func (t *Text) Render(ctx context.Context, backend imglykit.Backend) error {
	if err := t.parse(); err != nil {
		return err
	}
	tr, err := transformerFor(backend)
	if err != nil {
		return err
	}
	return tr.TransformPixmap(ctx, func(p *imglykit.Pixmap) (*imglykit.Pixmap, error) {
		face, err := opentype.NewFace(t.otf, &opentype.FaceOptions{
			Size:    t.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("operation: create font face: %w", err)
		}
		defer face.Close()

		width := t.shapedAdvance()
		anchor := t.position.MulVec(p.Size())

		x := anchor.X
		switch t.alignment {
		case AlignCenter:
			x -= width / 2
		case AlignRight:
			x -= width
		}

		// The anchor marks the top of the line; the drawer wants the
		// baseline.
		baseline := anchor.Y + fixedToFloat(face.Metrics().Ascent)

		img := p.ToImage()
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(t.color.NRGBA()),
			Face: face,
			Dot: fixed.Point26_6{
				X: floatToFixed(x),
				Y: floatToFixed(baseline),
			},
		}
		d.DrawString(t.text)

		return imglykit.FromImage(img), nil
	})
}

// shapedAdvance measures the line's total advance in pixels using
// HarfBuzz shaping, so alignment accounts for kerning and ligatures.
func (t *Text) shapedAdvance() float64 {
	runes := []rune(t.text)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: baseDirection(t.text),
		Face:      gtfont.NewFace(t.shapeFont),
		Size:      floatToFixed(t.size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	var shaper shaping.HarfbuzzShaper
	out := shaper.Shape(input)
	return fixedToFloat(out.Advance)
}

// baseDirection resolves the paragraph's base direction with the Unicode
// bidi algorithm.
func baseDirection(text string) di.Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return di.DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return di.DirectionLTR
	}
	run := ordering.Run(0)
	if run.Direction() == bidi.RightToLeft {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune. Mixed
// script lines shape by their leading script.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
