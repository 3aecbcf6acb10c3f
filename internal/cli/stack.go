package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refarde/imglykit"
	"github.com/refarde/imglykit/internal/imageio"
	"github.com/refarde/imglykit/operation"
)

// stackOptions collects the per-render operation flags. Identity values
// (zero shift, factor one, empty string) leave the operation out of the
// stack.
type stackOptions struct {
	crop       string
	rotation   int
	flip       string
	brightness float64
	contrast   float64
	saturation float64
	filter     string
	blur       float64
	sharpen    float64

	text         string
	fontPath     string
	textSize     float64
	textColor    string
	textPosition string

	overlayPath     string
	overlayPosition string
	overlayWidth    float64
	overlayOpacity  float64
	overlayBlend    string
}

// registerStackFlags declares the operation flags on a render-style
// command.
func registerStackFlags(cmd *cobra.Command, so *stackOptions) {
	f := cmd.Flags()

	f.StringVar(&so.crop, "crop", "", "Crop rectangle as relative corners left,top,right,bottom (e.g. 0.25,0.25,0.75,0.75)")
	f.IntVar(&so.rotation, "rotate", 0, "Clockwise rotation in degrees, a multiple of 90")
	f.StringVar(&so.flip, "flip", "", "Mirror axes: h, v or hv")
	f.Float64Var(&so.brightness, "brightness", 0, "Brightness shift in [-1, 1]")
	f.Float64Var(&so.contrast, "contrast", 1, "Contrast factor, 1 is identity")
	f.Float64Var(&so.saturation, "saturation", 1, "Saturation factor, 1 is identity")
	f.StringVar(&so.filter, "filter", "", "Preset filter ("+strings.Join(operation.FilterNames(), ", ")+")")
	f.Float64Var(&so.blur, "blur", 0, "Gaussian blur radius in pixels")
	f.Float64Var(&so.sharpen, "sharpen", 0, "Unsharp mask radius in pixels")

	f.StringVar(&so.text, "text", "", "Text line to draw onto the image")
	f.StringVar(&so.fontPath, "font", "", "Path to the TTF or OTF font used by --text")
	f.Float64Var(&so.textSize, "text-size", 24, "Text size in pixels")
	f.StringVar(&so.textColor, "text-color", "", "Text color as a hex string (e.g. #ff8800)")
	f.StringVar(&so.textPosition, "text-position", "", "Relative text anchor as x,y in [0, 1]")

	f.StringVar(&so.overlayPath, "overlay", "", "Path to an image composited onto the canvas")
	f.StringVar(&so.overlayPosition, "overlay-position", "", "Relative overlay center as x,y in [0, 1]")
	f.Float64Var(&so.overlayWidth, "overlay-width", 0, "Overlay width as a fraction of the canvas width (natural size when 0)")
	f.Float64Var(&so.overlayOpacity, "overlay-opacity", 1, "Overlay opacity in [0, 1]")
	f.StringVar(&so.overlayBlend, "overlay-blend", "", "Overlay blend mode (normal, multiply, screen, overlay, darken, lighten)")
}

// buildStack translates flag values into an ordered operation stack.
// Geometry runs first (crop, rotation, flip), color adjustments follow,
// convolutions after that, overlays last. Settings are checked by each
// operation's own validation during the render pass; this only rejects
// values that cannot be translated at all.
func buildStack(so stackOptions) ([]imglykit.Operation, error) {
	var stack []imglykit.Operation

	if so.crop != "" {
		start, end, err := parseCrop(so.crop)
		if err != nil {
			return nil, err
		}
		stack = append(stack, operation.NewCrop(start, end))
	}
	if so.rotation != 0 {
		stack = append(stack, operation.NewRotation(so.rotation))
	}
	if so.flip != "" {
		horizontal := strings.Contains(so.flip, "h")
		vertical := strings.Contains(so.flip, "v")
		if !horizontal && !vertical {
			return nil, fmt.Errorf("invalid --flip value %q, want h, v or hv", so.flip)
		}
		stack = append(stack, operation.NewFlip(horizontal, vertical))
	}

	if so.brightness != 0 {
		stack = append(stack, operation.NewBrightness(so.brightness))
	}
	if so.contrast != 1 {
		stack = append(stack, operation.NewContrast(so.contrast))
	}
	if so.saturation != 1 {
		stack = append(stack, operation.NewSaturation(so.saturation))
	}
	if so.filter != "" {
		stack = append(stack, operation.NewFilter(so.filter))
	}

	if so.blur > 0 {
		stack = append(stack, operation.NewBlur(so.blur))
	}
	if so.sharpen > 0 {
		stack = append(stack, operation.NewSharpen(so.sharpen, 1))
	}

	if so.text != "" {
		op, err := buildTextOperation(so)
		if err != nil {
			return nil, err
		}
		stack = append(stack, op)
	}
	if so.overlayPath != "" {
		op, err := buildOverlayOperation(so)
		if err != nil {
			return nil, err
		}
		stack = append(stack, op)
	}

	return stack, nil
}

func buildTextOperation(so stackOptions) (imglykit.Operation, error) {
	if so.fontPath == "" {
		return nil, fmt.Errorf("--text requires --font")
	}
	fontData, err := operation.LoadFont(so.fontPath)
	if err != nil {
		return nil, err
	}

	opts := []operation.TextOption{
		operation.WithFontSize(so.textSize),
	}
	if so.textColor != "" {
		opts = append(opts, operation.WithTextColor(imglykit.Hex(so.textColor)))
	}
	if so.textPosition != "" {
		pos, err := parseVec(so.textPosition)
		if err != nil {
			return nil, fmt.Errorf("invalid --text-position: %w", err)
		}
		opts = append(opts, operation.WithTextPosition(pos))
	}
	return operation.NewText(so.text, fontData, opts...), nil
}

func buildOverlayOperation(so stackOptions) (imglykit.Operation, error) {
	img, err := imageio.Load(so.overlayPath)
	if err != nil {
		return nil, fmt.Errorf("load overlay image: %w", err)
	}

	opts := []operation.OverlayOption{
		operation.WithOverlayOpacity(so.overlayOpacity),
	}
	if so.overlayPosition != "" {
		pos, err := parseVec(so.overlayPosition)
		if err != nil {
			return nil, fmt.Errorf("invalid --overlay-position: %w", err)
		}
		opts = append(opts, operation.WithOverlayPosition(pos))
	}
	if so.overlayWidth > 0 {
		opts = append(opts, operation.WithOverlayWidth(so.overlayWidth))
	}
	if so.overlayBlend != "" {
		opts = append(opts, operation.WithOverlayBlendMode(so.overlayBlend))
	}
	return operation.NewOverlay(img, opts...), nil
}

// parseCrop parses a left,top,right,bottom rectangle of relative
// coordinates.
func parseCrop(value string) (start, end imglykit.Vector2, err error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return start, end, fmt.Errorf("invalid --crop value %q, want left,top,right,bottom", value)
	}
	coords := make([]float64, 4)
	for i, part := range parts {
		coords[i], err = strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return start, end, fmt.Errorf("invalid --crop coordinate %q: %w", part, err)
		}
	}
	return imglykit.Vec(coords[0], coords[1]), imglykit.Vec(coords[2], coords[3]), nil
}

// parseVec parses an x,y pair of relative coordinates.
func parseVec(value string) (imglykit.Vector2, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return imglykit.Vector2{}, fmt.Errorf("coordinate pair %q, want x,y", value)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return imglykit.Vector2{}, fmt.Errorf("coordinate %q: %w", parts[0], err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return imglykit.Vector2{}, fmt.Errorf("coordinate %q: %w", parts[1], err)
	}
	return imglykit.Vec(x, y), nil
}
