package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/refarde/imglykit"
	"github.com/refarde/imglykit/internal/imageio"
)

// newRenderCommand creates the "render" subcommand that applies an
// operation stack to an image file.
func newRenderCommand(opts *Options) *cobra.Command {
	var (
		input   string
		output  string
		size    string
		quality int
		so      stackOptions
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an operation stack onto an image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			pref, err := imglykit.ParsePreference(opts.Backend)
			if err != nil {
				return err
			}
			stack, err := buildStack(so)
			if err != nil {
				return err
			}
			img, err := imageio.Load(input)
			if err != nil {
				return err
			}

			start := time.Now()
			renderer, err := imglykit.NewRenderer(img, stack, size, imglykit.WithPreference(pref))
			if err != nil {
				return err
			}
			defer func() { _ = renderer.Close() }()

			if err := renderer.Render(cmd.Context()); err != nil {
				return err
			}

			result := renderer.Output()
			if result == nil {
				return fmt.Errorf("render finished without output")
			}
			if err := imageio.Save(output, result, quality); err != nil {
				return err
			}

			logger.Info("rendered image",
				"path", output,
				"backend", renderer.Backend().Name(),
				"operations", len(stack),
				"width", result.Width(),
				"height", result.Height(),
				"duration", time.Since(start))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Source image path (PNG, JPEG, GIF or WebP)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output image path; the extension picks the format")
	cmd.Flags().StringVarP(&size, "size", "s", "", "Target dimensions (WxH fit box, Wx or xH single axis, ! for exact)")
	cmd.Flags().IntVar(&quality, "quality", imageio.DefaultJPEGQuality, "JPEG quality (1-100)")
	registerStackFlags(cmd, &so)
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
