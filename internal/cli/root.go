// Package cli defines the command-line interface for the imglykit tool.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/refarde/imglykit"
	"github.com/refarde/imglykit/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	Backend  string
	LogLevel logging.Level
}

// Execute builds the root command, runs it with the provided args and
// logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootOpts := &Options{
		Backend:  imglykit.PreferAuto.String(),
		LogLevel: logging.LevelInfo,
	}

	rootCmd := newRootCommand(rootOpts, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and
// subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imglykit",
		Short: "imglykit renders photo editing operation stacks",
		Long: "imglykit loads an image, applies an ordered stack of editing operations " +
			"(color adjustments, geometry, convolutions, text and image overlays) on the " +
			"best available rendering backend and writes the result.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			opts.LogLevel = level
			logger = logging.NewLogger(os.Stderr, level)
			imglykit.SetLogger(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", slog.Level(level))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", imglykit.PreferAuto.String(),
		"Backend preference (auto, software)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRenderCommand(opts),
		newBackendsCommand(opts),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command
// contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to
// a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
