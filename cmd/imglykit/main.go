package main

import (
	"os"

	"github.com/refarde/imglykit/internal/cli"
	"github.com/refarde/imglykit/internal/logging"

	// Register the GPU backend variant.
	_ "github.com/refarde/imglykit/gpu"
)

// main is the entry point for the imglykit CLI binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
