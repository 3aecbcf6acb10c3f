package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refarde/imglykit"
)

// newBackendsCommand creates the "backends" subcommand that probes the
// registered backend variants.
func newBackendsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered rendering backends and their availability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pref, err := imglykit.ParsePreference(opts.Backend)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range imglykit.RegisteredBackends() {
				status := "unavailable"
				if imglykit.BackendSupported(name) {
					status = "available"
				}
				if pref == imglykit.PreferSoftware && name != imglykit.BackendSoftware {
					status += " (excluded by preference)"
				}
				fmt.Fprintf(out, "%-10s %s\n", name, status)
			}
			return nil
		},
	}
}
