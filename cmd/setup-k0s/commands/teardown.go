package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/setup-k0s/cmd/setup-k0s/handlers"
)

// Teardown returns the post-phase command.
//
// Teardown only acts when the main phase recorded its run marker; the
// marker is written before any installation work, so a partially failed
// setup is still cleaned up. Individual cleanup steps are best-effort.
func Teardown() *cobra.Command {
	return &cobra.Command{
		Use:   "teardown",
		Short: "Stop and remove the k0s installation from the runner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Teardown(cmd.Context())
		},
	}
}
