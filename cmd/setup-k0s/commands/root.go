// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the setup-k0s CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup-k0s",
		Short: "Provision a single-node k0s cluster on a CI runner",
	}

	cmd.AddCommand(Setup())
	cmd.AddCommand(Teardown())
	cmd.AddCommand(Version())

	return cmd
}
