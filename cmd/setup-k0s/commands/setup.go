package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/setup-k0s/cmd/setup-k0s/handlers"
)

// Setup returns the main-phase command.
//
// The setup process:
//  1. Persists the run marker so the teardown phase always runs
//  2. Resolves the target architecture and release version
//  3. Downloads and installs the k0s binary
//  4. Registers and starts the single-node controller service
//  5. Extracts the admin kubeconfig and publishes it as the `kubeconfig`
//     output and the exported KUBECONFIG variable
//  6. Optionally polls until the cluster is ready
//
// Flags mirror the step inputs; when running under a CI runner the inputs
// take precedence over flag defaults.
func Setup() *cobra.Command {
	var (
		version        string
		waitForReady   bool
		timeoutSeconds int
		configPath     string
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Install and start a single-node k0s controller",
		Long: `Install the k0s binary, start it as a single-node controller service,
and publish its admin kubeconfig for later pipeline steps.

Examples:
  # Install the newest published release
  setup-k0s setup

  # Pin a release and wait until the cluster answers
  setup-k0s setup --version v1.30.0+k0s.0 --wait-for-ready --timeout 60

  # Hand the controller a custom k0s configuration
  setup-k0s setup --config k0s.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := handlers.SetupOptions{
				Version:      version,
				WaitForReady: waitForReady,
				Timeout:      time.Duration(timeoutSeconds) * time.Second,
				ConfigPath:   configPath,
			}
			return handlers.Setup(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&version, "version", "latest", "k0s release tag to install, or \"latest\"")
	cmd.Flags().BoolVar(&waitForReady, "wait-for-ready", false, "Poll until the cluster is ready")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 300, "Readiness deadline in seconds")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a k0s configuration file")

	return cmd
}
