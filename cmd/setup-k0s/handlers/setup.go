// Package handlers implements command execution for the setup-k0s CLI.
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/setup-k0s/internal/action"
	"github.com/imamik/setup-k0s/internal/controller"
	"github.com/imamik/setup-k0s/internal/execx"
	"github.com/imamik/setup-k0s/internal/install"
	"github.com/imamik/setup-k0s/internal/k8s"
	"github.com/imamik/setup-k0s/internal/prerequisites"
	"github.com/imamik/setup-k0s/internal/readiness"
)

// binaryInstaller matches install.Installer.
type binaryInstaller interface {
	Resolve(ctx context.Context, versionSpec string) (*install.Request, error)
	Install(ctx context.Context, req *install.Request) error
}

// controllerLauncher matches controller.Launcher.
type controllerLauncher interface {
	Start(ctx context.Context) (string, error)
}

// readinessWaiter matches readiness.Poller.
type readinessWaiter interface {
	Wait(ctx context.Context, timeout time.Duration) error
}

// Factory function variables - can be replaced in tests.
var (
	newRunner = func() execx.Runner { return execx.Exec{} }

	newInstaller = func(runner execx.Runner) binaryInstaller {
		return &install.Installer{Runner: runner, Resolver: install.NewGitHubResolver()}
	}

	newLauncher = func(runner execx.Runner, kubeconfigPath, configPath string) controllerLauncher {
		return &controller.Launcher{
			Runner:         runner,
			KubeconfigPath: kubeconfigPath,
			ConfigPath:     configPath,
		}
	}

	newWaiter = func(runner execx.Runner, kubeconfigPath string) (readinessWaiter, error) {
		client, err := k8s.NewClient(kubeconfigPath)
		if err != nil {
			return nil, err
		}
		diagnostics := &readiness.Diagnostics{Runner: runner, Kubeconfig: kubeconfigPath}
		return &readiness.Poller{
			Probes:      &readiness.ClusterProbes{Runner: runner, Client: client},
			Diagnostics: diagnostics.Dump,
		}, nil
	}

	checkPrerequisites = func() error { return prerequisites.CheckDefault().Error() }

	defaultKubeconfigPath = controller.DefaultKubeconfigPath
)

// SetupOptions holds the flag values for the setup command. When running
// under a CI runner, step inputs override these.
type SetupOptions struct {
	Version      string
	WaitForReady bool
	Timeout      time.Duration
	ConfigPath   string
}

// Setup handles the main phase: install the binary, start the controller,
// publish the credential, and optionally wait for readiness. Any step
// failure aborts the run; only the readiness poller retries, bounded by its
// timeout.
func Setup(ctx context.Context, opts SetupOptions) error {
	actx := action.New()
	in := actx.LoadInputs(action.Inputs{
		Version:      opts.Version,
		WaitForReady: opts.WaitForReady,
		Timeout:      opts.Timeout,
		ConfigPath:   opts.ConfigPath,
	})

	// Marker before anything else: the teardown phase must run even when
	// installation fails partway through.
	actx.MarkSetupStarted()

	if err := checkPrerequisites(); err != nil {
		return err
	}

	runner := newRunner()

	installer := newInstaller(runner)
	req, err := installer.Resolve(ctx, in.Version)
	if err != nil {
		return fmt.Errorf("resolve k0s install: %w", err)
	}

	if err := actx.Group("Install k0s "+req.ResolvedVersion, func() error {
		return installer.Install(ctx, req)
	}); err != nil {
		return fmt.Errorf("install k0s %s: %w", req.ResolvedVersion, err)
	}

	kubeconfigPath, err := defaultKubeconfigPath()
	if err != nil {
		return err
	}

	var credentialPath string
	if err := actx.Group("Start k0s controller", func() error {
		credentialPath, err = newLauncher(runner, kubeconfigPath, in.ConfigPath).Start(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("start k0s controller: %w", err)
	}

	actx.SetOutput("kubeconfig", credentialPath)
	actx.ExportEnv("KUBECONFIG", credentialPath)
	actx.Infof("admin kubeconfig available at %s", credentialPath)

	if in.WaitForReady {
		waiter, err := newWaiter(runner, credentialPath)
		if err != nil {
			return fmt.Errorf("build readiness probes: %w", err)
		}
		title := fmt.Sprintf("Wait for cluster readiness (timeout %s)", in.Timeout)
		if err := actx.Group(title, func() error {
			return waiter.Wait(ctx, in.Timeout)
		}); err != nil {
			return err
		}
		actx.Infof("cluster is ready")
	}

	return nil
}
