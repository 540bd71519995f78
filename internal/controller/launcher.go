// Package controller registers the k0s binary as a single-node controller
// service, starts it, and extracts the admin credential.
package controller

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/yaml"

	"github.com/imamik/setup-k0s/internal/execx"
)

const (
	// credentialInterval is how often the launcher re-asks the controller
	// for the admin kubeconfig while the control plane materializes it.
	credentialInterval = 2 * time.Second

	// credentialTimeout caps the wait for credential materialization.
	credentialTimeout = 60 * time.Second
)

// Launcher starts the controller and persists its admin credential.
type Launcher struct {
	Runner execx.Runner

	// KubeconfigPath is where the credential is persisted. Defaults to
	// <home>/.kube/config.
	KubeconfigPath string

	// ConfigPath optionally points at a k0s configuration file handed to
	// the controller at registration time. Validated before use.
	ConfigPath string

	// Interval and Timeout override the credential poll constants in tests.
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultKubeconfigPath returns <home>/.kube/config.
func DefaultKubeconfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".kube", "config"), nil
}

// Start registers and starts the single-node controller service, waits for
// the admin credential to materialize, and persists it with owner-only
// permissions. It returns the credential path. Nothing here is retried; any
// step failure aborts the start.
func (l *Launcher) Start(ctx context.Context) (string, error) {
	installArgs := []string{"k0s", "install", "controller", "--single"}
	if l.ConfigPath != "" {
		if err := validateConfig(l.ConfigPath); err != nil {
			return "", err
		}
		installArgs = append(installArgs, "--config", l.ConfigPath)
	}

	if err := l.Runner.Run(ctx, "sudo", installArgs...); err != nil {
		return "", fmt.Errorf("register controller service: %w", err)
	}

	if err := l.Runner.Run(ctx, "sudo", "k0s", "start"); err != nil {
		return "", fmt.Errorf("start controller service: %w", err)
	}

	kubeconfig, err := l.awaitCredential(ctx)
	if err != nil {
		return "", err
	}

	path := l.KubeconfigPath
	if path == "" {
		if path, err = DefaultKubeconfigPath(); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create credential directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(kubeconfig), 0o600); err != nil {
		return "", fmt.Errorf("write credential file: %w", err)
	}

	log.Printf("admin kubeconfig written to %s", path)
	return path, nil
}

// awaitCredential polls the controller for its admin kubeconfig until the
// output parses. Command failures, empty output, and unparseable output all
// mean "not materialized yet".
func (l *Launcher) awaitCredential(ctx context.Context) (string, error) {
	interval, timeout := l.Interval, l.Timeout
	if interval == 0 {
		interval = credentialInterval
	}
	if timeout == 0 {
		timeout = credentialTimeout
	}

	var kubeconfig string
	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true,
		func(ctx context.Context) (bool, error) {
			out, err := l.Runner.Output(ctx, "sudo", "k0s", "kubeconfig", "admin")
			if err != nil || strings.TrimSpace(out) == "" {
				return false, nil
			}
			cfg, err := clientcmd.Load([]byte(out))
			if err != nil || len(cfg.Clusters) == 0 {
				return false, nil
			}
			kubeconfig = out
			return true, nil
		})
	if err != nil {
		return "", fmt.Errorf("admin kubeconfig did not materialize within %s: %w", timeout, err)
	}
	return kubeconfig, nil
}

// validateConfig rejects a k0s config file that is not parseable YAML
// before it reaches the controller.
func validateConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read k0s config: %w", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse k0s config %s: %w", path, err)
	}
	return nil
}
