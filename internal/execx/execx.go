// Package execx runs the external tools this action orchestrates
// (k0s, kubectl, sudo, journalctl).
package execx

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external commands. Three modes cover every call site:
// Run escalates failures, Output captures stdout, Probe only reports the
// exit signal and stays silent.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) (string, error)
	Probe(ctx context.Context, name string, args ...string) bool
}

// Exec is the Runner backed by os/exec. All invocations are synchronous.
type Exec struct{}

// Run executes a command, streaming its output to the process logs.
// A non-zero exit is returned as an error naming the command.
func (Exec) Run(ctx context.Context, name string, args ...string) error {
	log.Printf("+ %s %s", name, strings.Join(args, " "))

	// #nosec G204 -- arguments are assembled from trusted constants and inputs
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// Output executes a command and returns its trimmed stdout. On failure the
// error carries the command's stderr.
func (Exec) Output(ctx context.Context, name string, args ...string) (string, error) {
	// #nosec G204 -- arguments are assembled from trusted constants and inputs
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Probe executes a command silently. The exit code is the only signal;
// output is discarded and a non-zero exit is not an error.
func (Exec) Probe(ctx context.Context, name string, args ...string) bool {
	// #nosec G204 -- arguments are assembled from trusted constants and inputs
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Run() == nil
}
