package handlers

import (
	"context"

	"github.com/imamik/setup-k0s/internal/action"
)

// Teardown handles the post phase. It is a no-op unless the main phase
// recorded its run marker. Each cleanup step is best-effort: failures are
// logged as warnings so a half-installed cluster is still unwound as far
// as possible.
func Teardown(ctx context.Context) error {
	actx := action.New()

	if !actx.SetupStarted() {
		actx.Infof("setup never started, nothing to tear down")
		return nil
	}

	runner := newRunner()

	steps := []struct {
		desc string
		name string
		args []string
	}{
		{"stop controller service", "sudo", []string{"k0s", "stop"}},
		{"reset k0s state", "sudo", []string{"k0s", "reset"}},
		{"remove k0s binary", "sudo", []string{"rm", "-f", "/usr/local/bin/k0s"}},
	}

	for _, step := range steps {
		if err := runner.Run(ctx, step.name, step.args...); err != nil {
			actx.Warningf("%s: %v", step.desc, err)
		}
	}

	actx.Infof("teardown complete")
	return nil
}
