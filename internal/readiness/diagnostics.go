package readiness

import (
	"context"
	"log"

	"github.com/imamik/setup-k0s/internal/execx"
)

// Diagnostics dumps cluster state when readiness times out. Every probe is
// best-effort and independent; one failing never stops the others, and no
// failure here ever masks the timeout itself.
type Diagnostics struct {
	Runner execx.Runner

	// Kubeconfig is passed to kubectl for the API-side dumps.
	Kubeconfig string
}

// Dump collects and logs service status, recent service logs, cluster-info,
// the node list, and the pod list.
func (d *Diagnostics) Dump(ctx context.Context) {
	probes := []struct {
		desc string
		name string
		args []string
	}{
		{"k0s status", "sudo", []string{"k0s", "status"}},
		{"controller logs", "sudo", []string{"journalctl", "-u", "k0scontroller", "--no-pager", "-n", "100"}},
		{"cluster-info", "kubectl", []string{"--kubeconfig", d.Kubeconfig, "cluster-info"}},
		{"nodes", "kubectl", []string{"--kubeconfig", d.Kubeconfig, "get", "nodes", "-o", "wide"}},
		{"pods", "kubectl", []string{"--kubeconfig", d.Kubeconfig, "get", "pods", "-A", "-o", "wide"}},
	}

	log.Printf("=== readiness diagnostics ===")
	for _, probe := range probes {
		out, err := d.Runner.Output(ctx, probe.name, probe.args...)
		if err != nil {
			log.Printf("Warning: diagnostic %s failed: %v", probe.desc, err)
			continue
		}
		log.Printf("%s:\n%s", probe.desc, out)
	}
}
