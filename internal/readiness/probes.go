package readiness

import (
	"context"

	"github.com/imamik/setup-k0s/internal/execx"
	"github.com/imamik/setup-k0s/internal/k8s"
)

// ClusterProbes implements Probes against a running k0s controller: the
// service layer through the k0s binary, the rest through the typed API.
type ClusterProbes struct {
	Runner execx.Runner
	Client *k8s.Client
}

// ServiceUp probes `k0s status` silently; the exit code is the only signal.
func (p *ClusterProbes) ServiceUp(ctx context.Context) bool {
	return p.Runner.Probe(ctx, "sudo", "k0s", "status")
}

// APIReachable pings the API server through discovery.
func (p *ClusterProbes) APIReachable(ctx context.Context) error {
	return p.Client.ServerReachable(ctx)
}

// NodesReady checks the Ready condition on every node.
func (p *ClusterProbes) NodesReady(ctx context.Context) (bool, error) {
	return p.Client.NodesReady(ctx)
}

// SystemPodsHealthy checks every pod in the system namespace.
func (p *ClusterProbes) SystemPodsHealthy(ctx context.Context) (bool, error) {
	return p.Client.SystemPodsHealthy(ctx)
}
