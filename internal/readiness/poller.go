// Package readiness decides when the cluster is usable: a bounded poll over
// layered health checks, with a diagnostics dump on timeout.
package readiness

import (
	"context"
	"fmt"
	"log"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// defaultInterval is the pause between poll cycles.
const defaultInterval = 5 * time.Second

// Probes supplies the health check behind each readiness layer. Layers are
// ordered; a later probe is only meaningful when the earlier ones hold.
type Probes interface {
	// ServiceUp reports whether the k0s service answers at all.
	ServiceUp(ctx context.Context) bool

	// APIReachable reports whether the API server answers requests.
	APIReachable(ctx context.Context) error

	// NodesReady reports whether every node carries the Ready condition.
	// A listing failure is an error, never a pass.
	NodesReady(ctx context.Context) (bool, error)

	// SystemPodsHealthy reports whether every system pod is Running or
	// Completed. A listing failure is an error, never a pass.
	SystemPodsHealthy(ctx context.Context) (bool, error)
}

// TimeoutError reports that the cluster never became ready within the
// deadline. Diagnostics have already been attempted when it surfaces.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("cluster did not become ready within %s", e.Timeout)
}

// Poller re-evaluates the readiness chain until it holds in full or the
// deadline passes. It is strictly sequential; no two probes run
// concurrently.
type Poller struct {
	Probes Probes

	// Interval between cycles. Defaults to 5s.
	Interval time.Duration

	// Diagnostics is invoked exactly once when the deadline passes. It is
	// best-effort; it never replaces the timeout error.
	Diagnostics func(ctx context.Context)
}

// Wait polls until every layer passes within a single cycle or the timeout
// elapses. The first cycle probes right away; later cycles run once per
// interval. A non-positive timeout has already expired, so it dumps
// diagnostics and returns a TimeoutError without running a single probe.
func (p *Poller) Wait(ctx context.Context, timeout time.Duration) error {
	interval := p.Interval
	if interval == 0 {
		interval = defaultInterval
	}

	if timeout <= 0 {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if p.Diagnostics != nil {
			p.Diagnostics(ctx)
		}
		return &TimeoutError{Timeout: timeout}
	}

	start := time.Now()
	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true,
		func(ctx context.Context) (bool, error) {
			return p.evaluate(ctx, time.Since(start)), nil
		})
	if err == nil {
		log.Printf("cluster ready after %s", time.Since(start).Round(time.Second))
		return nil
	}

	// An outer cancellation is not a readiness timeout.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if p.Diagnostics != nil {
		p.Diagnostics(ctx)
	}
	return &TimeoutError{Timeout: timeout}
}

// evaluate runs one poll cycle: the full chain from the first layer, short-
// circuiting on the first failure. Nothing carries over between cycles, so
// a transient regression is re-detected instead of masked.
func (p *Poller) evaluate(ctx context.Context, elapsed time.Duration) bool {
	elapsed = elapsed.Round(time.Second)

	if !p.Probes.ServiceUp(ctx) {
		log.Printf("k0s service not up yet (%s elapsed)", elapsed)
		return false
	}

	if err := p.Probes.APIReachable(ctx); err != nil {
		log.Printf("api server not reachable yet (%s elapsed): %v", elapsed, err)
		return false
	}

	ready, err := p.Probes.NodesReady(ctx)
	if err != nil {
		log.Printf("listing nodes failed (%s elapsed): %v", elapsed, err)
		return false
	}
	if !ready {
		log.Printf("nodes not ready yet (%s elapsed)", elapsed)
		return false
	}

	healthy, err := p.Probes.SystemPodsHealthy(ctx)
	if err != nil {
		log.Printf("listing system pods failed (%s elapsed): %v", elapsed, err)
		return false
	}
	if !healthy {
		log.Printf("system pods not healthy yet (%s elapsed)", elapsed)
		return false
	}

	return true
}
