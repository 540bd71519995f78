// Package k8s wraps the typed Kubernetes API calls behind the readiness
// layers: API reachability, node readiness, and system pod health.
package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// systemNamespace holds the control-plane workloads a single-node k0s
// cluster must run before it is usable.
const systemNamespace = "kube-system"

// Client wraps the cluster API operations used by the readiness poller.
type Client struct {
	clientset kubernetes.Interface
}

// NewClient creates a client from a kubeconfig file.
func NewClient(kubeconfigPath string) (*Client, error) {
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	return &Client{clientset: clientset}, nil
}

// NewFromClientset wraps an existing clientset. Used by tests to inject a
// fake API.
func NewFromClientset(clientset kubernetes.Interface) *Client {
	return &Client{clientset: clientset}
}

// ServerReachable pings the API server. Any discovery failure means the
// server is not usable yet.
func (c *Client) ServerReachable(_ context.Context) error {
	if _, err := c.clientset.Discovery().ServerVersion(); err != nil {
		return fmt.Errorf("api server unreachable: %w", err)
	}
	return nil
}

// NodesReady reports whether every registered node carries the Ready
// condition. An empty node list is not ready; a failed list is an error,
// never a pass.
func (c *Client) NodesReady(ctx context.Context) (bool, error) {
	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to list nodes: %w", err)
	}

	if len(nodes.Items) == 0 {
		return false, nil
	}

	for _, node := range nodes.Items {
		if !isNodeReady(&node) {
			return false, nil
		}
	}
	return true, nil
}

// SystemPodsHealthy reports whether every pod in the system namespace is
// Running or has Completed. An empty pod list is not healthy; a failed
// list is an error, never a pass.
func (c *Client) SystemPodsHealthy(ctx context.Context) (bool, error) {
	pods, err := c.clientset.CoreV1().Pods(systemNamespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to list %s pods: %w", systemNamespace, err)
	}

	if len(pods.Items) == 0 {
		return false, nil
	}

	for _, pod := range pods.Items {
		if !isPodHealthy(&pod) {
			return false, nil
		}
	}
	return true, nil
}

// isNodeReady checks the node's Ready condition.
func isNodeReady(node *corev1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

// isPodHealthy accepts running and completed pods.
func isPodHealthy(pod *corev1.Pod) bool {
	return pod.Status.Phase == corev1.PodRunning ||
		pod.Status.Phase == corev1.PodSucceeded
}
