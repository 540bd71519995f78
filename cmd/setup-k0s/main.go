// Package main is the entry point for the setup-k0s CLI.
//
// setup-k0s provisions a single-node k0s cluster inside an ephemeral CI
// runner, publishes the admin kubeconfig to later steps, and tears the
// installation down again in the paired post phase.
//
// Commands: setup, teardown, version.
package main

import (
	"fmt"
	"os"

	"github.com/imamik/setup-k0s/cmd/setup-k0s/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
