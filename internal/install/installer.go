// Package install downloads the k0s binary matching the host and places it
// in the system binary location.
package install

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/imamik/setup-k0s/internal/execx"
)

const (
	// defaultBinDir is where the verified binary is installed.
	defaultBinDir = "/usr/local/bin"

	// scratchName is the single fixed download path under the system temp
	// directory. It is removed after every run, successful or not.
	scratchName = "k0s-download"

	// versionLatest triggers release resolution.
	versionLatest = "latest"
)

// Request captures one resolved installation. ResolvedVersion and
// DownloadURL are fixed at Resolve time and never recomputed.
type Request struct {
	VersionSpec     string
	Arch            Architecture
	ResolvedVersion string
	DownloadURL     string
}

// Installer resolves and installs the k0s binary.
type Installer struct {
	Runner   execx.Runner
	Resolver ReleaseResolver

	// Client is used to fetch the release asset. Defaults to
	// http.DefaultClient.
	Client *http.Client

	// BinDir is the install destination. Defaults to /usr/local/bin.
	BinDir string

	// DetectArch overrides host architecture detection in tests.
	DetectArch func() (Architecture, error)
}

// DownloadURL constructs the deterministic release asset URL for a version
// and architecture.
func DownloadURL(version string, arch Architecture) string {
	return fmt.Sprintf("https://github.com/k0sproject/k0s/releases/download/%s/k0s-%s-%s",
		version, version, arch)
}

// Resolve detects the host architecture and pins the version to install.
// Architecture failures abort before any network call is made.
func (i *Installer) Resolve(ctx context.Context, versionSpec string) (*Request, error) {
	detect := i.DetectArch
	if detect == nil {
		detect = DetectArchitecture
	}

	arch, err := detect()
	if err != nil {
		return nil, err
	}

	version := versionSpec
	if version == versionLatest {
		version, err = i.Resolver.LatestVersion(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve k0s version: %w", err)
		}
		log.Printf("resolved %s to %s", versionLatest, version)
	}

	return &Request{
		VersionSpec:     versionSpec,
		Arch:            arch,
		ResolvedVersion: version,
		DownloadURL:     DownloadURL(version, arch),
	}, nil
}

// Install downloads the pinned binary, moves it into place with elevated
// privileges, and verifies it runs. Nothing at this layer is retried; any
// step failure aborts the install.
func (i *Installer) Install(ctx context.Context, req *Request) error {
	scratch := filepath.Join(os.TempDir(), scratchName)
	if err := i.download(ctx, req.DownloadURL, scratch); err != nil {
		return fmt.Errorf("download k0s %s: %w", req.ResolvedVersion, err)
	}
	defer os.Remove(scratch)

	target := filepath.Join(i.binDir(), "k0s")
	if err := i.Runner.Run(ctx, "sudo", "install", "-m", "0755", scratch, target); err != nil {
		return fmt.Errorf("install k0s binary: %w", err)
	}

	version, err := i.Runner.Output(ctx, target, "version")
	if err != nil {
		return fmt.Errorf("verify k0s binary: %w", err)
	}
	log.Printf("installed k0s %s", version)

	return nil
}

func (i *Installer) download(ctx context.Context, url, dest string) error {
	client := i.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return f.Close()
}

func (i *Installer) binDir() string {
	if i.BinDir != "" {
		return i.BinDir
	}
	return defaultBinDir
}
