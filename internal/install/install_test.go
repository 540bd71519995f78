package install

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapArchitecture(t *testing.T) {
	t.Parallel()

	tests := []struct {
		machine string
		want    Architecture
		wantErr bool
	}{
		{machine: "x86_64", want: ArchAMD64},
		{machine: "aarch64", want: ArchARM64},
		{machine: "arm64", want: ArchARM64},
		{machine: "armv7l", want: ArchARM},
		{machine: "i686", wantErr: true},
		{machine: "riscv64", wantErr: true},
		{machine: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.machine, func(t *testing.T) {
			t.Parallel()
			got, err := MapArchitecture(tt.machine)
			if tt.wantErr {
				var unsupported *UnsupportedArchitectureError
				require.ErrorAs(t, err, &unsupported)
				assert.Equal(t, tt.machine, unsupported.Reported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDownloadURL(t *testing.T) {
	t.Parallel()

	url := DownloadURL("v1.30.0+k0s.0", ArchAMD64)
	assert.Equal(t,
		"https://github.com/k0sproject/k0s/releases/download/v1.30.0+k0s.0/k0s-v1.30.0+k0s.0-amd64",
		url)
}

// countingResolver returns a fixed tag and counts how often it is asked.
type countingResolver struct {
	tag   string
	calls int
}

func (r *countingResolver) LatestVersion(context.Context) (string, error) {
	r.calls++
	return r.tag, nil
}

func TestResolvePinsExplicitVersion(t *testing.T) {
	t.Parallel()

	resolver := &countingResolver{tag: "v9.9.9+k0s.0"}
	inst := &Installer{
		Resolver:   resolver,
		DetectArch: func() (Architecture, error) { return ArchAMD64, nil },
	}

	req, err := inst.Resolve(context.Background(), "v1.30.0+k0s.0")
	require.NoError(t, err)

	assert.Equal(t, "v1.30.0+k0s.0", req.ResolvedVersion)
	assert.Contains(t, req.DownloadURL, "v1.30.0+k0s.0")
	assert.Equal(t, ArchAMD64, req.Arch)
	assert.Zero(t, resolver.calls, "explicit versions must not hit the release API")
}

func TestResolveLatestResolvesExactlyOnce(t *testing.T) {
	t.Parallel()

	resolver := &countingResolver{tag: "v1.31.2+k0s.0"}
	inst := &Installer{
		Resolver:   resolver,
		DetectArch: func() (Architecture, error) { return ArchARM64, nil },
	}

	req, err := inst.Resolve(context.Background(), "latest")
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, "v1.31.2+k0s.0", req.ResolvedVersion)

	// Upstream "latest" moving after resolution must not change the pin.
	resolver.tag = "v1.32.0+k0s.0"
	assert.Contains(t, req.DownloadURL, "v1.31.2+k0s.0")
}

func TestResolveUnsupportedArchFailsBeforeResolution(t *testing.T) {
	t.Parallel()

	resolver := &countingResolver{tag: "v1.31.2+k0s.0"}
	inst := &Installer{
		Resolver:   resolver,
		DetectArch: func() (Architecture, error) { return MapArchitecture("s390x") },
	}

	_, err := inst.Resolve(context.Background(), "latest")

	var unsupported *UnsupportedArchitectureError
	require.ErrorAs(t, err, &unsupported)
	assert.Zero(t, resolver.calls, "no network call may precede the architecture check")
}

// fakeRunner records invocations and fails commands listed in failOn.
type fakeRunner struct {
	calls  [][]string
	failOn string
}

func (f *fakeRunner) record(name string, args []string) []string {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	return call
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	call := f.record(name, args)
	if f.failOn != "" && strings.Contains(strings.Join(call, " "), f.failOn) {
		return fmt.Errorf("%s: %w", name, errors.New("exit status 1"))
	}
	return nil
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	call := f.record(name, args)
	if f.failOn != "" && strings.Contains(strings.Join(call, " "), f.failOn) {
		return "", errors.New("exit status 1")
	}
	return "v1.30.0+k0s.0", nil
}

func (f *fakeRunner) Probe(_ context.Context, name string, args ...string) bool {
	f.record(name, args)
	return true
}

func TestInstallDownloadsAndVerifies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "fake-binary")
	}))
	defer server.Close()

	t.Setenv("TMPDIR", t.TempDir())

	runner := &fakeRunner{}
	inst := &Installer{Runner: runner, BinDir: "/usr/local/bin"}
	req := &Request{ResolvedVersion: "v1.30.0+k0s.0", Arch: ArchAMD64, DownloadURL: server.URL + "/k0s"}

	require.NoError(t, inst.Install(context.Background(), req))

	require.Len(t, runner.calls, 2)
	assert.Equal(t, "sudo", runner.calls[0][0])
	assert.Contains(t, runner.calls[0], "install")
	assert.Contains(t, runner.calls[0], "/usr/local/bin/k0s")
	assert.Equal(t, []string{"/usr/local/bin/k0s", "version"}, runner.calls[1])

	// Scratch file is removed unconditionally.
	_, err := os.Stat(filepath.Join(os.TempDir(), scratchName))
	assert.True(t, os.IsNotExist(err))
}

func TestInstallVerifiesInstalledTarget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "fake-binary")
	}))
	defer server.Close()

	t.Setenv("TMPDIR", t.TempDir())

	runner := &fakeRunner{}
	inst := &Installer{Runner: runner, BinDir: "/opt/bin"}
	req := &Request{ResolvedVersion: "v1.30.0+k0s.0", DownloadURL: server.URL + "/k0s"}

	require.NoError(t, inst.Install(context.Background(), req))

	// Verification must run the binary that was just installed, not
	// whatever k0s happens to be on PATH.
	require.Len(t, runner.calls, 2)
	assert.Contains(t, runner.calls[0], "/opt/bin/k0s")
	assert.Equal(t, []string{"/opt/bin/k0s", "version"}, runner.calls[1])
}

func TestInstallScratchRemovedOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "fake-binary")
	}))
	defer server.Close()

	t.Setenv("TMPDIR", t.TempDir())

	runner := &fakeRunner{failOn: "sudo install"}
	inst := &Installer{Runner: runner}
	req := &Request{ResolvedVersion: "v1.30.0+k0s.0", DownloadURL: server.URL + "/k0s"}

	err := inst.Install(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "install k0s binary")

	_, statErr := os.Stat(filepath.Join(os.TempDir(), scratchName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInstallRejectsMissingAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	inst := &Installer{Runner: &fakeRunner{}}
	req := &Request{ResolvedVersion: "v0.0.0", DownloadURL: server.URL + "/missing"}

	err := inst.Install(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
