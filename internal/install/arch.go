package install

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Architecture is a canonical k0s binary architecture token.
type Architecture string

const (
	// ArchAMD64 covers x86_64 hosts.
	ArchAMD64 Architecture = "amd64"

	// ArchARM64 covers aarch64 hosts.
	ArchARM64 Architecture = "arm64"

	// ArchARM covers 32-bit armv7l hosts.
	ArchARM Architecture = "arm"
)

// String returns the token used in release asset names.
func (a Architecture) String() string {
	return string(a)
}

// UnsupportedArchitectureError reports a kernel machine name with no k0s
// binary. It is fatal; there is no fallback architecture.
type UnsupportedArchitectureError struct {
	Reported string
}

func (e *UnsupportedArchitectureError) Error() string {
	return fmt.Sprintf("unsupported machine architecture %q", e.Reported)
}

// DetectArchitecture asks the kernel for the machine name and maps it to a
// binary architecture token.
func DetectArchitecture() (Architecture, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", fmt.Errorf("uname: %w", err)
	}
	return MapArchitecture(unix.ByteSliceToString(uts.Machine[:]))
}

// MapArchitecture maps a kernel-reported machine name to the token used in
// k0s release assets. The mapping is total over the supported set; anything
// else is an UnsupportedArchitectureError.
func MapArchitecture(machine string) (Architecture, error) {
	switch machine {
	case "x86_64":
		return ArchAMD64, nil
	case "aarch64", "arm64":
		return ArchARM64, nil
	case "armv7l":
		return ArchARM, nil
	default:
		return "", &UnsupportedArchitectureError{Reported: machine}
	}
}
