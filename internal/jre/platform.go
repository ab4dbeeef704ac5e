package jre

import (
	"path/filepath"
	"runtime"
)

// Platform identifies an operating system and architecture in the naming
// scheme the runtime API uses, which differs from Go's GOOS/GOARCH.
type Platform struct {
	OS   string
	Arch string
}

// HostPlatform returns the Platform of the running process.
func HostPlatform() Platform {
	return Platform{
		OS:   runtimeOS(runtime.GOOS),
		Arch: runtimeArch(runtime.GOARCH),
	}
}

func runtimeOS(goos string) string {
	if goos == "darwin" {
		return "mac"
	}
	return goos
}

func runtimeArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "arm64":
		return "aarch64"
	case "386":
		return "x86"
	default:
		return goarch
	}
}

// javaRelPath returns the path of the java executable relative to the
// extracted runtime root. macOS packages nest the actual runtime under an
// application bundle skeleton.
func (p Platform) javaRelPath() string {
	switch p.OS {
	case "windows":
		return filepath.Join("bin", "java.exe")
	case "mac":
		return filepath.Join("Contents", "Home", "bin", "java")
	default:
		return filepath.Join("bin", "java")
	}
}

func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}
