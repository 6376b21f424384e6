package options

import (
	"fmt"
	"strings"
)

// Operating systems understood by the pruning rules and toolchain descriptor
const (
	OSLinux   = "Linux"
	OSWindows = "Windows"
	OSMacos   = "Macos"
	OSFreeBSD = "FreeBSD"
)

// Build types
const (
	BuildTypeDebug          = "Debug"
	BuildTypeRelease        = "Release"
	BuildTypeRelWithDebInfo = "RelWithDebInfo"
	BuildTypeMinSizeRel     = "MinSizeRel"
)

// Settings holds the platform facts of a resolution pass
type Settings struct {
	OS        string `yaml:"os" json:"os"`
	Compiler  string `yaml:"compiler" json:"compiler"`
	BuildType string `yaml:"build_type" json:"build_type"`
	Arch      string `yaml:"arch" json:"arch"`
}

// IsWindows reports whether the target OS is Windows
func (s Settings) IsWindows() bool {
	return s.OS == OSWindows
}

// IsDebug reports whether the build type is the debugging profile
func (s Settings) IsDebug() bool {
	return s.BuildType == BuildTypeDebug
}

// Set assigns a single setting by its key (os, compiler, build_type, arch)
func (s Settings) Set(key, value string) (Settings, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "os":
		s.OS = value
	case "compiler":
		s.Compiler = value
	case "build_type":
		s.BuildType = value
	case "arch":
		s.Arch = value
	default:
		return s, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return s, nil
}

// Validate checks that every setting has a value
func (s Settings) Validate() error {
	if s.OS == "" {
		return NewMissingSettingError("os")
	}
	if s.Compiler == "" {
		return NewMissingSettingError("compiler")
	}
	if s.BuildType == "" {
		return NewMissingSettingError("build_type")
	}
	if s.Arch == "" {
		return NewMissingSettingError("arch")
	}
	return nil
}

func (s Settings) String() string {
	return fmt.Sprintf("os=%s compiler=%s build_type=%s arch=%s", s.OS, s.Compiler, s.BuildType, s.Arch)
}
