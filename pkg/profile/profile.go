// Package profile loads build profiles: YAML files holding the platform
// settings and option overrides of a build.
//
//	settings:
//	  os: Linux
//	  compiler: gcc
//	  build_type: Debug
//	  arch: x86_64
//	options:
//	  build_examples: True
package profile

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/xviz-recipe/pkg/options"
)

// ErrInvalidProfile is returned when a profile cannot be parsed
var ErrInvalidProfile = errors.New("invalid profile")

// Profile holds settings and raw option overrides
type Profile struct {
	Settings options.Settings  `yaml:"settings"`
	Options  map[string]string `yaml:"options,omitempty"`
}

// Load reads a profile from path
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a YAML profile
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	if _, err := p.Overrides(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Marshal encodes the profile as YAML
func (p *Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

var archNames = map[string]string{
	"amd64": "x86_64",
	"386":   "x86",
	"arm64": "armv8",
	"arm":   "armv7",
}

var hostOS = map[string]struct{ os, compiler string }{
	"linux":   {options.OSLinux, "gcc"},
	"darwin":  {options.OSMacos, "apple-clang"},
	"windows": {options.OSWindows, "msvc"},
	"freebsd": {options.OSFreeBSD, "clang"},
}

// Detect returns a Release profile for the host platform
func Detect() *Profile {
	return detect(runtime.GOOS, runtime.GOARCH)
}

func detect(goos, goarch string) *Profile {
	host, ok := hostOS[goos]
	if !ok {
		host.os, host.compiler = goos, "gcc"
	}
	arch, ok := archNames[goarch]
	if !ok {
		arch = goarch
	}
	return &Profile{
		Settings: options.Settings{
			OS:        host.os,
			Compiler:  host.compiler,
			BuildType: options.BuildTypeRelease,
			Arch:      arch,
		},
	}
}

// WithSettings returns a copy with "key=value" settings applied
func (p *Profile) WithSettings(assignments []string) (*Profile, error) {
	out := p.clone()
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidProfile, a)
		}
		s, err := out.Settings.Set(key, value)
		if err != nil {
			return nil, err
		}
		out.Settings = s
	}
	return out, nil
}

// WithOptions returns a copy with "name=value" option overrides applied
func (p *Profile) WithOptions(assignments []string) (*Profile, error) {
	out := p.clone()
	for _, a := range assignments {
		name, value, err := options.ParseOverride(a)
		if err != nil {
			return nil, err
		}
		out.Options[name] = options.FormatBool(value)
	}
	return out, nil
}

// Merge returns a copy of p overlaid with the non-empty settings and all
// options of other
func (p *Profile) Merge(other *Profile) *Profile {
	out := p.clone()
	if other == nil {
		return out
	}
	if other.Settings.OS != "" {
		out.Settings.OS = other.Settings.OS
	}
	if other.Settings.Compiler != "" {
		out.Settings.Compiler = other.Settings.Compiler
	}
	if other.Settings.BuildType != "" {
		out.Settings.BuildType = other.Settings.BuildType
	}
	if other.Settings.Arch != "" {
		out.Settings.Arch = other.Settings.Arch
	}
	for k, v := range other.Options {
		out.Options[k] = v
	}
	return out
}

// Overrides parses the option values. Names are not checked here; the
// recipe schema rejects unknown ones.
func (p *Profile) Overrides() (map[string]bool, error) {
	names := make([]string, 0, len(p.Options))
	for k := range p.Options {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make(map[string]bool, len(names))
	for _, name := range names {
		v, err := options.ParseBool(p.Options[name])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, options.NewInvalidOptionValueError(name, p.Options[name]))
		}
		out[name] = v
	}
	return out, nil
}

func (p *Profile) clone() *Profile {
	out := &Profile{Settings: p.Settings, Options: make(map[string]string, len(p.Options))}
	for k, v := range p.Options {
		out.Options[k] = v
	}
	return out
}
