package buildtool

import (
	"sort"
)

// PathMapper translates host paths into the paths the tool sees
type PathMapper func(string) string

func identity(p string) string { return p }

// ConfigureArgs returns the cmake arguments of the configure step
func ConfigureArgs(p *Project, path PathMapper) []string {
	if path == nil {
		path = identity
	}
	args := []string{"-S", path(p.SourceDir), "-B", path(p.BuildDir)}
	if p.ToolchainFile != "" {
		args = append(args, "-DCMAKE_TOOLCHAIN_FILE="+path(p.ToolchainFile))
	}
	if p.GeneratorsDir != "" {
		args = append(args, "-DCMAKE_PREFIX_PATH="+path(p.GeneratorsDir))
	}
	if p.BuildType != "" {
		args = append(args, "-DCMAKE_BUILD_TYPE="+p.BuildType)
	}

	keys := make([]string, 0, len(p.Variables))
	for k := range p.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-D"+k+"="+p.Variables[k])
	}
	return args
}

// BuildArgs returns the cmake arguments of the build step
func BuildArgs(p *Project, path PathMapper) []string {
	if path == nil {
		path = identity
	}
	args := []string{"--build", path(p.BuildDir)}
	if p.BuildType != "" {
		args = append(args, "--config", p.BuildType)
	}
	return args
}

// TestArgs returns the ctest arguments of the test step
func TestArgs(p *Project, verbose bool, path PathMapper) []string {
	if path == nil {
		path = identity
	}
	args := []string{"--test-dir", path(p.BuildDir)}
	if p.BuildType != "" {
		args = append(args, "-C", p.BuildType)
	}
	if verbose {
		args = append(args, "-V")
	}
	return args
}

// InstallArgs returns the cmake arguments of the install step
func InstallArgs(p *Project, path PathMapper) []string {
	if path == nil {
		path = identity
	}
	args := []string{"--install", path(p.BuildDir)}
	if p.BuildType != "" {
		args = append(args, "--config", p.BuildType)
	}
	return append(args, "--prefix", path(p.InstallDir))
}
