package version

import "context"

// DefaultVersion is used when no exact tag can be found at the current revision
const DefaultVersion = "0.0.1"

// DefaultOverrideEnv is the environment variable read by EnvResolver
const DefaultOverrideEnv = "XVIZ_CI_VERSION"

// Method describes how a version was obtained
type Method string

const (
	MethodVCSTag              Method = "vcs-tag"
	MethodStaticFallback      Method = "static-fallback"
	MethodEnvironmentOverride Method = "environment-override"
	MethodExplicit            Method = "explicit"
)

// Result is a resolved version and the method used to obtain it
type Result struct {
	Version string `yaml:"version" json:"version"`
	Method  Method `yaml:"method" json:"method"`
}

// Resolver resolves the version of a package for one resolution pass
type Resolver interface {
	Resolve(ctx context.Context) (Result, error)
}

// StaticResolver always returns a fixed version
type StaticResolver struct {
	Version string
}

// Resolve returns the configured version
func (r StaticResolver) Resolve(ctx context.Context) (Result, error) {
	if r.Version == "" {
		return Result{}, ErrEmptyVersion
	}
	return Result{Version: r.Version, Method: MethodExplicit}, nil
}
