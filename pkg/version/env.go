package version

import (
	"context"
	"os"
	"strings"
)

// EnvResolver reads the exact version from an environment variable. There is
// no fallback: a consumer run against an undefined version is meaningless.
type EnvResolver struct {
	Key    string
	Lookup func(key string) (string, bool)
}

// NewEnvResolver creates a resolver reading key from the process environment
func NewEnvResolver(key string) *EnvResolver {
	if key == "" {
		key = DefaultOverrideEnv
	}
	return &EnvResolver{Key: key, Lookup: os.LookupEnv}
}

// Resolve returns the override or ErrMissingVersionOverride
func (r *EnvResolver) Resolve(ctx context.Context) (Result, error) {
	lookup := r.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	value, ok := lookup(r.Key)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return Result{}, NewMissingVersionOverrideError(r.Key)
	}

	return Result{Version: value, Method: MethodEnvironmentOverride}, nil
}
