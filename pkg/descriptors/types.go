package descriptors

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/platinummonkey/xviz-recipe/pkg/recipe"
)

// File is a single generated descriptor
type File struct {
	Path    string // Relative path within the generators directory
	Content []byte
}

// Generator renders descriptors for the external build tool
type Generator interface {
	// Generate renders the descriptors for a resolution
	Generate(req *Request) ([]File, error)

	// Name returns the name of the generator
	Name() string

	// Files returns the paths this generator writes for a recipe
	Files(recipeName string) []string
}

// Request is the input of every generator
type Request struct {
	Resolution *recipe.Resolution
	// Variables are the build-system variables of the pass
	Variables map[string]string
}

// Registry manages descriptor generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// DefaultRegistry holds the dependency, lockfile and toolchain generators
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewDependencyGenerator())
	r.Register(NewLockfileGenerator())
	r.Register(NewToolchainGenerator())
	return r
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.Name()] = gen
}

// Get retrieves a generator by name
func (r *Registry) Get(name string) (Generator, error) {
	gen, ok := r.generators[name]
	if !ok {
		return nil, NewGeneratorNotFoundError(name)
	}
	return gen, nil
}

// Names returns the registered generator names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate runs every generator in name order
func (r *Registry) Generate(req *Request) ([]File, error) {
	if req == nil || req.Resolution == nil {
		return nil, NewMissingRequiredFieldError("resolution")
	}

	var files []File
	for _, name := range r.Names() {
		out, err := r.generators[name].Generate(req)
		if err != nil {
			return nil, fmt.Errorf("generator %s: %w", name, err)
		}
		files = append(files, out...)
	}
	return files, nil
}

// Write stores files below dir, creating it if needed, and returns their
// paths. Files whose content is already on disk are left untouched so the
// native build tool does not see a newer timestamp.
func Write(dir string, files []File) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
		if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, f.Content) {
			paths = append(paths, path)
			continue
		}
		if err := os.WriteFile(path, f.Content, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
