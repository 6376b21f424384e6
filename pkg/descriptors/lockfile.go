package descriptors

import (
	"gopkg.in/yaml.v3"
)

// LockfileName is the machine-readable dependency descriptor
const LockfileName = "dependencies.lock.yaml"

// Lockfile lists the resolved requirements of a pass
type Lockfile struct {
	Package  string            `yaml:"package"`
	Settings map[string]string `yaml:"settings"`
	Options  map[string]bool   `yaml:"options"`
	Requires []LockedRequire   `yaml:"requires"`
}

// LockedRequire is one entry of the lockfile
type LockedRequire struct {
	Ref     string            `yaml:"ref"`
	Name    string            `yaml:"name"`
	Version string            `yaml:"version"`
	Options map[string]string `yaml:"options,omitempty"`
}

// LockfileGenerator writes dependencies.lock.yaml
type LockfileGenerator struct{}

// NewLockfileGenerator creates a lockfile generator
func NewLockfileGenerator() *LockfileGenerator {
	return &LockfileGenerator{}
}

// Name returns the name of the generator
func (g *LockfileGenerator) Name() string {
	return "lockfile"
}

// Files returns the paths this generator writes
func (g *LockfileGenerator) Files(string) []string {
	return []string{LockfileName}
}

// Generate renders the lockfile. yaml.v3 sorts map keys, which keeps the
// output byte-stable.
func (g *LockfileGenerator) Generate(req *Request) ([]File, error) {
	res := req.Resolution
	s := res.Config.Settings

	lock := Lockfile{
		Package: res.Reference().String(),
		Settings: map[string]string{
			"os":         s.OS,
			"compiler":   s.Compiler,
			"build_type": s.BuildType,
			"arch":       s.Arch,
		},
		Options:  res.Config.Options.Map(),
		Requires: make([]LockedRequire, 0, len(res.Requirements)),
	}
	for _, r := range res.Requirements {
		lock.Requires = append(lock.Requires, LockedRequire{
			Ref:     r.Ref.String(),
			Name:    r.Ref.Name,
			Version: r.Ref.Version,
			Options: r.Options,
		})
	}

	out, err := yaml.Marshal(&lock)
	if err != nil {
		return nil, NewTemplateExecutionFailedError(LockfileName, err)
	}
	return []File{{Path: LockfileName, Content: out}}, nil
}

// ReadLockfile parses a lockfile written by LockfileGenerator
func ReadLockfile(data []byte) (*Lockfile, error) {
	var lock Lockfile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	return &lock, nil
}
