package requirements

import (
	"sort"
	"strings"
)

// Requirement is a dependency with its pinned reference and the sub-option
// overrides written onto it. It is not modified after Build returns it.
type Requirement struct {
	Ref     Reference         `yaml:"ref" json:"ref"`
	Options map[string]string `yaml:"options,omitempty" json:"options,omitempty"`
}

// Name returns the dependency name
func (r Requirement) Name() string {
	return r.Ref.Name
}

// Option returns the override for key
func (r Requirement) Option(key string) (string, bool) {
	v, ok := r.Options[key]
	return v, ok
}

// OptionKeys returns the override keys in sorted order
func (r Requirement) OptionKeys() []string {
	keys := make([]string, 0, len(r.Options))
	for k := range r.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the requirement as "ref key=value ..." with sorted keys
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Ref.String())
	for _, k := range r.OptionKeys() {
		b.WriteString(" ")
		b.WriteString(r.Ref.Name)
		b.WriteString(":")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(r.Options[k])
	}
	return b.String()
}

// Override forces Value onto option Key of dependency Package
type Override struct {
	Package string
	Key     string
	Value   string
}
