package requirements

import (
	"github.com/platinummonkey/xviz-recipe/pkg/options"
)

// Context carries pass-wide facts that some rules depend on
type Context struct {
	// CI is true when the build runs as part of CI validation
	CI bool
	// Version is the resolved version of the package being built
	Version string
}

// Contribution is what one rule adds to the graph
type Contribution struct {
	Requires  []Reference
	Overrides []Override
}

// Rule contributes requirements for a resolved option set
type Rule struct {
	Name  string
	Apply func(values options.Values, ctx Context) Contribution
}

// Builder maps resolved options to an ordered requirement list
type Builder struct {
	rules []Rule
}

// NewBuilder creates a builder that applies rules in the given order
func NewBuilder(rules ...Rule) *Builder {
	return &Builder{rules: append([]Rule(nil), rules...)}
}

// Rules returns the rule names in application order
func (b *Builder) Rules() []string {
	names := make([]string, 0, len(b.rules))
	for _, r := range b.rules {
		names = append(names, r.Name)
	}
	return names
}

// Build applies every rule and reconciles their contributions. Requirements
// keep the order in which they were first contributed; a repeated identical
// reference collapses into the first one. Overrides on one dependency are
// merged across rules and must agree.
func (b *Builder) Build(values options.Values, ctx Context) ([]Requirement, error) {
	var order []string
	refs := make(map[string]Reference)
	overrides := make(map[string]map[string]string)

	for _, rule := range b.rules {
		c := rule.Apply(values, ctx)

		for _, ref := range c.Requires {
			existing, ok := refs[ref.Name]
			if !ok {
				refs[ref.Name] = ref
				order = append(order, ref.Name)
				continue
			}
			if existing != ref {
				return nil, NewConflictingVersionError(ref.Name, existing.String(), ref.String())
			}
		}

		for _, o := range c.Overrides {
			if _, ok := refs[o.Package]; !ok {
				return nil, NewUnknownDependencyError(o.Package, o.Key)
			}
			opts := overrides[o.Package]
			if opts == nil {
				opts = make(map[string]string)
				overrides[o.Package] = opts
			}
			if existing, ok := opts[o.Key]; ok && existing != o.Value {
				return nil, NewConflictingOverrideError(o.Package, o.Key, existing, o.Value)
			}
			opts[o.Key] = o.Value
		}
	}

	result := make([]Requirement, 0, len(order))
	for _, name := range order {
		result = append(result, Requirement{Ref: refs[name], Options: overrides[name]})
	}
	return result, nil
}
