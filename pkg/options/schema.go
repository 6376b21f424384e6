package options

import (
	"fmt"
	"strings"
)

// Option names
const (
	Shared        = "shared"
	FPIC          = "fPIC"
	BuildTests    = "build_tests"
	BuildExamples = "build_examples"
	Coverage      = "coverage"
)

// Spec declares a single boolean build option
type Spec struct {
	Name    string
	Domain  []bool
	Default bool
}

// Allows reports whether value is in the option's domain
func (s Spec) Allows(value bool) bool {
	for _, d := range s.Domain {
		if d == value {
			return true
		}
	}
	return false
}

// Schema is the ordered, read-only list of options a package declares
type Schema struct {
	specs []Spec
}

// NewSchema creates a schema from specs. Duplicate names panic since schemas
// are static package data.
func NewSchema(specs ...Spec) Schema {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if seen[s.Name] {
			panic(fmt.Sprintf("options: duplicate option %q in schema", s.Name))
		}
		seen[s.Name] = true
	}
	c := make([]Spec, len(specs))
	copy(c, specs)
	return Schema{specs: c}
}

func boolOption(name string, def bool) Spec {
	return Spec{Name: name, Domain: []bool{true, false}, Default: def}
}

// ProducerSchema is the option schema of the library package itself
func ProducerSchema() Schema {
	return NewSchema(
		boolOption(Shared, false),
		boolOption(FPIC, true),
		boolOption(BuildTests, true),
		boolOption(BuildExamples, false),
		boolOption(Coverage, false),
	)
}

// ConsumerSchema is the option schema of the consumer validation package
func ConsumerSchema() Schema {
	return NewSchema(
		boolOption(Shared, false),
		boolOption(FPIC, true),
	)
}

// Specs returns a copy of the declared options in declaration order
func (s Schema) Specs() []Spec {
	c := make([]Spec, len(s.specs))
	copy(c, s.specs)
	return c
}

// Lookup finds an option declaration by name
func (s Schema) Lookup(name string) (Spec, bool) {
	for _, spec := range s.specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return Spec{}, false
}

// Defaults returns the default value of every declared option
func (s Schema) Defaults() Values {
	m := make(map[string]bool, len(s.specs))
	for _, spec := range s.specs {
		m[spec.Name] = spec.Default
	}
	return Values{m: m}
}

// Apply layers user overrides on top of the defaults. Any name the schema
// does not declare is rejected.
func (s Schema) Apply(overrides map[string]bool) (Values, error) {
	values := s.Defaults()
	for _, name := range sortedKeys(overrides) {
		val := overrides[name]
		spec, ok := s.Lookup(name)
		if !ok {
			return Values{}, NewUnknownOptionError(name)
		}
		if !spec.Allows(val) {
			return Values{}, NewInvalidOptionValueError(name, val)
		}
		values = values.With(name, val)
	}
	return values, nil
}

// Validate checks that values only carry declared options with allowed values
func (s Schema) Validate(values Values) error {
	for _, name := range values.Names() {
		spec, ok := s.Lookup(name)
		if !ok {
			return NewUnknownOptionError(name)
		}
		if !spec.Allows(values.Enabled(name)) {
			return NewInvalidOptionValueError(name, values.Enabled(name))
		}
	}
	return nil
}

// ParseOverride parses "name=value" into an option name and boolean value
func ParseOverride(s string) (string, bool, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", false, fmt.Errorf("%w: expected name=value, got %q", ErrInvalidOptionValue, s)
	}
	val, err := ParseBool(raw)
	if err != nil {
		return "", false, NewInvalidOptionValueError(name, raw)
	}
	return name, val, nil
}

// ParseBool accepts the spellings used in profiles and on the command line
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return true, nil
	case "false", "0", "off", "no":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", raw)
	}
}
