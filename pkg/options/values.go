package options

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Values is an immutable set of resolved option values.
// Every modifying method returns a new Values and leaves the receiver untouched.
type Values struct {
	m map[string]bool
}

// NewValues copies the given map into a new Values
func NewValues(m map[string]bool) Values {
	c := make(map[string]bool, len(m))
	for k, v := range m {
		c[k] = v
	}
	return Values{m: c}
}

// Get returns the value of an option and whether it is present
func (v Values) Get(name string) (bool, bool) {
	val, ok := v.m[name]
	return val, ok
}

// Enabled returns true only when the option is present and set
func (v Values) Enabled(name string) bool {
	return v.m[name]
}

// Has reports whether the option exists in the resolved set
func (v Values) Has(name string) bool {
	_, ok := v.m[name]
	return ok
}

// With returns a copy with name set to val
func (v Values) With(name string, val bool) Values {
	c := v.Map()
	c[name] = val
	return Values{m: c}
}

// Without returns a copy with name removed
func (v Values) Without(name string) Values {
	c := v.Map()
	delete(c, name)
	return Values{m: c}
}

// Len returns the number of options
func (v Values) Len() int {
	return len(v.m)
}

// Names returns the option names in sorted order
func (v Values) Names() []string {
	names := make([]string, 0, len(v.m))
	for k := range v.m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the underlying values
func (v Values) Map() map[string]bool {
	c := make(map[string]bool, len(v.m))
	for k, val := range v.m {
		c[k] = val
	}
	return c
}

// Equal reports whether both sets hold the same names with the same values
func (v Values) Equal(other Values) bool {
	if len(v.m) != len(other.m) {
		return false
	}
	for k, val := range v.m {
		o, ok := other.m[k]
		if !ok || o != val {
			return false
		}
	}
	return true
}

// String renders the values as "a=True b=False" in name order
func (v Values) String() string {
	parts := make([]string, 0, len(v.m))
	for _, name := range v.Names() {
		parts = append(parts, name+"="+FormatBool(v.m[name]))
	}
	return strings.Join(parts, " ")
}

// MarshalYAML renders the values as a plain mapping
func (v Values) MarshalYAML() (interface{}, error) {
	return v.Map(), nil
}

// UnmarshalYAML reads a plain mapping of option names to booleans
func (v *Values) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]bool
	if err := node.Decode(&m); err != nil {
		return err
	}
	*v = NewValues(m)
	return nil
}

// FormatBool renders a boolean the way recipe descriptors spell it
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
