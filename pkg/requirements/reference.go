package requirements

import (
	"strings"
)

// Reference identifies a package: name/version[@user/channel]
type Reference struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
	User    string `yaml:"user,omitempty" json:"user,omitempty"`
	Channel string `yaml:"channel,omitempty" json:"channel,omitempty"`
}

// ParseReference parses the textual form of a reference
func ParseReference(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	ident, namespace, hasNamespace := strings.Cut(s, "@")

	name, version, ok := strings.Cut(ident, "/")
	if !ok || name == "" || version == "" || strings.Contains(version, "/") {
		return Reference{}, NewInvalidReferenceError(s)
	}

	ref := Reference{Name: name, Version: version}
	if hasNamespace {
		user, channel, ok := strings.Cut(namespace, "/")
		if !ok || user == "" || channel == "" || strings.Contains(channel, "/") {
			return Reference{}, NewInvalidReferenceError(s)
		}
		ref.User = user
		ref.Channel = channel
	}
	return ref, nil
}

// MustParseReference is like ParseReference but panics on malformed input.
// It is meant for pinned references declared in code.
func MustParseReference(s string) Reference {
	ref, err := ParseReference(s)
	if err != nil {
		panic(err)
	}
	return ref
}

// String returns the textual form of the reference
func (r Reference) String() string {
	s := r.Name + "/" + r.Version
	if r.User != "" {
		s += "@" + r.User + "/" + r.Channel
	}
	return s
}
