// Package naming provides the naming convention shared by stateful objects.
package naming

import "strings"

// Named describes an object that has a name.
type Named interface {
	// Name returns the name of the object.
	Name() string
}

// NamedBase is a base implementation of Named.
type NamedBase struct {
	name string
}

// Name returns the name of the object.
func (b *NamedBase) Name() string {
	return b.name
}

// MakeNamedBase creates a new NamedBase. Names are dot-separated and must not
// be empty or contain whitespace, since they are used as checkpoint keys and
// URL path segments.
func MakeNamedBase(name string) NamedBase {
	NameMustBeValid(name)

	return NamedBase{name: name}
}

// NameMustBeValid panics if the name cannot be used to identify an object.
func NameMustBeValid(name string) {
	if name == "" {
		panic("name must not be empty")
	}

	if strings.ContainsAny(name, " \t\n/") {
		panic("name " + name + " must not contain whitespace or slashes")
	}

	for _, token := range strings.Split(name, ".") {
		if token == "" {
			panic("name " + name + " has an empty element")
		}
	}
}
