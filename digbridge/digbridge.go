// Package digbridge connects blueprint containers with go.uber.org/dig.
//
// Components declared in a blueprint registry can be provided to a dig
// container as typed constructors, and a dig container can supply the ambient
// services a blueprint container is seeded with.
package digbridge

import (
	"fmt"

	"github.com/junioryono/blueprint"
	"go.uber.org/dig"
)

// Provide registers a dig constructor for T that resolves name strictly from c
// each time dig builds the value. dig caches what it builds, so a component is
// resolved at most once per dig container regardless of its singleton flag.
func Provide[T any](dc *dig.Container, c *blueprint.Container, name string, opts ...dig.ProvideOption) error {
	if dc == nil || c == nil {
		return fmt.Errorf("digbridge: containers cannot be nil")
	}

	return dc.Provide(func() (T, error) {
		return blueprint.ResolveAs[T](c, name)
	}, opts...)
}

// Binding pulls one value out of a dig container under a blueprint name.
type Binding struct {
	name    string
	extract func(*dig.Container) (any, error)
}

// Bind serves the dig value of type T under name.
func Bind[T any](name string, opts ...dig.InvokeOption) Binding {
	return Binding{
		name: name,
		extract: func(dc *dig.Container) (any, error) {
			var out T
			err := dc.Invoke(func(v T) { out = v }, opts...)
			return out, err
		},
	}
}

// Environment builds a blueprint environment whose services are taken from dc.
// global becomes the environment's ambient execution context.
func Environment(dc *dig.Container, global any, bindings ...Binding) (blueprint.Environment, error) {
	env := blueprint.Environment{
		Global:   global,
		Services: make(map[string]any, len(bindings)),
	}

	for _, b := range bindings {
		v, err := b.extract(dc)
		if err != nil {
			return blueprint.Environment{}, fmt.Errorf("digbridge: binding %q: %w", b.name, err)
		}
		env.Services[b.name] = v
	}

	return env, nil
}
