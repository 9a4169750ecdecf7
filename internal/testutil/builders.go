package testutil

import (
	"testing"

	"github.com/junioryono/blueprint"
	"github.com/stretchr/testify/require"
)

// ContainerBuilder provides a fluent interface for building test containers
type ContainerBuilder struct {
	t        *testing.T
	registry blueprint.Registry
	opts     []blueprint.Option
}

// NewContainerBuilder creates a builder whose containers use the fixture types
// and the test environment.
func NewContainerBuilder(t *testing.T) *ContainerBuilder {
	return &ContainerBuilder{
		t:        t,
		registry: blueprint.Registry{},
		opts: []blueprint.Option{
			blueprint.WithTypes(NewTypes(t)),
			blueprint.WithEnvironment(Environment()),
		},
	}
}

// With adds a config under name
func (b *ContainerBuilder) With(name string, cfg blueprint.ComponentConfig) *ContainerBuilder {
	b.registry[name] = cfg
	return b
}

// WithRegistry adds every config in r
func (b *ContainerBuilder) WithRegistry(r blueprint.Registry) *ContainerBuilder {
	for name, cfg := range r {
		b.registry[name] = cfg
	}
	return b
}

// WithOptions appends container options
func (b *ContainerBuilder) WithOptions(opts ...blueprint.Option) *ContainerBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build creates the container and fails the test if that fails
func (b *ContainerBuilder) Build() *blueprint.Container {
	b.t.Helper()

	c, err := blueprint.New(b.registry, b.opts...)
	require.NoError(b.t, err, "failed to create container")
	return c
}
