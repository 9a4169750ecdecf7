package blueprint

import (
	"fmt"
	"io"
	"maps"
	"reflect"

	"github.com/google/uuid"
	"github.com/junioryono/blueprint/internal/graph"
	"go.uber.org/zap"
)

// Container resolves named component configs into wired instances.
//
// A Container is not safe for concurrent use. Resolution is synchronous and
// may re-enter itself while resolving named dependencies.
type Container struct {
	id string

	configs    Registry
	singletons map[string]any
	reserved   map[string]struct{}

	types    *TypeRegistry
	factory  *objectFactory
	resolver *dependencyResolver
	logger   *zap.Logger

	// In-flight resolutions, used to stop runaway recursion.
	stack []frame
}

// frame is one in-flight resolution. cached is set once the frame's
// singleton has been stored, after which re-entering anything below it
// finds the cache and terminates.
type frame struct {
	name   string
	cached bool
}

// New creates a container over a private copy of configs. The registry must
// not be empty.
func New(configs Registry, opts ...Option) (*Container, error) {
	if len(configs) == 0 {
		return nil, ConfigError{Cause: ErrRegistryEmpty}
	}

	o := buildOptions(opts)

	c := &Container{
		id:         uuid.NewString(),
		configs:    maps.Clone(configs),
		singletons: o.env.ambient(),
		types:      o.types,
	}
	c.singletons[ContainerName] = c
	c.logger = o.logger.With(zap.String("container", c.id))

	c.reserved = make(map[string]struct{}, len(c.singletons))
	for name := range c.singletons {
		c.reserved[name] = struct{}{}
		if _, shadowed := c.configs[name]; shadowed {
			c.logger.Warn("config shadowed by ambient singleton", zap.String("component", name))
		}
	}

	c.resolver = &dependencyResolver{container: c, logger: c.logger}
	c.factory = &objectFactory{container: c, resolver: c.resolver, types: c.types, logger: c.logger}

	if o.validate {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("container created", zap.Int("configs", len(c.configs)))

	return c, nil
}

// ID returns the unique identifier assigned to the container at construction.
func (c *Container) ID() string {
	return c.id
}

// Resolve returns the instance for name, or nil without error when no config
// is registered under it.
func (c *Container) Resolve(name string) (any, error) {
	return c.resolve(name, false)
}

// ResolveStrict is like Resolve but fails with a NotFoundError when no config
// is registered under name.
func (c *Container) ResolveStrict(name string) (any, error) {
	return c.resolve(name, true)
}

func (c *Container) resolve(name string, strict bool) (any, error) {
	if instance, ok := c.singletons[name]; ok {
		return instance, nil
	}

	cfg, ok := c.configs[name]
	if !ok {
		if strict {
			return nil, NotFoundError{Name: name, Available: c.configs.Names()}
		}
		return nil, nil
	}

	if cfg.Abstract {
		return nil, ResolutionError{Component: name, Cause: ErrAbstract}
	}

	if path := c.cycle(name); path != nil {
		return nil, CircularDependencyError{Node: name, Path: path}
	}
	c.stack = append(c.stack, frame{name: name})
	depth := len(c.stack) - 1
	defer func() {
		c.stack = c.stack[:depth]
	}()

	var (
		instance any
		err      error
	)
	if cfg.Factory != nil {
		instance, err = c.factory.createInstanceFromFactory(name, cfg)
	} else {
		instance, err = c.factory.createInstance(name, cfg, cfg.ConstructorArgs)
	}
	if err != nil {
		return nil, err
	}

	// Registered before injection so that properties referring back to this
	// name see the same instance.
	if cfg.Singleton {
		c.singletons[name] = instance
		c.stack[depth].cached = true
		c.logger.Debug("cached singleton", zap.String("component", name))
	}

	if err := c.inject(name, instance, cfg); err != nil {
		return nil, err
	}

	return instance, nil
}

// cycle returns the in-flight path from the latest entry of name when no
// singleton was cached since that entry. Such a re-entry can never reach a
// cached instance and would recurse without end.
func (c *Container) cycle(name string) []string {
	start := -1
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].name == name {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var path []string
	for _, f := range c.stack[start:] {
		if f.cached {
			return nil
		}
		path = append(path, f.name)
	}
	return path
}

// inject applies cfg's properties and then each ancestor's, most-derived first.
func (c *Container) inject(name string, instance any, cfg ComponentConfig) error {
	set := make(propertiesSet)
	if err := c.resolver.injectDependencies(name, instance, cfg, set); err != nil {
		return err
	}

	visited := map[string]struct{}{name: {}}
	for cfg.Parent != "" {
		parentName := cfg.Parent
		if _, seen := visited[parentName]; seen {
			break
		}

		parent, ok := c.configs[parentName]
		if !ok {
			break
		}
		visited[parentName] = struct{}{}

		c.logger.Debug("inheriting properties",
			zap.String("component", name),
			zap.String("parent", parentName))

		if err := c.resolver.injectDependencies(parentName, instance, parent, set); err != nil {
			return err
		}
		cfg = parent
	}

	return nil
}

// Register adds cfg under name, replacing any existing config. A singleton
// already built under name stays cached. Reserved names are rejected.
func (c *Container) Register(name string, cfg ComponentConfig) error {
	if name == "" {
		return ConfigError{Field: "name", Cause: fmt.Errorf("component name cannot be empty")}
	}
	if c.IsReserved(name) {
		return ConfigError{Component: name, Cause: ErrReservedName}
	}

	if _, replaced := c.configs[name]; replaced {
		c.logger.Debug("replacing config", zap.String("component", name))
	}
	c.configs[name] = cfg
	return nil
}

// Has reports whether name resolves to something: a registered config or an
// ambient or cached singleton.
func (c *Container) Has(name string) bool {
	if _, ok := c.singletons[name]; ok {
		return true
	}
	_, ok := c.configs[name]
	return ok
}

// Config returns the config registered under name.
func (c *Container) Config(name string) (ComponentConfig, bool) {
	return c.configs.Lookup(name)
}

// Names returns the registered config names in sorted order.
func (c *Container) Names() []string {
	return c.configs.Names()
}

// IsReserved reports whether name is an ambient singleton that no config can override.
func (c *Container) IsReserved(name string) bool {
	_, ok := c.reserved[name]
	return ok
}

// Types returns the type registry used by the container.
func (c *Container) Types() *TypeRegistry {
	return c.types
}

// Preload builds every non-abstract singleton, dependencies first.
func (c *Container) Preload() error {
	order, err := buildGraph(c.configs).TopologicalSort()
	if err != nil {
		return err
	}

	for _, name := range order {
		cfg, ok := c.configs[name]
		if !ok || cfg.Abstract || !cfg.Singleton {
			continue
		}
		if _, err := c.resolve(name, true); err != nil {
			return err
		}
	}

	return nil
}

// WriteDOT writes the component reference graph in Graphviz DOT format.
func (c *Container) WriteDOT(w io.Writer) error {
	return graph.NewVisualizer(buildGraph(c.configs)).WriteDOT(w)
}

// ResolveAs resolves name strictly and asserts the instance to T.
func ResolveAs[T any](c *Container, name string) (T, error) {
	var zero T

	instance, err := c.ResolveStrict(name)
	if err != nil {
		return zero, err
	}

	if instance == nil {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{
			Component: name,
			Expected:  reflect.TypeFor[T](),
			Actual:    reflect.TypeOf(instance),
		}
	}

	return typed, nil
}
