package blueprint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/junioryono/blueprint/internal/graph"
)

var validate = validator.New()

// Validate checks every config in the registry without building anything:
// required fields, dependency specs, type paths, parent and reference names,
// and reference cycles that resolution could never finish. Ambient names of a
// container are not known here; only "container" and "global" are assumed.
func (r Registry) Validate(types *TypeRegistry) error {
	if types == nil {
		types = DefaultTypes()
	}
	return validateRegistry(r, types, map[string]struct{}{
		ContainerName: {},
		GlobalName:    {},
	})
}

// Validate checks the container's registry against its type registry and
// ambient singletons. See Registry.Validate.
func (c *Container) Validate() error {
	return validateRegistry(c.configs, c.types, c.reserved)
}

func validateRegistry(r Registry, types *TypeRegistry, ambient map[string]struct{}) error {
	var errs []error

	isAmbient := func(name string) bool {
		_, ok := ambient[name]
		return ok
	}
	known := func(name string) bool {
		_, ok := r[name]
		return ok || isAmbient(name)
	}

	for _, name := range r.Names() {
		cfg := r[name]
		report := func(err error) {
			errs = append(errs, ValidationError{Component: name, Cause: err})
		}

		if err := validate.Struct(cfg); err != nil {
			for _, e := range fieldErrors(name, err) {
				report(e)
			}
		}

		if cfg.Type != "" {
			switch {
			case !ValidTypePath(cfg.Type):
				report(ConfigError{Component: name, Field: "type", Cause: pathError(cfg.Type)})
			case !cfg.Abstract && cfg.Factory == nil && !types.Has(cfg.Type):
				report(ResolutionError{Component: name, Type: cfg.Type, Cause: ErrTypeNotFound})
			}
		}

		if cfg.Parent != "" && !known(cfg.Parent) {
			report(NotFoundError{Name: cfg.Parent, Available: r.Names()})
		}

		checkSpec := func(field string, spec DependencySpec) {
			switch {
			case !spec.IsRef() && !spec.IsValue():
				report(ConfigError{Component: name, Field: field, Cause: ErrMissingDependency})
			case spec.IsRef() && !known(spec.Name()):
				report(NotFoundError{Name: spec.Name(), Available: r.Names()})
			case spec.IsRef() && !isAmbient(spec.Name()) && r[spec.Name()].Abstract:
				report(ResolutionError{Component: spec.Name(), Cause: ErrAbstract})
			}
		}

		for i, spec := range cfg.ConstructorArgs {
			checkSpec(fmt.Sprintf("constructorArgs[%d]", i), spec)
		}
		for _, prop := range cfg.PropertyNames() {
			checkSpec("properties."+prop, cfg.Properties[prop])
		}
		if cfg.Factory != nil {
			if cfg.Factory.ID != "" && !known(cfg.Factory.ID) {
				report(NotFoundError{Name: cfg.Factory.ID, Available: r.Names()})
			}
			for i, spec := range cfg.Factory.Args {
				checkSpec(fmt.Sprintf("factory.args[%d]", i), spec)
			}
		}
	}

	if err := buildGraph(r).DetectCycles(); err != nil {
		errs = append(errs, ValidationError{Cause: err})
	}

	return errors.Join(errs...)
}

// fieldErrors maps struct-tag failures onto config errors.
func fieldErrors(name string, err error) []error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{err}
	}

	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.StructNamespace() {
		case "ComponentConfig.Type":
			out = append(out, ConfigError{Component: name, Field: "type", Cause: ErrMissingType})
		case "ComponentConfig.Factory.ID":
			out = append(out, ConfigError{Component: name, Field: "factory.id", Cause: ErrMissingFactoryID})
		default:
			out = append(out, ConfigError{
				Component: name,
				Field:     strings.ToLower(fe.Field()),
				Cause:     fmt.Errorf("failed on the %q rule", fe.Tag()),
			})
		}
	}
	return out
}

// buildGraph records every name reference in r. Properties are taken after
// inheritance, so a component points at whatever its ancestors inject.
func buildGraph(r Registry) *graph.DependencyGraph {
	g := graph.NewDependencyGraph()

	for _, name := range r.Names() {
		cfg := r[name]
		g.AddNode(name, cfg.Singleton, cfg.Abstract)

		// Abstract configs are never built; their properties count where inherited.
		if cfg.Abstract {
			continue
		}

		if cfg.Factory != nil {
			if cfg.Factory.ID != "" {
				g.AddEdge(name, cfg.Factory.ID, graph.Construct)
			}
			for _, spec := range cfg.Factory.Args {
				if spec.IsRef() {
					g.AddEdge(name, spec.Name(), graph.Construct)
				}
			}
		} else {
			for _, spec := range cfg.ConstructorArgs {
				if spec.IsRef() {
					g.AddEdge(name, spec.Name(), graph.Construct)
				}
			}
		}

		for _, spec := range effectiveProperties(r, name) {
			if spec.IsRef() {
				g.AddEdge(name, spec.Name(), graph.Inject)
			}
		}
	}

	return g
}

// effectiveProperties merges a config's properties with its ancestors',
// most-derived first, mirroring Container.inject.
func effectiveProperties(r Registry, name string) map[string]DependencySpec {
	props := make(map[string]DependencySpec)
	visited := make(map[string]struct{})

	for current := name; current != ""; {
		if _, seen := visited[current]; seen {
			break
		}
		visited[current] = struct{}{}

		cfg, ok := r[current]
		if !ok {
			break
		}

		for prop, spec := range cfg.Properties {
			if _, set := props[prop]; !set {
				props[prop] = spec
			}
		}
		current = cfg.Parent
	}

	return props
}
