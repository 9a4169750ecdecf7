package blueprint

import (
	"fmt"
	"reflect"

	"github.com/junioryono/blueprint/internal/reflection"
	"go.uber.org/zap"
)

// FieldAssigner is implemented by instances that accept arbitrary named
// properties, such as *Object. It is consulted when the instance has no
// Set<Name> method.
type FieldAssigner interface {
	AssignField(name string, value any) error
}

// propertiesSet records the properties already injected during one resolution.
// The first writer wins, so the most-derived config takes precedence.
type propertiesSet map[string]struct{}

func (s propertiesSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s propertiesSet) mark(name string) {
	s[name] = struct{}{}
}

// dependencyResolver turns dependency specs into values and injects properties.
type dependencyResolver struct {
	container *Container
	logger    *zap.Logger
}

// findDependency resolves one spec. References are resolved strictly; literal
// values are returned unchanged, nil and zero values included.
func (r *dependencyResolver) findDependency(spec DependencySpec) (any, error) {
	switch {
	case spec.IsRef():
		return r.container.resolve(spec.Name(), true)
	case spec.IsValue():
		return spec.Literal(), nil
	default:
		return nil, ConfigError{Cause: ErrMissingDependency}
	}
}

// injectDependencies writes cfg's properties onto instance, skipping names
// already in set. owner names the config that declares the properties.
func (r *dependencyResolver) injectDependencies(owner string, instance any, cfg ComponentConfig, set propertiesSet) error {
	if len(cfg.Properties) == 0 {
		return nil
	}

	injected := 0
	for _, name := range cfg.PropertyNames() {
		if set.has(name) {
			continue
		}

		value, err := r.findDependency(cfg.Properties[name])
		if err != nil {
			return annotate(err, owner, "properties."+name)
		}

		if err := inject(instance, name, value); err != nil {
			return InjectionError{
				Component: owner,
				Property:  name,
				Target:    reflect.TypeOf(instance),
				Cause:     err,
			}
		}

		set.mark(name)
		injected++
	}

	r.logger.Debug("injected properties",
		zap.String("component", owner),
		zap.Int("properties", injected))

	return nil
}

// annotate attaches the owning component and field to a bare ConfigError
// returned by findDependency.
func annotate(err error, component, field string) error {
	if ce, ok := err.(ConfigError); ok && ce.Component == "" {
		ce.Component = component
		ce.Field = field
		return ce
	}
	return err
}

// inject writes a single property: a Set<Name> method wins, then FieldAssigner,
// then an exported struct field.
func inject(instance any, name string, value any) error {
	if setter, ok := reflection.FindSetter(instance, name); ok {
		out, err := invoker.Invoke(setter, []any{value})
		if err != nil {
			return invocationError(setter.Type(), []any{value}, err)
		}
		return reflection.ErrorResult(out)
	}

	if fa, ok := instance.(FieldAssigner); ok {
		return fa.AssignField(name, value)
	}

	if field, ok := reflection.FindField(instance, name); ok {
		return reflection.Assign(field, value)
	}

	return fmt.Errorf("%w %q", ErrNotInjectable, name)
}
