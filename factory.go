package blueprint

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/junioryono/blueprint/internal/reflection"
	"go.uber.org/zap"
)

// objectFactory creates raw instances from configs. It never caches; that is
// the container's job.
type objectFactory struct {
	container *Container
	resolver  *dependencyResolver
	types     *TypeRegistry
	logger    *zap.Logger
}

// createInstance builds an instance by direct construction of cfg.Type.
// Constructor args are resolved only when the type is constructible.
func (f *objectFactory) createInstance(name string, cfg ComponentConfig, args []DependencySpec) (any, error) {
	if cfg.Type == "" {
		return nil, ConfigError{Component: name, Field: "type", Cause: ErrMissingType}
	}

	t := f.types.Resolve(cfg.Type)
	if t == nil {
		return nil, ResolutionError{
			Component: name,
			Type:      cfg.Type,
			Cause:     fmt.Errorf("%w: class %s not found", ErrTypeNotFound, cfg.Type),
		}
	}

	if !t.Constructible() {
		f.logger.Debug("using ready-made value",
			zap.String("component", name),
			zap.String("type", cfg.Type))
		return t.Value(), nil
	}

	values, err := f.resolveArgs(name, "constructorArgs", args)
	if err != nil {
		return nil, err
	}

	instance, err := t.New(values)
	if err != nil {
		return nil, ResolutionError{Component: name, Type: cfg.Type, Cause: err}
	}

	f.logger.Debug("constructed instance",
		zap.String("component", name),
		zap.String("type", cfg.Type),
		zap.Int("args", len(values)))

	return instance, nil
}

// createInstanceFromFactory delegates construction to a method on the factory
// component named by cfg.Factory.ID and returns its result verbatim.
func (f *objectFactory) createInstanceFromFactory(name string, cfg ComponentConfig) (any, error) {
	spec := cfg.Factory
	if spec == nil || spec.ID == "" {
		return nil, ConfigError{Component: name, Field: "factory.id", Cause: ErrMissingFactoryID}
	}

	factory, err := f.container.resolve(spec.ID, true)
	if err != nil {
		return nil, err
	}

	var args []any
	if len(spec.Args) > 0 {
		if args, err = f.resolveArgs(name, "factory.args", spec.Args); err != nil {
			return nil, err
		}
	} else {
		args = []any{spec.Type}
	}

	method := spec.MethodName()
	fn, ok := findFactoryMethod(factory, method)
	if !ok {
		return nil, ResolutionError{
			Component: name,
			Type:      method,
			Cause: fmt.Errorf("%w: no method called %s exists on the factory object registered as %s",
				ErrMethodNotFound, method, spec.ID),
		}
	}

	instance, err := invoker.Call(fn, args)
	if err != nil {
		return nil, ResolutionError{Component: name, Type: method, Cause: invocationError(fn.Type(), args, err)}
	}

	f.logger.Debug("built instance from factory",
		zap.String("component", name),
		zap.String("factory", spec.ID),
		zap.String("method", method))

	return instance, nil
}

// resolveArgs resolves specs in order.
func (f *objectFactory) resolveArgs(name, field string, specs []DependencySpec) ([]any, error) {
	values := make([]any, 0, len(specs))
	for i, spec := range specs {
		v, err := f.resolver.findDependency(spec)
		if err != nil {
			return nil, annotate(err, name, fmt.Sprintf("%s[%d]", field, i))
		}
		values = append(values, v)
	}
	return values, nil
}

// findFactoryMethod looks for a member of a dynamic object or namespace
// first, then an exported method. A member that is not a func hides the
// methods of its container.
func findFactoryMethod(factory any, method string) (reflect.Value, bool) {
	if fn, ok := member(factory, method); ok {
		v := reflect.ValueOf(fn)
		if v.Kind() == reflect.Func && !v.IsNil() {
			return v, true
		}
		return reflect.Value{}, false
	}

	return reflection.FindMethod(factory, method)
}

// invocationError maps a reflection call failure onto the public error types.
func invocationError(fnType reflect.Type, args []any, err error) error {
	var pe reflection.PanicError
	if errors.As(err, &pe) {
		return ConstructorPanicError{Constructor: fnType, Panic: pe.Value, Stack: pe.Stack}
	}
	return ConstructorInvocationError{Constructor: fnType, Arguments: args, Cause: err}
}
