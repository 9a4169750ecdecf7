package blueprint

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/junioryono/blueprint/internal/graph"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that should be wrapped in typed errors when returned.
// Callers match them with errors.Is.

var (
	// Configuration errors.
	ErrRegistryEmpty     = errors.New("missing required argument: configs")
	ErrMissingType       = errors.New("missing required argument: config.type")
	ErrMissingFactoryID  = errors.New("missing required argument: config.factory.id")
	ErrMissingDependency = errors.New("no dependency value found: missing one of 'id' or 'value'")
	ErrInvalidPath       = errors.New("invalid type path")
	ErrNotConstructor    = errors.New("constructor must be a function")

	// Resolution errors.
	ErrNotFound       = errors.New("no configuration found")
	ErrAbstract       = errors.New("cannot resolve abstract config")
	ErrTypeNotFound   = errors.New("type not found")
	ErrMethodNotFound = errors.New("factory method not found")
	ErrNotInjectable  = errors.New("instance has no setter or field for property")
	ErrReservedName   = errors.New("name is reserved for an ambient singleton")
)

var (
	_ error = ConfigError{}
	_ error = NotFoundError{}
	_ error = ResolutionError{}
	_ error = InjectionError{}
	_ error = CircularDependencyError{}
	_ error = ConstructorInvocationError{}
	_ error = ConstructorPanicError{}
	_ error = TypeMismatchError{}
	_ error = ValidationError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// ConfigError indicates a component configuration is missing something it needs.
type ConfigError struct {
	Component string // empty when the error is not tied to a named component
	Field     string // "type", "factory.id", "properties.color", ...
	Cause     error
}

func (e ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config error")
	if e.Component != "" {
		b.WriteString(fmt.Sprintf(" in %q", e.Component))
	}
	if e.Field != "" {
		b.WriteString(fmt.Sprintf(" (%s)", e.Field))
	}
	b.WriteString(fmt.Sprintf(": %v", e.Cause))
	return b.String()
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

// NotFoundError is returned by strict resolution of an unregistered name.
type NotFoundError struct {
	Name      string
	Available []string // registered names, used for suggestions
}

func (e NotFoundError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%v for %s", ErrNotFound, e.Name))

	if similar := findSimilarNames(e.Name, e.Available); len(similar) > 0 {
		b.WriteString("\n\nDid you mean one of these?\n")
		for _, n := range similar {
			b.WriteString(fmt.Sprintf("  • %s\n", n))
		}
	}

	return b.String()
}

func (e NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ResolutionError wraps failures that happen while turning a config into an instance.
type ResolutionError struct {
	Component string
	Type      string // type path or factory method involved, if any
	Cause     error
}

func (e ResolutionError) Error() string {
	switch {
	case e.Type != "" && e.Component != "":
		return fmt.Sprintf("failed to resolve %s (%s): %v", e.Component, e.Type, e.Cause)
	case e.Type != "":
		return fmt.Sprintf("failed to resolve %s: %v", e.Type, e.Cause)
	default:
		return fmt.Sprintf("failed to resolve %s: %v", e.Component, e.Cause)
	}
}

func (e ResolutionError) Unwrap() error {
	return e.Cause
}

// InjectionError indicates a property could not be written onto an instance.
type InjectionError struct {
	Component string
	Property  string
	Target    reflect.Type
	Cause     error
}

func (e InjectionError) Error() string {
	return fmt.Sprintf("failed to inject %s.%s into %s: %v",
		e.Component, e.Property, formatType(e.Target), e.Cause)
}

func (e InjectionError) Unwrap() error {
	return e.Cause
}

// CircularDependencyError reports a component that re-entered its own
// resolution before it could be served from the singleton table, or a
// reference cycle found by validation.
type CircularDependencyError = graph.CircularDependencyError

// ConstructorInvocationError for constructor or factory method call failures.
type ConstructorInvocationError struct {
	Constructor reflect.Type
	Arguments   []any
	Cause       error
}

func (e ConstructorInvocationError) Error() string {
	args := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = fmt.Sprintf("%T", a)
	}
	return fmt.Sprintf("failed to invoke %s with arguments [%s]: %v",
		formatType(e.Constructor), strings.Join(args, ", "), e.Cause)
}

func (e ConstructorInvocationError) Unwrap() error {
	return e.Cause
}

// ConstructorPanicError indicates a constructor panicked during invocation.
// It captures the panic value and stack trace for debugging.
type ConstructorPanicError struct {
	Constructor reflect.Type
	Panic       any
	Stack       []byte
}

func (e ConstructorPanicError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("constructor %s panicked: %v\n", formatType(e.Constructor), e.Panic))

	if len(e.Stack) > 0 {
		b.WriteString("\nStack trace:\n")
		b.Write(e.Stack)
	}

	return b.String()
}

// TypeMismatchError indicates a resolved instance is not of the requested type.
type TypeMismatchError struct {
	Component string
	Expected  reflect.Type
	Actual    reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("component %s: expected %s, got %s",
		e.Component, formatType(e.Expected), formatType(e.Actual))
}

// ValidationError is one finding of registry validation.
type ValidationError struct {
	Component string
	Cause     error
}

func (e ValidationError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s: %v", e.Component, e.Cause)
	}
	return e.Cause.Error()
}

func (e ValidationError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err came from strict resolution of an unknown name.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce ConfigError
	return errors.As(err, &ce)
}

// IsResolutionError reports whether err is (or wraps) a ResolutionError.
func IsResolutionError(err error) bool {
	var re ResolutionError
	return errors.As(err, &re)
}

// findSimilarNames finds registered names close to the requested one.
func findSimilarNames(target string, available []string) []string {
	if target == "" || len(available) == 0 {
		return nil
	}

	lower := strings.ToLower(target)
	var similar []string
	for _, name := range available {
		if name == target {
			continue
		}

		candidate := strings.ToLower(name)
		if strings.Contains(candidate, lower) || strings.Contains(lower, candidate) {
			similar = append(similar, name)
		}

		if len(similar) >= 5 {
			break
		}
	}

	return similar
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
