package blueprint

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/junioryono/blueprint/internal/reflection"
)

// typePathPattern is the allow-list every type path must match before any lookup.
var typePathPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// ValidTypePath reports whether path may be looked up at all.
func ValidTypePath(path string) bool {
	return typePathPattern.MatchString(path)
}

// Type is a resolved type path: either a constructor or a ready-made value.
type Type struct {
	path          string
	value         reflect.Value
	constructible bool
}

// Path returns the full dotted path the type was resolved under.
func (t *Type) Path() string { return t.path }

// Constructible reports whether New can build instances from this type.
func (t *Type) Constructible() bool { return t.constructible }

// Value returns the registered constructor or value.
func (t *Type) Value() any {
	if !t.value.IsValid() {
		return nil
	}
	return t.value.Interface()
}

// New invokes the constructor positionally with args. For non-constructible
// types it returns the value itself.
func (t *Type) New(args []any) (any, error) {
	if !t.constructible {
		return t.Value(), nil
	}

	instance, err := invoker.Call(t.value, args)
	if err != nil {
		return nil, invocationError(t.value.Type(), args, err)
	}
	return instance, nil
}

// Namespace groups types under a dotted prefix. Registering a Namespace value
// at "app" makes "app.Widget" resolvable by walking segments.
type Namespace map[string]any

// TypeRegistry maps type paths to constructors and ready-made values.
// It is safe for concurrent use.
type TypeRegistry struct {
	mu    sync.RWMutex
	roots map[string]any
	cache map[string]*Type
}

// invoker is shared by every registry; signatures are cached per func type.
var invoker = reflection.New()

// NewTypeRegistry returns a registry seeded with the built-in types.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{
		roots: make(map[string]any),
		cache: make(map[string]*Type),
	}
	for name, ctor := range builtinTypes() {
		// built-ins are funcs with valid names; registration cannot fail
		_ = r.Register(name, ctor)
	}
	return r
}

// Register makes constructor available under path. constructor must be a
// non-nil func; it is invoked positionally with the resolved constructor args.
func (r *TypeRegistry) Register(path string, constructor any) error {
	if !ValidTypePath(path) {
		return ConfigError{Field: "type", Cause: pathError(path)}
	}
	if _, err := invoker.Analyze(reflect.ValueOf(constructor)); err != nil {
		return ConfigError{Field: "type", Cause: ErrNotConstructor}
	}

	r.store(path, constructor)
	return nil
}

// RegisterValue makes a ready-made value available under path. The value is
// never invoked, even if it is a func; resolution returns it as the instance.
func (r *TypeRegistry) RegisterValue(path string, value any) error {
	if !ValidTypePath(path) {
		return ConfigError{Field: "type", Cause: pathError(path)}
	}

	r.store(path, valueOnly{value})
	return nil
}

// valueOnly marks a registered func that must not be treated as a constructor.
type valueOnly struct{ v any }

func (r *TypeRegistry) store(path string, target any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.roots[path] = target

	// Entries under the old target are stale.
	for cached := range r.cache {
		if cached == path || strings.HasPrefix(cached, path+".") {
			delete(r.cache, cached)
		}
	}
}

// Resolve maps a type path to a Type. It returns nil when the path fails the
// allow-list, or when any segment is absent. It never executes the path.
func (r *TypeRegistry) Resolve(path string) *Type {
	if !ValidTypePath(path) {
		return nil
	}

	r.mu.RLock()
	if cached, ok := r.cache[path]; ok {
		r.mu.RUnlock()
		return cached
	}
	target, ok := r.walk(path)
	r.mu.RUnlock()

	if !ok {
		return nil
	}

	t := newType(path, target)

	r.mu.Lock()
	if cached, ok := r.cache[path]; ok {
		t = cached
	} else {
		r.cache[path] = t
	}
	r.mu.Unlock()

	return t
}

// Has reports whether path resolves.
func (r *TypeRegistry) Has(path string) bool {
	return r.Resolve(path) != nil
}

// walk looks path up as a whole, then segment by segment from the roots,
// preferring the longest registered prefix. Callers hold r.mu.
func (r *TypeRegistry) walk(path string) (any, bool) {
	if target, ok := r.roots[path]; ok {
		return target, true
	}

	segments := strings.Split(path, ".")
	for i := len(segments) - 1; i > 0; i-- {
		current, ok := r.roots[strings.Join(segments[:i], ".")]
		if !ok {
			continue
		}

		for _, seg := range segments[i:] {
			current, ok = member(current, seg)
			if !ok {
				return nil, false
			}
		}
		return current, true
	}

	return nil, false
}

// member returns the named child of a namespace-like value.
func member(parent any, name string) (any, bool) {
	switch p := parent.(type) {
	case valueOnly:
		return member(p.v, name)
	case Namespace:
		v, ok := p[name]
		return v, ok
	case map[string]any:
		v, ok := p[name]
		return v, ok
	case *Object:
		return p.Lookup(name)
	}
	return nil, false
}

func newType(path string, target any) *Type {
	if v, ok := target.(valueOnly); ok {
		return &Type{path: path, value: reflect.ValueOf(v.v)}
	}

	v := reflect.ValueOf(target)
	return &Type{
		path:          path,
		value:         v,
		constructible: v.IsValid() && v.Kind() == reflect.Func && !v.IsNil(),
	}
}

func pathError(path string) error {
	return fmt.Errorf("%w: %q", ErrInvalidPath, path)
}

var (
	defaultTypes     *TypeRegistry
	defaultTypesOnce sync.Once
)

// DefaultTypes returns the process-wide registry used by containers created
// without WithTypes.
func DefaultTypes() *TypeRegistry {
	defaultTypesOnce.Do(func() {
		defaultTypes = NewTypeRegistry()
	})
	return defaultTypes
}

// RegisterType registers constructor under path in DefaultTypes.
func RegisterType(path string, constructor any) error {
	return DefaultTypes().Register(path, constructor)
}

// RegisterTypeValue registers a ready-made value under path in DefaultTypes.
func RegisterTypeValue(path string, value any) error {
	return DefaultTypes().RegisterValue(path, value)
}
