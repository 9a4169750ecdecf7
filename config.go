package blueprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// DefaultFactoryMethod is invoked on a factory component when FactorySpec.Method is empty.
const DefaultFactoryMethod = "createInstance"

// ComponentConfig is the blueprint for one named component.
// Configs are values; once registered they are never changed in place.
type ComponentConfig struct {
	// Type is a dotted type path looked up in the TypeRegistry.
	// Required unless Factory is set or the config is Abstract.
	Type string `json:"type,omitempty" validate:"required_without_all=Factory Abstract"`

	// Abstract configs only supply inherited properties and are never instantiated.
	Abstract bool `json:"abstract,omitempty"`

	// Singleton configs are built once and cached for the container's lifetime.
	Singleton bool `json:"singleton,omitempty"`

	// Parent names a config whose properties are inherited.
	Parent string `json:"parent,omitempty"`

	// ConstructorArgs are passed positionally on direct construction.
	// They are never inherited from a parent.
	ConstructorArgs []DependencySpec `json:"constructorArgs,omitempty"`

	// Properties are injected after construction, on both construction paths.
	Properties map[string]DependencySpec `json:"properties,omitempty"`

	// Factory delegates construction to a method on another component.
	Factory *FactorySpec `json:"factory,omitempty"`
}

// FactorySpec delegates construction to another named component.
type FactorySpec struct {
	ID     string           `json:"id" validate:"required"`
	Type   string           `json:"type,omitempty"`
	Method string           `json:"method,omitempty"`
	Args   []DependencySpec `json:"args,omitempty"`
}

// MethodName returns the factory method, defaulting to DefaultFactoryMethod.
func (f *FactorySpec) MethodName() string {
	if f.Method == "" {
		return DefaultFactoryMethod
	}
	return f.Method
}

// PropertyNames returns the config's property names in sorted order.
func (c ComponentConfig) PropertyNames() []string {
	return slices.Sorted(maps.Keys(c.Properties))
}

type specKind uint8

const (
	specNone specKind = iota
	specRef
	specValue
)

// DependencySpec describes a single dependency: either a reference to another
// named component or a literal value. The zero value is neither and fails
// resolution with a ConfigError.
type DependencySpec struct {
	kind  specKind
	name  string
	value any
}

// Ref returns a spec that resolves the named component strictly through the container.
func Ref(name string) DependencySpec {
	return DependencySpec{kind: specRef, name: name}
}

// Value returns a spec whose value is used verbatim, including nil, false and 0.
func Value(v any) DependencySpec {
	return DependencySpec{kind: specValue, value: v}
}

// IsRef reports whether the spec references a named component.
func (d DependencySpec) IsRef() bool { return d.kind == specRef }

// IsValue reports whether the spec carries a literal value.
func (d DependencySpec) IsValue() bool { return d.kind == specValue }

// Name returns the referenced component name, or "" for literals.
func (d DependencySpec) Name() string { return d.name }

// Literal returns the literal value, or nil for references.
func (d DependencySpec) Literal() any { return d.value }

func (d DependencySpec) String() string {
	switch d.kind {
	case specRef:
		return fmt.Sprintf("ref(%s)", d.name)
	case specValue:
		return fmt.Sprintf("value(%v)", d.value)
	default:
		return "<empty>"
	}
}

// MarshalJSON implements json.Marshaler.
func (d DependencySpec) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case specRef:
		return json.Marshal(map[string]string{"id": d.name})
	case specValue:
		return json.Marshal(map[string]any{"value": d.value})
	default:
		return []byte("{}"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. The presence of the "value" key,
// not its truthiness, selects the literal branch. A bare JSON string is read as
// a reference.
func (d *DependencySpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*d = Ref(name)
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if id, ok := raw["id"]; ok {
		var name string
		if err := json.Unmarshal(id, &name); err != nil {
			return fmt.Errorf("dependency id: %w", err)
		}
		*d = Ref(name)
		return nil
	}

	if value, ok := raw["value"]; ok {
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return fmt.Errorf("dependency value: %w", err)
		}
		*d = Value(v)
		return nil
	}

	*d = DependencySpec{}
	return nil
}

// Registry maps component names to their configs.
type Registry map[string]ComponentConfig

// Names returns the registered names in sorted order.
func (r Registry) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// Lookup returns the config registered under name.
func (r Registry) Lookup(name string) (ComponentConfig, bool) {
	cfg, ok := r[name]
	return cfg, ok
}
