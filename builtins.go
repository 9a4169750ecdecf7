package blueprint

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"
)

// Object is a dynamic bag of named fields. It is the instance type of the
// built-in "Object" type and accepts any property by direct assignment.
type Object struct {
	fields map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{fields: make(map[string]any)}
}

// AssignField implements FieldAssigner.
func (o *Object) AssignField(name string, value any) error {
	if o.fields == nil {
		o.fields = make(map[string]any)
	}
	o.fields[name] = value
	return nil
}

// Get returns the field value, or nil if unset.
func (o *Object) Get(name string) any {
	return o.fields[name]
}

// Lookup returns the field value and whether it was set.
func (o *Object) Lookup(name string) (any, bool) {
	v, ok := o.fields[name]
	return v, ok
}

// Keys returns the set field names in sorted order.
func (o *Object) Keys() []string {
	return slices.Sorted(maps.Keys(o.fields))
}

// Fields returns a copy of all fields.
func (o *Object) Fields() map[string]any {
	return maps.Clone(o.fields)
}

func (o *Object) String() string {
	return fmt.Sprintf("Object%v", o.fields)
}

// builtinTypes are registered in every new TypeRegistry.
func builtinTypes() map[string]any {
	return map[string]any{
		"Object":  NewObject,
		"Array":   func(items ...any) []any { return append([]any{}, items...) },
		"Map":     func() map[string]any { return make(map[string]any) },
		"String":  func(args ...any) string { return fmt.Sprint(args...) },
		"Number":  newNumber,
		"Boolean": newBoolean,
		"Date":    newDate,
		"Error":   func(msg ...any) error { return errors.New(fmt.Sprint(msg...)) },
	}
}

func newNumber(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("cannot convert %T to Number", v)
}

func newBoolean(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	case float64:
		return b != 0
	case int:
		return b != 0
	}
	return true
}

// newDate builds a time from nothing (now), an RFC 3339 string, or unix milliseconds.
func newDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Now(), nil
	case string:
		return time.Parse(time.RFC3339, d)
	case float64:
		return time.UnixMilli(int64(d)), nil
	case int:
		return time.UnixMilli(int64(d)), nil
	case int64:
		return time.UnixMilli(d), nil
	case time.Time:
		return d, nil
	}
	return time.Time{}, fmt.Errorf("cannot convert %T to Date", v)
}
