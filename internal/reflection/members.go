package reflection

import (
	"reflect"
	"unicode"
	"unicode/utf8"
)

// InjectTag names a struct field explicitly for property injection.
const InjectTag = "inject"

// Capitalize upper-cases the first rune of name.
func Capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// SetterName returns the conventional setter for a property: "color" -> "SetColor".
func SetterName(property string) string {
	return "Set" + Capitalize(property)
}

// FindMethod looks up an exported method on target, first by the exact name and
// then by its capitalized form.
func FindMethod(target any, name string) (reflect.Value, bool) {
	if target == nil || name == "" {
		return reflect.Value{}, false
	}

	v := reflect.ValueOf(target)
	if m := v.MethodByName(name); m.IsValid() {
		return m, true
	}
	if m := v.MethodByName(Capitalize(name)); m.IsValid() {
		return m, true
	}

	return reflect.Value{}, false
}

// FindSetter returns the one-parameter Set<Name> method for property, if any.
func FindSetter(target any, property string) (reflect.Value, bool) {
	m, ok := FindMethod(target, SetterName(property))
	if !ok || m.Type().NumIn() != 1 {
		return reflect.Value{}, false
	}
	return m, true
}

// FindField returns the settable struct field that receives property. target
// must be a non-nil pointer to a struct. A field tagged `inject:"<property>"`
// wins over a field named after the capitalized property.
func FindField(target any, property string) (reflect.Value, bool) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, false
	}

	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	typ := elem.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.IsExported() && f.Tag.Get(InjectTag) == property {
			return elem.Field(i), true
		}
	}

	if f, ok := typ.FieldByName(Capitalize(property)); ok && f.IsExported() {
		if fv, err := elem.FieldByIndexErr(f.Index); err == nil && fv.CanSet() {
			return fv, true
		}
	}

	return reflect.Value{}, false
}

// Assign stores value into field after coercing it to the field's type.
func Assign(field reflect.Value, value any) error {
	v, err := Coerce(value, field.Type())
	if err != nil {
		return err
	}
	field.Set(v)
	return nil
}

// ErrorResult returns the error carried by the last result, if that result is
// of type error and non-nil.
func ErrorResult(out []reflect.Value) error {
	if len(out) == 0 {
		return nil
	}

	last := out[len(out)-1]
	if last.Type() != errType || last.IsNil() {
		return nil
	}
	return last.Interface().(error)
}
