package reflection

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"runtime/debug"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

var (
	ErrNotFunc          = errors.New("value is not a function")
	ErrNilFunc          = errors.New("function cannot be nil")
	ErrTooManyArguments = errors.New("too many arguments")
)

// Analyzer performs reflection-based analysis of callables.
// It caches analysis results for performance.
type Analyzer struct {
	mu    sync.RWMutex
	cache map[reflect.Type]*Signature
}

// Signature contains analyzed information about a function or method.
type Signature struct {
	Type       reflect.Type
	Params     []reflect.Type
	NumFixed   int  // parameters before the variadic one
	IsVariadic bool
	NumOut     int
	// HasErrorReturn is set when the last of two or more results is an error.
	// A lone error result is a value, not a failure signal.
	HasErrorReturn bool
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		cache: make(map[reflect.Type]*Signature),
	}
}

// Analyze returns the signature of fn, which must be a non-nil func value.
func (a *Analyzer) Analyze(fn reflect.Value) (*Signature, error) {
	if !fn.IsValid() {
		return nil, ErrNilFunc
	}
	if fn.Kind() != reflect.Func {
		return nil, ErrNotFunc
	}
	if fn.IsNil() {
		return nil, ErrNilFunc
	}

	typ := fn.Type()

	a.mu.RLock()
	if cached, ok := a.cache[typ]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	sig := &Signature{
		Type:       typ,
		Params:     make([]reflect.Type, typ.NumIn()),
		IsVariadic: typ.IsVariadic(),
		NumOut:     typ.NumOut(),
	}
	for i := range sig.Params {
		sig.Params[i] = typ.In(i)
	}

	sig.NumFixed = len(sig.Params)
	if sig.IsVariadic {
		sig.NumFixed--
	}

	if sig.NumOut >= 2 && typ.Out(sig.NumOut-1) == errType {
		sig.HasErrorReturn = true
	}

	a.mu.Lock()
	a.cache[typ] = sig
	a.mu.Unlock()

	return sig, nil
}

// Call invokes fn positionally with args and returns its first result.
// Missing trailing arguments are passed as zero values. A trailing error
// result is returned as the error.
func (a *Analyzer) Call(fn reflect.Value, args []any) (any, error) {
	out, err := a.Invoke(fn, args)
	if err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, nil
	}

	sig, _ := a.Analyze(fn)
	if sig.HasErrorReturn {
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}

	return valueOf(out[0]), nil
}

// Invoke calls fn with args coerced to its parameter types and returns the raw
// results. Panics inside fn are recovered into a PanicError.
func (a *Analyzer) Invoke(fn reflect.Value, args []any) (out []reflect.Value, err error) {
	sig, err := a.Analyze(fn)
	if err != nil {
		return nil, err
	}

	in, err := sig.arguments(args)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	return fn.Call(in), nil
}

// arguments builds the call arguments for this signature.
func (s *Signature) arguments(args []any) ([]reflect.Value, error) {
	if !s.IsVariadic && len(args) > s.NumFixed {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrTooManyArguments, s.Type, s.NumFixed, len(args))
	}

	in := make([]reflect.Value, 0, len(args))
	for i := 0; i < s.NumFixed; i++ {
		if i >= len(args) {
			in = append(in, reflect.Zero(s.Params[i]))
			continue
		}

		v, err := Coerce(args[i], s.Params[i])
		if err != nil {
			return nil, ArgumentError{Index: i, Cause: err}
		}
		in = append(in, v)
	}

	if s.IsVariadic {
		elem := s.Params[len(s.Params)-1].Elem()
		for i := s.NumFixed; i < len(args); i++ {
			v, err := Coerce(args[i], elem)
			if err != nil {
				return nil, ArgumentError{Index: i, Cause: err}
			}
			in = append(in, v)
		}
	}

	return in, nil
}

// Coerce converts value to a reflect.Value assignable to t. Nil becomes the
// zero value of t; numbers convert between numeric kinds when no fraction,
// sign or magnitude is lost.
func Coerce(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(value)
	vt := v.Type()

	switch {
	case vt.AssignableTo(t):
		return v, nil
	case isNumeric(vt.Kind()) && isNumeric(t.Kind()):
		converted := v.Convert(t)
		if lossy(v, converted) {
			return reflect.Value{}, TypeError{Expected: t, Actual: vt, Value: value}
		}
		return converted, nil
	case vt.Kind() == t.Kind() && vt.ConvertibleTo(t):
		return v.Convert(t), nil
	}

	return reflect.Value{}, TypeError{Expected: t, Actual: vt}
}

// valueOf unwraps a call result, mapping nil interfaces and pointers to nil.
func valueOf(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}

// lossy reports whether converting from into to dropped a fraction, wrapped a
// sign or overflowed. Float targets only lose precision and are accepted.
func lossy(from, to reflect.Value) bool {
	if isFloat(to.Kind()) {
		return false
	}
	if isFloat(from.Kind()) && (math.IsNaN(from.Float()) || math.IsInf(from.Float(), 0)) {
		return true
	}
	if isSigned(from.Kind()) && from.Int() < 0 && !isSigned(to.Kind()) {
		return true
	}
	if isFloat(from.Kind()) && from.Float() < 0 && !isSigned(to.Kind()) {
		return true
	}
	if !isSigned(from.Kind()) && !isFloat(from.Kind()) && isSigned(to.Kind()) && to.Int() < 0 {
		return true
	}
	return !to.Convert(from.Type()).Equal(from)
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// PanicError is returned by Invoke when the callee panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ArgumentError reports an argument that could not be passed to a parameter.
type ArgumentError struct {
	Index int
	Cause error
}

func (e ArgumentError) Error() string {
	return fmt.Sprintf("argument %d: %v", e.Index, e.Cause)
}

func (e ArgumentError) Unwrap() error {
	return e.Cause
}

// TypeError reports a value whose type cannot be used where another is expected.
type TypeError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Value    any // set when the type converts but this value would not survive it
}

func (e TypeError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("cannot use %v (%s) as %s without loss", e.Value, e.Actual, e.Expected)
	}
	return fmt.Sprintf("cannot use %s as %s", e.Actual, e.Expected)
}
