package blueprint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTypePath(t *testing.T) {
	valid := []string{"Object", "app.Widget", "$scope._private.Item2", "_"}
	invalid := []string{
		"",
		"alert('x')",
		"app..Widget",
		".app",
		"app.",
		"1app",
		"app.1Widget",
		"app/Widget",
		"app Widget",
		"require('fs').readFileSync",
		"Widget()",
	}

	for _, p := range valid {
		assert.True(t, ValidTypePath(p), p)
	}
	for _, p := range invalid {
		assert.False(t, ValidTypePath(p), p)
	}
}

func TestTypeRegistry_Builtins(t *testing.T) {
	types := NewTypeRegistry()

	for _, name := range []string{"Object", "Array", "Map", "String", "Number", "Boolean", "Date", "Error"} {
		typ := types.Resolve(name)
		require.NotNil(t, typ, name)
		assert.True(t, typ.Constructible(), name)
		assert.Equal(t, name, typ.Path())
	}

	obj, err := types.Resolve("Object").New(nil)
	require.NoError(t, err)
	assert.IsType(t, &Object{}, obj)

	arr, err := types.Resolve("Array").New([]any{1, "a"})
	require.NoError(t, err)
	assert.Equal(t, []any{1, "a"}, arr)

	empty, err := types.Resolve("Array").New(nil)
	require.NoError(t, err)
	assert.Equal(t, []any{}, empty)

	s, err := types.Resolve("String").New([]any{3, 4})
	require.NoError(t, err)
	assert.Equal(t, "3 4", s)

	n, err := types.Resolve("Number").New([]any{"2.5"})
	require.NoError(t, err)
	assert.Equal(t, 2.5, n)

	b, err := types.Resolve("Boolean").New([]any{"yes"})
	require.NoError(t, err)
	assert.Equal(t, true, b)

	d, err := types.Resolve("Date").New([]any{"2024-01-02T03:04:05Z"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), d)

	e, err := types.Resolve("Error").New([]any{"boom"})
	require.NoError(t, err, "a lone error result is the instance")
	assert.EqualError(t, e.(error), "boom")
}

func TestTypeRegistry_Register(t *testing.T) {
	types := NewTypeRegistry()

	err := types.Register("alert('x')", NewObject)
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.True(t, IsConfigError(err))

	err = types.Register("app.Widget", "not a func")
	assert.ErrorIs(t, err, ErrNotConstructor)

	var nilFn func() *Object
	assert.ErrorIs(t, types.Register("app.Widget", nilFn), ErrNotConstructor)

	require.NoError(t, types.Register("app.Widget", NewObject))
	assert.True(t, types.Has("app.Widget"))
	assert.False(t, types.Has("app"), "registering a dotted path creates no parent")
}

func TestTypeRegistry_RegisterValue(t *testing.T) {
	types := NewTypeRegistry()

	fn := func() string { return "called" }
	require.NoError(t, types.RegisterValue("app.handler", fn))

	typ := types.Resolve("app.handler")
	require.NotNil(t, typ)
	assert.False(t, typ.Constructible())

	got, err := typ.New([]any{"ignored"})
	require.NoError(t, err)
	assert.IsType(t, fn, got)

	assert.ErrorIs(t, types.RegisterValue("bad path", 1), ErrInvalidPath)

	require.NoError(t, types.RegisterValue("nothing", nil))
	typ = types.Resolve("nothing")
	require.NotNil(t, typ)
	assert.Nil(t, typ.Value())
}

func TestTypeRegistry_NamespaceWalk(t *testing.T) {
	types := NewTypeRegistry()

	obj := NewObject()
	require.NoError(t, obj.AssignField("Gizmo", NewObject))

	require.NoError(t, types.RegisterValue("app", Namespace{
		"models": Namespace{
			"Widget": NewObject,
			"Limit":  10,
		},
		"plain": map[string]any{"Item": NewObject},
		"dyn":   obj,
	}))

	widget := types.Resolve("app.models.Widget")
	require.NotNil(t, widget)
	assert.True(t, widget.Constructible())
	assert.Equal(t, "app.models.Widget", widget.Path())

	limit := types.Resolve("app.models.Limit")
	require.NotNil(t, limit)
	assert.False(t, limit.Constructible())
	assert.Equal(t, 10, limit.Value())

	assert.NotNil(t, types.Resolve("app.plain.Item"))
	assert.NotNil(t, types.Resolve("app.dyn.Gizmo"))

	ns := types.Resolve("app.models")
	require.NotNil(t, ns)
	assert.False(t, ns.Constructible())

	assert.Nil(t, types.Resolve("app.models.Missing"))
	assert.Nil(t, types.Resolve("app.models.Limit.Deeper"))
	assert.Nil(t, types.Resolve("other.Widget"))
}

func TestTypeRegistry_LongestPrefixWins(t *testing.T) {
	types := NewTypeRegistry()

	require.NoError(t, types.RegisterValue("app", Namespace{"sub": Namespace{"Kind": "outer"}}))
	require.NoError(t, types.RegisterValue("app.sub", Namespace{"Kind": "inner"}))

	assert.Equal(t, "inner", types.Resolve("app.sub.Kind").Value())
}

func TestTypeRegistry_Cache(t *testing.T) {
	types := NewTypeRegistry()
	require.NoError(t, types.RegisterValue("app", Namespace{"Kind": "first"}))

	first := types.Resolve("app.Kind")
	require.NotNil(t, first)
	assert.Same(t, first, types.Resolve("app.Kind"))

	require.NoError(t, types.RegisterValue("app", Namespace{"Kind": "second"}))
	second := types.Resolve("app.Kind")
	require.NotNil(t, second)
	assert.Equal(t, "second", second.Value())

	require.NoError(t, types.RegisterValue("application", "unrelated"))
	assert.Same(t, second, types.Resolve("app.Kind"))
}

func TestTypeRegistry_NeverExecutesPaths(t *testing.T) {
	types := NewTypeRegistry()
	called := false
	require.NoError(t, types.Register("alert", func(string) *Object {
		called = true
		return NewObject()
	}))

	assert.Nil(t, types.Resolve("alert('x')"))
	assert.Nil(t, types.Resolve("alert.call"))
	assert.False(t, called)
}

func TestDefaultTypes(t *testing.T) {
	assert.Same(t, DefaultTypes(), DefaultTypes())

	require.NoError(t, RegisterType("blueprintTest.Default", NewObject))
	require.NoError(t, RegisterTypeValue("blueprintTest.Value", 42))

	assert.True(t, DefaultTypes().Has("blueprintTest.Default"))
	assert.Equal(t, 42, DefaultTypes().Resolve("blueprintTest.Value").Value())
	assert.False(t, NewTypeRegistry().Has("blueprintTest.Default"))
}
