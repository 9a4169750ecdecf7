package digbridge_test

import (
	"testing"

	"github.com/junioryono/blueprint"
	"github.com/junioryono/blueprint/digbridge"
	"github.com/junioryono/blueprint/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"
)

type Clock interface {
	Now() int64
}

type fixedClock struct{ at int64 }

func (c fixedClock) Now() int64 { return c.at }

func TestProvide(t *testing.T) {
	c := testutil.NewContainerBuilder(t).
		With("bar", blueprint.ComponentConfig{Type: "Object", Singleton: true}).
		With("foo", blueprint.ComponentConfig{
			Type:            "Widget",
			ConstructorArgs: []blueprint.DependencySpec{blueprint.Value(3), blueprint.Ref("bar")},
		}).
		Build()

	dc := dig.New()
	require.NoError(t, digbridge.Provide[*testutil.Widget](dc, c, "foo"))
	require.NoError(t, digbridge.Provide[*blueprint.Object](dc, c, "bar", dig.Name("bar")))

	type params struct {
		dig.In

		Widget *testutil.Widget
		Bar    *blueprint.Object `name:"bar"`
	}

	err := dc.Invoke(func(p params) {
		assert.Equal(t, 3, p.Widget.Size)
		assert.Same(t, p.Bar, p.Widget.Attachment)
	})
	require.NoError(t, err)
}

func TestProvide_Errors(t *testing.T) {
	c := testutil.NewContainerBuilder(t).
		With("obj", blueprint.ComponentConfig{Type: "Object"}).
		Build()

	assert.Error(t, digbridge.Provide[*blueprint.Object](nil, c, "obj"))
	assert.Error(t, digbridge.Provide[*blueprint.Object](dig.New(), nil, "obj"))

	dc := dig.New()
	require.NoError(t, digbridge.Provide[*testutil.Widget](dc, c, "obj"))
	err := dc.Invoke(func(*testutil.Widget) {})

	var tm blueprint.TypeMismatchError
	assert.ErrorAs(t, dig.RootCause(err), &tm)

	dc = dig.New()
	require.NoError(t, digbridge.Provide[*testutil.Widget](dc, c, "missing"))
	err = dc.Invoke(func(*testutil.Widget) {})
	assert.True(t, blueprint.IsNotFound(dig.RootCause(err)))
}

func TestEnvironment(t *testing.T) {
	dc := dig.New()
	require.NoError(t, dc.Provide(func() Clock { return fixedClock{at: 42} }))
	require.NoError(t, dc.Provide(func() string { return "primary" }, dig.Name("dsn")))

	env, err := digbridge.Environment(dc, "app-context",
		digbridge.Bind[Clock]("clock"),
		digbridge.Bind[string]("dsn", dig.FillInvokeInfo(&dig.InvokeInfo{})),
	)
	require.Error(t, err, "a plain string is not provided; only the named one is")
	assert.Contains(t, err.Error(), `binding "dsn"`)

	require.NoError(t, dc.Provide(func() string { return "fallback" }))
	env, err = digbridge.Environment(dc, "app-context",
		digbridge.Bind[Clock]("clock"),
		digbridge.Bind[string]("dsn"),
	)
	require.NoError(t, err)

	c, err := blueprint.New(blueprint.Registry{
		"ticker": {
			Type:       "Object",
			Properties: map[string]blueprint.DependencySpec{"clock": blueprint.Ref("clock"), "dsn": blueprint.Ref("dsn")},
		},
	}, blueprint.WithEnvironment(env), blueprint.WithTypes(testutil.NewTypes(t)))
	require.NoError(t, err)

	global, err := c.Resolve("global")
	require.NoError(t, err)
	assert.Equal(t, "app-context", global)

	ticker, err := blueprint.ResolveAs[*blueprint.Object](c, "ticker")
	require.NoError(t, err)
	assert.Equal(t, int64(42), ticker.Get("clock").(Clock).Now())
	assert.Equal(t, "fallback", ticker.Get("dsn"))
}
