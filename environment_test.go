package blueprint

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironment_Ambient(t *testing.T) {
	env := Environment{
		Services: map[string]any{"clock": "c", "empty": nil},
	}

	seeded := env.ambient()
	assert.Equal(t, "c", seeded["clock"])
	assert.Equal(t, context.Background(), seeded[GlobalName])
	assert.NotContains(t, seeded, "empty")
	assert.NotContains(t, seeded, ContainerName)
}

func TestEnvironment_WithService(t *testing.T) {
	base := Environment{Global: "g", Services: map[string]any{"a": 1}}
	next := base.WithService("b", 2)

	assert.Equal(t, "g", next.Global)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, next.Services)
	assert.NotContains(t, base.Services, "b")

	assert.Equal(t, map[string]any{"x": true}, Environment{}.WithService("x", true).Services)
}

func TestDefaultEnvironment(t *testing.T) {
	t.Setenv("BLUEPRINT_TEST_VAR", "a=b")

	env := DefaultEnvironment()
	assert.Equal(t, os.Stdout, env.Services["stdout"])
	assert.Equal(t, os.Args, env.Services["args"])

	vars, ok := env.Services["env"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "a=b", vars["BLUEPRINT_TEST_VAR"])
}

func TestEnvironment_FrozenAtConstruction(t *testing.T) {
	services := map[string]any{"clock": "before"}
	c, err := New(Registry{"x": {Type: "Object"}},
		WithEnvironment(Environment{Services: services}),
		WithTypes(NewTypeRegistry()))
	require.NoError(t, err)

	services["clock"] = "after"
	services["late"] = "late"

	clock, err := c.Resolve("clock")
	require.NoError(t, err)
	assert.Equal(t, "before", clock)
	assert.False(t, c.Has("late"))
}
