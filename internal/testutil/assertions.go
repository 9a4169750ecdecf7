package testutil

import (
	"testing"

	"github.com/junioryono/blueprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertResolvable resolves name strictly and asserts the instance type
func AssertResolvable[T any](t *testing.T, c *blueprint.Container, name string) T {
	t.Helper()
	instance, err := blueprint.ResolveAs[T](c, name)
	require.NoError(t, err, "failed to resolve %s", name)
	return instance
}

// AssertSingleton resolves name several times and checks identity is stable
func AssertSingleton(t *testing.T, c *blueprint.Container, name string, times int) any {
	t.Helper()
	first, err := c.Resolve(name)
	require.NoError(t, err)
	require.NotNil(t, first)

	for i := 1; i < times; i++ {
		next, err := c.Resolve(name)
		require.NoError(t, err)
		assert.Same(t, first, next, "resolution %d of %s returned a different instance", i+1, name)
	}
	return first
}

// AssertNotFound checks strict resolution fails with a not-found error
func AssertNotFound(t *testing.T, c *blueprint.Container, name string) {
	t.Helper()
	_, err := c.ResolveStrict(name)
	require.Error(t, err)
	assert.True(t, blueprint.IsNotFound(err), "expected not found error, got: %v", err)
}

// AssertResolutionError checks resolution fails with a resolution error
func AssertResolutionError(t *testing.T, c *blueprint.Container, name string) error {
	t.Helper()
	_, err := c.Resolve(name)
	require.Error(t, err)
	assert.True(t, blueprint.IsResolutionError(err), "expected resolution error, got: %v", err)
	return err
}
