package testutil

import (
	"testing"

	"github.com/junioryono/blueprint"
	"github.com/stretchr/testify/require"
)

// Fixture constructors keyed by the type path they are registered under.
var Fixtures = map[string]any{
	"Widget":    NewWidget,
	"Shape":     NewShape,
	"Node":      NewNode,
	"Maker":     NewMaker,
	"Strict":    NewStrict,
	"Sealed":    NewSealed,
	"Exploding": NewExploding,
}

// NewTypes returns a type registry holding the built-ins and all fixtures.
func NewTypes(t *testing.T) *blueprint.TypeRegistry {
	t.Helper()

	types := blueprint.NewTypeRegistry()
	for path, ctor := range Fixtures {
		require.NoError(t, types.Register(path, ctor), "register %s", path)
	}
	return types
}

// Environment is an ambient bundle with a single "clock" service.
func Environment() blueprint.Environment {
	return blueprint.Environment{
		Global:   "test-global",
		Services: map[string]any{"clock": "test-clock"},
	}
}
