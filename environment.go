package blueprint

import (
	"context"
	"maps"
	"os"
	"strings"
)

// Reserved singleton names seeded into every container.
const (
	ContainerName = "container"
	GlobalName    = "global"
)

// Environment is the bundle of host-provided singletons a container is seeded
// with. The bundle is copied at construction; later changes to Services do
// not reach the container.
type Environment struct {
	// Global is served under the name "global". A nil Global becomes
	// context.Background().
	Global any

	// Services are served under their map keys. Nil entries are skipped.
	Services map[string]any
}

// DefaultEnvironment exposes the process's standard streams, arguments and
// environment variables.
func DefaultEnvironment() Environment {
	return Environment{
		Global: context.Background(),
		Services: map[string]any{
			"stdin":  os.Stdin,
			"stdout": os.Stdout,
			"stderr": os.Stderr,
			"args":   os.Args,
			"env":    environ(),
		},
	}
}

// ambient returns the frozen singleton set for this environment, excluding the
// container itself.
func (e Environment) ambient() map[string]any {
	seeded := make(map[string]any, len(e.Services)+1)
	for name, svc := range e.Services {
		if svc != nil {
			seeded[name] = svc
		}
	}

	global := e.Global
	if global == nil {
		global = context.Background()
	}
	seeded[GlobalName] = global

	return seeded
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// WithService returns a copy of e that also serves svc under name.
func (e Environment) WithService(name string, svc any) Environment {
	services := maps.Clone(e.Services)
	if services == nil {
		services = make(map[string]any)
	}
	services[name] = svc
	return Environment{Global: e.Global, Services: services}
}
