// Package blueprint builds object graphs from declarative component configs.
//
// # Overview
//
// A Registry maps names to ComponentConfig values. A Container turns a name
// into a live instance: it constructs the instance, caches it when the config
// is a singleton, and injects its properties, resolving references to other
// components by name.
//
//	types := blueprint.NewTypeRegistry()
//	types.Register("app.Widget", NewWidget)
//
//	c, err := blueprint.New(blueprint.Registry{
//	    "bar": {Type: "Object", Singleton: true},
//	    "foo": {
//	        Type:            "app.Widget",
//	        ConstructorArgs: []blueprint.DependencySpec{blueprint.Value(10), blueprint.Ref("bar")},
//	    },
//	}, blueprint.WithTypes(types))
//
//	foo, err := c.Resolve("foo")
//
// # Type Paths
//
// Config types are dotted paths looked up in a TypeRegistry. Paths must match
// a strict allow-list of letters, digits, '_', '$' and '.' separators; anything
// else resolves to nothing and is never evaluated. Registered funcs are
// constructors, invoked positionally with the resolved constructor args.
// Values registered with RegisterValue are returned as-is. A Namespace value
// makes its members reachable as "prefix.Member".
//
// Built-in types: Object, Array, Map, String, Number, Boolean, Date and Error.
//
// # Resolution
//
// Resolve looks a name up in the singleton table first, then in the registry.
// Abstract configs cannot be resolved. Instances come either from direct
// construction or from a factory component's method. Singletons are cached
// before their properties are injected, so a property may refer back to the
// component being built.
//
// # Property Injection
//
// Properties are injected through a Set<Name> method when the instance has
// one, through FieldAssigner otherwise, and finally into an exported struct
// field named <Name> or tagged `inject:"name"`. A config inherits the
// properties of its parent chain; the most-derived value of a property wins.
//
// # Ambient Singletons
//
// Every container serves "container" (itself), "global" (the environment's
// execution context) and the services of its Environment. These names cannot
// be overridden by configs.
//
// # Error Handling
//
// Failures are typed: ConfigError for incomplete configs, NotFoundError for
// strict resolution of unknown names, ResolutionError for abstract configs,
// unknown types and missing factory methods, InjectionError for properties
// that cannot be written, and CircularDependencyError for components that
// re-enter their own construction.
package blueprint
