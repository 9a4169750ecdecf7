package blueprint

import "go.uber.org/zap"

// Option configures a Container.
type Option interface {
	apply(*containerOptions)
}

// containerOptions holds container configuration.
type containerOptions struct {
	env      *Environment
	logger   *zap.Logger
	types    *TypeRegistry
	validate bool
}

// optionFunc adapts a function to Option.
type optionFunc func(*containerOptions)

func (f optionFunc) apply(opts *containerOptions) {
	f(opts)
}

// WithEnvironment seeds the container's ambient singletons from env instead of
// DefaultEnvironment.
func WithEnvironment(env Environment) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.env = &env
	})
}

// WithLogger sets the logger used for resolution events. The default discards.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.logger = logger
	})
}

// WithTypes sets the registry used to resolve config type paths. The default
// is DefaultTypes.
func WithTypes(types *TypeRegistry) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.types = types
	})
}

// WithValidation makes New validate the registry and fail on any finding.
func WithValidation() Option {
	return optionFunc(func(opts *containerOptions) {
		opts.validate = true
	})
}

func buildOptions(opts []Option) *containerOptions {
	o := &containerOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(o)
		}
	}

	if o.env == nil {
		env := DefaultEnvironment()
		o.env = &env
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.types == nil {
		o.types = DefaultTypes()
	}

	return o
}
