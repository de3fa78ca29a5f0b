package cfgloader

import "github.com/rise-and-shine/datamask/logger"

// Options holds configuration options for Load and MustLoad.
type Options struct {
	silent   bool
	logger   logger.Logger
	envFiles []string
}

// Option is a functional option for configuring Load behavior.
type Option func(*Options)

// WithSilent disables printing the loaded config.
func WithSilent() Option {
	return func(o *Options) {
		o.silent = true
	}
}

// WithLogger sets the logger the loaded config is printed to. Default is the global logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Options) {
		o.logger = l
	}
}

// WithEnvFiles sets the dotenv files loaded before env expansion. Default is ".env".
// Files that do not exist are ignored.
func WithEnvFiles(files ...string) Option {
	return func(o *Options) {
		o.envFiles = files
	}
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Named("cfgloader")
	}
	return o
}
