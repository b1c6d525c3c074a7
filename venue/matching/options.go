package matching

import "github.com/btcsuite/btclog"

// options holds the knobs shared by the solver and the clearers.
type options struct {
	log btclog.Logger
}

// defaultOptions returns options that log through the package logger.
func defaultOptions() *options {
	return &options{
		log: log,
	}
}

// Option is a functional option that modifies a solver or clearer.
type Option func(*options)

// WithLogger makes a solver or clearer trace its steps to the given logger
// instead of the package logger.
func WithLogger(logger btclog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.log = logger
		}
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return o
}
