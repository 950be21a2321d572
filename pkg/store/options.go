package store

import "log/slog"

// DefaultTracerName is the otel tracer used by Tx unless WithTracerName is
// given.
const DefaultTracerName = "freedux"

// Option configures a Store.
type Option func(*options)

type options struct {
	name       string
	logger     *slog.Logger
	observer   Observer
	tracerName string
}

func defaultOptions() options {
	return options{
		name:       "default",
		tracerName: DefaultTracerName,
	}
}

// WithName labels the store in logs, metrics and traces.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger used for diagnostics.
// If unset, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver installs instrumentation hooks.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithTracerName sets the otel tracer name used by Tx.
func WithTracerName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.tracerName = name
		}
	}
}
