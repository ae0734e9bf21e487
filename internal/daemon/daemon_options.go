package daemon

import (
	"github.com/mcpmon/mcpmon/internal/monitor"
)

// Options contains optional configuration for the Daemon.
// NewOptions should be used to create instances of Options.
type Options struct {
	// EngineOptions configure the health monitor engine.
	EngineOptions []monitor.EngineOption

	// RestarterOptions configure the restart protocol.
	RestarterOptions []monitor.RestarterOption

	// APIOptions configure the optional HTTP API server.
	APIOptions []APIOption
}

// Option defines a functional option for configuring Options.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
func NewOptions(opts ...Option) (Options, error) {
	options := Options{}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithEngineOptions forwards options to the health monitor engine.
func WithEngineOptions(opts ...monitor.EngineOption) Option {
	return func(o *Options) error {
		o.EngineOptions = append(o.EngineOptions, opts...)
		return nil
	}
}

// WithRestarterOptions forwards options to the restarter.
func WithRestarterOptions(opts ...monitor.RestarterOption) Option {
	return func(o *Options) error {
		o.RestarterOptions = append(o.RestarterOptions, opts...)
		return nil
	}
}

// WithAPIOptions forwards options to the HTTP API server.
func WithAPIOptions(opts ...APIOption) Option {
	return func(o *Options) error {
		o.APIOptions = append(o.APIOptions, opts...)
		return nil
	}
}
