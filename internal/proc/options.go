package proc

import "fmt"

// Options contains optional configuration for a Table.
// NewOptions should be used to create instances of Options.
type Options struct {
	run runFunc
}

// Option defines a functional option for configuring Options.
type Option func(*Options) error

// NewOptions creates Options with defaults applied, then user options in order.
func NewOptions(opt ...Option) (Options, error) {
	options := Options{
		run: defaultRun,
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithRunner overrides command execution, primarily for tests.
func WithRunner(run runFunc) Option {
	return func(o *Options) error {
		if run == nil {
			return fmt.Errorf("runner cannot be nil")
		}
		o.run = run
		return nil
	}
}
