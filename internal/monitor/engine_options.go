package monitor

import (
	"fmt"
	"reflect"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpmon/mcpmon/internal/contracts"
	"github.com/mcpmon/mcpmon/internal/domain"
)

// EngineDependencies contains the required external dependencies for the
// health engine.
// NewEngineDependencies should be used to create instances of EngineDependencies.
type EngineDependencies struct {
	// Logger for engine operations.
	Logger hclog.Logger

	// Table provides read access to the OS process table.
	Table contracts.ProcessTable

	// Specs are the configured managed servers.
	Specs []domain.ServerSpec
}

// NewEngineDependencies creates and validates EngineDependencies.
func NewEngineDependencies(
	logger hclog.Logger,
	table contracts.ProcessTable,
	specs []domain.ServerSpec,
) (EngineDependencies, error) {
	deps := EngineDependencies{
		Logger: logger,
		Table:  table,
		Specs:  specs,
	}

	if err := deps.Validate(); err != nil {
		return EngineDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d EngineDependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	if d.Table == nil || reflect.ValueOf(d.Table).IsNil() {
		return fmt.Errorf("process table cannot be nil")
	}
	return nil
}

// EngineOptions contains optional configuration for the health engine.
// NewEngineOptions should be used to create instances of EngineOptions.
type EngineOptions struct {
	// FreshnessWindow is how long a cached verdict is reused before a real
	// probe is required.
	FreshnessWindow time.Duration

	// Clock supplies the current time.
	Clock func() time.Time
}

// EngineOption defines a functional option for configuring EngineOptions.
type EngineOption func(*EngineOptions) error

// NewEngineOptions creates EngineOptions with defaults applied, then user
// options in order with later options overriding earlier ones.
func NewEngineOptions(opt ...EngineOption) (EngineOptions, error) {
	options := EngineOptions{
		FreshnessWindow: DefaultFreshnessWindow,
		Clock:           time.Now,
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&options); err != nil {
			return EngineOptions{}, err
		}
	}

	return options, nil
}

// WithFreshnessWindow overrides the cache freshness window.
func WithFreshnessWindow(window time.Duration) EngineOption {
	return func(o *EngineOptions) error {
		if window <= 0 {
			return fmt.Errorf("freshness window must be positive, got %s", window)
		}
		o.FreshnessWindow = window
		return nil
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) EngineOption {
	return func(o *EngineOptions) error {
		if clock == nil {
			return fmt.Errorf("clock cannot be nil")
		}
		o.Clock = clock
		return nil
	}
}
