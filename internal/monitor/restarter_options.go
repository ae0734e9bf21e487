package monitor

import (
	"fmt"
	"reflect"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpmon/mcpmon/internal/contracts"
)

// RestarterDependencies contains the required external dependencies for the
// restart orchestrator.
// NewRestarterDependencies should be used to create instances of RestarterDependencies.
type RestarterDependencies struct {
	// Logger for restarter operations.
	Logger hclog.Logger

	// Monitor supplies specs and post-restart verdicts.
	Monitor contracts.HealthMonitor

	// Table probes spawned PIDs during the grace period.
	Table contracts.ProcessTable

	// Control terminates and spawns managed processes.
	Control contracts.ProcessController
}

// NewRestarterDependencies creates and validates RestarterDependencies.
func NewRestarterDependencies(
	logger hclog.Logger,
	monitor contracts.HealthMonitor,
	table contracts.ProcessTable,
	control contracts.ProcessController,
) (RestarterDependencies, error) {
	deps := RestarterDependencies{
		Logger:  logger,
		Monitor: monitor,
		Table:   table,
		Control: control,
	}

	if err := deps.Validate(); err != nil {
		return RestarterDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d RestarterDependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	if d.Monitor == nil || reflect.ValueOf(d.Monitor).IsNil() {
		return fmt.Errorf("health monitor cannot be nil")
	}
	if d.Table == nil || reflect.ValueOf(d.Table).IsNil() {
		return fmt.Errorf("process table cannot be nil")
	}
	if d.Control == nil || reflect.ValueOf(d.Control).IsNil() {
		return fmt.Errorf("process controller cannot be nil")
	}
	return nil
}

// RestarterOptions contains optional configuration for the restart
// orchestrator.
// NewRestarterOptions should be used to create instances of RestarterOptions.
type RestarterOptions struct {
	// GracePeriod bounds the readiness wait after spawning.
	GracePeriod time.Duration

	// ReadinessInterval is the poll interval inside the grace period.
	ReadinessInterval time.Duration
}

// RestarterOption defines a functional option for configuring RestarterOptions.
type RestarterOption func(*RestarterOptions) error

// NewRestarterOptions creates RestarterOptions with defaults applied, then
// user options in order with later options overriding earlier ones.
func NewRestarterOptions(opt ...RestarterOption) (RestarterOptions, error) {
	options := RestarterOptions{
		GracePeriod:       DefaultGracePeriod,
		ReadinessInterval: DefaultReadinessInterval,
	}

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&options); err != nil {
			return RestarterOptions{}, err
		}
	}

	return options, nil
}

// WithGracePeriod overrides the startup grace period.
func WithGracePeriod(grace time.Duration) RestarterOption {
	return func(o *RestarterOptions) error {
		if grace <= 0 {
			return fmt.Errorf("grace period must be positive, got %s", grace)
		}
		o.GracePeriod = grace
		return nil
	}
}

// WithReadinessInterval overrides the readiness poll interval.
func WithReadinessInterval(interval time.Duration) RestarterOption {
	return func(o *RestarterOptions) error {
		if interval <= 0 {
			return fmt.Errorf("readiness interval must be positive, got %s", interval)
		}
		o.ReadinessInterval = interval
		return nil
	}
}
