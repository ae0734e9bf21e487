package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpmon/mcpmon/internal/contracts"
)

// APIDependencies contains the required external dependencies for the API server.
// NewAPIDependencies should be used to create instances of APIDependencies.
type APIDependencies struct {
	// Addr specifies the network address to bind (e.g., "localhost:8095").
	Addr string

	// Monitor produces health verdicts for managed servers.
	Monitor contracts.HealthMonitor

	// Restarter performs the restart protocol.
	Restarter contracts.Restarter

	// Logger for API server operations.
	Logger hclog.Logger
}

// NewAPIDependencies creates and validates APIDependencies.
func NewAPIDependencies(
	logger hclog.Logger,
	monitor contracts.HealthMonitor,
	restarter contracts.Restarter,
	addr string,
) (APIDependencies, error) {
	deps := APIDependencies{
		Addr:      addr,
		Monitor:   monitor,
		Restarter: restarter,
		Logger:    logger,
	}

	if err := deps.Validate(); err != nil {
		return APIDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d APIDependencies) Validate() error {
	if err := validateAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.Addr, err)
	}
	if d.Monitor == nil || reflect.ValueOf(d.Monitor).IsNil() {
		return fmt.Errorf("health monitor cannot be nil")
	}
	if d.Restarter == nil || reflect.ValueOf(d.Restarter).IsNil() {
		return fmt.Errorf("restarter cannot be nil")
	}
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	return nil
}
