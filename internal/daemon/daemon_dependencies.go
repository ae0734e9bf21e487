package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpmon/mcpmon/internal/domain"
)

// Dependencies contains all required dependencies for creating a Daemon.
// NewDependencies should be used to create instances of Dependencies.
type Dependencies struct {
	// Logger for daemon operations.
	Logger hclog.Logger

	// Specs describes the managed servers the daemon monitors.
	Specs []domain.ServerSpec

	// APIAddr specifies the network address for the optional HTTP API.
	// Leave empty to run without the HTTP API.
	APIAddr string
}

// NewDependencies creates a new validated Dependencies instance.
func NewDependencies(logger hclog.Logger, specs []domain.ServerSpec, apiAddr string) (Dependencies, error) {
	deps := Dependencies{
		Logger:  logger,
		Specs:   specs,
		APIAddr: apiAddr,
	}

	if err := deps.Validate(); err != nil {
		return Dependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are present and valid.
func (d *Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}

	if d.APIAddr != "" {
		if err := validateAddr(d.APIAddr); err != nil {
			return fmt.Errorf("invalid API address '%s': %w", d.APIAddr, err)
		}
	}

	return nil
}
