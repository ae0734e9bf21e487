package contracts

import (
	"context"
	"time"

	"github.com/mcpmon/mcpmon/internal/domain"
	"github.com/mcpmon/mcpmon/internal/proc"
)

// ProcessTable provides read-only access to the OS process table.
type ProcessTable interface {
	// Locate finds a live process whose command line matches the spec.
	// On multiple matches the lowest PID wins. A miss returns an error
	// wrapping errors.ErrProcessNotFound.
	Locate(ctx context.Context, spec domain.ServerSpec) (int, error)

	// Inspect determines liveness and uptime for a process.
	// Uptime parse failures degrade to zero seconds; liveness is the
	// load-bearing signal.
	Inspect(ctx context.Context, pid int) (proc.Info, error)
}

// ProcessController mutates the OS process table on behalf of the restarter.
type ProcessController interface {
	// Terminate best-effort kills any process matching the spec.
	// A missing victim is not an error.
	Terminate(ctx context.Context, spec domain.ServerSpec) error

	// Spawn launches a new process from the spec, detached from the
	// monitor's own lifetime, and returns its PID.
	Spawn(ctx context.Context, spec domain.ServerSpec) (int, error)
}

// HealthMonitor produces health verdicts for managed servers.
type HealthMonitor interface {
	// Check returns the status for a single server, honoring the cache
	// freshness window.
	Check(ctx context.Context, name string) (domain.ServerStatus, error)

	// ForceCheck invalidates any cached verdict first, guaranteeing a real
	// OS probe.
	ForceCheck(ctx context.Context, name string) (domain.ServerStatus, error)

	// CheckAll returns statuses for every configured server.
	CheckAll(ctx context.Context) []domain.ServerStatus

	// ForceCheckAll probes every configured server, bypassing the cache.
	ForceCheckAll(ctx context.Context) []domain.ServerStatus

	// Unhealthy returns the servers whose current state is not healthy.
	Unhealthy(ctx context.Context) []domain.ServerStatus

	// Specs returns the configured server specs, sorted by name.
	Specs() []domain.ServerSpec

	// Spec returns the spec for a single server, reporting whether it is
	// configured.
	Spec(name string) (domain.ServerSpec, bool)

	// LastFullCheck returns the time of the most recent full fleet check,
	// or the zero time if none has completed yet.
	LastFullCheck() time.Time
}

// Restarter performs the terminate, respawn, reverify protocol.
type Restarter interface {
	// Restart attempts to restart one server by name.
	Restart(ctx context.Context, name string) domain.RestartResult

	// RestartUnhealthy restarts every currently-unhealthy server
	// sequentially, collecting per-server results.
	RestartUnhealthy(ctx context.Context) []domain.RestartResult
}
