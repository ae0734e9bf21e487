package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpmon/mcpmon/internal/contracts"
	"github.com/mcpmon/mcpmon/internal/domain"
)

const (
	// DefaultGracePeriod bounds how long a freshly spawned process is given
	// to reach a steady state before re-verification.
	DefaultGracePeriod = 5 * time.Second

	// DefaultReadinessInterval is how often the spawned process is probed
	// during the grace period.
	DefaultReadinessInterval = 500 * time.Millisecond
)

var _ contracts.Restarter = (*Restarter)(nil)

// Restarter implements the restart protocol: terminate the old process (best
// effort), spawn a replacement detached from the monitor, poll the spawned PID
// through the grace period, then ask the health engine for a fresh verdict.
// The spawned PID is the identity channel during the grace period; heuristic
// command-line matching is only used for the initial terminate.
// NewRestarter should be used to create instances of Restarter.
type Restarter struct {
	logger   hclog.Logger
	monitor  contracts.HealthMonitor
	table    contracts.ProcessTable
	control  contracts.ProcessController
	grace    time.Duration
	interval time.Duration

	// Per-name locks so two concurrent restarts of the same server cannot
	// interleave their terminate and spawn steps.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRestarter creates a restart orchestrator.
func NewRestarter(deps RestarterDependencies, opt ...RestarterOption) (*Restarter, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for restarter: %w", err)
	}

	opts, err := NewRestarterOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid restarter options: %w", err)
	}

	return &Restarter{
		logger:   deps.Logger.Named("restarter"),
		monitor:  deps.Monitor,
		table:    deps.Table,
		control:  deps.Control,
		grace:    opts.GracePeriod,
		interval: opts.ReadinessInterval,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// Restart attempts to restart one server by name. Failures are reported in the
// result, never raised: a broken restart must not crash the monitor or leave
// the cache inconsistent (on terminate/spawn failure the cached verdict stays
// whatever it was before the attempt).
func (r *Restarter) Restart(ctx context.Context, name string) domain.RestartResult {
	spec, ok := r.monitor.Spec(name)
	if !ok {
		return domain.RestartResult{
			Name:    name,
			Success: false,
			Message: fmt.Sprintf("Server %s not found in configuration", name),
		}
	}

	lock := r.nameLock(name)
	lock.Lock()
	defer lock.Unlock()

	if err := r.control.Terminate(ctx, spec); err != nil {
		// Best effort: the target may already be gone.
		r.logger.Warn("Terminate failed, proceeding to spawn", "server", name, "error", err)
	}

	pid, err := r.control.Spawn(ctx, spec)
	if err != nil {
		r.logger.Error("Spawn failed", "server", name, "error", err)
		return domain.RestartResult{
			Name:    name,
			Success: false,
			Message: fmt.Sprintf("Failed to restart %s: %v", name, err),
		}
	}

	alive := r.awaitReady(ctx, name, pid)

	// Reverify through the engine so the recorded verdict and cache reflect
	// the post-restart reality.
	status, err := r.monitor.ForceCheck(ctx, name)
	if err != nil {
		return domain.RestartResult{
			Name:    name,
			Success: false,
			Message: fmt.Sprintf("Failed to verify %s after restart: %v", name, err),
		}
	}

	if !alive {
		return domain.RestartResult{
			Name:    name,
			Success: false,
			Message: fmt.Sprintf("Server %s (PID %d) exited during startup", name, pid),
		}
	}

	if !status.Healthy() {
		return domain.RestartResult{
			Name:    name,
			Success: false,
			Message: fmt.Sprintf("Server %s restarted (PID %d) but still reporting unhealthy", name, pid),
		}
	}

	return domain.RestartResult{
		Name:    name,
		Success: true,
		Message: fmt.Sprintf("Server %s restarted successfully (PID %d)", name, pid),
	}
}

// RestartUnhealthy computes the unhealthy set once, then restarts each server
// sequentially. Sequential on purpose: parallel restarts race on the process
// table and make failure messages unattributable. One server's failure does
// not abort the remaining attempts.
func (r *Restarter) RestartUnhealthy(ctx context.Context) []domain.RestartResult {
	unhealthy := r.monitor.Unhealthy(ctx)

	results := make([]domain.RestartResult, 0, len(unhealthy))
	for _, status := range unhealthy {
		results = append(results, r.Restart(ctx, status.Name))
	}

	return results
}

// awaitReady polls the spawned PID through the grace period. Returns false if
// the process disappears before the window closes.
func (r *Restarter) awaitReady(ctx context.Context, name string, pid int) bool {
	deadline := time.NewTimer(r.grace)
	defer deadline.Stop()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return r.probeAlive(ctx, pid)
		case <-deadline.C:
			return r.probeAlive(ctx, pid)
		case <-ticker.C:
			if !r.probeAlive(ctx, pid) {
				r.logger.Warn("Spawned process exited during grace period", "server", name, "pid", pid)
				return false
			}
		}
	}
}

func (r *Restarter) probeAlive(ctx context.Context, pid int) bool {
	info, err := r.table.Inspect(ctx, pid)
	if err != nil {
		return false
	}
	return info.Exists
}

func (r *Restarter) nameLock(name string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[name] = lock
	}
	return lock
}
