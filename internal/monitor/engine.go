// Package monitor implements the health-state engine for managed servers:
// a time-bounded verdict cache, the probe orchestration that turns OS process
// observations into statuses, and the restart protocol.
package monitor

import (
	"context"
	stdErrors "errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpmon/mcpmon/internal/contracts"
	"github.com/mcpmon/mcpmon/internal/domain"
	"github.com/mcpmon/mcpmon/internal/errors"
)

var _ contracts.HealthMonitor = (*Engine)(nil)

// Engine produces health verdicts for the configured fleet by orchestrating
// the process table and the verdict cache. All mutable state is owned by the
// instance and guarded internally: the MCP and HTTP surfaces serve requests
// concurrently.
// NewEngine should be used to create instances of Engine.
type Engine struct {
	logger hclog.Logger
	table  contracts.ProcessTable
	cache  *Cache
	now    func() time.Time

	specs map[string]domain.ServerSpec
	order []string

	mu            sync.RWMutex
	statuses      map[string]domain.ServerStatus
	lastFullCheck time.Time
}

// NewEngine creates a health engine for the given server specs.
func NewEngine(deps EngineDependencies, opt ...EngineOption) (*Engine, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for health engine: %w", err)
	}

	opts, err := NewEngineOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid engine options: %w", err)
	}

	specs := make(map[string]domain.ServerSpec, len(deps.Specs))
	order := make([]string, 0, len(deps.Specs))
	for _, spec := range deps.Specs {
		specs[spec.Name] = spec
		order = append(order, spec.Name)
	}
	sort.Strings(order)

	return &Engine{
		logger:   deps.Logger.Named("engine"),
		table:    deps.Table,
		cache:    NewCache(opts.FreshnessWindow),
		now:      opts.Clock,
		specs:    specs,
		order:    order,
		statuses: make(map[string]domain.ServerStatus, len(deps.Specs)),
	}, nil
}

// Specs returns the configured server specs, sorted by name.
func (e *Engine) Specs() []domain.ServerSpec {
	specs := make([]domain.ServerSpec, 0, len(e.order))
	for _, name := range e.order {
		specs = append(specs, e.specs[name])
	}
	return specs
}

// Spec returns the spec for a single server, reporting whether it is configured.
func (e *Engine) Spec(name string) (domain.ServerSpec, bool) {
	spec, ok := e.specs[name]
	return spec, ok
}

// Check returns the status for a single server. A fresh cached verdict is
// returned as-is with no OS probe; otherwise the server is probed and the
// verdict recorded.
func (e *Engine) Check(ctx context.Context, name string) (domain.ServerStatus, error) {
	spec, ok := e.specs[name]
	if !ok {
		return domain.ServerStatus{}, fmt.Errorf("%w: %s", errors.ErrServerNotConfigured, name)
	}

	if entry, fresh := e.cache.Get(name, e.now()); fresh {
		return e.cachedStatus(spec, entry), nil
	}

	return e.probe(ctx, spec), nil
}

// ForceCheck invalidates any cached verdict for the server first, guaranteeing
// a real OS probe.
func (e *Engine) ForceCheck(ctx context.Context, name string) (domain.ServerStatus, error) {
	e.cache.Invalidate(name)
	return e.Check(ctx, name)
}

// CheckAll returns statuses for every configured server, honoring the cache,
// and stamps the fleet-wide last-full-check time.
func (e *Engine) CheckAll(ctx context.Context) []domain.ServerStatus {
	return e.checkAll(ctx, false)
}

// ForceCheckAll probes every configured server, bypassing the cache.
func (e *Engine) ForceCheckAll(ctx context.Context) []domain.ServerStatus {
	return e.checkAll(ctx, true)
}

// Unhealthy returns the servers whose current state is not an affirmative
// healthy verdict. Servers in an unknown state are included: they cannot be
// distinguished from dead ones without a transport-level ping.
func (e *Engine) Unhealthy(ctx context.Context) []domain.ServerStatus {
	statuses := e.CheckAll(ctx)
	return slices.DeleteFunc(statuses, func(s domain.ServerStatus) bool {
		return s.Healthy()
	})
}

// LastFullCheck returns the time of the most recent full fleet check, or the
// zero time if none has completed yet.
func (e *Engine) LastFullCheck() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastFullCheck
}

func (e *Engine) checkAll(ctx context.Context, force bool) []domain.ServerStatus {
	statuses := make([]domain.ServerStatus, 0, len(e.order))
	for _, name := range e.order {
		var (
			status domain.ServerStatus
			err    error
		)
		if force {
			status, err = e.ForceCheck(ctx, name)
		} else {
			status, err = e.Check(ctx, name)
		}
		if err != nil {
			e.logger.Error("Check failed during fleet sweep", "server", name, "error", err)
			continue
		}
		statuses = append(statuses, status)
	}

	e.mu.Lock()
	e.lastFullCheck = e.now()
	e.mu.Unlock()

	return statuses
}

// cachedStatus rebuilds a status from the cached verdict plus the static spec
// fields, reusing the last-probed PID and uptime where one was recorded.
func (e *Engine) cachedStatus(spec domain.ServerSpec, entry CacheEntry) domain.ServerStatus {
	e.mu.RLock()
	last, ok := e.statuses[spec.Name]
	e.mu.RUnlock()

	if ok && last.LastChecked.Equal(entry.ObservedAt) {
		return last
	}

	return domain.ServerStatus{
		Name:        spec.Name,
		Description: spec.Description,
		Command:     spec.Command,
		Args:        spec.Args,
		State:       entry.State,
		LastChecked: entry.ObservedAt,
	}
}

// probe performs a real OS probe and records the verdict in the cache and the
// last-status map.
func (e *Engine) probe(ctx context.Context, spec domain.ServerSpec) domain.ServerStatus {
	now := e.now()
	status := domain.ServerStatus{
		Name:        spec.Name,
		Description: spec.Description,
		Command:     spec.Command,
		Args:        spec.Args,
		LastChecked: now,
	}

	pid, err := e.table.Locate(ctx, spec)
	switch {
	case err == nil:
		info, inspectErr := e.table.Inspect(ctx, pid)
		if inspectErr != nil {
			e.logger.Warn("Inspect failed", "server", spec.Name, "pid", pid, "error", inspectErr)
			status.State = domain.HealthStateUnknown
			break
		}

		if info.Exists {
			status.State = domain.HealthStateHealthy
			status.PID = &pid
			uptime := info.UptimeSeconds
			status.UptimeSeconds = &uptime
		} else {
			status.State = domain.HealthStateUnhealthy
		}

	case stdErrors.Is(err, errors.ErrProcessNotFound):
		// No discoverable OS footprint and no transport-level ping:
		// cannot be distinguished from a dead process, so the verdict is
		// explicitly unknown rather than optimistically healthy.
		status.State = domain.HealthStateUnknown

	default:
		e.logger.Warn("Process table unavailable", "server", spec.Name, "error", err)
		status.State = domain.HealthStateUnknown
	}

	e.cache.Put(spec.Name, status.State, now)

	e.mu.Lock()
	e.statuses[spec.Name] = status
	e.mu.Unlock()

	e.logger.Debug("Probed server", "server", spec.Name, "state", status.State)

	return status
}
