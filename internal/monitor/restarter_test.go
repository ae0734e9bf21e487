package monitor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mcpmon/mcpmon/internal/domain"
)

// fakeControl scripts terminate/spawn behavior and records call order.
type fakeControl struct {
	mu       sync.Mutex
	calls    []string
	spawnPID int
	spawnErr error
	termErr  error

	// onSpawn lets a test flip fake table state the moment spawning happens.
	onSpawn func(pid int)
}

func (f *fakeControl) Terminate(_ context.Context, spec domain.ServerSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "terminate:"+spec.Name)
	return f.termErr
}

func (f *fakeControl) Spawn(_ context.Context, spec domain.ServerSpec) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "spawn:"+spec.Name)
	onSpawn := f.onSpawn
	pid, err := f.spawnPID, f.spawnErr
	f.mu.Unlock()

	if err != nil {
		return 0, err
	}
	if onSpawn != nil {
		onSpawn(pid)
	}
	return pid, nil
}

func (f *fakeControl) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestRestarter(
	t *testing.T,
	engine *Engine,
	table *fakeTable,
	control *fakeControl,
) *Restarter {
	t.Helper()

	deps, err := NewRestarterDependencies(hclog.NewNullLogger(), engine, table, control)
	require.NoError(t, err)

	restarter, err := NewRestarter(
		deps,
		WithGracePeriod(60*time.Millisecond),
		WithReadinessInterval(10*time.Millisecond),
	)
	require.NoError(t, err)

	return restarter
}

func TestRestarter_Restart_notConfigured(t *testing.T) {
	t.Parallel()

	table := newFakeTable()
	control := &fakeControl{}
	engine := newTestEngine(t, table, nil)
	restarter := newTestRestarter(t, engine, table, control)

	result := restarter.Restart(t.Context(), "ghost")
	require.False(t, result.Success)
	require.Equal(t, "Server ghost not found in configuration", result.Message)
	require.Empty(t, control.callLog(), "an unconfigured restart must not touch the OS")
	require.Zero(t, table.probeCount())
}

func TestRestarter_Restart_success(t *testing.T) {
	t.Parallel()

	table := newFakeTable()
	control := &fakeControl{
		spawnPID: 5150,
		onSpawn: func(pid int) {
			table.mu.Lock()
			defer table.mu.Unlock()
			table.pids["sleep"] = pid
			table.alive[pid] = true
			table.uptime[pid] = 1
		},
	}

	engine := newTestEngine(t, table, []domain.ServerSpec{specAlpha()})
	restarter := newTestRestarter(t, engine, table, control)

	result := restarter.Restart(t.Context(), "alpha")
	require.True(t, result.Success)
	require.Contains(t, result.Message, "alpha")
	require.Contains(t, result.Message, "5150")
	require.Equal(t, []string{"terminate:alpha", "spawn:alpha"}, control.callLog())

	// The reverified verdict must be recorded, not a stale cache entry.
	status, err := engine.Check(t.Context(), "alpha")
	require.NoError(t, err)
	require.True(t, status.Healthy())
}

func TestRestarter_Restart_spawnFailure(t *testing.T) {
	t.Parallel()

	table := newFakeTable()
	control := &fakeControl{spawnErr: fmt.Errorf("exec format error")}

	engine := newTestEngine(t, table, []domain.ServerSpec{specAlpha()})

	// Seed the cache so the failure path can be shown to leave it untouched.
	seeded, err := engine.Check(t.Context(), "alpha")
	require.NoError(t, err)
	probesBefore := table.probeCount()

	restarter := newTestRestarter(t, engine, table, control)

	result := restarter.Restart(t.Context(), "alpha")
	require.False(t, result.Success)
	require.Contains(t, result.Message, "Failed to restart alpha")
	require.Contains(t, result.Message, "exec format error")

	// Cache stays whatever it was before the attempt.
	require.Equal(t, probesBefore, table.probeCount())
	cached, err := engine.Check(t.Context(), "alpha")
	require.NoError(t, err)
	require.Equal(t, seeded.LastChecked, cached.LastChecked)
}

func TestRestarter_Restart_terminateFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	table := newFakeTable()
	control := &fakeControl{
		termErr:  fmt.Errorf("operation not permitted"),
		spawnPID: 6000,
		onSpawn: func(pid int) {
			table.mu.Lock()
			defer table.mu.Unlock()
			table.pids["sleep"] = pid
			table.alive[pid] = true
		},
	}

	engine := newTestEngine(t, table, []domain.ServerSpec{specAlpha()})
	restarter := newTestRestarter(t, engine, table, control)

	result := restarter.Restart(t.Context(), "alpha")
	require.True(t, result.Success)
}

func TestRestarter_Restart_exitsDuringGrace(t *testing.T) {
	t.Parallel()

	table := newFakeTable()
	control := &fakeControl{spawnPID: 7000} // never marked alive in the fake table

	engine := newTestEngine(t, table, []domain.ServerSpec{specAlpha()})
	restarter := newTestRestarter(t, engine, table, control)

	result := restarter.Restart(t.Context(), "alpha")
	require.False(t, result.Success)
	require.Contains(t, result.Message, "exited during startup")
}

func TestRestarter_Restart_stillUnhealthyAfterRestart(t *testing.T) {
	t.Parallel()

	table := newFakeTable()
	control := &fakeControl{
		spawnPID: 8000,
		onSpawn: func(pid int) {
			table.mu.Lock()
			defer table.mu.Unlock()
			// The PID stays alive through the grace period but the
			// locator attributes a dead process to the server.
			table.alive[pid] = true
			table.pids["sleep"] = 9999
		},
	}

	engine := newTestEngine(t, table, []domain.ServerSpec{specAlpha()})
	restarter := newTestRestarter(t, engine, table, control)

	result := restarter.Restart(t.Context(), "alpha")
	require.False(t, result.Success)
	require.Contains(t, result.Message, "still reporting unhealthy")
}

func TestRestarter_RestartUnhealthy(t *testing.T) {
	t.Parallel()

	table := newFakeTable()
	table.pids["healthy-server"] = 10
	table.alive[10] = true

	specs := []domain.ServerSpec{
		{Name: "alpha", Command: "healthy-server"},
		{Name: "beta", Command: "beta-server"},
		{Name: "gamma", Command: "gamma-server"},
	}

	control := &fakeControl{
		spawnPID: 9100,
		onSpawn: func(pid int) {
			table.mu.Lock()
			defer table.mu.Unlock()
			table.alive[pid] = true
			table.pids["gamma-server"] = pid
		},
	}
	// beta's spawn also "succeeds" but its process never appears, so its
	// restart fails without aborting gamma's attempt.

	engine := newTestEngine(t, table, specs)
	restarter := newTestRestarter(t, engine, table, control)

	results := restarter.RestartUnhealthy(t.Context())
	require.Len(t, results, 2, "exactly one restart per unhealthy server")
	require.Equal(t, "beta", results[0].Name)
	require.Equal(t, "gamma", results[1].Name)
	require.True(t, results[1].Success, "beta's failure must not prevent gamma's restart")

	log := control.callLog()
	require.Equal(t, []string{"terminate:beta", "spawn:beta", "terminate:gamma", "spawn:gamma"}, log)
}
