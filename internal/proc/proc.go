// Package proc maps logical server identities to concrete OS processes.
// Discovery is heuristic: entries in the process table are matched by
// command-line substring, which can misattribute processes for servers with no
// distinct OS footprint. Wherever mcpmon itself spawns a process it records the
// PID directly instead of re-deriving it by matching.
package proc

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpmon/mcpmon/internal/domain"
	"github.com/mcpmon/mcpmon/internal/errors"
)

// Info describes the observed state of a single process.
type Info struct {
	// Exists reports whether the process is currently alive.
	Exists bool

	// UptimeSeconds is elapsed wall-clock time since process start, in
	// whole seconds. Advisory: parse failures degrade to zero rather than
	// failing a health check.
	UptimeSeconds int64
}

// runFunc executes a command and returns its combined standard output.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Table reads and mutates the OS process table.
// NewTable should be used to create instances of Table.
type Table struct {
	logger hclog.Logger
	run    runFunc
}

// NewTable creates a process table accessor.
func NewTable(logger hclog.Logger, opt ...Option) (*Table, error) {
	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Table{
		logger: logger.Named("proc"),
		run:    opts.run,
	}, nil
}

// Locate finds a live process whose command line matches the spec's command or
// the concatenation of its args. On multiple matches the lowest PID observed
// wins; this is a heuristic, not a guarantee of correct attribution.
// A miss returns an error wrapping errors.ErrProcessNotFound and is not itself
// a failure.
func (t *Table) Locate(ctx context.Context, spec domain.ServerSpec) (int, error) {
	out, err := t.run(ctx, "ps", "-eo", "pid=,args=")
	if err != nil {
		return 0, fmt.Errorf("failed to read process table: %w", err)
	}

	joinedArgs := strings.Join(spec.Args, " ")
	self := os.Getpid()

	best := 0
	for line := range strings.Lines(string(out)) {
		pid, cmdline, ok := splitTableLine(line)
		if !ok || pid == self {
			continue
		}

		if !matchesSpec(cmdline, spec.Command, joinedArgs) {
			continue
		}

		if best == 0 || pid < best {
			best = pid
		}
	}

	if best == 0 {
		return 0, fmt.Errorf("%w: no process matching '%s'", errors.ErrProcessNotFound, spec.CommandLine())
	}

	t.logger.Debug("Located process", "server", spec.Name, "pid", best)

	return best, nil
}

// Inspect determines liveness and uptime for a process without sending a
// disruptive signal.
func (t *Table) Inspect(ctx context.Context, pid int) (Info, error) {
	if pid <= 0 {
		return Info{}, fmt.Errorf("invalid pid: %d", pid)
	}

	if !isAlive(pid) {
		return Info{Exists: false}, nil
	}

	out, err := t.run(ctx, "ps", "-o", "etime=", "-p", strconv.Itoa(pid))
	if err != nil {
		// The process raced away between the liveness check and the probe.
		t.logger.Debug("Uptime probe failed", "pid", pid, "error", err)
		return Info{Exists: isAlive(pid)}, nil
	}

	return Info{
		Exists:        true,
		UptimeSeconds: ParseElapsed(strings.TrimSpace(string(out))),
	}, nil
}

// Terminate best-effort kills any process matching the spec, via the same
// heuristic as Locate. A missing victim is not an error: the target may
// already be gone.
func (t *Table) Terminate(ctx context.Context, spec domain.ServerSpec) error {
	pid, err := t.Locate(ctx, spec)
	if err != nil {
		t.logger.Debug("No process to terminate", "server", spec.Name, "error", err)
		return nil
	}

	t.logger.Info("Terminating process", "server", spec.Name, "pid", pid)
	killTree(pid)

	return nil
}

// Spawn launches a new process from the spec's command and args, detached from
// the monitor's own process group so its lifetime outlives mcpmon, with
// standard streams discarded.
func (t *Table) Spawn(_ context.Context, spec domain.ServerSpec) (int, error) {
	if strings.TrimSpace(spec.Command) == "" {
		return 0, fmt.Errorf("%w: empty command for server '%s'", errors.ErrRestartFailed, spec.Name)
	}

	// Deliberately not context-bound: the child must not share the
	// monitor's lifetime or cancellation.
	cmd := exec.Command(spec.Command, spec.Args...)
	setDetached(cmd)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("%w: failed to spawn '%s': %w", errors.ErrRestartFailed, spec.CommandLine(), err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		t.logger.Warn("Failed to release spawned process handle", "server", spec.Name, "pid", pid, "error", err)
	}

	t.logger.Info("Spawned process", "server", spec.Name, "pid", pid)

	return pid, nil
}

// ParseElapsed converts a ps(1) etime value to whole seconds.
// Supported formats: 'MM:SS', 'HH:MM:SS' and 'DD-HH:MM:SS'. Unrecognized
// input yields zero, never an error.
func ParseElapsed(v string) int64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	var days int64
	if idx := strings.Index(v, "-"); idx != -1 {
		d, err := strconv.ParseInt(v[:idx], 10, 64)
		if err != nil {
			return 0
		}
		days = d
		v = v[idx+1:]
	}

	parts := strings.Split(v, ":")
	fields := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0
		}
		fields = append(fields, n)
	}

	switch len(fields) {
	case 2:
		return days*86400 + fields[0]*60 + fields[1]
	case 3:
		return days*86400 + fields[0]*3600 + fields[1]*60 + fields[2]
	default:
		return 0
	}
}

// splitTableLine parses one 'ps -eo pid=,args=' output line.
func splitTableLine(line string) (pid int, cmdline string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, "", false
	}

	rest := line
	if idx := strings.IndexByte(line, ' '); idx != -1 {
		rest = line[idx+1:]
		line = line[:idx]
	} else {
		rest = ""
	}

	pid, err := strconv.Atoi(line)
	if err != nil || pid <= 0 {
		return 0, "", false
	}

	return pid, strings.TrimSpace(rest), true
}

// matchesSpec reports whether a command line matches the configured command or
// the joined args.
func matchesSpec(cmdline, command, joinedArgs string) bool {
	if command != "" && strings.Contains(cmdline, command) {
		return true
	}
	return joinedArgs != "" && strings.Contains(cmdline, joinedArgs)
}

// defaultRun executes commands against the real OS.
func defaultRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
