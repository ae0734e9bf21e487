package domain

import "time"

const (
	// HealthStateHealthy means a live OS process was matched to the server.
	HealthStateHealthy HealthState = "healthy"

	// HealthStateUnhealthy means the server's process is known to be gone.
	HealthStateUnhealthy HealthState = "unhealthy"

	// HealthStateUnknown means no process could be attributed to the server
	// and no transport-level ping is available to decide either way.
	HealthStateUnknown HealthState = "unknown"
)

// HealthState represents the verdict of a single health probe for a managed server.
type HealthState string

// Healthy reports whether the state is an affirmative healthy verdict.
func (s HealthState) Healthy() bool {
	return s == HealthStateHealthy
}

// ServerSpec is the launch specification for a managed server, loaded from
// configuration. Immutable once loaded; the engine never mutates it.
type ServerSpec struct {
	Name        string
	Description string
	Command     string
	Args        []string
}

// CommandLine returns the full command line the spec would launch.
func (s ServerSpec) CommandLine() string {
	line := s.Command
	for _, a := range s.Args {
		line += " " + a
	}
	return line
}

// ServerStatus is the result of a health probe for one managed server.
// Derived, not authoritative: recomputed per query, with the last-computed
// value retained by the engine for introspection.
type ServerStatus struct {
	Name          string      `json:"name"                    yaml:"name"`
	Description   string      `json:"description,omitempty"   yaml:"description,omitempty"`
	Command       string      `json:"command"                 yaml:"command"`
	Args          []string    `json:"args,omitempty"          yaml:"args,omitempty"`
	State         HealthState `json:"state"                   yaml:"state"`
	LastChecked   time.Time   `json:"last_checked"            yaml:"last_checked"`
	UptimeSeconds *int64      `json:"uptime_seconds,omitempty" yaml:"uptime_seconds,omitempty"`
	PID           *int        `json:"pid,omitempty"           yaml:"pid,omitempty"`
}

// Healthy reports whether the status carries an affirmative healthy verdict.
func (s ServerStatus) Healthy() bool {
	return s.State.Healthy()
}

// RestartResult reports the outcome of one restart attempt.
type RestartResult struct {
	Name    string `json:"name"    yaml:"name"`
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
}
