package api

import (
	"time"

	"github.com/mcpmon/mcpmon/internal/domain"
)

// DomainServerStatus is a wrapper that allows receivers to be declared in the
// API package that deal with domain types.
type DomainServerStatus domain.ServerStatus

// HealthState represents the reported health verdict for a managed server.
type HealthState string

// ServerStatus is the API-safe shape of a managed server's health verdict.
type ServerStatus struct {
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Command       string      `json:"command"`
	Args          []string    `json:"args,omitempty"`
	State         HealthState `json:"state"`
	Healthy       bool        `json:"healthy"`
	LastChecked   *time.Time  `json:"lastChecked,omitempty"`
	UptimeSeconds *int64      `json:"uptimeSeconds,omitempty"`
	PID           *int        `json:"pid,omitempty"`
}

// RestartOutcome is the API-safe shape of one restart attempt.
type RestartOutcome struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToAPIType converts a wrapped domain type to an API-safe type.
func (d DomainServerStatus) ToAPIType() ServerStatus {
	status := ServerStatus{
		Name:          d.Name,
		Description:   d.Description,
		Command:       d.Command,
		Args:          d.Args,
		State:         HealthState(d.State),
		Healthy:       domain.ServerStatus(d).Healthy(),
		UptimeSeconds: d.UptimeSeconds,
		PID:           d.PID,
	}

	if !d.LastChecked.IsZero() {
		lastChecked := d.LastChecked
		status.LastChecked = &lastChecked
	}

	return status
}

func toAPIStatuses(statuses []domain.ServerStatus) []ServerStatus {
	out := make([]ServerStatus, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, DomainServerStatus(status).ToAPIType())
	}
	return out
}

func toAPIOutcomes(results []domain.RestartResult) []RestartOutcome {
	out := make([]RestartOutcome, 0, len(results))
	for _, result := range results {
		out = append(out, RestartOutcome(result))
	}
	return out
}
