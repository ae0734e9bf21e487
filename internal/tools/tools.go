// Package tools exposes the monitoring operations as MCP tools over the
// hosting server's transport.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mcpmon/mcpmon/internal/contracts"
	"github.com/mcpmon/mcpmon/internal/domain"
)

// Tool names exposed by the monitor.
const (
	ToolListServers      = "list_servers"
	ToolCheckHealth      = "check_health"
	ToolCheckAllHealth   = "check_all_health"
	ToolRestartServer    = "restart_server"
	ToolGetUnhealthy     = "get_unhealthy"
	ToolRestartUnhealthy = "restart_unhealthy"
)

const argServerName = "server_name"

// Service wires the health engine and restarter to the MCP tool surface.
// NewService should be used to create instances of Service.
type Service struct {
	logger    hclog.Logger
	monitor   contracts.HealthMonitor
	restarter contracts.Restarter
}

// NewService creates the MCP tool service.
func NewService(logger hclog.Logger, monitor contracts.HealthMonitor, restarter contracts.Restarter) (*Service, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if monitor == nil {
		return nil, fmt.Errorf("health monitor cannot be nil")
	}
	if restarter == nil {
		return nil, fmt.Errorf("restarter cannot be nil")
	}

	return &Service{
		logger:    logger.Named("tools"),
		monitor:   monitor,
		restarter: restarter,
	}, nil
}

// Register adds all six monitoring tools to the MCP server.
func (s *Service) Register(srv *server.MCPServer) {
	srv.AddTool(
		mcp.NewTool(
			ToolListServers,
			mcp.WithDescription("List all managed servers with their current health status and summary counts"),
		),
		s.handleListServers,
	)

	srv.AddTool(
		mcp.NewTool(
			ToolCheckHealth,
			mcp.WithDescription("Force a fresh health check for a single managed server, bypassing the cache"),
			mcp.WithString(argServerName, mcp.Required(), mcp.Description("Name of the managed server to check")),
		),
		s.handleCheckHealth,
	)

	srv.AddTool(
		mcp.NewTool(
			ToolCheckAllHealth,
			mcp.WithDescription("Force a fresh health check for every managed server"),
		),
		s.handleCheckAllHealth,
	)

	srv.AddTool(
		mcp.NewTool(
			ToolRestartServer,
			mcp.WithDescription("Restart a managed server: terminate, respawn detached, wait for readiness, re-verify"),
			mcp.WithString(argServerName, mcp.Required(), mcp.Description("Name of the managed server to restart")),
		),
		s.handleRestartServer,
	)

	srv.AddTool(
		mcp.NewTool(
			ToolGetUnhealthy,
			mcp.WithDescription("List the managed servers that are not currently healthy"),
		),
		s.handleGetUnhealthy,
	)

	srv.AddTool(
		mcp.NewTool(
			ToolRestartUnhealthy,
			mcp.WithDescription("Restart every managed server that is not currently healthy, one at a time"),
		),
		s.handleRestartUnhealthy,
	)
}

// ServerStatus is the tool-facing JSON shape of a health verdict.
type ServerStatus struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Command       string    `json:"command"`
	Args          []string  `json:"args,omitempty"`
	State         string    `json:"state"`
	Healthy       bool      `json:"healthy"`
	LastChecked   time.Time `json:"last_checked"`
	UptimeSeconds *int64    `json:"uptime_seconds,omitempty"`
	PID           *int      `json:"pid,omitempty"`
}

// RestartResult is the tool-facing JSON shape of one restart attempt.
type RestartResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListServersPayload is the response body for list_servers.
type ListServersPayload struct {
	Servers       []ServerStatus `json:"servers"`
	Total         int            `json:"total"`
	Healthy       int            `json:"healthy"`
	Unhealthy     int            `json:"unhealthy"`
	Unknown       int            `json:"unknown"`
	LastFullCheck *time.Time     `json:"last_full_check,omitempty"`
}

// CheckAllPayload is the response body for check_all_health.
type CheckAllPayload struct {
	Servers   []ServerStatus `json:"servers"`
	CheckedAt time.Time      `json:"checked_at"`
}

// UnhealthyPayload is the response body for get_unhealthy.
type UnhealthyPayload struct {
	Servers []ServerStatus `json:"servers"`
	Count   int            `json:"count"`
}

// RestartUnhealthyPayload is the response body for restart_unhealthy.
type RestartUnhealthyPayload struct {
	Results   []RestartResult `json:"results"`
	Attempted int             `json:"attempted"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
}

func (s *Service) handleListServers(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statuses := s.monitor.CheckAll(ctx)

	payload := ListServersPayload{
		Servers: toStatuses(statuses),
		Total:   len(statuses),
	}
	for _, status := range statuses {
		switch status.State {
		case domain.HealthStateHealthy:
			payload.Healthy++
		case domain.HealthStateUnhealthy:
			payload.Unhealthy++
		default:
			payload.Unknown++
		}
	}
	if t := s.monitor.LastFullCheck(); !t.IsZero() {
		payload.LastFullCheck = &t
	}

	return s.jsonResult(payload)
}

func (s *Service) handleCheckHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString(argServerName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	status, err := s.monitor.ForceCheck(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Server %s not found in configuration", name)), nil
	}

	return s.jsonResult(toStatus(status))
}

func (s *Service) handleCheckAllHealth(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statuses := s.monitor.ForceCheckAll(ctx)

	return s.jsonResult(CheckAllPayload{
		Servers:   toStatuses(statuses),
		CheckedAt: s.monitor.LastFullCheck(),
	})
}

func (s *Service) handleRestartServer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString(argServerName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.restarter.Restart(ctx, name)
	if !result.Success {
		s.logger.Warn("Restart failed", "server", name, "message", result.Message)
	}

	return s.jsonResult(RestartResult(result))
}

func (s *Service) handleGetUnhealthy(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	unhealthy := s.monitor.Unhealthy(ctx)

	return s.jsonResult(UnhealthyPayload{
		Servers: toStatuses(unhealthy),
		Count:   len(unhealthy),
	})
}

func (s *Service) handleRestartUnhealthy(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results := s.restarter.RestartUnhealthy(ctx)

	payload := RestartUnhealthyPayload{
		Results:   make([]RestartResult, 0, len(results)),
		Attempted: len(results),
	}
	for _, result := range results {
		payload.Results = append(payload.Results, RestartResult(result))
		if result.Success {
			payload.Succeeded++
		} else {
			payload.Failed++
		}
	}

	return s.jsonResult(payload)
}

// jsonResult marshals a payload into a text tool result. Marshal failures are
// surfaced as error-flagged results rather than protocol errors so they never
// tear down the transport.
func (s *Service) jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal tool payload", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func toStatus(status domain.ServerStatus) ServerStatus {
	return ServerStatus{
		Name:          status.Name,
		Description:   status.Description,
		Command:       status.Command,
		Args:          status.Args,
		State:         string(status.State),
		Healthy:       status.Healthy(),
		LastChecked:   status.LastChecked,
		UptimeSeconds: status.UptimeSeconds,
		PID:           status.PID,
	}
}

func toStatuses(statuses []domain.ServerStatus) []ServerStatus {
	out := make([]ServerStatus, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, toStatus(status))
	}
	return out
}
