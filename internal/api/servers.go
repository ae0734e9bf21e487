package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mcpmon/mcpmon/internal/contracts"
	"github.com/mcpmon/mcpmon/internal/domain"
)

// ServersResponse is the response for GET /servers.
type ServersResponse struct {
	Body struct {
		Servers       []ServerStatus `doc:"Managed servers with their current health status" json:"servers"`
		Total         int            `doc:"Number of managed servers"                        json:"total"`
		Healthy       int            `doc:"Servers currently reporting healthy"              json:"healthy"`
		Unhealthy     int            `doc:"Servers currently reporting unhealthy"            json:"unhealthy"`
		Unknown       int            `doc:"Servers whose state cannot be determined"         json:"unknown"`
		LastFullCheck *time.Time     `doc:"Time of the most recent full fleet check"         json:"lastFullCheck,omitempty"`
	}
}

// ServerHealthRequest represents the incoming request for a single server's health.
type ServerHealthRequest struct {
	Name string `doc:"Name of the server to check" example:"github-server" path:"name"`
}

// ServerHealthResponse represents the wrapped API response for a ServerStatus.
type ServerHealthResponse struct {
	Body ServerStatus
}

// CheckAllResponse is the response for POST /servers/health/check.
type CheckAllResponse struct {
	Body struct {
		Servers   []ServerStatus `doc:"Freshly probed managed servers" json:"servers"`
		CheckedAt time.Time      `doc:"Completion time of the sweep"   json:"checkedAt"`
	}
}

// UnhealthyResponse is the response for GET /servers/unhealthy.
type UnhealthyResponse struct {
	Body struct {
		Servers []ServerStatus `doc:"Managed servers that are not currently healthy" json:"servers"`
		Count   int            `doc:"Number of servers that are not healthy"         json:"count"`
	}
}

// RestartRequest represents the incoming request to restart one server.
type RestartRequest struct {
	Name string `doc:"Name of the server to restart" example:"github-server" path:"name"`
}

// RestartResponse represents the wrapped API response for one restart attempt.
type RestartResponse struct {
	Body RestartOutcome
}

// RestartUnhealthyResponse is the response for POST /servers/unhealthy/restart.
type RestartUnhealthyResponse struct {
	Body struct {
		Results   []RestartOutcome `doc:"Per-server restart outcomes"   json:"results"`
		Attempted int              `doc:"Restart attempts issued"       json:"attempted"`
		Succeeded int              `doc:"Restarts that verified healthy" json:"succeeded"`
		Failed    int              `doc:"Restarts that failed"          json:"failed"`
	}
}

// RegisterServerRoutes sets up the monitoring API endpoint routes.
func RegisterServerRoutes(
	routerAPI huma.API,
	monitor contracts.HealthMonitor,
	restarter contracts.Restarter,
	apiPathPrefix string,
) {
	serversAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Servers"}

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "listServers",
			Method:      http.MethodGet,
			Summary:     "List all managed servers with health summary",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ServersResponse, error) {
			return handleListServers(ctx, monitor)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "getServerHealth",
			Method:      http.MethodGet,
			Path:        "/{name}/health",
			Summary:     "Get the health status for a single server",
			Tags:        append(tags, "Health"),
		},
		func(ctx context.Context, input *ServerHealthRequest) (*ServerHealthResponse, error) {
			return handleServerHealth(ctx, monitor, input.Name, false)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "checkServerHealth",
			Method:      http.MethodPost,
			Path:        "/{name}/health/check",
			Summary:     "Force a fresh health check for a single server",
			Tags:        append(tags, "Health"),
		},
		func(ctx context.Context, input *ServerHealthRequest) (*ServerHealthResponse, error) {
			return handleServerHealth(ctx, monitor, input.Name, true)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "checkAllHealth",
			Method:      http.MethodPost,
			Path:        "/health/check",
			Summary:     "Force a fresh health check for every server",
			Tags:        append(tags, "Health"),
		},
		func(ctx context.Context, _ *struct{}) (*CheckAllResponse, error) {
			return handleCheckAll(ctx, monitor)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "listUnhealthyServers",
			Method:      http.MethodGet,
			Path:        "/unhealthy",
			Summary:     "List the servers that are not currently healthy",
			Tags:        append(tags, "Health"),
		},
		func(ctx context.Context, _ *struct{}) (*UnhealthyResponse, error) {
			return handleUnhealthy(ctx, monitor)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "restartServer",
			Method:      http.MethodPost,
			Path:        "/{name}/restart",
			Summary:     "Restart a managed server",
			Tags:        append(tags, "Restart"),
		},
		func(ctx context.Context, input *RestartRequest) (*RestartResponse, error) {
			return handleRestart(ctx, restarter, input.Name)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "restartUnhealthyServers",
			Method:      http.MethodPost,
			Path:        "/unhealthy/restart",
			Summary:     "Restart every server that is not currently healthy",
			Tags:        append(tags, "Restart"),
		},
		func(ctx context.Context, _ *struct{}) (*RestartUnhealthyResponse, error) {
			return handleRestartUnhealthy(ctx, restarter)
		},
	)
}

// handleListServers returns all statuses plus summary counts and the
// fleet-wide last-check time.
func handleListServers(ctx context.Context, monitor contracts.HealthMonitor) (*ServersResponse, error) {
	statuses := monitor.CheckAll(ctx)

	resp := &ServersResponse{}
	resp.Body.Servers = toAPIStatuses(statuses)
	resp.Body.Total = len(statuses)
	for _, status := range statuses {
		switch status.State {
		case domain.HealthStateHealthy:
			resp.Body.Healthy++
		case domain.HealthStateUnhealthy:
			resp.Body.Unhealthy++
		default:
			resp.Body.Unknown++
		}
	}
	if t := monitor.LastFullCheck(); !t.IsZero() {
		resp.Body.LastFullCheck = &t
	}

	return resp, nil
}

// handleServerHealth returns the verdict for one server, optionally forcing a
// fresh probe.
func handleServerHealth(
	ctx context.Context,
	monitor contracts.HealthMonitor,
	name string,
	force bool,
) (*ServerHealthResponse, error) {
	var (
		status domain.ServerStatus
		err    error
	)
	if force {
		status, err = monitor.ForceCheck(ctx, name)
	} else {
		status, err = monitor.Check(ctx, name)
	}
	if err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("Server %s not found in configuration", name), err)
	}

	return &ServerHealthResponse{Body: DomainServerStatus(status).ToAPIType()}, nil
}

func handleCheckAll(ctx context.Context, monitor contracts.HealthMonitor) (*CheckAllResponse, error) {
	statuses := monitor.ForceCheckAll(ctx)

	resp := &CheckAllResponse{}
	resp.Body.Servers = toAPIStatuses(statuses)
	resp.Body.CheckedAt = monitor.LastFullCheck()

	return resp, nil
}

func handleUnhealthy(ctx context.Context, monitor contracts.HealthMonitor) (*UnhealthyResponse, error) {
	unhealthy := monitor.Unhealthy(ctx)

	resp := &UnhealthyResponse{}
	resp.Body.Servers = toAPIStatuses(unhealthy)
	resp.Body.Count = len(unhealthy)

	return resp, nil
}

// handleRestart reports restart failures inside the payload: a failed restart
// is an outcome, not a transport error.
func handleRestart(ctx context.Context, restarter contracts.Restarter, name string) (*RestartResponse, error) {
	result := restarter.Restart(ctx, name)
	return &RestartResponse{Body: RestartOutcome(result)}, nil
}

func handleRestartUnhealthy(ctx context.Context, restarter contracts.Restarter) (*RestartUnhealthyResponse, error) {
	results := restarter.RestartUnhealthy(ctx)

	resp := &RestartUnhealthyResponse{}
	resp.Body.Results = toAPIOutcomes(results)
	resp.Body.Attempted = len(results)
	for _, result := range results {
		if result.Success {
			resp.Body.Succeeded++
		} else {
			resp.Body.Failed++
		}
	}

	return resp, nil
}
