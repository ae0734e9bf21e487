package daemon

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpmon/mcpmon/internal/cmd"
	"github.com/mcpmon/mcpmon/internal/monitor"
	"github.com/mcpmon/mcpmon/internal/proc"
	"github.com/mcpmon/mcpmon/internal/tools"
)

// Daemon wires process discovery, health monitoring and the restart protocol
// behind an MCP server on stdio, with an optional HTTP API alongside.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	logger    hclog.Logger
	engine    *monitor.Engine
	restarter *monitor.Restarter
	service   *tools.Service
	apiServer *APIServer
}

// NewDaemon creates a new Daemon with the provided dependencies and options.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for daemon: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	logger := deps.Logger.Named("daemon")

	table, err := proc.NewTable(deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create process table: %w", err)
	}

	engineDeps, err := monitor.NewEngineDependencies(deps.Logger, table, deps.Specs)
	if err != nil {
		return nil, fmt.Errorf("failed to create monitor dependencies: %w", err)
	}
	engine, err := monitor.NewEngine(engineDeps, opts.EngineOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create health monitor: %w", err)
	}

	restarterDeps, err := monitor.NewRestarterDependencies(deps.Logger, engine, table, table)
	if err != nil {
		return nil, fmt.Errorf("failed to create restarter dependencies: %w", err)
	}
	restarter, err := monitor.NewRestarter(restarterDeps, opts.RestarterOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create restarter: %w", err)
	}

	service, err := tools.NewService(deps.Logger, engine, restarter)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool service: %w", err)
	}

	d := &Daemon{
		logger:    logger,
		engine:    engine,
		restarter: restarter,
		service:   service,
	}

	if deps.APIAddr != "" {
		apiDeps, err := NewAPIDependencies(deps.Logger, engine, restarter, deps.APIAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to create API dependencies: %w", err)
		}
		apiServer, err := NewAPIServer(apiDeps, opts.APIOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to create API server: %w", err)
		}
		d.apiServer = apiServer
	}

	return d, nil
}

// StartAndManage runs the MCP server on stdio and, when configured, the HTTP
// API. It blocks until the context is canceled or the MCP transport fails.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	mcpServer := server.NewMCPServer(
		"mcpmon",
		cmd.Version(),
		server.WithToolCapabilities(false),
	)
	d.service.Register(mcpServer)

	d.logger.Info("Monitoring managed servers", "count", len(d.engine.Specs()))

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		d.logger.Info("Starting MCP server on stdio")
		stdio := server.NewStdioServer(mcpServer)
		stdio.SetErrorLogger(d.logger.StandardLogger(&hclog.StandardLoggerOptions{
			InferLevels: true,
		}))
		if err := stdio.Listen(egCtx, os.Stdin, os.Stdout); err != nil {
			return fmt.Errorf("MCP server terminated: %w", err)
		}
		return nil
	})

	if d.apiServer != nil {
		eg.Go(func() error {
			// The HTTP API is supplementary. Its failure should not tear
			// down the stdio transport.
			if err := d.apiServer.Start(egCtx); err != nil && egCtx.Err() == nil {
				d.logger.Error("API server failed", "error", err)
			}
			return nil
		})
	}

	return eg.Wait()
}
