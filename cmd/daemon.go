package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcpmon/mcpmon/internal/cmd"
	cmdopts "github.com/mcpmon/mcpmon/internal/cmd/options"
	"github.com/mcpmon/mcpmon/internal/config"
	"github.com/mcpmon/mcpmon/internal/daemon"
	"github.com/mcpmon/mcpmon/internal/flags"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Addr       string
	CORSEnable bool
	CORSOrigin []string
	cfgLoader  config.Loader
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &DaemonCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "daemon [--addr]",
		Short: "Runs the mcpmon monitoring daemon",
		Long: "Runs the mcpmon monitoring daemon, exposing health and restart tools " +
			"over MCP on stdio and optionally over an HTTP API",
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"",
		"Address for the optional HTTP API (e.g. localhost:8095), empty disables it",
	)

	cobraCommand.Flags().BoolVar(
		&c.CORSEnable,
		"cors-enable",
		false,
		"Enable CORS headers on the HTTP API",
	)

	cobraCommand.Flags().StringSliceVar(
		&c.CORSOrigin,
		"cors-origin",
		nil,
		"Allowed origins for CORS (can be repeated, requires --cors-enable)",
	)

	return cobraCommand, nil
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *DaemonCmd) run(_ *cobra.Command, _ []string) error {
	logger := c.Logger()

	cfg := config.LoadOrEmpty(logger, c.cfgLoader, flags.ConfigFile)

	addr := strings.TrimSpace(c.Addr)
	deps, err := daemon.NewDependencies(logger, cfg.Specs(), addr)
	if err != nil {
		return fmt.Errorf("error configuring mcpmon daemon: %w", err)
	}

	var opts []daemon.Option
	if addr != "" {
		opts = append(opts, daemon.WithAPIOptions(
			daemon.WithCORSEnabled(c.CORSEnable),
			daemon.WithCORSAllowOrigins(c.CORSOrigin),
		))
	}

	d, err := daemon.NewDaemon(deps, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mcpmon daemon instance: %w", err)
	}

	// Create the signal handling context for the application.
	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer daemonCtxCancel()

	if err := d.StartAndManage(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("daemon exited with error", "error", err)
		return err
	}

	logger.Info("Shutting down daemon")
	return nil
}
