package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcpmon/mcpmon/internal/cmd"
	cmdopts "github.com/mcpmon/mcpmon/internal/cmd/options"
	"github.com/mcpmon/mcpmon/internal/cmd/output"
	"github.com/mcpmon/mcpmon/internal/config"
	"github.com/mcpmon/mcpmon/internal/domain"
	"github.com/mcpmon/mcpmon/internal/flags"
	"github.com/mcpmon/mcpmon/internal/monitor"
	"github.com/mcpmon/mcpmon/internal/proc"
)

// StatusCmd should be used to represent the 'status' command.
type StatusCmd struct {
	*cmd.BaseCmd
	Format    cmd.OutputFormat
	cfgLoader config.Loader
}

// NewStatusCmd creates a newly configured (Cobra) command.
func NewStatusCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &StatusCmd{
		BaseCmd:   baseCmd,
		Format:    cmd.FormatText,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "status",
		Short: "Shows the current health of all managed servers",
		Long: "Shows the current health of all managed servers by probing the OS " +
			"process table once and printing the results",
		RunE: c.run,
	}

	allowedFormats := cmd.AllowedOutputFormats()
	cobraCommand.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Output format, one of: %s", allowedFormats.String()),
	)

	return cobraCommand, nil
}

// run is configured (via NewStatusCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *StatusCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger := c.Logger()

	cfg := config.LoadOrEmpty(logger, c.cfgLoader, flags.ConfigFile)

	table, err := proc.NewTable(logger)
	if err != nil {
		return fmt.Errorf("failed to create process table: %w", err)
	}

	deps, err := monitor.NewEngineDependencies(logger, table, cfg.Specs())
	if err != nil {
		return fmt.Errorf("failed to create monitor dependencies: %w", err)
	}

	engine, err := monitor.NewEngine(deps)
	if err != nil {
		return fmt.Errorf("failed to create health monitor: %w", err)
	}

	statuses := engine.CheckAll(cobraCmd.Context())

	handler := c.handler(cobraCmd.OutOrStdout())
	if err := handler.HandleResults(statuses...); err != nil {
		return handler.HandleError(err)
	}

	return nil
}

// handler returns the output handler matching the configured format.
func (c *StatusCmd) handler(w io.Writer) output.Handler[domain.ServerStatus] {
	switch c.Format {
	case cmd.FormatJSON:
		return output.NewJSONHandler[domain.ServerStatus](w, 2)
	case cmd.FormatYAML:
		return output.NewYAMLHandler[domain.ServerStatus](w, 2)
	default:
		return output.NewTextHandler[domain.ServerStatus](w, statusPrinter{})
	}
}

// statusPrinter renders server statuses for human consumption.
type statusPrinter struct{}

func (statusPrinter) Header(w io.Writer, count int) {
	_, _ = fmt.Fprintf(w, "Managed servers (%d):\n\n", count)
}

func (statusPrinter) Item(w io.Writer, s domain.ServerStatus) error {
	if _, err := fmt.Fprintf(w, "  %s: %s", s.Name, s.State); err != nil {
		return err
	}

	if s.PID != nil {
		if _, err := fmt.Fprintf(w, " (pid %d)", *s.PID); err != nil {
			return err
		}
	}
	if s.UptimeSeconds != nil {
		if _, err := fmt.Fprintf(w, " up %s", (time.Duration(*s.UptimeSeconds) * time.Second).String()); err != nil {
			return err
		}
	}
	if s.Description != "" {
		if _, err := fmt.Fprintf(w, "\n      %s", s.Description); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

func (statusPrinter) Footer(_ io.Writer, _ int) {}
