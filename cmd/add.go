package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcpmon/mcpmon/internal/cmd"
	cmdopts "github.com/mcpmon/mcpmon/internal/cmd/options"
	"github.com/mcpmon/mcpmon/internal/config"
	"github.com/mcpmon/mcpmon/internal/flags"
)

// AddCmd should be used to represent the 'add' command.
type AddCmd struct {
	*cmd.BaseCmd
	Description string
	Command     string
	Args        []string
	cfgLoader   config.Loader
}

// NewAddCmd creates a newly configured (Cobra) command.
func NewAddCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &AddCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "add <server-name>",
		Short: "Adds a managed server to the project configuration.",
		Long: "Adds a managed server to the project configuration. The server is " +
			"identified in the OS process table by its command and arguments.",
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Command,
		"cmd",
		"",
		"The executable used to launch the server (required)",
	)

	cobraCommand.Flags().StringArrayVar(
		&c.Args,
		"arg",
		nil,
		"Command line argument passed to the server (can be repeated)",
	)

	cobraCommand.Flags().StringVar(
		&c.Description,
		"description",
		"",
		"Optional free text shown alongside the server's status",
	)

	_ = cobraCommand.MarkFlagRequired("cmd")

	return cobraCommand, nil
}

// run is configured (via NewAddCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *AddCmd) run(cobraCmd *cobra.Command, args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("server name is required and cannot be empty")
	}
	name := strings.TrimSpace(args[0])

	command := strings.TrimSpace(c.Command)
	if command == "" {
		return fmt.Errorf("server command is required and cannot be empty")
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	entry := config.ServerEntry{
		Name:        name,
		Description: c.Description,
		Command:     command,
		Args:        c.Args,
	}

	if err := cfg.AddServer(entry); err != nil {
		return fmt.Errorf("failed to add server '%s': %w", name, err)
	}

	_, err = fmt.Fprintf(cobraCmd.OutOrStdout(), "Added server '%s' (%s)\n", name, entry.Spec().CommandLine())
	return err
}
