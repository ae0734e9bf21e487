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

// RemoveCmd should be used to represent the 'remove' command.
type RemoveCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
}

// NewRemoveCmd creates a newly configured (Cobra) command.
func NewRemoveCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &RemoveCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCommand := &cobra.Command{
		Use:   "remove <server-name>",
		Short: "Removes a managed server from the project configuration.",
		RunE:  c.run,
	}

	return cobraCommand, nil
}

// run is configured (via NewRemoveCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *RemoveCmd) run(cobraCmd *cobra.Command, args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("server name is required and cannot be empty")
	}
	name := strings.TrimSpace(args[0])

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	if err := cfg.RemoveServer(name); err != nil {
		return fmt.Errorf("failed to remove server '%s': %w", name, err)
	}

	_, err = fmt.Fprintf(cobraCmd.OutOrStdout(), "Removed server '%s'\n", name)
	return err
}
