package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpmon/mcpmon/internal/cmd"
	cmdopts "github.com/mcpmon/mcpmon/internal/cmd/options"
	"github.com/mcpmon/mcpmon/internal/flags"
)

type RootCmd struct {
	*cmd.BaseCmd
}

func Execute() error {
	rootCmd, err := NewRootCmd()
	if err != nil {
		return fmt.Errorf("error creating root command: %w", err)
	}

	return rootCmd.Execute()
}

func NewRootCmd() (*cobra.Command, error) {
	c := &RootCmd{
		BaseCmd: &cmd.BaseCmd{},
	}

	rootCmd := &cobra.Command{
		Use:          "mcpmon <command> [args]",
		Short:        "'mcpmon' monitors and restarts managed MCP servers.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      cmd.Version(),
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	commands := []func(*cmd.BaseCmd, ...cmdopts.CmdOption) (*cobra.Command, error){
		NewDaemonCmd,
		NewInitCmd,
		NewStatusCmd,
		NewAddCmd,
		NewRemoveCmd,
	}

	for _, create := range commands {
		sub, err := create(c.BaseCmd)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(sub)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `'mcpmon' keeps a fleet of locally running MCP servers healthy.

It discovers managed server processes in the OS process table, caches health
verdicts, restarts servers that have stopped running, and exposes the results
over MCP tools (stdio) and an optional HTTP API.`
}
