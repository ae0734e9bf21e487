package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcpmon/mcpmon/internal/cmd"
	cmdopts "github.com/mcpmon/mcpmon/internal/cmd/options"
	"github.com/mcpmon/mcpmon/internal/config"
	"github.com/mcpmon/mcpmon/internal/flags"
)

type InitCmd struct {
	*cmd.BaseCmd
	cfgInitializer config.Initializer
}

func NewInitCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &InitCmd{
		BaseCmd:        baseCmd,
		cfgInitializer: opts.ConfigInitializer,
	}

	cobraCommand := &cobra.Command{
		Use:   "init",
		Short: "Initializes the current directory as an mcpmon project",
		Long:  c.longDescription(),
		RunE:  c.run,
	}

	return cobraCommand, nil
}

func (c *InitCmd) longDescription() string {
	return fmt.Sprintf(
		"Initializes the current directory as an mcpmon project, creating a %s configuration file.\n\n"+
			"The configuration file path can be overridden using the `--%s` flag or the `%s` environment variable",
		flags.DefaultConfigFile,
		flags.FlagNameConfigFile,
		flags.EnvVarConfigFile,
	)
}

func (c *InitCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger := c.Logger()

	var initFilePath string

	// When the config file flag holds the default value, create it in the
	// current working directory.
	if flags.ConfigFile == flags.DefaultConfigFile {
		cwd, err := os.Getwd()
		if err != nil {
			logger.Error("Failed to get working directory", "error", err)
			return fmt.Errorf("error getting current directory: %w", err)
		}
		initFilePath = filepath.Join(cwd, flags.DefaultConfigFile)
	} else {
		initFilePath = flags.ConfigFile
	}

	if _, err := fmt.Fprintf(
		cobraCmd.OutOrStdout(),
		"Initializing mcpmon project at: %s\n", initFilePath,
	); err != nil {
		return err
	}

	if err := c.cfgInitializer.Init(initFilePath); err != nil {
		logger.Error("Project initialization failed", "error", err)
		return fmt.Errorf("error initializing mcpmon project: %w", err)
	}

	if _, err := fmt.Fprintf(
		cobraCmd.OutOrStdout(),
		"Config file created: %s\n", initFilePath,
	); err != nil {
		return err
	}

	return nil
}
