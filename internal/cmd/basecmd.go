package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mcpmon/mcpmon/internal/flags"
	"github.com/mcpmon/mcpmon/internal/perms"
)

// BaseCmd carries shared behavior for all commands, primarily lazy logger
// construction from flags and environment.
type BaseCmd struct {
	logger hclog.Logger
}

// SetLogger updates the command's logger
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the current logger for the command.
//
// Stdout carries the MCP transport when running as a daemon, so the logger
// writes to the configured log file, or discards output when no path is set.
func (c *BaseCmd) Logger() hclog.Logger {
	if c.logger != nil {
		return c.logger
	}

	// Get log level from flags first, then environment, then default
	logLevel := flags.LogLevel
	if logLevel == "" {
		logLevel = strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
		if logLevel == "" {
			logLevel = flags.DefaultLogLevel
		}
	}

	// Get log path from flags first, then environment
	logPath := flags.LogPath
	if logPath == "" {
		logPath = strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))
	}

	var output io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file (%s): %v, logging disabled\n", logPath, err)
		} else {
			output = f
		}
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "mcpmon",
		Level:  hclog.LevelFromString(logLevel),
		Output: output,
	})

	return c.logger
}
