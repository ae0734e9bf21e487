package cmd

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcpmon/mcpmon/internal/cmd"
	cmdopts "github.com/mcpmon/mcpmon/internal/cmd/options"
)

func TestRemoveCmd(t *testing.T) {
	cfg := &fakeConfig{}
	loader := &fakeLoader{cfg: cfg}

	removeCmd, err := NewRemoveCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(loader))
	require.NoError(t, err)

	var out bytes.Buffer
	removeCmd.SetOut(&out)
	removeCmd.SetArgs([]string{"github-server"})

	require.NoError(t, removeCmd.Execute())
	require.True(t, cfg.removeCalled)
	require.Equal(t, "github-server", cfg.removedName)
	require.Contains(t, out.String(), "Removed server 'github-server'")
}

func TestRemoveCmd_Failure(t *testing.T) {
	cfg := &fakeConfig{removeErr: fmt.Errorf("server 'ghost' not found in config")}
	loader := &fakeLoader{cfg: cfg}

	removeCmd, err := NewRemoveCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(loader))
	require.NoError(t, err)

	removeCmd.SetOut(&bytes.Buffer{})
	removeCmd.SetErr(&bytes.Buffer{})
	removeCmd.SetArgs([]string{"ghost"})

	require.ErrorContains(t, removeCmd.Execute(), "not found in config")
}

func TestRemoveCmd_MissingName(t *testing.T) {
	cfg := &fakeConfig{}
	loader := &fakeLoader{cfg: cfg}

	removeCmd, err := NewRemoveCmd(&cmd.BaseCmd{}, cmdopts.WithConfigLoader(loader))
	require.NoError(t, err)

	removeCmd.SetOut(&bytes.Buffer{})
	removeCmd.SetErr(&bytes.Buffer{})
	removeCmd.SetArgs([]string{})

	require.Error(t, removeCmd.Execute())
	require.False(t, cfg.removeCalled)
}
