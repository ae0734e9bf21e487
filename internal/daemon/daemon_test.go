package daemon

import (
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mcpmon/mcpmon/internal/domain"
	"github.com/mcpmon/mcpmon/internal/monitor"
)

func testSpecs() []domain.ServerSpec {
	return []domain.ServerSpec{
		{Name: "alpha", Command: "sleep", Args: []string{"999"}},
		{Name: "beta", Command: "sleep", Args: []string{"888"}},
	}
}

func TestNewDaemon(t *testing.T) {
	t.Parallel()

	deps, err := NewDependencies(hclog.NewNullLogger(), testSpecs(), "")
	require.NoError(t, err)

	d, err := NewDaemon(deps)
	require.NoError(t, err)
	require.NotNil(t, d)
	require.NotNil(t, d.engine)
	require.NotNil(t, d.restarter)
	require.NotNil(t, d.service)
	require.Nil(t, d.apiServer, "API server should be disabled when no address is configured")
	require.Len(t, d.engine.Specs(), 2)
}

func TestNewDaemon_WithAPIServer(t *testing.T) {
	t.Parallel()

	deps, err := NewDependencies(hclog.NewNullLogger(), testSpecs(), "localhost:8095")
	require.NoError(t, err)

	d, err := NewDaemon(deps, WithAPIOptions(WithCORSEnabled(true)))
	require.NoError(t, err)
	require.NotNil(t, d.apiServer)
	require.True(t, d.apiServer.cors.Enabled)
}

func TestNewDaemon_ForwardsOptions(t *testing.T) {
	t.Parallel()

	deps, err := NewDependencies(hclog.NewNullLogger(), testSpecs(), "")
	require.NoError(t, err)

	_, err = NewDaemon(deps, WithRestarterOptions(monitor.WithGracePeriod(-1*time.Second)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to create restarter")
}

func TestDependencies_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		deps    Dependencies
		wantErr string
	}{
		{
			name:    "nil logger",
			deps:    Dependencies{Specs: testSpecs()},
			wantErr: "logger cannot be nil",
		},
		{
			name:    "bad API address",
			deps:    Dependencies{Logger: hclog.NewNullLogger(), APIAddr: "no-port"},
			wantErr: "invalid API address",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.deps.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}

	t.Run("empty specs and no API address are valid", func(t *testing.T) {
		t.Parallel()

		deps := Dependencies{Logger: hclog.NewNullLogger()}
		require.NoError(t, deps.Validate())
	})
}
