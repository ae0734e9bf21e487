package proc

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mcpmon/mcpmon/internal/domain"
	"github.com/mcpmon/mcpmon/internal/errors"
)

func newTestTable(t *testing.T, run runFunc) *Table {
	t.Helper()

	table, err := NewTable(hclog.NewNullLogger(), WithRunner(run))
	require.NoError(t, err)

	return table
}

func staticRunner(out string, err error) runFunc {
	return func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		return []byte(out), err
	}
}

func TestParseElapsed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{
			name:  "minutes and seconds",
			input: "23:45",
			want:  1425,
		},
		{
			name:  "hours minutes seconds",
			input: "01:23:45",
			want:  5025,
		},
		{
			name:  "leading day count",
			input: "2-03:04:05",
			want:  2*86400 + 3*3600 + 4*60 + 5,
		},
		{
			name:  "surrounding whitespace",
			input: "  10:00\n",
			want:  600,
		},
		{
			name:  "zero",
			input: "00:00",
			want:  0,
		},
		{
			name:  "unparseable degrades to zero",
			input: "not-a-time",
			want:  0,
		},
		{
			name:  "empty degrades to zero",
			input: "",
			want:  0,
		},
		{
			name:  "single field degrades to zero",
			input: "42",
			want:  0,
		},
		{
			name:  "bad day prefix degrades to zero",
			input: "x-01:02:03",
			want:  0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, ParseElapsed(tc.input))
		})
	}
}

func TestTable_Locate(t *testing.T) {
	t.Parallel()

	spec := domain.ServerSpec{
		Name:    "alpha",
		Command: "sleep",
		Args:    []string{"999"},
	}

	tests := []struct {
		name    string
		psOut   string
		psErr   error
		wantPID int
		wantErr error
	}{
		{
			name:    "single match on command",
			psOut:   "  101 /usr/bin/sleep 999\n  102 /usr/bin/vim\n",
			wantPID: 101,
		},
		{
			name:    "lowest pid wins on multiple matches",
			psOut:   "  300 sleep 999\n  200 sleep 999\n  400 sleep 999\n",
			wantPID: 200,
		},
		{
			name:    "match on joined args only",
			psOut:   "  55 /opt/runner 999\n",
			wantPID: 55,
		},
		{
			name:    "no match",
			psOut:   "    1 /sbin/init\n   77 /usr/bin/vim\n",
			wantErr: errors.ErrProcessNotFound,
		},
		{
			name:    "garbage lines are skipped",
			psOut:   "\nheader junk\n  abc sleep 999\n  150 sleep 999\n",
			wantPID: 150,
		},
		{
			name:    "ps failure",
			psErr:   fmt.Errorf("boom"),
			wantErr: errAny,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			table := newTestTable(t, staticRunner(tc.psOut, tc.psErr))

			pid, err := table.Locate(t.Context(), spec)
			switch {
			case tc.wantErr == errAny:
				require.Error(t, err)
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			default:
				require.NoError(t, err)
				require.Equal(t, tc.wantPID, pid)
			}
		})
	}
}

// errAny marks test cases that expect any error.
var errAny = fmt.Errorf("any error")

func TestTable_Locate_skipsSelf(t *testing.T) {
	t.Parallel()

	self := os.Getpid()
	out := fmt.Sprintf("  %d sleep 999\n", self)
	table := newTestTable(t, staticRunner(out, nil))

	_, err := table.Locate(t.Context(), domain.ServerSpec{Name: "alpha", Command: "sleep"})
	require.ErrorIs(t, err, errors.ErrProcessNotFound)
}

func TestTable_Inspect(t *testing.T) {
	t.Parallel()

	t.Run("live process with parseable uptime", func(t *testing.T) {
		t.Parallel()

		table := newTestTable(t, staticRunner("   01:05\n", nil))

		info, err := table.Inspect(t.Context(), os.Getpid())
		require.NoError(t, err)
		require.True(t, info.Exists)
		require.EqualValues(t, 65, info.UptimeSeconds)
	})

	t.Run("uptime parse failure degrades to zero", func(t *testing.T) {
		t.Parallel()

		table := newTestTable(t, staticRunner("garbage", nil))

		info, err := table.Inspect(t.Context(), os.Getpid())
		require.NoError(t, err)
		require.True(t, info.Exists)
		require.Zero(t, info.UptimeSeconds)
	})

	t.Run("dead process", func(t *testing.T) {
		t.Parallel()

		table := newTestTable(t, staticRunner("", fmt.Errorf("no such process")))

		// PID near the max is about as safely nonexistent as it gets.
		info, err := table.Inspect(t.Context(), 1<<22-3)
		require.NoError(t, err)
		require.False(t, info.Exists)
	})

	t.Run("invalid pid", func(t *testing.T) {
		t.Parallel()

		table := newTestTable(t, staticRunner("", nil))

		_, err := table.Inspect(t.Context(), 0)
		require.Error(t, err)
	})
}

func TestTable_Terminate_missingVictimIsNotAnError(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, staticRunner("    1 /sbin/init\n", nil))

	err := table.Terminate(t.Context(), domain.ServerSpec{Name: "ghost", Command: "no-such-binary"})
	require.NoError(t, err)
}

func TestTable_Spawn_emptyCommand(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, staticRunner("", nil))

	_, err := table.Spawn(t.Context(), domain.ServerSpec{Name: "empty"})
	require.ErrorIs(t, err, errors.ErrRestartFailed)
}

func TestTable_Spawn_detachesAndReturnsPID(t *testing.T) {
	t.Parallel()

	table := newTestTable(t, staticRunner("", nil))

	pid, err := table.Spawn(t.Context(), domain.ServerSpec{
		Name:    "sleeper",
		Command: "sleep",
		Args:    []string{"30"},
	})
	require.NoError(t, err)
	require.Positive(t, pid)
	require.True(t, isAlive(pid))

	t.Cleanup(func() {
		killTree(pid)
	})
}
