//go:build unix

package delegate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psantana5/ceres-scripts/internal/report"
	"github.com/psantana5/ceres-scripts/internal/targets"
)

// echoArgv prints argv[0] and every forwarded argument, one per line.
const echoArgv = `printf '%s\n' "$0" "$@"
exit "${CERES_FIXTURE_EXIT:-0}"
`

// newWorkspace lays out <root>/scripts and, when body is non-empty, writes
// the target script under <root>/.ceres/core/scripts.
func newWorkspace(t *testing.T, target targets.Target, body string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "scripts"), 0o755))
	if body != "" {
		path := filepath.Join(root, filepath.FromSlash(target.Subpath))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

// newTestDelegator runs .py fixtures through sh so tests need no Python.
func newTestDelegator(root string, target targets.Target, stdout, stderr *bytes.Buffer) *Delegator {
	d := New(root, target)
	d.Interpreter = "sh"
	d.Stdin = strings.NewReader("")
	d.Stdout = stdout
	d.Stderr = stderr
	d.Logger = zerolog.Nop()
	return d
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		wantErr  bool
	}{
		{"", ModeSpawn, false},
		{"spawn", ModeSpawn, false},
		{"EXEC", ModeExec, false},
		{"fork", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveTarget(t *testing.T) {
	d := New(filepath.FromSlash("/ws"), targets.LogEvent)
	want := filepath.FromSlash("/ws/.ceres/core/scripts/log_event.py")

	assert.Equal(t, want, d.ResolveTarget())
	assert.Equal(t, d.ResolveTarget(), d.ResolveTarget())

	p := New(filepath.FromSlash("/ws"), targets.Preflight)
	assert.Equal(t, filepath.FromSlash("/ws/.ceres/core/scripts/preflight.py"), p.ResolveTarget())
}

func TestVerify(t *testing.T) {
	present := newWorkspace(t, targets.LogEvent, echoArgv)
	assert.NoError(t, New(present, targets.LogEvent).Verify())

	absent := newWorkspace(t, targets.LogEvent, "")
	err := New(absent, targets.LogEvent).Verify()

	var missing *MissingTargetError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "CERES core log_event.py", missing.Component)
	assert.Equal(t, filepath.Join(absent, ".ceres", "core", "scripts", "log_event.py"), missing.Path)
	assert.Equal(t, "CERES core log_event.py not found at "+missing.Path, err.Error())
}

func TestRunForwardsArguments(t *testing.T) {
	root := newWorkspace(t, targets.LogEvent, echoArgv)
	var stdout, stderr bytes.Buffer
	d := newTestDelegator(root, targets.LogEvent, &stdout, &stderr)

	code := d.Run(context.Background(), []string{"--foo", "bar"})

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr.String())
	assert.Equal(t, []string{d.ResolveTarget(), "--foo", "bar"}, lines(stdout.String()))
}

func TestRunPreservesArgumentsVerbatim(t *testing.T) {
	root := newWorkspace(t, targets.Preflight, echoArgv)
	var stdout, stderr bytes.Buffer
	d := newTestDelegator(root, targets.Preflight, &stdout, &stderr)

	args := []string{"-h", "--", "two words", "", "--flag=value", "*"}
	code := d.Run(context.Background(), args)

	require.Equal(t, 0, code)
	got := lines(stdout.String())
	require.Len(t, got, len(args)+1)
	assert.Equal(t, d.ResolveTarget(), got[0])
	assert.Equal(t, args, got[1:])
}

func TestRunWithoutArguments(t *testing.T) {
	root := newWorkspace(t, targets.LogEvent, echoArgv)
	var stdout, stderr bytes.Buffer
	d := newTestDelegator(root, targets.LogEvent, &stdout, &stderr)

	code := d.Run(context.Background(), nil)

	assert.Equal(t, 0, code)
	// Only the target's own path: the delegator's name is never forwarded.
	assert.Equal(t, []string{d.ResolveTarget()}, lines(stdout.String()))
}

func TestRunRelaysTargetExitCode(t *testing.T) {
	root := newWorkspace(t, targets.LogEvent, "echo boom >&2\nexit 42\n")
	var stdout, stderr bytes.Buffer
	d := newTestDelegator(root, targets.LogEvent, &stdout, &stderr)

	code := d.Run(context.Background(), []string{"x"})

	assert.Equal(t, 42, code)
	// The target's own stderr passes through untouched.
	assert.Equal(t, "boom\n", stderr.String())
}

func TestRunRelaysSignalDeath(t *testing.T) {
	root := newWorkspace(t, targets.LogEvent, "kill -KILL $$\n")
	var stdout, stderr bytes.Buffer
	d := newTestDelegator(root, targets.LogEvent, &stdout, &stderr)

	assert.Equal(t, 128+9, d.Run(context.Background(), nil))
}

func TestRunMissingTarget(t *testing.T) {
	root := newWorkspace(t, targets.LogEvent, "")
	var stdout, stderr bytes.Buffer
	d := newTestDelegator(root, targets.LogEvent, &stdout, &stderr)
	d.Metrics = report.NewMetrics()

	code := d.Run(context.Background(), []string{"--foo", "bar"})

	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, stdout.String())
	want := "CERES core log_event.py not found at " + filepath.Join(root, ".ceres/core/scripts/log_event.py")
	assert.Equal(t, want+"\n", stderr.String())
}

func TestRunMissingInterpreter(t *testing.T) {
	root := newWorkspace(t, targets.LogEvent, echoArgv)
	var stdout, stderr bytes.Buffer
	d := newTestDelegator(root, targets.LogEvent, &stdout, &stderr)
	d.Interpreter = "ceres-no-such-interpreter"

	code := d.Run(context.Background(), nil)

	assert.Equal(t, ExitNotFound, code)
	assert.Contains(t, stderr.String(), "log_event: ")
	assert.Contains(t, stderr.String(), "ceres-no-such-interpreter")
}

func TestRunDirectExecutable(t *testing.T) {
	tool := targets.Target{Name: "tool", Component: "CERES core tool", Subpath: ".ceres/core/scripts/tool"}
	root := newWorkspace(t, tool, "#!/bin/sh\n"+echoArgv)
	require.NoError(t, os.Chmod(filepath.Join(root, ".ceres/core/scripts/tool"), 0o755))

	var stdout, stderr bytes.Buffer
	d := New(root, tool)
	d.Stdout, d.Stderr, d.Logger = &stdout, &stderr, zerolog.Nop()

	code := d.Run(context.Background(), []string{"a"})

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, []string{d.ResolveTarget(), "a"}, lines(stdout.String()))
}

func TestRunNonExecutableTarget(t *testing.T) {
	tool := targets.Target{Name: "tool", Component: "CERES core tool", Subpath: ".ceres/core/scripts/tool"}
	root := newWorkspace(t, tool, "#!/bin/sh\nexit 0\n")

	var stdout, stderr bytes.Buffer
	d := New(root, tool)
	d.Stdout, d.Stderr, d.Logger = &stdout, &stderr, zerolog.Nop()

	assert.Equal(t, ExitCannotExecute, d.Run(context.Background(), nil))
}

func TestRunRecordsMetricsAndReport(t *testing.T) {
	root := newWorkspace(t, targets.LogEvent, "exit 3\n")
	var stdout, stderr bytes.Buffer
	d := newTestDelegator(root, targets.LogEvent, &stdout, &stderr)
	d.Metrics = report.NewMetrics()
	d.ReportFile = filepath.Join(t.TempDir(), "report.json")

	require.Equal(t, 3, d.Run(context.Background(), nil))

	data, err := os.ReadFile(d.ReportFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exit_code": 3`)
	assert.Contains(t, string(data), `"target": "log_event"`)

	count, err := testutil.GatherAndCount(d.Metrics.Gatherer(), "ceres_delegations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(&MissingTargetError{}))
	assert.Equal(t, ExitNotFound, ExitCode(newLaunchError("x", os.ErrNotExist)))
	assert.Equal(t, ExitCannotExecute, ExitCode(newLaunchError("x", os.ErrPermission)))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("other")))
}
