package delegate

import (
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psantana5/ceres-scripts/internal/targets"
)

// fakePath resolves only the names it was given.
func fakePath(known map[string]string) func(string) (string, error) {
	return func(name string) (string, error) {
		if p, ok := known[name]; ok {
			return p, nil
		}
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
}

func TestCommand(t *testing.T) {
	root := filepath.FromSlash("/ws")
	logEvent := filepath.FromSlash("/ws/.ceres/core/scripts/log_event.py")
	tool := targets.Target{Name: "tool", Subpath: "bin/tool"}
	pinned := targets.Target{Name: "pinned", Subpath: "bin/pinned.py", Interpreter: "python3.12"}

	tests := []struct {
		target      targets.Target
		interpreter string
		path        map[string]string
		args        []string
		wantPath    string
		wantArgv    []string
		desc        string
	}{
		{
			target:   targets.LogEvent,
			path:     map[string]string{"python3": "/usr/bin/python3"},
			args:     []string{"--foo", "bar"},
			wantPath: "/usr/bin/python3",
			wantArgv: []string{"python3", logEvent, "--foo", "bar"},
			desc:     "python script uses python3",
		},
		{
			target:   targets.LogEvent,
			path:     map[string]string{"python": "/usr/local/bin/python"},
			wantPath: "/usr/local/bin/python",
			wantArgv: []string{"python", logEvent},
			desc:     "falls back to python",
		},
		{
			target:      targets.LogEvent,
			interpreter: "/opt/venv/bin/python",
			path:        map[string]string{"/opt/venv/bin/python": "/opt/venv/bin/python", "python3": "/usr/bin/python3"},
			wantPath:    "/opt/venv/bin/python",
			wantArgv:    []string{"/opt/venv/bin/python", logEvent},
			desc:        "configured interpreter wins over default",
		},
		{
			target:      pinned,
			interpreter: "python3",
			path:        map[string]string{"python3.12": "/usr/bin/python3.12", "python3": "/usr/bin/python3"},
			args:        []string{"x"},
			wantPath:    "/usr/bin/python3.12",
			wantArgv:    []string{"python3.12", filepath.FromSlash("/ws/bin/pinned.py"), "x"},
			desc:        "target interpreter wins over configured",
		},
		{
			target:   tool,
			args:     []string{"a", "b"},
			wantPath: filepath.FromSlash("/ws/bin/tool"),
			wantArgv: []string{filepath.FromSlash("/ws/bin/tool"), "a", "b"},
			desc:     "other files run directly",
		},
		{
			target:   tool,
			wantPath: filepath.FromSlash("/ws/bin/tool"),
			wantArgv: []string{filepath.FromSlash("/ws/bin/tool")},
			desc:     "no args forwards nothing",
		},
		{
			target:      tool,
			interpreter: "sh",
			path:        map[string]string{"sh": "/bin/sh"},
			args:        []string{"a"},
			wantPath:    filepath.FromSlash("/ws/bin/tool"),
			wantArgv:    []string{filepath.FromSlash("/ws/bin/tool"), "a"},
			desc:        "configured interpreter ignored for files run directly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			d := New(root, tt.target)
			d.Interpreter = tt.interpreter
			d.lookPath = fakePath(tt.path)

			c, err := d.Command(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.target.Name, c.Name)
			assert.Equal(t, tt.wantPath, c.Path)
			assert.Equal(t, tt.wantArgv, c.Args)
		})
	}
}

func TestCommandNoInterpreter(t *testing.T) {
	d := New(filepath.FromSlash("/ws"), targets.Preflight)
	d.lookPath = fakePath(nil)

	_, err := d.Command(nil)

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, ExitNotFound, launchErr.Code)
	assert.Equal(t, "python3", launchErr.Path)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}
