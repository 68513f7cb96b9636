package delegate

import (
	"context"
	"fmt"
	"os"

	"github.com/psantana5/ceres-scripts/internal/config"
	"github.com/psantana5/ceres-scripts/internal/logging"
	"github.com/psantana5/ceres-scripts/internal/targets"
	"github.com/psantana5/ceres-scripts/internal/workspace"
)

// Main is the whole body of a single-target delegator binary. It reads no
// environment and no config file: the root comes from the binary's own
// location and every argument after argv[0] is forwarded.
func Main(target targets.Target) int {
	cfg := config.Default()
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", target.Name, err)
		return ExitFailure
	}
	logger := logging.Configure(logging.Options{Level: level, Component: target.Name})

	exe, err := workspace.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", target.Name, err)
		return ExitFailure
	}

	d := New(workspace.RootOf(exe), target)
	d.Logger = logger
	return d.Run(context.Background(), os.Args[1:])
}
