// Command preflight hands off to the workspace's CERES core preflight.py.
//
// Install it at <workspace>/scripts/preflight. Every argument is forwarded
// and the core script's exit status becomes this process's exit status.
package main

import (
	"os"

	"github.com/psantana5/ceres-scripts/internal/delegate"
	"github.com/psantana5/ceres-scripts/internal/targets"
)

func main() {
	os.Exit(delegate.Main(targets.Preflight))
}
