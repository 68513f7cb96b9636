// Package delegate hands a process off to a CERES core script.
//
// A Delegator resolves the target from the workspace root, checks that it
// exists, and transfers control to it with the caller's arguments. After the
// transfer the target's outcome is the process outcome: its exit code is
// relayed as-is and its failures are never caught or rewritten.
package delegate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/psantana5/ceres-scripts/internal/report"
	"github.com/psantana5/ceres-scripts/internal/targets"
	"github.com/psantana5/ceres-scripts/internal/workspace"
	"github.com/psantana5/ceres-scripts/internal/wrapper"
)

// Mode selects how control is transferred.
type Mode string

const (
	// ModeSpawn runs the target as a child and relays its exit status.
	ModeSpawn Mode = "spawn"
	// ModeExec replaces the delegator process with the target.
	ModeExec Mode = "exec"
)

// ParseMode parses a mode name. Empty means spawn.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSpawn:
		return ModeSpawn, nil
	case ModeExec:
		return ModeExec, nil
	default:
		return "", fmt.Errorf("unknown launch mode %q (expected spawn or exec)", s)
	}
}

// Delegator transfers execution to one target inside one workspace.
type Delegator struct {
	Root   string
	Target targets.Target
	Mode   Mode

	// Interpreter replaces the default interpreter of extensions that have
	// one (.py). Files run directly are unaffected, and a target's own
	// interpreter still wins.
	Interpreter string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger zerolog.Logger

	// Metrics, when set, records every delegation outcome.
	Metrics *report.Metrics
	// ReportFile, when set, receives the spawn-mode Result as JSON.
	ReportFile string

	lookPath func(string) (string, error)
}

// New returns a spawn-mode delegator wired to the process's own stdio.
func New(root string, target targets.Target) *Delegator {
	stdio := wrapper.OSStdio()
	return &Delegator{
		Root:     root,
		Target:   target,
		Mode:     ModeSpawn,
		Stdin:    stdio.Stdin,
		Stdout:   stdio.Stdout,
		Stderr:   stdio.Stderr,
		Logger:   log.Logger,
		lookPath: exec.LookPath,
	}
}

// ResolveTarget returns the TargetPath: the workspace root joined with the
// target's fixed subpath.
func (d *Delegator) ResolveTarget() string {
	return workspace.Join(d.Root, d.Target.Subpath)
}

// Verify checks that the target exists.
func (d *Delegator) Verify() error {
	path := d.ResolveTarget()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &MissingTargetError{Component: d.Target.Component, Path: path}
		}
		return fmt.Errorf("check %s: %w", path, err)
	}
	return nil
}

// Invoke transfers control to the target with args forwarded unmodified.
//
// In exec mode Invoke does not return on success. In spawn mode it returns
// the Result once the target has exited; a non-nil error means the target
// never started.
func (d *Delegator) Invoke(ctx context.Context, args []string) (*report.Result, error) {
	logger := d.Logger.With().
		Str("target", d.Target.Name).
		Str("path", d.ResolveTarget()).
		Str("mode", string(d.Mode)).
		Logger()

	c, err := d.Command(args)
	if err != nil {
		return nil, err
	}

	if d.Mode == ModeExec {
		logger.Debug().Strs("argv", c.Args).Str("exe", c.Path).Msg("exec target")
		err := wrapper.Exec(c)
		if !errors.Is(err, wrapper.ErrExecUnsupported) {
			return nil, newLaunchError(c.Path, err)
		}
		logger.Debug().Msg("exec unsupported here, spawning instead")
	}

	logger.Debug().Strs("argv", c.Args).Str("exe", c.Path).Msg("spawn target")
	result, err := wrapper.Run(ctx, c, wrapper.Stdio{Stdin: d.Stdin, Stdout: d.Stdout, Stderr: d.Stderr})
	if err != nil {
		return nil, newLaunchError(c.Path, err)
	}
	result.SetPath(d.ResolveTarget())
	result.LogSummary(logger)

	if d.ReportFile != "" {
		if err := result.WriteFile(d.ReportFile); err != nil {
			// The target already ran; a lost report must not change its outcome.
			logger.Warn().Err(err).Str("report", d.ReportFile).Msg("failed to write report")
		}
	}
	return result, nil
}

// Run verifies and invokes the target and returns the process exit code.
// A missing target is reported on Stderr and nothing is launched.
func (d *Delegator) Run(ctx context.Context, args []string) int {
	if err := d.Verify(); err != nil {
		fmt.Fprintln(d.Stderr, err)
		d.Metrics.RecordFailure(d.Target.Name, report.OutcomeMissingTarget)
		return ExitCode(err)
	}

	result, err := d.Invoke(ctx, args)
	if err != nil {
		fmt.Fprintf(d.Stderr, "%s: %v\n", d.Target.Name, err)
		d.Metrics.RecordFailure(d.Target.Name, report.OutcomeLaunchError)
		return ExitCode(err)
	}

	d.Metrics.RecordResult(result)
	return result.ExitCode
}
